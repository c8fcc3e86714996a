package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	Cursor rune // ▶ selected row
	Open   rune // ● connection open
	Closed rune // ○ no connection
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Cursor: '▶',
			Open:   '●',
			Closed: '○',
		},
	}
}

// Default uses the built-in palette
func Default() *Theme {
	return New(DefaultPalette())
}

// Load uses the palette at path, or the built-in one when path is empty
func Load(path string) (*Theme, error) {
	if path == "" {
		return Default(), nil
	}
	p, err := LoadGPL(path)
	if err != nil {
		return nil, err
	}
	return New(p), nil
}

// Color roles mapped to palette positions (0-1)
const (
	RoleSurface = 0.1
	RoleMuted   = 0.2  // unfocused borders, timestamps
	RoleAccent  = 0.35 // focused border, titles
	RoleTag     = 0.45 // [IN]/[OUT] tags
	RoleSuccess = 0.55 // open marker
	RoleWarning = 0.65 // dropped-message notices
	RoleCursor  = 0.75 // selection highlight
	RoleError   = 0.85 // error entries
	RoleFG      = 1.0
)

func (t *Theme) Surface() lipgloss.Color { return t.Color(RoleSurface) }
func (t *Theme) Muted() lipgloss.Color   { return t.Color(RoleMuted) }
func (t *Theme) Accent() lipgloss.Color  { return t.Color(RoleAccent) }
func (t *Theme) Tag() lipgloss.Color     { return t.Color(RoleTag) }
func (t *Theme) Success() lipgloss.Color { return t.Color(RoleSuccess) }
func (t *Theme) Warning() lipgloss.Color { return t.Color(RoleWarning) }
func (t *Theme) Cursor() lipgloss.Color  { return t.Color(RoleCursor) }
func (t *Theme) Error() lipgloss.Color   { return t.Color(RoleError) }
func (t *Theme) FG() lipgloss.Color      { return t.Color(RoleFG) }

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
