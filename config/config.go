package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "midiscope"
	configFile = "config.yaml"
)

// Settings are the tunables of the monitor
type Settings struct {
	TickInterval    time.Duration `yaml:"tick_interval"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	LogCapacity     int           `yaml:"log_capacity"`
	QueueCapacity   int           `yaml:"queue_capacity"`
	ClientName      string        `yaml:"client_name"`

	StateFile string `yaml:"state_file,omitempty"` // empty: <config dir>/session.json
	Palette   string `yaml:"palette,omitempty"`    // GIMP .gpl file, empty: built-in
	LogLevel  string `yaml:"log_level,omitempty"`
	LogFile   string `yaml:"log_file,omitempty"` // empty: <config dir>/debug.log
}

// Default returns the settings used when no config file exists
func Default() *Settings {
	return &Settings{
		TickInterval:    100 * time.Millisecond,
		RefreshInterval: 5 * time.Second,
		LogCapacity:     1024,
		QueueCapacity:   4096,
		ClientName:      appName,
	}
}

// Dir returns the per-user config directory:
//   - Linux: $XDG_CONFIG_HOME/midiscope or $HOME/.config/midiscope
//   - macOS: $HOME/.config/midiscope
//   - Windows: %LOCALAPPDATA%\midiscope
func Dir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, appName), nil
		}
		profile := os.Getenv("USERPROFILE")
		if profile == "" {
			return "", errors.New("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
		}
		return filepath.Join(profile, "AppData", "Local", appName), nil

	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(home, ".config", appName), nil

	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(home, ".config", appName), nil
	}
}

// Path returns the full path to config.yaml
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads settings from path (config.yaml in Dir when empty). A missing
// file yields defaults; keys absent from the file keep their defaults.
func Load(path string) (*Settings, error) {
	cfg := Default()

	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the monitor cannot run with
func (s *Settings) Validate() error {
	switch {
	case s.TickInterval <= 0:
		return fmt.Errorf("tick_interval must be positive, got %s", s.TickInterval)
	case s.RefreshInterval <= 0:
		return fmt.Errorf("refresh_interval must be positive, got %s", s.RefreshInterval)
	case s.LogCapacity <= 0:
		return fmt.Errorf("log_capacity must be positive, got %d", s.LogCapacity)
	case s.QueueCapacity <= 0:
		return fmt.Errorf("queue_capacity must be positive, got %d", s.QueueCapacity)
	case s.ClientName == "":
		return errors.New("client_name must not be empty")
	}
	return nil
}

// LogPath resolves the debug log location
func (s *Settings) LogPath() string {
	if s.LogFile != "" {
		return s.LogFile
	}
	dir, err := Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "debug.log")
}
