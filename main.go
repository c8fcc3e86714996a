// Midiscope lists the MIDI ports of this machine, opens and closes
// connections to them and shows inbound messages live.
//
// Usage:
//
//	midiscope [flags]        interactive monitor
//	midiscope list           print the ports and exit
//	midiscope version        print build information
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"midiscope/app"
	"midiscope/config"
	"midiscope/debug"
	"midiscope/midi"
	"midiscope/state"
	"midiscope/theme"
	"midiscope/tui"
	"midiscope/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var opts struct {
	configFile  string
	tick        time.Duration
	refresh     time.Duration
	logCapacity int
	stateFile   string
	palette     string
	logLevel    string
	logFile     string
}

var rootCmd = &cobra.Command{
	Use:   "midiscope",
	Short: "Monitor and connect MIDI devices",
	Long: `Midiscope lists every MIDI input and output port, opens and closes
connections to them and shows incoming messages as they arrive.

The device list refreshes automatically so devices can be plugged in at
any time. The last selected device is remembered between runs.`,
	Version:       version.Full(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMonitor,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	f := rootCmd.PersistentFlags()
	f.StringVar(&opts.configFile, "config", "", "config file (default <config dir>/config.yaml)")
	f.StringVar(&opts.logLevel, "log-level", "", "debug log level: debug, info, warn, error (default off)")
	f.StringVar(&opts.logFile, "log-file", "", "debug log file (default <config dir>/debug.log)")

	rf := rootCmd.Flags()
	rf.DurationVar(&opts.tick, "tick", 0, "UI tick interval")
	rf.DurationVar(&opts.refresh, "refresh", 0, "device list refresh interval")
	rf.IntVar(&opts.logCapacity, "log-capacity", 0, "message log capacity")
	rf.StringVar(&opts.stateFile, "state-file", "", "session state file (default <config dir>/session.json)")
	rf.StringVar(&opts.palette, "palette", "", "GIMP palette (.gpl) for the UI colours")

	rootCmd.AddCommand(listCmd, versionCmd)
}

// loadSettings reads the config file and applies flags given on the
// command line on top of it
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("tick") {
		cfg.TickInterval = opts.tick
	}
	if flags.Changed("refresh") {
		cfg.RefreshInterval = opts.refresh
	}
	if flags.Changed("log-capacity") {
		cfg.LogCapacity = opts.logCapacity
	}
	if flags.Changed("state-file") {
		cfg.StateFile = opts.stateFile
	}
	if flags.Changed("palette") {
		cfg.Palette = opts.palette
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := debug.Enable(cfg.LogPath(), cfg.LogLevel); err != nil {
		return err
	}
	defer debug.Sync()

	th, err := theme.Load(cfg.Palette)
	if err != nil {
		return err
	}

	drv, err := midi.NewRtMidi(cfg.ClientName)
	if err != nil {
		return err
	}
	defer drv.Close()

	statePath := cfg.StateFile
	if statePath == "" {
		// no config dir means no persistence
		statePath, _ = state.DefaultPath()
	}

	a, err := app.New(drv, app.Options{
		Label:           cfg.ClientName,
		RefreshInterval: cfg.RefreshInterval,
		LogCapacity:     cfg.LogCapacity,
		QueueCapacity:   cfg.QueueCapacity,
		Store:           state.NewStore(statePath),
	})
	if err != nil {
		return err
	}
	// covers exits that bypass the quit key
	defer a.Shutdown()

	p := tea.NewProgram(tui.NewModel(a, th, cfg.TickInterval), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
