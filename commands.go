package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"midiscope/debug"
	"midiscope/midi"
	"midiscope/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "midiscope %s\n", version.Full())
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all MIDI ports and exit",
	Long: `List every MIDI input and output port in the order the monitor shows them.

The index is the port's position in the driver's own list. If the MIDI
service does not answer within a few seconds the command fails; on macOS
a hung CoreMIDI can be restarted with: sudo killall coreaudiod midiserver`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		if err := debug.Enable(cfg.LogPath(), cfg.LogLevel); err != nil {
			return err
		}
		defer debug.Sync()

		drv, err := midi.NewRtMidi(cfg.ClientName)
		if err != nil {
			return err
		}
		defer drv.Close()

		items, err := midi.Discover(drv)
		if err != nil {
			return err
		}
		printPorts(cmd, items)
		return nil
	},
}

func printPorts(cmd *cobra.Command, items []midi.DeviceItem) {
	out := cmd.OutOrStdout()
	for _, kind := range []midi.Kind{midi.Input, midi.Output} {
		fmt.Fprintf(out, "=== MIDI %s Ports ===\n", kind)
		n := 0
		for _, it := range items {
			if it.Kind != kind {
				continue
			}
			fmt.Fprintf(out, "  %d: %s\n", it.Index, it.Name)
			n++
		}
		if n == 0 {
			fmt.Fprintln(out, "  (none)")
		}
		if kind == midi.Input {
			fmt.Fprintln(out)
		}
	}
}
