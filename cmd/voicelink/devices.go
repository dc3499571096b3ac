package main

import (
	"fmt"

	"github.com/spf13/cobra"

	appcfg "github.com/chartsim/go-voicelink/internal/config"
	"github.com/chartsim/go-voicelink/pkg/audio"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available audio devices",
	RunE:  listDevices,
}

func listDevices(cmd *cobra.Command, args []string) error {
	cfg, err := appcfg.Load(configPath)
	if err != nil {
		return err
	}

	fmt.Println("capture devices:")
	printDevices(audio.ListInputDevices(audio.Backend(cfg.Capture.Backend)))

	fmt.Println("playback devices:")
	printDevices(audio.ListOutputDevices(audio.Backend(cfg.Playback.Backend)))
	return nil
}

func printDevices(devices []audio.DeviceInfo) {
	if len(devices) == 0 {
		fmt.Println("  (none found, the platform default will be used)")
		return
	}
	for _, d := range devices {
		fmt.Printf("  %-24s %s\n", d.ID, d.Label)
	}
}
