// Command voicelink runs a live conversational audio session against a
// multimodal model endpoint, with a local monitor dashboard.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "voicelink",
	Short: "Live conversational audio session client",
	Long: `voicelink opens a persistent duplex session to a multimodal model,
streams microphone audio to it in real time and plays the streamed
responses, handling barge-in interruption and tool-call round trips.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(devicesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
