package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	appcfg "github.com/chartsim/go-voicelink/internal/config"
	"github.com/chartsim/go-voicelink/internal/log"
	"github.com/chartsim/go-voicelink/pkg/live"
	"github.com/chartsim/go-voicelink/pkg/live/bundled"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive turn-based text mode (no audio session)",
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := appcfg.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log.Init(cfg.LogLevel)

	completer, err := bundled.NewGenAICompleter(cmd.Context(), cfg.APIKey)
	if err != nil {
		return err
	}

	chat := live.NewTurnChatSession(cfg.Model, cfg.LiveConfig().StripAudio(), completer)

	fmt.Println("turn-based chat, empty line to quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			break
		}
		reply, err := chat.SendMessage(cmd.Context(), text)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}
		fmt.Println(reply)
	}
	return scanner.Err()
}
