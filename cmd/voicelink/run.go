package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appcfg "github.com/chartsim/go-voicelink/internal/config"
	"github.com/chartsim/go-voicelink/internal/log"
	"github.com/chartsim/go-voicelink/pkg/audio"
	"github.com/chartsim/go-voicelink/pkg/live"
	"github.com/chartsim/go-voicelink/pkg/live/bundled"
	"github.com/chartsim/go-voicelink/pkg/session"
	"github.com/chartsim/go-voicelink/pkg/web"
)

var (
	inputDevice  string
	outputDevice string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a live audio session",
	RunE:  runSession,
}

func init() {
	runCmd.Flags().StringVar(&inputDevice, "input", "", "capture device id (default: platform default)")
	runCmd.Flags().StringVar(&outputDevice, "output", "", "playback device id (default: platform default)")
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := appcfg.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log.Init(cfg.LogLevel)

	dialer, err := live.NewDialer("gemini", cfg.APIKey)
	if err != nil {
		return err
	}
	completer, err := bundled.NewGenAICompleter(cmd.Context(), cfg.APIKey)
	if err != nil {
		return err
	}

	client := live.NewClient(dialer,
		live.WithLogger(log.L()),
		live.WithCompleter(completer),
	)
	capture := audio.NewCaptureEncoder(cfg.CaptureConfig(), log.L())
	playback := audio.NewPlaybackDecoder(cfg.PlaybackConfig(), log.L())
	ctrl := session.New(client, capture, playback, log.L())

	monitor := web.New(cfg.WebAddr, func() web.Snapshot {
		in, out := ctrl.Levels()
		return web.Snapshot{
			SessionID:   ctrl.ID(),
			Status:      ctrl.Status().String(),
			Model:       cfg.Model,
			Muted:       ctrl.Muted(),
			InputLevel:  in,
			OutputLevel: out,
		}
	})
	ctrl.OnLog(monitor.PublishLog)

	go func() {
		if err := monitor.Listen(); err != nil {
			log.Warn("monitor server stopped", "err", err)
		}
	}()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := ctrl.Start(ctx, cfg.Model, cfg.LiveConfig(), inputDevice, outputDevice); err != nil {
		monitor.Shutdown()
		return err
	}

	fmt.Printf("session running (model %s, monitor %s), ctrl-c to stop\n", cfg.Model, cfg.WebAddr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ctrl.Stop()
	monitor.Shutdown()
	return nil
}
