// Package session wires the capture pipeline, the live session client and
// the playback pipeline into one conversational session.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/chartsim/go-voicelink/pkg/audio"
	"github.com/chartsim/go-voicelink/pkg/live"
)

// ErrConnectRejected is returned when the client refuses to connect, e.g.
// because a connection attempt is already in flight.
var ErrConnectRejected = errors.New("session: connect rejected")

// ToolHandler answers a tool call. Returning nil skips the response (the
// client drops empty responses anyway).
type ToolHandler func(call *live.ToolCall) *live.ToolResponse

// Controller coordinates one conversational session: microphone chunks go
// out through the client, inbound audio goes to playback, and interruption
// or teardown flushes playback immediately.
type Controller struct {
	id       string
	client   *live.Client
	capture  *audio.CaptureEncoder
	playback *audio.PlaybackDecoder
	logger   *slog.Logger

	mu          sync.Mutex
	muted       bool
	inputLevel  float64
	outputLevel float64
	toolHandler ToolHandler
	onLog       func(live.LogEntry)
}

// New creates a controller over the given client and audio pipeline.
func New(client *live.Client, capture *audio.CaptureEncoder, playback *audio.PlaybackDecoder, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		id:       uuid.NewString(),
		client:   client,
		capture:  capture,
		playback: playback,
		logger:   logger,
	}

	client.OnEvent(c.handleEvent)

	capture.OnChunk(func(mimeType string, pcm []byte) {
		c.mu.Lock()
		muted := c.muted
		c.mu.Unlock()
		if muted {
			return
		}
		err := client.SendRealtimeInput([]live.RealtimeChunk{{MIMEType: mimeType, Data: pcm}})
		if err != nil && !errors.Is(err, live.ErrNotConnected) {
			logger.Warn("realtime send failed", "err", err)
		}
	})
	capture.OnLevel(func(level float64) {
		c.mu.Lock()
		c.inputLevel = level
		c.mu.Unlock()
	})
	playback.OnLevel(func(level float64) {
		c.mu.Lock()
		c.outputLevel = level
		c.mu.Unlock()
	})

	return c
}

// ID returns the controller's session id.
func (c *Controller) ID() string { return c.id }

// SetToolHandler installs the tool-call responder.
func (c *Controller) SetToolHandler(fn ToolHandler) {
	c.mu.Lock()
	c.toolHandler = fn
	c.mu.Unlock()
}

// OnLog forwards the client's log entries, e.g. to the monitor server.
func (c *Controller) OnLog(fn func(live.LogEntry)) {
	c.mu.Lock()
	c.onLog = fn
	c.mu.Unlock()
}

// Start connects the live session and opens both audio devices. Playback
// opens first so the session's earliest audio has somewhere to go.
func (c *Controller) Start(ctx context.Context, model string, cfg *live.Config, inputDevice, outputDevice string) error {
	if err := c.playback.Start(outputDevice); err != nil {
		return err
	}

	ok, err := c.client.Connect(ctx, model, cfg)
	if err != nil {
		c.playback.Close()
		return err
	}
	if !ok {
		c.playback.Close()
		return ErrConnectRejected
	}

	if err := c.capture.Start(inputDevice); err != nil {
		c.client.Disconnect()
		c.playback.Close()
		return err
	}

	c.logger.Info("session started", "session_id", c.id, "model", model)
	return nil
}

// Stop tears the session down: capture first so nothing more goes out,
// then the client, then playback.
func (c *Controller) Stop() {
	c.capture.Stop()
	c.client.Disconnect()
	c.playback.Stop()
	c.playback.Close()
	c.logger.Info("session stopped", "session_id", c.id)
}

// SetMuted pauses or resumes forwarding of capture chunks. Capture itself
// keeps running so the level meter stays live.
func (c *Controller) SetMuted(muted bool) {
	c.mu.Lock()
	c.muted = muted
	c.mu.Unlock()
}

// Muted reports whether forwarding is paused.
func (c *Controller) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

// Status returns the live client status.
func (c *Controller) Status() live.Status {
	return c.client.Status()
}

// Levels returns the most recent input and output volume levels.
func (c *Controller) Levels() (input, output float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inputLevel, c.outputLevel
}

// SendText runs one turn of the text-only mode. Do not drive it while the
// realtime audio path is active against the same model.
func (c *Controller) SendText(ctx context.Context, text string) (string, error) {
	return c.client.SendMessage(ctx, text)
}

func (c *Controller) handleEvent(ev live.Event) {
	switch ev.Kind {
	case live.EventAudio:
		c.playback.AddPCM16(ev.Audio)

	case live.EventInterrupted:
		// Barge-in: stale audio must never play after this point.
		c.playback.Stop()

	case live.EventClose:
		// Transport-initiated close: flush in-flight playback like an
		// interruption, the session it belonged to is gone.
		c.playback.Stop()
		c.logger.Info("session closed by transport", "session_id", c.id, "reason", ev.CloseReason)

	case live.EventError:
		c.logger.Warn("session error", "session_id", c.id, "err", ev.Err)

	case live.EventToolCall:
		c.mu.Lock()
		handler := c.toolHandler
		c.mu.Unlock()
		if handler == nil {
			return
		}
		if resp := handler(ev.ToolCall); resp != nil {
			if err := c.client.SendToolResponse(resp); err != nil {
				c.logger.Warn("tool response failed", "err", err)
			}
		}

	case live.EventLog:
		c.mu.Lock()
		onLog := c.onLog
		c.mu.Unlock()
		if onLog != nil && ev.Log != nil {
			onLog(*ev.Log)
		}
	}
}
