package audio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// PlaybackDecoder accepts arriving PCM buffers in order and renders them
// to the output device at its native rate, substituting silence on
// underrun so the render cadence never stalls.
//
// The queue is strictly FIFO. Stop clears it synchronously with respect to
// the caller: buffers enqueued before Stop are discarded, buffers enqueued
// after it play. That is the whole point of the operation — when the user
// starts talking, the bot's voice stops now.
type PlaybackDecoder struct {
	cfg    Config
	logger *slog.Logger

	// newDevice is swapped in tests.
	newDevice func(Config, *slog.Logger) (OutputDevice, error)

	mu       sync.Mutex
	running  bool
	deviceID string
	dev      OutputDevice
	cancel   context.CancelFunc
	stopped  chan struct{}
	queue    [][]byte
	current  []byte

	onLevel func(level float64)
}

// NewPlaybackDecoder creates an idle playback decoder.
func NewPlaybackDecoder(cfg Config, logger *slog.Logger) *PlaybackDecoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaybackDecoder{
		cfg:       cfg,
		logger:    logger,
		newDevice: newOutputDevice,
	}
}

// OnLevel sets the rendered-output level consumer. Set before Start.
func (p *PlaybackDecoder) OnLevel(fn func(level float64)) {
	p.mu.Lock()
	p.onLevel = fn
	p.mu.Unlock()
}

// Start opens the output device (empty id for the platform default) and
// begins the render loop. Starting while running with a different device
// id switches devices stop-then-start.
func (p *PlaybackDecoder) Start(deviceID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running && deviceID == p.deviceID {
		return nil
	}
	if p.running {
		p.closeLocked()
	}

	cfg := p.cfg
	cfg.Device = deviceID
	dev, err := p.newDevice(cfg, p.logger)
	if err != nil && deviceID != "" {
		p.logger.Warn("playback device unavailable, using default", "device", deviceID, "err", err)
		cfg.Device = ""
		dev, err = p.newDevice(cfg, p.logger)
	}
	if err != nil {
		return fmt.Errorf("audio: open playback device: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := dev.Start(ctx); err != nil {
		cancel()
		return fmt.Errorf("audio: start playback device: %w", err)
	}

	p.dev = dev
	p.cancel = cancel
	p.deviceID = deviceID
	p.running = true
	p.stopped = make(chan struct{})

	go p.renderLoop(dev, p.stopped)

	p.logger.Info("playback started", "device", deviceID, "backend", dev.Name())
	return nil
}

// AddPCM16 appends one decoded buffer to the tail of the queue.
func (p *PlaybackDecoder) AddPCM16(buf []byte) {
	if len(buf) == 0 {
		return
	}
	p.mu.Lock()
	p.queue = append(p.queue, append([]byte(nil), buf...))
	p.mu.Unlock()
}

// Stop discards all queued audio and silences the output immediately. The
// queue is cleared before Stop returns; the device stays open and the
// render loop keeps running (on silence) so playback can resume without a
// restart. Safe to call when not running.
func (p *PlaybackDecoder) Stop() {
	p.mu.Lock()
	n := len(p.queue)
	if len(p.current) > 0 {
		n++
	}
	p.queue = nil
	p.current = nil
	p.mu.Unlock()

	if n > 0 {
		p.logger.Debug("playback flushed", "buffers_discarded", n)
	}
}

// Close stops rendering and releases the device. Safe to call when idle.
func (p *PlaybackDecoder) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return nil
	}
	p.closeLocked()
	return nil
}

func (p *PlaybackDecoder) closeLocked() {
	p.running = false
	close(p.stopped)
	p.queue = nil
	p.current = nil
	p.dev.Stop()
	p.cancel()
	p.dev = nil
	p.cancel = nil
	p.logger.Info("playback closed", "device", p.deviceID)
}

// renderLoop writes one chunk per period, re-checking the queue under the
// lock each iteration so a Stop between chunks takes effect at the next
// chunk boundary at the latest.
func (p *PlaybackDecoder) renderLoop(dev OutputDevice, stopped <-chan struct{}) {
	ticker := time.NewTicker(p.cfg.ChunkDuration)
	defer ticker.Stop()

	silence := make([]byte, p.cfg.ChunkBytes())

	for {
		select {
		case <-stopped:
			return
		case <-ticker.C:
		}

		p.mu.Lock()
		if len(p.current) == 0 && len(p.queue) > 0 {
			p.current = p.queue[0]
			p.queue = p.queue[1:]
		}
		var out []byte
		if len(p.current) > 0 {
			n := p.cfg.ChunkBytes()
			if n > len(p.current) {
				n = len(p.current)
			}
			out = p.current[:n]
			p.current = p.current[n:]
		}
		onLevel := p.onLevel
		p.mu.Unlock()

		if out == nil {
			out = silence // underrun: never stall the render cadence
		}
		if err := dev.Write(out); err != nil {
			p.logger.Warn("playback write failed", "err", err)
		}
		if onLevel != nil {
			onLevel(Level(out))
		}
	}
}

// Queued returns the number of buffers waiting to play, including the one
// being drained.
func (p *PlaybackDecoder) Queued() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.queue)
	if len(p.current) > 0 {
		n++
	}
	return n
}

// Running reports whether the render loop is active.
func (p *PlaybackDecoder) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
