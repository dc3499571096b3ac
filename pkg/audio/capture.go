package audio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// CaptureEncoder owns one input device at a time and, while active,
// continuously produces fixed-size PCM16 mono chunks plus an instantaneous
// volume level per chunk.
//
// The device read loop is the realtime side; chunks cross to the consumer
// through a lock-free SPSC ring so the capture cadence is never blocked by
// network I/O downstream.
type CaptureEncoder struct {
	cfg    Config
	logger *slog.Logger

	// newDevice is swapped in tests.
	newDevice func(Config, *slog.Logger) (InputDevice, error)

	mu       sync.Mutex
	running  bool
	deviceID string
	dev      InputDevice
	cancel   context.CancelFunc
	stopped  chan struct{}

	onChunk func(mimeType string, pcm []byte)
	onLevel func(level float64)
}

// NewCaptureEncoder creates an idle capture encoder.
func NewCaptureEncoder(cfg Config, logger *slog.Logger) *CaptureEncoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &CaptureEncoder{
		cfg:       cfg,
		logger:    logger,
		newDevice: newInputDevice,
	}
}

// OnChunk sets the chunk consumer. Set before Start.
func (c *CaptureEncoder) OnChunk(fn func(mimeType string, pcm []byte)) {
	c.mu.Lock()
	c.onChunk = fn
	c.mu.Unlock()
}

// OnLevel sets the volume level consumer. Set before Start.
func (c *CaptureEncoder) OnLevel(fn func(level float64)) {
	c.mu.Lock()
	c.onLevel = fn
	c.mu.Unlock()
}

// Start begins capture from the given device (empty for the platform
// default). Calling it again with the same device id while running is a
// no-op; with a different id it stops the old capture and starts the new
// one back to back.
func (c *CaptureEncoder) Start(deviceID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running && deviceID == c.deviceID {
		return nil
	}
	if c.running {
		c.stopLocked()
	}

	cfg := c.cfg
	cfg.Device = deviceID
	dev, err := c.newDevice(cfg, c.logger)
	if err != nil && deviceID != "" {
		// Fall back to the platform default device.
		c.logger.Warn("capture device unavailable, using default", "device", deviceID, "err", err)
		cfg.Device = ""
		dev, err = c.newDevice(cfg, c.logger)
	}
	if err != nil {
		return fmt.Errorf("audio: open capture device: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := dev.Start(ctx); err != nil {
		cancel()
		return fmt.Errorf("audio: start capture device: %w", err)
	}

	c.dev = dev
	c.cancel = cancel
	c.deviceID = deviceID
	c.running = true
	c.stopped = make(chan struct{})

	ring := NewRing(16)
	wake := make(chan struct{}, 1)
	go c.readLoop(dev, ring, wake)
	go c.pumpLoop(ring, wake, c.stopped)

	c.logger.Info("capture started", "device", deviceID, "backend", dev.Name())
	return nil
}

// readLoop runs on the realtime side: it moves frames from the device into
// the ring without ever blocking on the consumer.
func (c *CaptureEncoder) readLoop(dev InputDevice, ring *Ring, wake chan<- struct{}) {
	for frame := range dev.Frames() {
		if !ring.Push(frame) {
			c.logger.Debug("capture ring full, frame dropped")
			continue
		}
		select {
		case wake <- struct{}{}:
		default:
		}
	}
	// Device channel closed: wake the pump one last time so it drains.
	select {
	case wake <- struct{}{}:
	default:
	}
}

// pumpLoop drains the ring and hands chunks to the consumer.
func (c *CaptureEncoder) pumpLoop(ring *Ring, wake <-chan struct{}, stopped <-chan struct{}) {
	mime := c.cfg.MIMEType()
	for {
		select {
		case <-stopped:
			return
		case <-wake:
		}

		for {
			frame, ok := ring.Pop()
			if !ok {
				break
			}

			c.mu.Lock()
			onChunk := c.onChunk
			onLevel := c.onLevel
			c.mu.Unlock()

			if onLevel != nil {
				onLevel(Level(frame))
			}
			if onChunk != nil {
				onChunk(mime, frame)
			}
		}
	}
}

// Stop releases the device handle. Safe to call when not running.
func (c *CaptureEncoder) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return nil
	}
	c.stopLocked()
	return nil
}

func (c *CaptureEncoder) stopLocked() {
	c.running = false
	close(c.stopped)
	c.dev.Stop()
	c.cancel()
	c.dev = nil
	c.cancel = nil
	c.logger.Info("capture stopped", "device", c.deviceID)
}

// Running reports whether capture is active.
func (c *CaptureEncoder) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// DeviceID returns the id of the active device, empty when idle.
func (c *CaptureEncoder) DeviceID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return ""
	}
	return c.deviceID
}
