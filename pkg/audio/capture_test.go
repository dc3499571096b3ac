package audio

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

type capturedChunk struct {
	mime string
	pcm  []byte
}

// newManualCapture wires a CaptureEncoder to a manually fed MockInput and
// counts device constructions.
func newManualCapture(t *testing.T) (*CaptureEncoder, func() *MockInput, *int) {
	t.Helper()
	cfg := DefaultCaptureConfig()
	cfg.Backend = BackendMock

	var mock *MockInput
	opens := 0
	c := NewCaptureEncoder(cfg, nil)
	c.newDevice = func(cfg Config, l *slog.Logger) (InputDevice, error) {
		opens++
		mock = NewMockInput(cfg, l, WithManualFrames())
		return mock, nil
	}
	return c, func() *MockInput { return mock }, &opens
}

func TestCaptureDeliversChunks(t *testing.T) {
	c, mock, _ := newManualCapture(t)

	chunks := make(chan capturedChunk, 4)
	c.OnChunk(func(mime string, pcm []byte) {
		chunks <- capturedChunk{mime, pcm}
	})
	levels := make(chan float64, 4)
	c.OnLevel(func(l float64) {
		select {
		case levels <- l:
		default:
		}
	})

	if err := c.Start(""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Stop()

	frame := make([]byte, c.cfg.ChunkBytes())
	frame[0] = 0xFF
	frame[1] = 0x7F
	mock().Push(frame)

	select {
	case got := <-chunks:
		if got.mime != "audio/pcm;rate=16000" {
			t.Errorf("mime = %q", got.mime)
		}
		if len(got.pcm) != len(frame) || got.pcm[1] != 0x7F {
			t.Error("chunk payload mangled")
		}
	case <-time.After(time.Second):
		t.Fatal("no chunk delivered")
	}

	select {
	case l := <-levels:
		if l <= 0 {
			t.Errorf("level = %f, want > 0", l)
		}
	case <-time.After(time.Second):
		t.Fatal("no level delivered")
	}
}

func TestCaptureStartSameDeviceIsNoOp(t *testing.T) {
	c, _, opens := newManualCapture(t)

	if err := c.Start("dev-a"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Stop()

	if err := c.Start("dev-a"); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if *opens != 1 {
		t.Errorf("device opened %d times, want 1", *opens)
	}
	if c.DeviceID() != "dev-a" {
		t.Errorf("DeviceID() = %q", c.DeviceID())
	}
}

func TestCaptureSwitchDeviceRestarts(t *testing.T) {
	c, _, opens := newManualCapture(t)

	if err := c.Start("dev-a"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer c.Stop()

	if err := c.Start("dev-b"); err != nil {
		t.Fatalf("switch Start: %v", err)
	}
	if *opens != 2 {
		t.Errorf("device opened %d times, want 2", *opens)
	}
	if c.DeviceID() != "dev-b" {
		t.Errorf("DeviceID() = %q", c.DeviceID())
	}
}

func TestCaptureFallsBackToDefaultDevice(t *testing.T) {
	cfg := DefaultCaptureConfig()
	cfg.Backend = BackendMock

	c := NewCaptureEncoder(cfg, nil)
	c.newDevice = func(cfg Config, l *slog.Logger) (InputDevice, error) {
		if cfg.Device != "" {
			return nil, errors.New("no such device")
		}
		return NewMockInput(cfg, l, WithManualFrames()), nil
	}

	if err := c.Start("broken"); err != nil {
		t.Fatalf("Start should fall back to default: %v", err)
	}
	defer c.Stop()
	if !c.Running() {
		t.Error("capture not running after fallback")
	}
}

func TestCaptureStopWhenIdle(t *testing.T) {
	c, _, _ := newManualCapture(t)
	if err := c.Stop(); err != nil {
		t.Errorf("Stop when idle: %v", err)
	}
	if c.Running() {
		t.Error("idle capture reports running")
	}
	if c.DeviceID() != "" {
		t.Error("idle capture reports a device")
	}
}
