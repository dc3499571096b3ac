package audio

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"
)

// MockInput is a mock capture device for tests and CI. It generates
// synthetic frames (silence by default, sine wave when configured) on the
// chunk cadence, and accepts directly injected frames via Push.
type MockInput struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	frames  chan []byte
	stopCh  chan struct{}

	// Synthetic generation
	phase     float64
	frequency float64 // Hz, 0 = silence
	amplitude float64 // 0.0 to 1.0
	manual    bool    // suppress the generator; frames come from Push only
}

// MockInputOption configures a MockInput.
type MockInputOption func(*MockInput)

// WithSineWave configures the mock to generate a sine wave.
func WithSineWave(frequency, amplitude float64) MockInputOption {
	return func(m *MockInput) {
		m.frequency = frequency
		m.amplitude = amplitude
	}
}

// WithManualFrames disables the generator; frames arrive only via Push.
func WithManualFrames() MockInputOption {
	return func(m *MockInput) { m.manual = true }
}

// NewMockInput creates a new mock capture device.
func NewMockInput(cfg Config, logger *slog.Logger, opts ...MockInputOption) *MockInput {
	if logger == nil {
		logger = slog.Default()
	}
	m := &MockInput{
		cfg:       cfg,
		logger:    logger,
		amplitude: 0.5,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins generating frames.
func (m *MockInput) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}
	m.running = true
	m.frames = make(chan []byte, 16)
	m.stopCh = make(chan struct{})

	if !m.manual {
		go m.generateLoop(ctx, m.frames, m.stopCh)
	}

	m.logger.Debug("mock input started", "sample_rate", m.cfg.SampleRate, "frequency", m.frequency)
	return nil
}

func (m *MockInput) generateLoop(ctx context.Context, frames chan<- []byte, stopCh <-chan struct{}) {
	ticker := time.NewTicker(m.cfg.ChunkDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			select {
			case frames <- m.generateFrame():
			default:
				// Consumer stalled; drop the frame rather than block the
				// capture cadence.
				m.logger.Debug("mock input: frame dropped")
			}
		}
	}
}

func (m *MockInput) generateFrame() []byte {
	samples := m.cfg.ChunkSamples() * m.cfg.Channels
	frame := make([]byte, samples*2)
	if m.frequency <= 0 {
		return frame // silence
	}

	for i := 0; i < m.cfg.ChunkSamples(); i++ {
		v := m.amplitude * math.Sin(2*math.Pi*m.frequency*m.phase/float64(m.cfg.SampleRate))
		s := int16(v * 32767)
		for ch := 0; ch < m.cfg.Channels; ch++ {
			idx := (i*m.cfg.Channels + ch) * 2
			frame[idx] = byte(s)
			frame[idx+1] = byte(s >> 8)
		}
		m.phase++
		if m.phase >= float64(m.cfg.SampleRate) {
			m.phase = 0
		}
	}
	return frame
}

// Push injects one frame directly, for deterministic tests.
func (m *MockInput) Push(frame []byte) {
	m.mu.Lock()
	frames := m.frames
	running := m.running
	m.mu.Unlock()
	if !running {
		return
	}
	frames <- frame
}

// Stop halts capture and closes the frame channel.
func (m *MockInput) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}
	m.running = false
	close(m.stopCh)
	close(m.frames)

	m.logger.Debug("mock input stopped")
	return nil
}

// Frames returns the frame channel.
func (m *MockInput) Frames() <-chan []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

// Name returns "mock".
func (m *MockInput) Name() string { return "mock" }

// Ensure MockInput implements InputDevice.
var _ InputDevice = (*MockInput)(nil)

// MockOutput is a mock playback device. It records written frames so tests
// can assert on what was rendered.
type MockOutput struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	written [][]byte
}

// NewMockOutput creates a new mock playback device.
func NewMockOutput(cfg Config, logger *slog.Logger) *MockOutput {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockOutput{cfg: cfg, logger: logger}
}

// Start opens the device.
func (m *MockOutput) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = true
	m.logger.Debug("mock output started")
	return nil
}

// Stop halts playback.
func (m *MockOutput) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
	m.logger.Debug("mock output stopped")
	return nil
}

// Write records one frame.
func (m *MockOutput) Write(frame []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return nil
	}
	buf := append([]byte(nil), frame...)
	m.written = append(m.written, buf)
	return nil
}

// Written returns a snapshot of every rendered frame.
func (m *MockOutput) Written() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.written))
	copy(out, m.written)
	return out
}

// Reset clears the recorded frames.
func (m *MockOutput) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written = nil
}

// Name returns "mock".
func (m *MockOutput) Name() string { return "mock" }

// Ensure MockOutput implements OutputDevice.
var _ OutputDevice = (*MockOutput)(nil)
