package audio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strconv"
	"sync"
)

// execInput captures PCM via arecord. One process per Start; Stop kills it
// and closes the frame channel.
type execInput struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	cmd     *exec.Cmd
	stdout  io.ReadCloser
	frames  chan []byte
	stopCh  chan struct{}
}

func newExecInput(cfg Config, logger *slog.Logger) *execInput {
	return &execInput{cfg: cfg, logger: logger}
}

func (e *execInput) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return nil
	}

	device := e.cfg.Device
	if device == "" {
		device = "default"
	}

	cmd := exec.CommandContext(ctx, "arecord",
		"-q",
		"-D", device,
		"-f", "S16_LE",
		"-c", strconv.Itoa(e.cfg.Channels),
		"-r", strconv.Itoa(e.cfg.SampleRate),
		"-t", "raw",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("audio: arecord stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("audio: start arecord: %w", err)
	}

	e.cmd = cmd
	e.stdout = stdout
	e.running = true
	e.frames = make(chan []byte, 16)
	e.stopCh = make(chan struct{})

	go e.readLoop(e.frames, e.stopCh, stdout)

	e.logger.Info("capture device opened",
		"backend", "exec",
		"device", device,
		"sample_rate", e.cfg.SampleRate,
	)
	return nil
}

func (e *execInput) readLoop(frames chan<- []byte, stopCh <-chan struct{}, r io.Reader) {
	defer close(frames)
	size := e.cfg.ChunkBytes()
	for {
		select {
		case <-stopCh:
			return
		default:
		}

		buf := make([]byte, size)
		if _, err := io.ReadFull(r, buf); err != nil {
			select {
			case <-stopCh:
			default:
				e.logger.Warn("capture read failed", "err", err)
			}
			return
		}

		select {
		case frames <- buf:
		case <-stopCh:
			return
		}
	}
}

func (e *execInput) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return nil
	}
	e.running = false
	close(e.stopCh)

	e.stdout.Close()
	if e.cmd.Process != nil {
		e.cmd.Process.Kill()
	}
	e.cmd.Wait()
	e.cmd = nil

	e.logger.Info("capture device released", "backend", "exec")
	return nil
}

func (e *execInput) Frames() <-chan []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

func (e *execInput) Name() string { return "exec" }

var _ InputDevice = (*execInput)(nil)

// execOutput renders PCM via aplay's stdin.
type execOutput struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	running bool
	cmd     *exec.Cmd
	stdin   io.WriteCloser
}

func newExecOutput(cfg Config, logger *slog.Logger) *execOutput {
	return &execOutput{cfg: cfg, logger: logger}
}

func (e *execOutput) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return nil
	}

	device := e.cfg.Device
	if device == "" {
		device = "default"
	}

	cmd := exec.CommandContext(ctx, "aplay",
		"-q",
		"-D", device,
		"-f", "S16_LE",
		"-c", strconv.Itoa(e.cfg.Channels),
		"-r", strconv.Itoa(e.cfg.SampleRate),
		"-t", "raw",
	)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("audio: aplay stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("audio: start aplay: %w", err)
	}

	e.cmd = cmd
	e.stdin = stdin
	e.running = true

	e.logger.Info("playback device opened",
		"backend", "exec",
		"device", device,
		"sample_rate", e.cfg.SampleRate,
	)
	return nil
}

func (e *execOutput) Write(frame []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return nil
	}
	if _, err := e.stdin.Write(frame); err != nil {
		return fmt.Errorf("audio: playback write: %w", err)
	}
	return nil
}

func (e *execOutput) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return nil
	}
	e.running = false

	e.stdin.Close()
	if e.cmd.Process != nil {
		e.cmd.Process.Kill()
	}
	e.cmd.Wait()
	e.cmd = nil

	e.logger.Info("playback device released", "backend", "exec")
	return nil
}

func (e *execOutput) Name() string { return "exec" }

var _ OutputDevice = (*execOutput)(nil)
