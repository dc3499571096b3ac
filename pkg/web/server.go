// Package web provides a read-only monitor for a running session: status,
// the streaming log buffer, and a WebSocket feed of new log entries.
package web

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/chartsim/go-voicelink/pkg/hub"
	"github.com/chartsim/go-voicelink/pkg/live"
)

// maxBufferedLogs bounds the replayable log buffer.
const maxBufferedLogs = 500

// Snapshot is the session state served at /api/status.
type Snapshot struct {
	SessionID   string  `json:"session_id"`
	Status      string  `json:"status"`
	Model       string  `json:"model"`
	Muted       bool    `json:"muted"`
	InputLevel  float64 `json:"input_level"`
	OutputLevel float64 `json:"output_level"`
}

// Server is the monitor HTTP/WebSocket server.
type Server struct {
	app      *fiber.App
	addr     string
	snapshot func() Snapshot

	logsMu sync.RWMutex
	logs   []live.LogEntry

	logHub *hub.Hub
}

// New creates a monitor server. snapshot supplies the current session
// state on demand.
func New(addr string, snapshot func() Snapshot) *Server {
	s := &Server{
		addr:     addr,
		snapshot: snapshot,
		logs:     make([]live.LogEntry, 0, maxBufferedLogs),
		logHub:   hub.New("logs"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "voicelink monitor",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/logs", s.handleLogs)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/logs", websocket.New(s.handleLogSocket))

	s.app = app
	return s
}

// PublishLog buffers one log entry and broadcasts it to connected
// subscribers.
func (s *Server) PublishLog(entry live.LogEntry) {
	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxBufferedLogs {
		s.logs = s.logs[len(s.logs)-maxBufferedLogs:]
	}
	s.logsMu.Unlock()

	if data, err := json.Marshal(entry); err == nil {
		s.logHub.Broadcast(data)
	}
}

// Listen serves until Shutdown. It blocks.
func (s *Server) Listen() error {
	return s.app.Listen(s.addr)
}

// Shutdown stops the server and disconnects subscribers.
func (s *Server) Shutdown() error {
	s.logHub.Close()
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.snapshot())
}

func (s *Server) handleLogs(c *fiber.Ctx) error {
	s.logsMu.RLock()
	logs := append([]live.LogEntry(nil), s.logs...)
	s.logsMu.RUnlock()
	return c.JSON(logs)
}

func (s *Server) handleLogSocket(conn *websocket.Conn) {
	client := hub.NewClient(s.logHub, conn)
	if client == nil {
		conn.Close()
		return
	}
	client.Run()
}
