package hub

import (
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	// writeWait bounds a single write to the socket.
	writeWait = 10 * time.Second

	// pongWait is the idle limit: no pong within it and the connection is
	// treated as dead.
	pongWait = 60 * time.Second

	// pingPeriod keeps pings comfortably inside pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize caps inbound frames; subscribers only listen.
	maxMessageSize = 4 * 1024
)

// Client is one WebSocket subscriber of a hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient registers a connection with the hub. It returns nil when the
// hub is closed.
func NewClient(h *Hub, conn *websocket.Conn) *Client {
	c := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
	}
	if !h.register(c) {
		return nil
	}
	return c
}

// Run starts the write pump and blocks reading until the connection
// closes. Call it from the websocket handler.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump keeps the connection alive and detects disconnection; inbound
// payloads are ignored.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

// writePump is the only goroutine that writes to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
