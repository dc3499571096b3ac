package hub

import "testing"

func TestHubName(t *testing.T) {
	h := New("logs")
	if h.Name() != "logs" {
		t.Errorf("Name() = %q", h.Name())
	}
}

func TestHubEmptyBroadcast(t *testing.T) {
	h := New("logs")
	h.Broadcast([]byte("nobody home")) // must not panic
	if h.Count() != 0 {
		t.Errorf("Count() = %d, want 0", h.Count())
	}
}

func TestHubRegisterAndBroadcast(t *testing.T) {
	h := New("logs")

	c := &Client{hub: h, send: make(chan []byte, 2)}
	if !h.register(c) {
		t.Fatal("register failed on open hub")
	}
	if h.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", h.Count())
	}

	h.Broadcast([]byte("hello"))
	select {
	case data := <-c.send:
		if string(data) != "hello" {
			t.Errorf("got %q", data)
		}
	default:
		t.Fatal("broadcast never reached the client")
	}

	h.unregister(c)
	if h.Count() != 0 {
		t.Errorf("Count() = %d after unregister, want 0", h.Count())
	}
	// Unregister closed the send channel.
	if _, ok := <-c.send; ok {
		t.Error("send channel still open after unregister")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	h := New("logs")

	c := &Client{hub: h, send: make(chan []byte, 1)}
	h.register(c)

	h.Broadcast([]byte("one"))
	h.Broadcast([]byte("two")) // channel full: client is dropped

	if h.Count() != 0 {
		t.Errorf("Count() = %d, want 0 after slow client dropped", h.Count())
	}
}

func TestHubClose(t *testing.T) {
	h := New("logs")
	c := &Client{hub: h, send: make(chan []byte, 1)}
	h.register(c)

	h.Close()
	if h.Count() != 0 {
		t.Errorf("Count() = %d after Close, want 0", h.Count())
	}

	// A closed hub rejects new registrations.
	if h.register(&Client{hub: h, send: make(chan []byte, 1)}) {
		t.Error("register succeeded on closed hub")
	}
	// Close is idempotent.
	h.Close()
}
