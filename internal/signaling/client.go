package signaling

import "sync"

// Client is one authenticated WebSocket connection. Address is stamped at
// handshake time and is the only identity the dispatcher trusts; claimed
// addresses inside event payloads are cross-checked against it.
type Client struct {
	Address string
	Send    chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(address string) *Client {
	return &Client{
		Address: normalizeAddr(address),
		Send:    make(chan []byte, 64),
	}
}

// enqueue hands data to the write pump without blocking. Messages to a slow
// or closed client are dropped.
func (c *Client) enqueue(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}
