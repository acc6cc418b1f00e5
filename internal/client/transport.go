package client

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

// ErrNormalClosure is reported by a transport when the server closed the
// connection cleanly. The manager does not schedule a reconnect for it.
var ErrNormalClosure = errors.New("normal closure")

// Conn is one live transport connection.
type Conn interface {
	// ReadMessage blocks until the next inbound payload or a read error.
	ReadMessage() ([]byte, error)
	Close() error
}

// Transport dials the detector endpoint. Swappable so tests can run the
// full connection state machine without a network.
type Transport interface {
	Dial(rawURL string) (Conn, error)
}

// WebsocketTransport is the production transport.
type WebsocketTransport struct {
	HandshakeTimeout time.Duration
}

func (t WebsocketTransport) Dial(rawURL string) (Conn, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ws url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	timeout := t.HandshakeTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	d := websocket.Dialer{HandshakeTimeout: timeout}

	conn, _, err := d.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	return &wsConn{conn: conn}, nil
}

type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) ReadMessage() ([]byte, error) {
	_, payload, err := c.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
			return nil, fmt.Errorf("%w: %v", ErrNormalClosure, err)
		}
		return nil, err
	}
	return payload, nil
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}
