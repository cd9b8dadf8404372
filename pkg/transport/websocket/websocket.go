// Package websocket implements sabertooth.Transport over a websocket
// serial bridge. Every write is sent as one binary message; incoming
// messages are concatenated into a byte stream.
package websocket

import (
	"errors"
	"net"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/robotalks/saber.go/pkg/sabertooth"
)

// ErrNotOpen is returned by I/O before Open.
var ErrNotOpen = errors.New("websocket bridge not connected")

// Transport connects to a ws:// or wss:// URL.
type Transport struct {
	URL    string
	Origin string

	lock        sync.Mutex
	conn        *websocket.Conn
	pending     []byte
	baudRate    int
	readTimeout time.Duration
}

var _ sabertooth.Transport = (*Transport)(nil)

// New creates a disconnected Transport.
func New(url string) *Transport {
	return &Transport{
		URL:         url,
		Origin:      "http://localhost/",
		readTimeout: sabertooth.DefaultTimeout,
	}
}

// Open implements Transport.
func (t *Transport) Open() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.conn != nil {
		return nil
	}
	conn, err := websocket.Dial(t.URL, "", t.Origin)
	if err != nil {
		return err
	}
	conn.PayloadType = websocket.BinaryFrame
	t.conn, t.pending = conn, nil
	return nil
}

// IsOpen implements Transport.
func (t *Transport) IsOpen() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.conn != nil
}

// Close implements Transport.
func (t *Transport) Close() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn, t.pending = nil, nil
	return err
}

// Read implements io.Reader. It returns (0, nil) on timeout.
func (t *Transport) Read(p []byte) (int, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.conn == nil {
		return 0, ErrNotOpen
	}
	if len(t.pending) == 0 {
		if err := t.conn.SetReadDeadline(time.Now().Add(t.readTimeout)); err != nil {
			return 0, err
		}
		var msg []byte
		if err := websocket.Message.Receive(t.conn, &msg); err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return 0, nil
			}
			return 0, err
		}
		t.pending = msg
	}
	n := copy(p, t.pending)
	t.pending = t.pending[n:]
	return n, nil
}

// Write implements io.Writer.
func (t *Transport) Write(p []byte) (int, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.conn == nil {
		return 0, ErrNotOpen
	}
	if err := websocket.Message.Send(t.conn, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Flush implements Transport. Each write is already a complete message.
func (t *Transport) Flush() error {
	if !t.IsOpen() {
		return ErrNotOpen
	}
	return nil
}

// SetBaudRate implements Transport. The bridge owns the UART so the rate
// is only recorded.
func (t *Transport) SetBaudRate(rate int) error {
	t.lock.Lock()
	t.baudRate = rate
	t.lock.Unlock()
	return nil
}

// SetReadTimeout implements Transport.
func (t *Transport) SetReadTimeout(d time.Duration) error {
	t.lock.Lock()
	t.readTimeout = d
	t.lock.Unlock()
	return nil
}
