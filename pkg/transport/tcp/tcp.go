// Package tcp implements sabertooth.Transport over a TCP serial bridge,
// such as ser2net or an ESP-Link, which owns the actual UART.
package tcp

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/robotalks/saber.go/pkg/sabertooth"
)

// ErrNotOpen is returned by I/O before Open.
var ErrNotOpen = errors.New("tcp bridge not connected")

// DefaultDialTimeout bounds connecting and writing.
const DefaultDialTimeout = 3 * time.Second

// Transport connects to host:port.
type Transport struct {
	Address     string
	DialTimeout time.Duration

	lock        sync.Mutex
	conn        net.Conn
	baudRate    int
	readTimeout time.Duration
}

var _ sabertooth.Transport = (*Transport)(nil)

// New creates a disconnected Transport.
func New(address string) *Transport {
	return &Transport{
		Address:     address,
		DialTimeout: DefaultDialTimeout,
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
	conn, err := net.DialTimeout("tcp", t.Address, t.DialTimeout)
	if err != nil {
		return err
	}
	t.conn = conn
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
	t.conn = nil
	return err
}

func (t *Transport) current() (net.Conn, time.Duration, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.conn == nil {
		return nil, 0, ErrNotOpen
	}
	return t.conn, t.readTimeout, nil
}

// Read implements io.Reader. It returns (0, nil) on timeout.
func (t *Transport) Read(p []byte) (int, error) {
	conn, timeout, err := t.current()
	if err != nil {
		return 0, err
	}
	if err = conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, err
	}
	n, err := conn.Read(p)
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return n, nil
	}
	return n, err
}

// Write implements io.Writer.
func (t *Transport) Write(p []byte) (int, error) {
	conn, _, err := t.current()
	if err != nil {
		return 0, err
	}
	if err = conn.SetWriteDeadline(time.Now().Add(t.DialTimeout)); err != nil {
		return 0, err
	}
	return conn.Write(p)
}

// Flush implements Transport. Writes go straight to the socket.
func (t *Transport) Flush() error {
	_, _, err := t.current()
	return err
}

// SetBaudRate implements Transport. The bridge owns the UART so the rate
// is only recorded.
func (t *Transport) SetBaudRate(rate int) error {
	t.lock.Lock()
	t.baudRate = rate
	t.lock.Unlock()
	return nil
}

// BaudRate returns the last recorded baud rate.
func (t *Transport) BaudRate() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.baudRate
}

// SetReadTimeout implements Transport.
func (t *Transport) SetReadTimeout(d time.Duration) error {
	t.lock.Lock()
	t.readTimeout = d
	t.lock.Unlock()
	return nil
}
