// Package loopback provides an in-memory Transport which records
// everything written and serves queued replies.
package loopback

import (
	"bytes"
	"errors"
	"sync"
	"time"

	"github.com/robotalks/saber.go/pkg/sabertooth"
)

// ErrClosed is returned by I/O on a closed Transport.
var ErrClosed = errors.New("loopback closed")

// Transport implements sabertooth.Transport in memory.
type Transport struct {
	// OpenErr fails the next Open when set.
	OpenErr error
	// WriteErr fails every Write when set.
	WriteErr error
	// FailWriteAfter fails writes once this many writes succeeded, if > 0.
	FailWriteAfter int
	// CloseErr fails Close when set.
	CloseErr error
	// BaudErr fails SetBaudRate when set.
	BaudErr error

	lock        sync.Mutex
	open        bool
	written     bytes.Buffer
	writes      int
	flushes     int
	opens       int
	closes      int
	replies     [][]byte
	baudRate    int
	readTimeout time.Duration
}

// New creates a closed Transport.
func New() *Transport {
	return &Transport{}
}

var _ sabertooth.Transport = (*Transport)(nil)

// Open implements Transport.
func (t *Transport) Open() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if err := t.OpenErr; err != nil {
		return err
	}
	t.open = true
	t.opens++
	return nil
}

// IsOpen implements Transport.
func (t *Transport) IsOpen() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.open
}

// Close implements Transport.
func (t *Transport) Close() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if !t.open {
		return nil
	}
	if t.CloseErr != nil {
		return t.CloseErr
	}
	t.open = false
	t.closes++
	return nil
}

// Write implements io.Writer.
func (t *Transport) Write(p []byte) (int, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if !t.open {
		return 0, ErrClosed
	}
	if t.WriteErr != nil {
		return 0, t.WriteErr
	}
	if t.FailWriteAfter > 0 && t.writes >= t.FailWriteAfter {
		return 0, errors.New("loopback write failure")
	}
	t.writes++
	return t.written.Write(p)
}

// Read implements io.Reader. Each call serves one queued reply, or
// returns (0, nil) as a timeout when nothing is queued.
func (t *Transport) Read(p []byte) (int, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if !t.open {
		return 0, ErrClosed
	}
	if len(t.replies) == 0 {
		return 0, nil
	}
	n := copy(p, t.replies[0])
	if n < len(t.replies[0]) {
		t.replies[0] = t.replies[0][n:]
	} else {
		t.replies = t.replies[1:]
	}
	return n, nil
}

// Flush implements Transport.
func (t *Transport) Flush() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if !t.open {
		return ErrClosed
	}
	t.flushes++
	return nil
}

// SetBaudRate implements Transport.
func (t *Transport) SetBaudRate(rate int) error {
	t.lock.Lock()
	if err := t.BaudErr; err != nil {
		t.lock.Unlock()
		return err
	}
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

// Reply queues a reply for a later Read.
func (t *Transport) Reply(b []byte) *Transport {
	t.lock.Lock()
	t.replies = append(t.replies, append([]byte(nil), b...))
	t.lock.Unlock()
	return t
}

// Written returns a copy of all bytes written so far.
func (t *Transport) Written() []byte {
	t.lock.Lock()
	defer t.lock.Unlock()
	return append([]byte(nil), t.written.Bytes()...)
}

// Take returns all bytes written so far and clears the record.
func (t *Transport) Take() []byte {
	t.lock.Lock()
	defer t.lock.Unlock()
	b := append([]byte(nil), t.written.Bytes()...)
	t.written.Reset()
	return b
}

// Packets decodes bytes written so far as packets.
func (t *Transport) Packets() ([]sabertooth.Packet, error) {
	return sabertooth.DecodePackets(t.Written())
}

// Stats reports call counters.
type Stats struct {
	Opens   int
	Closes  int
	Writes  int
	Flushes int
}

// Stats returns the call counters.
func (t *Transport) Stats() Stats {
	t.lock.Lock()
	defer t.lock.Unlock()
	return Stats{Opens: t.opens, Closes: t.closes, Writes: t.writes, Flushes: t.flushes}
}

// BaudRate returns the last baud rate set.
func (t *Transport) BaudRate() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.baudRate
}

// ReadTimeout returns the last read timeout set.
func (t *Transport) ReadTimeout() time.Duration {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.readTimeout
}
