package sabertooth

import (
	"io"
	"time"
)

// Transport is the byte channel to the controller.
//
// Read blocks up to the read timeout. A timeout is reported either as
// (0, nil) or as an error satisfying os.IsTimeout; neither is a failure.
type Transport interface {
	io.ReadWriter
	// Open opens the underlying channel.
	Open() error
	// IsOpen reports whether the channel is open.
	IsOpen() bool
	// Close closes the channel. Closing a closed channel is a no-op.
	Close() error
	// Flush waits until pending output is sent.
	Flush() error
	// SetBaudRate changes the line speed, taking effect immediately if open.
	SetBaudRate(rate int) error
	// SetReadTimeout bounds every Read.
	SetReadTimeout(d time.Duration) error
}
