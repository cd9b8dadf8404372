// Package serial implements sabertooth.Transport on a local UART.
package serial

import (
	"errors"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/robotalks/saber.go/pkg/sabertooth"
)

// ErrNotOpen is returned by I/O before Open.
var ErrNotOpen = errors.New("serial port not open")

// Transport opens a serial device with 8N1 framing.
type Transport struct {
	Device string

	lock        sync.Mutex
	port        serial.Port
	baudRate    int
	readTimeout time.Duration
}

var _ sabertooth.Transport = (*Transport)(nil)

// New creates a closed Transport for the device.
func New(device string) *Transport {
	return &Transport{
		Device:      device,
		baudRate:    sabertooth.DefaultBaudRate,
		readTimeout: sabertooth.DefaultTimeout,
	}
}

func (t *Transport) mode() *serial.Mode {
	return &serial.Mode{
		BaudRate: t.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// Open implements Transport.
func (t *Transport) Open() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.port != nil {
		return nil
	}
	if t.Device == "" {
		return errors.New("serial device required")
	}
	port, err := serial.Open(t.Device, t.mode())
	if err != nil {
		return err
	}
	if err = port.SetReadTimeout(t.readTimeout); err != nil {
		port.Close()
		return err
	}
	t.port = port
	return nil
}

// IsOpen implements Transport.
func (t *Transport) IsOpen() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.port != nil
}

// Close implements Transport.
func (t *Transport) Close() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	return err
}

func (t *Transport) current() (serial.Port, error) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.port == nil {
		return nil, ErrNotOpen
	}
	return t.port, nil
}

// Read implements io.Reader. It returns (0, nil) on timeout.
func (t *Transport) Read(p []byte) (int, error) {
	port, err := t.current()
	if err != nil {
		return 0, err
	}
	return port.Read(p)
}

// Write implements io.Writer.
func (t *Transport) Write(p []byte) (int, error) {
	port, err := t.current()
	if err != nil {
		return 0, err
	}
	return port.Write(p)
}

// Flush implements Transport, waiting for the output buffer to drain.
func (t *Transport) Flush() error {
	port, err := t.current()
	if err != nil {
		return err
	}
	return port.Drain()
}

// SetBaudRate implements Transport.
func (t *Transport) SetBaudRate(rate int) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.baudRate = rate
	if t.port != nil {
		return t.port.SetMode(t.mode())
	}
	return nil
}

// SetReadTimeout implements Transport.
func (t *Transport) SetReadTimeout(d time.Duration) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.readTimeout = d
	if t.port != nil {
		return t.port.SetReadTimeout(d)
	}
	return nil
}
