package sabertooth

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAddress indicates the controller address is outside 128..135.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidBaudRate indicates the baud rate is not supported by the controller.
	ErrInvalidBaudRate = errors.New("invalid baud rate")
	// ErrInvalidMotorIndex indicates a motor other than 1 or 2.
	ErrInvalidMotorIndex = errors.New("invalid motor index")
	// ErrInvalidSpeed indicates a speed beyond 100%.
	ErrInvalidSpeed = errors.New("invalid speed")
	// ErrInvalidDirection indicates an unrecognized direction keyword.
	ErrInvalidDirection = errors.New("invalid direction")
	// ErrInvalidCommand indicates a command code outside the command table.
	ErrInvalidCommand = errors.New("invalid command")
	// ErrInvalidMessage indicates a message byte above 127.
	ErrInvalidMessage = errors.New("invalid message")
	// ErrChecksum indicates a packet whose checksum doesn't match.
	ErrChecksum = errors.New("checksum mismatch")
)

// TransportError wraps failures reported by the Transport.
type TransportError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

func transportErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Op: op, Err: err}
}
