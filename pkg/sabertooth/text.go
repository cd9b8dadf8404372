package sabertooth

import (
	"os"
	"strconv"
)

// Text mode framing.
const (
	LineTerminator = "\r\n"
	// MaxReplySize caps a single text mode reply.
	MaxReplySize = 100
)

// Channel is the text mode target before the colon, e.g. m1 or p2.
type Channel string

// MotorChannel returns the motor channel mN.
func MotorChannel(n int) Channel {
	return Channel("m" + strconv.Itoa(n))
}

// PowerChannel returns the power output channel pN.
func PowerChannel(n int) Channel {
	return Channel("p" + strconv.Itoa(n))
}

// Line builds the command line "channel:arg".
func (c Channel) Line(arg string) string {
	return string(c) + ":" + arg
}

// SendLine sends a text mode command, appending CRLF.
// The controller firmware parses it, nothing is validated here.
func (s *Session) SendLine(cmd string) error {
	return s.write([]byte(cmd + LineTerminator))
}

// QueryLine sends a text mode command and reads back up to MaxReplySize
// bytes. A timeout yields an empty reply, not an error.
func (s *Session) QueryLine(cmd string) ([]byte, error) {
	if err := s.SendLine(cmd); err != nil {
		return nil, err
	}
	buf := make([]byte, MaxReplySize)
	n, err := s.transport.Read(buf)
	if err != nil && !os.IsTimeout(err) {
		return buf[:n], transportErr("read", err)
	}
	return buf[:n], nil
}

// Startup sends "startup" to a channel.
func (s *Session) Startup(ch Channel) error {
	return s.SendLine(ch.Line("startup"))
}

// DriveText sends a raw drive value in text mode, e.g. m1:-2047.
func (s *Session) DriveText(ch Channel, value int) error {
	return s.SendLine(ch.Line(strconv.Itoa(value)))
}

// QueryValue queries the current value of a channel.
func (s *Session) QueryValue(ch Channel) ([]byte, error) {
	return s.QueryLine(ch.Line("get"))
}

// QueryTemperature queries the temperature reported by a channel.
func (s *Session) QueryTemperature(ch Channel) ([]byte, error) {
	return s.QueryLine(ch.Line("gett"))
}

// QueryBattery queries the battery voltage reported by a channel.
func (s *Session) QueryBattery(ch Channel) ([]byte, error) {
	return s.QueryLine(ch.Line("getb"))
}

// QueryCurrent queries the motor current of a channel.
func (s *Session) QueryCurrent(ch Channel) ([]byte, error) {
	return s.QueryLine(ch.Line("getc"))
}
