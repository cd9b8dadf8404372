package sabertooth

import (
	"fmt"

	"github.com/pkg/errors"
)

// Command is a packetized serial command code.
type Command byte

// Command codes. Each reverse code is its forward code + 1.
const (
	Forward1     Command = 0x00
	Reverse1     Command = 0x01
	Forward2     Command = 0x04
	Reverse2     Command = 0x05
	ForwardMixed Command = 0x08
	ReverseMixed Command = 0x09
	RightMixed   Command = 0x0A
	LeftMixed    Command = 0x0B
	SetBaudRate  Command = 0x0F
	Ramp         Command = 0x10
)

var commandNames = map[Command]string{
	Forward1:     "forward-1",
	Reverse1:     "reverse-1",
	Forward2:     "forward-2",
	Reverse2:     "reverse-2",
	ForwardMixed: "forward-mixed",
	ReverseMixed: "reverse-mixed",
	RightMixed:   "right-mixed",
	LeftMixed:    "left-mixed",
	SetBaudRate:  "set-baud-rate",
	Ramp:         "ramp",
}

// IsValid checks if the command is in the command table.
func (c Command) IsValid() bool {
	_, ok := commandNames[c]
	return ok
}

// String implements fmt.Stringer.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("command(0x%02x)", byte(c))
}

// Reverse returns the reverse counterpart of a forward command.
// Commands without a counterpart are returned unchanged.
func (c Command) Reverse() Command {
	switch c {
	case Forward1, Forward2, ForwardMixed, RightMixed:
		return c + 1
	}
	return c
}

// Motor identifies one of the two motor channels.
type Motor int

// Motor channels.
const (
	Motor1 Motor = 1
	Motor2 Motor = 2
)

// Forward returns the forward drive command of the motor.
func (m Motor) Forward() (Command, error) {
	switch m {
	case Motor1:
		return Forward1, nil
	case Motor2:
		return Forward2, nil
	}
	return 0, errors.Wrapf(ErrInvalidMotorIndex, "motor %d", int(m))
}

// Policy selects how out of range speeds are handled.
type Policy int

const (
	// Strict rejects speeds beyond 100% with ErrInvalidSpeed.
	Strict Policy = iota
	// Clamped clamps speeds into 0..100.
	Clamped
)

// String implements fmt.Stringer.
func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	case Clamped:
		return "clamped"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// MaxMessage is the largest value of the 7-bit message byte.
const MaxMessage = 127

// ScaleSpeed converts a speed percentage into the message byte.
//
// With Strict, the magnitude of percent is used and anything beyond 100
// fails. With Clamped, percent is first clamped into 0..100, so negative
// speeds become 0; direction is expected to be given separately.
func ScaleSpeed(policy Policy, percent int) (byte, error) {
	switch policy {
	case Strict:
		if percent < -100 || percent > 100 {
			return 0, errors.Wrapf(ErrInvalidSpeed, "speed %d", percent)
		}
		if percent < 0 {
			percent = -percent
		}
	case Clamped:
		if percent < 0 {
			percent = 0
		} else if percent > 100 {
			percent = 100
		}
	default:
		return 0, errors.Errorf("unknown speed policy %v", policy)
	}
	return byte(MaxMessage * percent / 100), nil
}

// MotorCommand maps a signed speed on a motor to the command and message.
// Negative speeds select the reverse command; magnitude follows Strict.
func MotorCommand(m Motor, percent int) (Command, byte, error) {
	cmd, err := m.Forward()
	if err != nil {
		return 0, 0, err
	}
	if percent < 0 {
		cmd = cmd.Reverse()
	}
	msg, err := ScaleSpeed(Strict, percent)
	if err != nil {
		return 0, 0, err
	}
	return cmd, msg, nil
}

// Direction keywords accepted by IndependentDrive and MixedDrive.
const (
	DirForward = "fwd"
	DirReverse = "rev"
	TurnLeft   = "left"
	TurnRight  = "right"
)

// ParseDirection maps "fwd"/"rev" onto the command family of base,
// which is Forward1, Forward2 or ForwardMixed.
func ParseDirection(dir string, base Command) (Command, error) {
	switch dir {
	case DirForward:
		return base, nil
	case DirReverse:
		return base.Reverse(), nil
	}
	return 0, errors.Wrapf(ErrInvalidDirection, "%q", dir)
}

// ParseTurn maps "left"/"right" onto the mixed turning commands.
func ParseTurn(dir string) (Command, error) {
	switch dir {
	case TurnRight:
		return RightMixed, nil
	case TurnLeft:
		return LeftMixed, nil
	}
	return 0, errors.Wrapf(ErrInvalidDirection, "%q", dir)
}
