// Package drive provides packet mode shell commands.
package drive

import (
	"fmt"
	"strconv"

	"github.com/robotalks/saber.go/pkg/cli/sh"
	"github.com/robotalks/saber.go/pkg/sabertooth"
)

func intArgs(args []string, names ...string) ([]int, error) {
	if len(args) < len(names) {
		return nil, fmt.Errorf("%s required", names[len(args)])
	}
	vals := make([]int, len(names))
	for n, name := range names {
		val, err := strconv.Atoi(args[n])
		if err != nil {
			return nil, fmt.Errorf("Invalid %s: %v", name, err)
		}
		vals[n] = val
	}
	return vals, nil
}

// dirSpeedArgs parses "DIR SPEED DIR SPEED".
func dirSpeedArgs(args []string, names ...string) (string, int, string, int, error) {
	if len(args) < 4 {
		return "", 0, "", 0, fmt.Errorf("%s required", names[len(args)])
	}
	speeds, err := intArgs([]string{args[1], args[3]}, names[1], names[3])
	if err != nil {
		return "", 0, "", 0, err
	}
	return args[0], speeds[0], args[2], speeds[1], nil
}

// Drive drives a single motor: M PCT.
func Drive(s *sabertooth.Session, args []string) (interface{}, error) {
	vals, err := intArgs(args, "MOTOR", "PERCENT")
	if err != nil {
		return nil, err
	}
	return nil, s.Drive(sabertooth.Motor(vals[0]), vals[1])
}

// Both drives both motors: P1 P2.
func Both(s *sabertooth.Session, args []string) (interface{}, error) {
	vals, err := intArgs(args, "PERCENT1", "PERCENT2")
	if err != nil {
		return nil, err
	}
	return nil, s.DriveBoth(vals[0], vals[1])
}

// Stop stops both motors.
func Stop(s *sabertooth.Session, args []string) (interface{}, error) {
	return nil, s.Stop()
}

// Independent drives motors with directions: DL SL DR SR.
func Independent(s *sabertooth.Session, args []string) (interface{}, error) {
	dl, sl, dr, sr, err := dirSpeedArgs(args, "DIR_LEFT", "SPEED_LEFT", "DIR_RIGHT", "SPEED_RIGHT")
	if err != nil {
		return nil, err
	}
	n, err := s.IndependentDrive(dl, sl, dr, sr)
	if err != nil {
		return nil, fmt.Errorf("%d bytes sent: %v", n, err)
	}
	return nil, nil
}

// Mixed drives in mixed mode: DS SS DY SY.
func Mixed(s *sabertooth.Session, args []string) (interface{}, error) {
	ds, ss, dy, sy, err := dirSpeedArgs(args, "DIR_SURGE", "SPEED_SURGE", "DIR_YAW", "SPEED_YAW")
	if err != nil {
		return nil, err
	}
	n, err := s.MixedDrive(ds, ss, dy, sy)
	if err != nil {
		return nil, fmt.Errorf("%d bytes sent: %v", n, err)
	}
	return nil, nil
}

// Baud switches the baud rate: RATE.
func Baud(s *sabertooth.Session, args []string) (interface{}, error) {
	vals, err := intArgs(args, "RATE")
	if err != nil {
		return nil, err
	}
	return nil, s.SetBaudrate(vals[0])
}

// Ramp sets ramping: VALUE.
func Ramp(s *sabertooth.Session, args []string) (interface{}, error) {
	vals, err := intArgs(args, "VALUE")
	if err != nil {
		return nil, err
	}
	if vals[0] < 0 || vals[0] > sabertooth.MaxMessage {
		return nil, fmt.Errorf("Invalid VALUE: %d not in 0..%d", vals[0], sabertooth.MaxMessage)
	}
	return nil, s.SetRamp(byte(vals[0]))
}

var (
	// DriveCmd exposes Drive.
	DriveCmd = sh.SessionCmd("drive", "MOTOR(1|2) PERCENT(-100..100)", Drive, "d")
	// BothCmd exposes Both.
	BothCmd = sh.SessionCmd("both", "PERCENT1 PERCENT2", Both, "b")
	// StopCmd exposes Stop.
	StopCmd = sh.SessionCmd("stop", "", Stop, "s")
	// IndependentCmd exposes Independent.
	IndependentCmd = sh.SessionCmd("independent", "fwd|rev SPEED fwd|rev SPEED", Independent, "ind")
	// MixedCmd exposes Mixed.
	MixedCmd = sh.SessionCmd("mixed", "fwd|rev SPEED left|right SPEED", Mixed, "mix")
	// BaudCmd exposes Baud.
	BaudCmd = sh.SessionCmd("baud", "RATE(2400|9600|19200|38400|115200)", Baud)
	// RampCmd exposes Ramp.
	RampCmd = sh.SessionCmd("ramp", "VALUE(0..127)", Ramp)
)

func init() {
	sh.AddCmds(
		&DriveCmd,
		&BothCmd,
		&StopCmd,
		&IndependentCmd,
		&MixedCmd,
		&BaudCmd,
		&RampCmd,
	)
}
