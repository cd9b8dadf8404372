package sabertooth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandReverse(t *testing.T) {
	require.Equal(t, Reverse1, Forward1.Reverse())
	require.Equal(t, Reverse2, Forward2.Reverse())
	require.Equal(t, ReverseMixed, ForwardMixed.Reverse())
	require.Equal(t, LeftMixed, RightMixed.Reverse())
	require.Equal(t, Ramp, Ramp.Reverse())
	require.Equal(t, SetBaudRate, SetBaudRate.Reverse())
}

func TestCommandIsValid(t *testing.T) {
	valid := make(map[Command]bool)
	for _, cmd := range allCommands {
		valid[cmd] = true
	}
	for c := 0; c < 256; c++ {
		require.Equal(t, valid[Command(c)], Command(c).IsValid(), "command 0x%02x", c)
	}
	require.Equal(t, "forward-mixed", ForwardMixed.String())
	require.Equal(t, "command(0x02)", Command(2).String())
}

const (
	maxInt = int(^uint(0) >> 1)
	minInt = -maxInt - 1
)

func TestScaleSpeedStrict(t *testing.T) {
	for percent := -100; percent <= 100; percent++ {
		msg, err := ScaleSpeed(Strict, percent)
		require.NoError(t, err)
		abs := percent
		if abs < 0 {
			abs = -abs
		}
		require.Equal(t, byte(127*abs/100), msg, "percent %d", percent)
	}
	for _, percent := range []int{101, -101, 150, -1000, minInt, maxInt} {
		_, err := ScaleSpeed(Strict, percent)
		require.True(t, errors.Is(err, ErrInvalidSpeed), "percent %d", percent)
	}
}

func TestScaleSpeedClamped(t *testing.T) {
	testCases := []struct {
		percent int
		expect  byte
	}{
		{0, 0},
		{50, 63},
		{100, 127},
		{150, 127},
		{-20, 0},
		{-100, 0},
	}
	for _, tc := range testCases {
		msg, err := ScaleSpeed(Clamped, tc.percent)
		require.NoError(t, err)
		require.Equal(t, tc.expect, msg, "percent %d", tc.percent)
	}
}

func TestMotorCommand(t *testing.T) {
	testCases := []struct {
		motor   Motor
		percent int
		cmd     Command
		msg     byte
	}{
		{Motor1, 0, Forward1, 0},
		{Motor1, 50, Forward1, 63},
		{Motor1, -50, Reverse1, 63},
		{Motor2, 100, Forward2, 127},
		{Motor2, -1, Reverse2, 1},
		{Motor2, -100, Reverse2, 127},
	}
	for _, tc := range testCases {
		cmd, msg, err := MotorCommand(tc.motor, tc.percent)
		require.NoError(t, err)
		require.Equal(t, tc.cmd, cmd)
		require.Equal(t, tc.msg, msg)
	}

	_, _, err := MotorCommand(3, 10)
	require.True(t, errors.Is(err, ErrInvalidMotorIndex))
	_, _, err = MotorCommand(0, 10)
	require.True(t, errors.Is(err, ErrInvalidMotorIndex))
	_, _, err = MotorCommand(1, 101)
	require.True(t, errors.Is(err, ErrInvalidSpeed))
}

func TestParseDirection(t *testing.T) {
	cmd, err := ParseDirection("fwd", Forward2)
	require.NoError(t, err)
	require.Equal(t, Forward2, cmd)
	cmd, err = ParseDirection("rev", ForwardMixed)
	require.NoError(t, err)
	require.Equal(t, ReverseMixed, cmd)
	_, err = ParseDirection("left", Forward1)
	require.True(t, errors.Is(err, ErrInvalidDirection))

	cmd, err = ParseTurn("left")
	require.NoError(t, err)
	require.Equal(t, LeftMixed, cmd)
	cmd, err = ParseTurn("right")
	require.NoError(t, err)
	require.Equal(t, RightMixed, cmd)
	_, err = ParseTurn("fwd")
	require.True(t, errors.Is(err, ErrInvalidDirection))
}

func TestBaudIndex(t *testing.T) {
	expect := map[int]byte{2400: 1, 9600: 2, 19200: 3, 38400: 4, 115200: 5}
	for rate, index := range expect {
		got, err := BaudIndex(rate)
		require.NoError(t, err)
		require.Equal(t, index, got)
	}
	for _, rate := range []int{0, 4800, 57600, 230400} {
		_, err := BaudIndex(rate)
		require.True(t, errors.Is(err, ErrInvalidBaudRate), "rate %d", rate)
	}
	require.Equal(t, []int{2400, 9600, 19200, 38400, 115200}, BaudRates())
}
