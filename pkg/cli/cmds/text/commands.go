// Package text provides text mode and telemetry shell commands.
package text

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robotalks/saber.go/pkg/cli/sh"
	"github.com/robotalks/saber.go/pkg/sabertooth"
	"github.com/robotalks/saber.go/pkg/telemetry"
)

// DefaultChannel is queried when the channel is omitted.
const DefaultChannel = "m1"

func channelArg(args []string) (sabertooth.Channel, error) {
	if len(args) == 0 {
		return DefaultChannel, nil
	}
	ch := strings.ToLower(args[0])
	if len(ch) < 2 || (ch[0] != 'm' && ch[0] != 'p') {
		return "", fmt.Errorf("Invalid CHANNEL: %q", args[0])
	}
	if _, err := strconv.Atoi(ch[1:]); err != nil {
		return "", fmt.Errorf("Invalid CHANNEL: %q", args[0])
	}
	return sabertooth.Channel(ch), nil
}

// Text sends a text mode line: LINE...
func Text(s *sabertooth.Session, args []string) (interface{}, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("LINE required")
	}
	return nil, s.SendLine(strings.Join(args, " "))
}

// Query sends a text mode line and prints the raw reply: LINE...
func Query(s *sabertooth.Session, args []string) (interface{}, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("LINE required")
	}
	reply, err := s.QueryLine(strings.Join(args, " "))
	if err != nil {
		return nil, err
	}
	return strconv.Quote(string(reply)), nil
}

func telemetryFunc(query func(*sabertooth.Session, sabertooth.Channel) ([]byte, error)) sh.SessionFunc {
	return func(s *sabertooth.Session, args []string) (interface{}, error) {
		ch, err := channelArg(args)
		if err != nil {
			return nil, err
		}
		raw, err := query(s, ch)
		if err != nil {
			return nil, err
		}
		return telemetry.Parse(raw)
	}
}

var (
	// Temperature queries the temperature: [CHANNEL].
	Temperature = telemetryFunc((*sabertooth.Session).QueryTemperature)
	// Battery queries the battery voltage: [CHANNEL].
	Battery = telemetryFunc((*sabertooth.Session).QueryBattery)
	// Current queries the motor current: [CHANNEL].
	Current = telemetryFunc((*sabertooth.Session).QueryCurrent)
)

var (
	// TextCmd exposes Text.
	TextCmd = sh.SessionCmd("text", "LINE...", Text, "t")
	// QueryCmd exposes Query.
	QueryCmd = sh.SessionCmd("query", "LINE...", Query, "q")
	// TempCmd exposes Temperature.
	TempCmd = sh.SessionCmd("temp", "[CHANNEL]", Temperature)
	// BatteryCmd exposes Battery.
	BatteryCmd = sh.SessionCmd("battery", "[CHANNEL]", Battery)
	// CurrentCmd exposes Current.
	CurrentCmd = sh.SessionCmd("current", "[CHANNEL]", Current)
)

func init() {
	sh.AddCmds(
		&TextCmd,
		&QueryCmd,
		&TempCmd,
		&BatteryCmd,
		&CurrentCmd,
	)
}
