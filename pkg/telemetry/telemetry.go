// Package telemetry parses text mode replies such as "M1:C120".
//
// The reply format belongs to the controller firmware. These helpers only
// cover the shapes seen so far: "<channel>:<field letter><value>" and
// "<channel>: <value>".
package telemetry

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyReply indicates nothing was received, usually a timeout.
	ErrEmptyReply = errors.New("empty reply")
	// ErrMalformedReply indicates the reply has no channel prefix.
	ErrMalformedReply = errors.New("malformed reply")
)

// Reply is a parsed text mode reply.
type Reply struct {
	Channel string
	Field   string
	Value   string
}

// Parse parses the first line of a raw reply.
func Parse(raw []byte) (Reply, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return Reply{}, ErrEmptyReply
	}
	if pos := strings.IndexAny(s, "\r\n"); pos >= 0 {
		s = s[:pos]
	}
	pos := strings.IndexByte(s, ':')
	if pos <= 0 {
		return Reply{}, errors.Wrapf(ErrMalformedReply, "%q", s)
	}
	r := Reply{Channel: s[:pos]}
	rest := strings.TrimSpace(s[pos+1:])
	if rest != "" && unicode.IsLetter(rune(rest[0])) {
		r.Field, rest = rest[:1], strings.TrimSpace(rest[1:])
	}
	r.Value = rest
	return r, nil
}

// Int returns the value as an integer.
func (r Reply) Int() (int, error) {
	return strconv.Atoi(r.Value)
}

// String implements fmt.Stringer.
func (r Reply) String() string {
	return r.Channel + ":" + r.Field + r.Value
}

// Field letters used by the firmware.
const (
	FieldTemperature = "T"
	FieldBattery     = "B"
	FieldCurrent     = "C"
)
