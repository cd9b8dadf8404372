package telemetry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name   string
		raw    string
		expect Reply
		value  int
	}{
		{"temperature", "M2:T31\r\n", Reply{"M2", "T", "31"}, 31},
		{"battery", "M2:B12040\r\n", Reply{"M2", "B", "12040"}, 12040},
		{"negative current", "M1:C-20\r\n", Reply{"M1", "C", "-20"}, -20},
		{"position", "P1: 150\r\n", Reply{"P1", "", "150"}, 150},
		{"value", "M1:-2047", Reply{"M1", "", "-2047"}, -2047},
		{"first line only", "M1:C5\r\nM2:C6\r\n", Reply{"M1", "C", "5"}, 5},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := Parse([]byte(tc.raw))
			require.NoError(t, err)
			require.Equal(t, tc.expect, r)
			v, err := r.Int()
			require.NoError(t, err)
			require.Equal(t, tc.value, v)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(nil)
	require.Equal(t, ErrEmptyReply, err)
	_, err = Parse([]byte("\r\n"))
	require.Equal(t, ErrEmptyReply, err)
	_, err = Parse([]byte("garbage"))
	require.True(t, errors.Is(err, ErrMalformedReply))

	r, err := Parse([]byte("M1:Cxx"))
	require.NoError(t, err)
	_, err = r.Int()
	require.Error(t, err)
}
