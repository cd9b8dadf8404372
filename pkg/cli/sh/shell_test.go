package sh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/saber.go/pkg/env"
	"github.com/robotalks/saber.go/pkg/sabertooth"
	"github.com/robotalks/saber.go/pkg/transport/loopback"
)

func TestOpenReleasesCurrentFirst(t *testing.T) {
	tr := loopback.New()
	require.NoError(t, tr.Open())
	session, err := sabertooth.New(sabertooth.DefaultConfig(), tr)
	require.NoError(t, err)

	conf := env.NewConfig()
	conf.Port = "bogus://controller"
	s := &Shell{Config: conf, Session: session}
	require.Error(t, s.Open())
	require.Nil(t, s.Session)
	require.False(t, tr.IsOpen())
	// stop packets from the release
	require.Equal(t, []byte{0x80, 0x00, 0x00, 0x00, 0x80, 0x04, 0x00, 0x04}, tr.Take())
}

func TestFormat(t *testing.T) {
	info := sabertooth.Info{Port: "/dev/ttyACM0", BaudRate: 9600, Address: 128, State: "open"}
	testCases := []struct {
		name string
		json bool
		res  interface{}
		out  string
	}{
		{"ok", false, nil, "OK"},
		{"ok json", true, nil, "{}"},
		{"value", false, 42, "42"},
		{"info", false, info, info.String()},
		{"info json", true, info,
			`{"port":"/dev/ttyACM0","baud_rate":9600,"address":128,"timeout":0,"state":"open"}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := (&Shell{OutputJSON: tc.json}).Format(tc.res)
			require.NoError(t, err)
			require.Equal(t, tc.out, out)
		})
	}
}
