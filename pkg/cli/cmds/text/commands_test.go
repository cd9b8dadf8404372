package text

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/saber.go/pkg/sabertooth"
	"github.com/robotalks/saber.go/pkg/telemetry"
	"github.com/robotalks/saber.go/pkg/transport/loopback"
)

func openSession(t *testing.T) (*sabertooth.Session, *loopback.Transport) {
	tr := loopback.New()
	require.NoError(t, tr.Open())
	s, err := sabertooth.New(sabertooth.DefaultConfig(), tr)
	require.NoError(t, err)
	return s, tr
}

func TestText(t *testing.T) {
	s, tr := openSession(t)
	res, err := Text(s, []string{"m1:", "50"})
	require.NoError(t, err)
	require.Nil(t, res)
	require.Equal(t, []byte("m1: 50\r\n"), tr.Take())

	_, err = Text(s, nil)
	require.Error(t, err)
	require.Empty(t, tr.Take())
}

func TestQuery(t *testing.T) {
	s, tr := openSession(t)
	tr.Reply([]byte("P1: 150\r\n"))
	res, err := Query(s, []string{"p1:get"})
	require.NoError(t, err)
	require.Equal(t, `"P1: 150\r\n"`, res)
	require.Equal(t, []byte("p1:get\r\n"), tr.Take())

	res, err = Query(s, []string{"p1:get"})
	require.NoError(t, err)
	require.Equal(t, `""`, res)
}

func TestTelemetry(t *testing.T) {
	testCases := []struct {
		name  string
		fn    func(*sabertooth.Session, []string) (interface{}, error)
		args  []string
		reply string
		line  string
		out   telemetry.Reply
	}{
		{"temp", Temperature, []string{"M2"}, "M2:T31\r\n", "m2:gett\r\n",
			telemetry.Reply{Channel: "M2", Field: "T", Value: "31"}},
		{"battery", Battery, nil, "M1:B240\r\n", "m1:getb\r\n",
			telemetry.Reply{Channel: "M1", Field: "B", Value: "240"}},
		{"current", Current, []string{"m1"}, "M1:C-12\r\n", "m1:getc\r\n",
			telemetry.Reply{Channel: "M1", Field: "C", Value: "-12"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, tr := openSession(t)
			tr.Reply([]byte(tc.reply))
			res, err := tc.fn(s, tc.args)
			require.NoError(t, err)
			require.Equal(t, tc.out, res)
			require.Equal(t, []byte(tc.line), tr.Take())
		})
	}
}

func TestTelemetryErrors(t *testing.T) {
	s, tr := openSession(t)
	_, err := Temperature(s, []string{"x1"})
	require.Error(t, err)
	_, err = Temperature(s, []string{"mx"})
	require.Error(t, err)
	require.Empty(t, tr.Take())

	_, err = Battery(s, nil)
	require.Equal(t, telemetry.ErrEmptyReply, err)
}
