package loopback

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/saber.go/pkg/sabertooth"
)

func TestClosed(t *testing.T) {
	tr := New()
	require.False(t, tr.IsOpen())
	_, err := tr.Write([]byte{1})
	require.Equal(t, ErrClosed, err)
	_, err = tr.Read(make([]byte, 1))
	require.Equal(t, ErrClosed, err)
	require.Equal(t, ErrClosed, tr.Flush())
	require.NoError(t, tr.Close())
}

func TestReplies(t *testing.T) {
	tr := New().Reply([]byte("abc")).Reply([]byte("d"))
	require.NoError(t, tr.Open())
	buf := make([]byte, 2)
	n, err := tr.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "ab", string(buf[:n]))
	n, err = tr.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "c", string(buf[:n]))
	n, err = tr.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "d", string(buf[:n]))
	n, err = tr.Read(buf)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestPackets(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Open())
	pkt, err := sabertooth.Encode(sabertooth.DefaultAddress, sabertooth.Forward2, 127)
	require.NoError(t, err)
	_, err = pkt.WriteTo(tr)
	require.NoError(t, err)
	require.NoError(t, tr.Flush())

	pkts, err := tr.Packets()
	require.NoError(t, err)
	require.Equal(t, []sabertooth.Packet{pkt}, pkts)
	require.Equal(t, Stats{Opens: 1, Writes: 1, Flushes: 1}, tr.Stats())
	require.Equal(t, pkt.Bytes(), tr.Take())
	require.Empty(t, tr.Written())
}

func TestFailures(t *testing.T) {
	tr := New()
	tr.OpenErr = errors.New("busy")
	require.Error(t, tr.Open())
	tr.OpenErr = nil
	require.NoError(t, tr.Open())

	tr.FailWriteAfter = 1
	_, err := tr.Write([]byte{1})
	require.NoError(t, err)
	_, err = tr.Write([]byte{2})
	require.Error(t, err)
	require.Equal(t, []byte{1}, tr.Written())

	tr.CloseErr = errors.New("stuck")
	require.Error(t, tr.Close())
	require.True(t, tr.IsOpen())
	tr.CloseErr = nil
	require.NoError(t, tr.Close())
	require.False(t, tr.IsOpen())
}
