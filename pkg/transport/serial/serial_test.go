package serial

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

// Flush relies on Port.Drain.
var _ interface{ Drain() error } = serial.Port(nil)

func TestClosedTransport(t *testing.T) {
	tr := New("/dev/saber-does-not-exist")
	require.False(t, tr.IsOpen())
	require.NoError(t, tr.Close())

	_, err := tr.Write([]byte{0xaa})
	require.Equal(t, ErrNotOpen, err)
	_, err = tr.Read(make([]byte, 1))
	require.Equal(t, ErrNotOpen, err)
	require.Equal(t, ErrNotOpen, tr.Flush())

	require.NoError(t, tr.SetBaudRate(38400))
	require.NoError(t, tr.SetReadTimeout(time.Second))
	require.Equal(t, 38400, tr.mode().BaudRate)
	require.Equal(t, 8, tr.mode().DataBits)
}

func TestOpenErrors(t *testing.T) {
	require.Error(t, New("").Open())
	tr := New("/dev/saber-does-not-exist")
	require.Error(t, tr.Open())
	require.False(t, tr.IsOpen())
}
