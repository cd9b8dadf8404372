package websocket

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func newBridge(t *testing.T, received chan<- []byte, reply []byte) (*httptest.Server, string) {
	srv := httptest.NewServer(websocket.Handler(func(conn *websocket.Conn) {
		var msg []byte
		for {
			if err := websocket.Message.Receive(conn, &msg); err != nil {
				return
			}
			received <- msg
			if reply != nil {
				websocket.Message.Send(conn, reply)
			}
		}
	}))
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestReadWrite(t *testing.T) {
	received := make(chan []byte, 4)
	srv, url := newBridge(t, received, []byte("M1:C120\r\n"))
	defer srv.Close()

	tr := New(url)
	require.NoError(t, tr.SetReadTimeout(time.Second))
	require.NoError(t, tr.Open())
	defer tr.Close()

	n, err := tr.Write([]byte{0x80, 0x00, 0x3f, 0x3f})
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.NoError(t, tr.Flush())
	require.Equal(t, []byte{0x80, 0x00, 0x3f, 0x3f}, <-received)

	buf := make([]byte, 4)
	n, err = tr.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "M1:C", string(buf[:n]))
	n, err = tr.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "120\r", string(buf[:n]))
	n, err = tr.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "\n", string(buf[:n]))
}

func TestReadTimeout(t *testing.T) {
	received := make(chan []byte, 4)
	srv, url := newBridge(t, received, nil)
	defer srv.Close()

	tr := New(url)
	require.NoError(t, tr.SetReadTimeout(20*time.Millisecond))
	require.NoError(t, tr.Open())
	defer tr.Close()

	n, err := tr.Read(make([]byte, 100))
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestClosed(t *testing.T) {
	tr := New("ws://127.0.0.1:1/")
	require.False(t, tr.IsOpen())
	require.NoError(t, tr.Close())
	_, err := tr.Write([]byte{0xaa})
	require.Equal(t, ErrNotOpen, err)
	_, err = tr.Read(make([]byte, 1))
	require.Equal(t, ErrNotOpen, err)
	require.Equal(t, ErrNotOpen, tr.Flush())
}
