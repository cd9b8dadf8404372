package env

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/saber.go/pkg/sabertooth"
	"github.com/robotalks/saber.go/pkg/transport/serial"
	"github.com/robotalks/saber.go/pkg/transport/tcp"
	"github.com/robotalks/saber.go/pkg/transport/websocket"
)

func TestLoadEnv(t *testing.T) {
	vars := map[string]string{
		"SABER_PORT":     "tcp://bridge:4000",
		"SABER_BAUD":     "38400",
		"SABER_ADDRESS":  "130",
		"SABER_TIMEOUT":  "250ms",
		"SABER_MQTT_URL": "mqtt://broker:1883/robots/",
		"SABER_ID":       "rover",
	}
	var c Config
	loadEnv(&c, func(key string) string { return vars[key] })
	require.Equal(t, Config{
		Port:          "tcp://bridge:4000",
		BaudRate:      38400,
		Address:       130,
		Timeout:       250 * time.Millisecond,
		ID:            "rover",
		MQTTBrokerURL: "mqtt://broker:1883/robots/",
	}, c)

	c = Config{BaudRate: 9600}
	loadEnv(&c, func(key string) string {
		if key == "SABER_BAUD" {
			return "fast"
		}
		return ""
	})
	require.Equal(t, 9600, c.BaudRate)
}

func TestSessionConfig(t *testing.T) {
	c := NewConfig()
	c.Address = 136
	_, err := c.SessionConfig()
	require.True(t, errors.Is(err, sabertooth.ErrInvalidAddress))

	c.Address = 1000
	_, err = c.SessionConfig()
	require.Error(t, err)

	c.Address, c.BaudRate = 129, 4800
	_, err = c.SessionConfig()
	require.True(t, errors.Is(err, sabertooth.ErrInvalidBaudRate))

	c.BaudRate = 115200
	conf, err := c.SessionConfig()
	require.NoError(t, err)
	require.Equal(t, sabertooth.Address(129), conf.Address)
	require.Equal(t, 115200, conf.BaudRate)
}

func TestNewTransport(t *testing.T) {
	testCases := []struct {
		port   string
		expect interface{}
	}{
		{"/dev/ttyUSB0", &serial.Transport{}},
		{"COM3", &serial.Transport{}},
		{"tcp://10.0.0.2:4000", &tcp.Transport{}},
		{"ws://10.0.0.2/serial", &websocket.Transport{}},
		{"wss://10.0.0.2/serial", &websocket.Transport{}},
	}
	for _, tc := range testCases {
		c := &Config{Port: tc.port}
		tr, err := c.NewTransport()
		require.NoError(t, err)
		require.IsType(t, tc.expect, tr, tc.port)
	}
	tr, err := (&Config{Port: "tcp://10.0.0.2:4000"}).NewTransport()
	require.NoError(t, err)
	require.Equal(t, "10.0.0.2:4000", tr.(*tcp.Transport).Address)

	_, err = (&Config{}).NewTransport()
	require.Error(t, err)
	_, err = (&Config{Port: "udp://x"}).NewTransport()
	require.Error(t, err)
}

func TestControllerID(t *testing.T) {
	require.Equal(t, "rover", (&Config{ID: "rover"}).ControllerID())
	require.NotEmpty(t, (&Config{}).ControllerID())
}
