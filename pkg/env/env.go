// Package env sets up a controller session from flags and environment.
package env

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/saber.go/pkg/sabertooth"
	"github.com/robotalks/saber.go/pkg/transport/serial"
	"github.com/robotalks/saber.go/pkg/transport/tcp"
	"github.com/robotalks/saber.go/pkg/transport/websocket"
)

// Config provides common options to open a controller session.
type Config struct {
	// Port is a serial device path, tcp://host:port or ws://host:port/path.
	Port     string
	BaudRate int
	Address  int
	Timeout  time.Duration

	// ID names the controller on the MQTT broker.
	ID string
	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
}

var defaultConfig = Config{
	Port:          "/dev/ttyACM0",
	BaudRate:      sabertooth.DefaultBaudRate,
	Address:       int(sabertooth.DefaultAddress),
	Timeout:       sabertooth.DefaultTimeout,
	MQTTBrokerURL: "mqtt://localhost:1883/saber/",
}

func init() {
	loadEnv(&defaultConfig, os.Getenv)
}

func loadEnv(c *Config, getenv func(string) string) {
	if val := getenv("SABER_PORT"); val != "" {
		c.Port = val
	}
	if val, err := strconv.Atoi(getenv("SABER_BAUD")); err == nil {
		c.BaudRate = val
	}
	if val, err := strconv.Atoi(getenv("SABER_ADDRESS")); err == nil {
		c.Address = val
	}
	if val, err := time.ParseDuration(getenv("SABER_TIMEOUT")); err == nil {
		c.Timeout = val
	}
	if val := getenv("SABER_MQTT_URL"); val != "" {
		c.MQTTBrokerURL = val
	}
	if val := getenv("SABER_ID"); val != "" {
		c.ID = val
	}
}

// SetupFlags sets command line flags for the session.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial device, tcp://host:port or ws://host:port/path.")
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Baud rate: 2400, 9600, 19200, 38400 or 115200.")
	flag.IntVar(&defaultConfig.Address, "address", defaultConfig.Address, "Controller address, 128 thru 135.")
	flag.DurationVar(&defaultConfig.Timeout, "timeout", defaultConfig.Timeout, "Read timeout of text mode queries.")
}

// SetupMQTTFlags sets command line flags for the MQTT bridge.
func SetupMQTTFlags() {
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Controller ID on the broker, machine id if empty.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// SessionConfig converts to the session configuration.
func (c *Config) SessionConfig() (sabertooth.Config, error) {
	if c.Address < 0 || c.Address > 255 {
		return sabertooth.Config{}, fmt.Errorf("address %d out of byte range", c.Address)
	}
	conf := sabertooth.Config{
		Port:     c.Port,
		BaudRate: c.BaudRate,
		Address:  sabertooth.Address(c.Address),
		Timeout:  c.Timeout,
	}
	return conf, conf.Validate()
}

// NewTransport selects the transport by the form of Port.
func (c *Config) NewTransport() (sabertooth.Transport, error) {
	switch {
	case c.Port == "":
		return nil, fmt.Errorf("port required")
	case strings.HasPrefix(c.Port, "tcp://"):
		return tcp.New(strings.TrimPrefix(c.Port, "tcp://")), nil
	case strings.HasPrefix(c.Port, "ws://"), strings.HasPrefix(c.Port, "wss://"):
		return websocket.New(c.Port), nil
	case strings.Contains(c.Port, "://"):
		return nil, fmt.Errorf("unknown port scheme: %q", c.Port)
	}
	return serial.New(c.Port), nil
}

// ControllerID returns ID or the machine id.
func (c *Config) ControllerID() string {
	if c.ID != "" {
		return c.ID
	}
	return MachineID()
}

// Connect opens a configured session.
func (c *Config) Connect() (*sabertooth.Session, error) {
	conf, err := c.SessionConfig()
	if err != nil {
		return nil, err
	}
	t, err := c.NewTransport()
	if err != nil {
		return nil, err
	}
	return sabertooth.Connect(conf, t)
}

// MustConnect opens a session and fails on error.
func (c *Config) MustConnect() *sabertooth.Session {
	s, err := c.Connect()
	if err != nil {
		glog.Exitf("connect %s: %v", c.Port, err)
	}
	return s
}
