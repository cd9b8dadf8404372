package sabertooth

import (
	"bytes"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	fx "github.com/robotalks/saber.go/pkg/framework"
)

// Line control bytes and timing.
const (
	// WakeByte triggers the autobaud detection of the controller.
	WakeByte byte = 0xAA
	// SettleDelay is the time the controller needs after waking up
	// or switching baud rate.
	SettleDelay = 200 * time.Millisecond
	// DefaultTimeout is the default read timeout.
	DefaultTimeout = 100 * time.Millisecond
)

// ErrReleased indicates the session has been released and can't be reopened.
var ErrReleased = errors.New("session released")

// sleep is replaced in tests to observe settle delays.
var sleep = time.Sleep

// Config defines the session configuration.
type Config struct {
	// Port identifies the device, e.g. /dev/ttyACM0 or tcp://host:port.
	Port string
	// BaudRate is one of 2400, 9600, 19200, 38400, 115200.
	BaudRate int
	// Address is the controller address, 128 thru 135.
	Address Address
	// Timeout bounds reads in text mode.
	Timeout time.Duration
}

// DefaultConfig returns the factory settings.
func DefaultConfig() Config {
	return Config{
		BaudRate: DefaultBaudRate,
		Address:  DefaultAddress,
		Timeout:  DefaultTimeout,
	}
}

// Validate checks address and baud rate.
func (c *Config) Validate() error {
	if err := c.Address.Validate(); err != nil {
		return err
	}
	if _, err := BaudIndex(c.BaudRate); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return errors.Errorf("negative timeout %v", c.Timeout)
	}
	return nil
}

// State is the lifecycle state of a Session.
type State int

// Session states.
const (
	StateClosed State = iota
	StateOpen
	StateConfigured
	StateActive
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateConfigured:
		return "configured"
	case StateActive:
		return "active"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Session binds a controller address to a Transport.
// A Session must not be used from multiple goroutines concurrently.
type Session struct {
	config    Config
	transport Transport
	state     State
	released  bool
}

// New validates the config and creates a closed Session.
// No bytes are sent until Open.
func New(conf Config, t Transport) (*Session, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errors.New("transport required")
	}
	if conf.Timeout == 0 {
		conf.Timeout = DefaultTimeout
	}
	if err := t.SetBaudRate(conf.BaudRate); err != nil {
		return nil, transportErr("set baud rate", err)
	}
	if err := t.SetReadTimeout(conf.Timeout); err != nil {
		return nil, transportErr("set read timeout", err)
	}
	return &Session{config: conf, transport: t}, nil
}

// Connect creates a Session, opens it and configures the baud rate.
// If anything fails after the transport is opened, the session is released.
func Connect(conf Config, t Transport) (*Session, error) {
	s, err := New(conf, t)
	if err != nil {
		return nil, err
	}
	if err = s.Open(); err == nil {
		err = s.SetBaudrate(conf.BaudRate)
	}
	if err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

// With connects a Session, runs fn and always releases the Session
// afterwards, stopping both motors before closing the transport.
func With(conf Config, t Transport, fn func(*Session) error) error {
	s, err := Connect(conf, t)
	if err != nil {
		return err
	}
	defer s.Release()
	return fn(s)
}

// Config returns the current configuration.
func (s *Session) Config() Config {
	return s.config
}

// State returns the lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Open opens the transport if needed and wakes the controller up.
// Wake bytes are sent on every call.
func (s *Session) Open() error {
	if s.released {
		return ErrReleased
	}
	if !s.transport.IsOpen() {
		if err := s.transport.Open(); err != nil {
			return transportErr("open", err)
		}
		glog.Infof("opened %s at %d bps", s.config.Port, s.config.BaudRate)
	}
	if err := s.write([]byte{WakeByte, WakeByte}); err != nil {
		return err
	}
	sleep(SettleDelay)
	if s.state == StateClosed {
		s.state = StateOpen
	}
	return nil
}

// SetBaudrate switches the controller and the transport to another baud rate.
// An unsupported rate fails without sending anything. Once the command is
// sent the controller has switched, so the new rate is recorded even when
// the transport fails to follow.
func (s *Session) SetBaudrate(rate int) error {
	index, err := BaudIndex(rate)
	if err != nil {
		return err
	}
	if err = s.send(SetBaudRate, index); err != nil {
		return err
	}
	if err = s.transport.SetBaudRate(rate); err != nil {
		glog.Warningf("%s baud rate changed to %d, transport still at %d: %v", s.config.Port, rate, s.config.BaudRate, err)
		s.config.BaudRate = rate
		return transportErr("set baud rate", err)
	}
	if err = s.write([]byte{WakeByte}); err != nil {
		return err
	}
	sleep(SettleDelay)
	if rate != s.config.BaudRate {
		glog.Infof("%s baud rate changed %d -> %d", s.config.Port, s.config.BaudRate, rate)
	}
	s.config.BaudRate = rate
	if s.state < StateConfigured {
		s.state = StateConfigured
	}
	return nil
}

// SetRamp sends the ramping command with value 0..127.
func (s *Session) SetRamp(value byte) error {
	return s.send(Ramp, value)
}

// Drive drives a motor at percent speed, -100..100.
// Speeds beyond 100% are rejected.
func (s *Session) Drive(m Motor, percent int) error {
	cmd, msg, err := MotorCommand(m, percent)
	if err != nil {
		return err
	}
	if err = s.send(cmd, msg); err != nil {
		return err
	}
	s.state = StateActive
	return nil
}

// DriveBoth drives motor 1 then motor 2. It's not atomic: when motor 1
// fails, motor 2 is not commanded.
func (s *Session) DriveBoth(percent1, percent2 int) error {
	if err := s.Drive(Motor1, percent1); err != nil {
		return err
	}
	return s.Drive(Motor2, percent2)
}

// Stop stops both motors.
func (s *Session) Stop() error {
	return s.DriveBoth(0, 0)
}

// IndependentDrive drives motor 1 (left) and motor 2 (right) with
// direction "fwd" or "rev". Speeds are clamped into 0..100.
// It returns the number of bytes sent.
func (s *Session) IndependentDrive(dirLeft string, speedLeft int, dirRight string, speedRight int) (int, error) {
	left, err := ParseDirection(dirLeft, Forward1)
	if err != nil {
		return 0, err
	}
	right, err := ParseDirection(dirRight, Forward2)
	if err != nil {
		return 0, err
	}
	return s.sendPair(left, speedLeft, right, speedRight)
}

// MixedDrive drives in mixed mode, surge "fwd"/"rev" and yaw "left"/"right".
// Speeds are clamped into 0..100. It returns the number of bytes sent.
func (s *Session) MixedDrive(dirSurge string, speedSurge int, dirYaw string, speedYaw int) (int, error) {
	surge, err := ParseDirection(dirSurge, ForwardMixed)
	if err != nil {
		return 0, err
	}
	yaw, err := ParseTurn(dirYaw)
	if err != nil {
		return 0, err
	}
	return s.sendPair(surge, speedSurge, yaw, speedYaw)
}

func (s *Session) sendPair(cmd1 Command, speed1 int, cmd2 Command, speed2 int) (int, error) {
	msg1, err := ScaleSpeed(Clamped, speed1)
	if err != nil {
		return 0, err
	}
	msg2, err := ScaleSpeed(Clamped, speed2)
	if err != nil {
		return 0, err
	}
	if err = s.send(cmd1, msg1); err != nil {
		return 0, err
	}
	if err = s.send(cmd2, msg2); err != nil {
		return PacketSize, err
	}
	s.state = StateActive
	return 2 * PacketSize, nil
}

// Close closes the transport. It's safe to call multiple times.
func (s *Session) Close() error {
	s.state = StateClosed
	if !s.transport.IsOpen() {
		return nil
	}
	if err := s.transport.Close(); err != nil {
		return transportErr("close", err)
	}
	glog.Infof("closed %s", s.config.Port)
	return nil
}

// Release stops both motors and closes the transport. Failures are logged
// and never returned, so it's safe in deferred cleanup. A released
// Session can't be opened again.
func (s *Session) Release() {
	defer func() {
		if r := recover(); r != nil {
			glog.Errorf("release %s: %v", s.config.Port, r)
		}
	}()
	s.released = true
	var errs fx.AggregatedError
	if s.transport.IsOpen() {
		errs.Add(s.Stop())
	}
	errs.Add(s.Close())
	if err := errs.Aggregate(); err != nil {
		glog.Warningf("release %s: %v", s.config.Port, err)
	}
}

// Info describes the session for display.
type Info struct {
	Port     string        `json:"port"`
	BaudRate int           `json:"baud_rate"`
	Address  Address       `json:"address"`
	Timeout  time.Duration `json:"timeout"`
	State    string        `json:"state"`
}

// Info returns the connection info.
func (s *Session) Info() Info {
	return Info{
		Port:     s.config.Port,
		BaudRate: s.config.BaudRate,
		Address:  s.config.Address,
		Timeout:  s.config.Timeout,
		State:    s.state.String(),
	}
}

// String implements fmt.Stringer.
func (i Info) String() string {
	var w bytes.Buffer
	fmt.Fprintln(&w, "Sabertooth Motor Controller")
	fmt.Fprintf(&w, "  port: %s\n", i.Port)
	fmt.Fprintf(&w, "  baudrate: %d bps\n", i.BaudRate)
	fmt.Fprintf(&w, "  address: %d\n", i.Address)
	fmt.Fprintf(&w, "  state: %s", i.State)
	return w.String()
}

func (s *Session) send(cmd Command, msg byte) error {
	pkt, err := Encode(s.config.Address, cmd, msg)
	if err != nil {
		return err
	}
	glog.V(2).Infof("SND %v", pkt)
	if _, err = pkt.WriteTo(s.transport); err != nil {
		return transportErr("write", err)
	}
	return transportErr("flush", s.transport.Flush())
}

func (s *Session) write(b []byte) error {
	_, err := s.transport.Write(b)
	return transportErr("write", err)
}
