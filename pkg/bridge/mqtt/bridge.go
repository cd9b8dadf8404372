// Package mqtt exposes a controller session on an MQTT broker.
//
// Topics are relative to the broker URL prefix and the controller ID:
//
//	ID/drive/1, ID/drive/2  <- Int32Value  speed percent, -100..100
//	ID/stop                 <- any         stop both motors
//	ID/baud                 <- Int32Value  baud rate
//	ID/ramp                 <- Int32Value  ramp value, 0..127
//	ID/text                 <- StringValue text mode line
//	ID/query                <- StringValue text mode line, reply on ID/reply
//	ID/reply                -> BytesValue  raw text mode reply
//	ID/error                -> StringValue rejected command
//	ID/telemetry/NAME       -> Int32Value  polled telemetry value
//	ID/meta                 -> JSON        retained session info
//
// Payloads are protobuf encoded well-known wrapper types.
package mqtt

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"
	"github.com/golang/protobuf/ptypes/wrappers"
	"github.com/pkg/errors"

	"github.com/robotalks/saber.go/pkg/sabertooth"
	"github.com/robotalks/saber.go/pkg/telemetry"
)

// Publisher publishes a payload on a topic relative to the prefix.
type Publisher interface {
	Publish(topic string, payload []byte, retain bool) error
}

// Bridge serves MQTT commands against a single session. All session calls
// happen on the goroutine running Serve.
type Bridge struct {
	ID        string
	Session   *sabertooth.Session
	Publisher Publisher
	// TelemetryInterval enables polling temperature and battery when > 0.
	TelemetryInterval time.Duration
	// TelemetryChannel is the text mode channel polled for telemetry.
	TelemetryChannel sabertooth.Channel

	reqCh chan request
}

type request struct {
	topic   string
	payload []byte
	meta    bool
}

var commandTopics = []string{"drive/+", "stop", "baud", "ramp", "text", "query"}

// NewBridge creates a Bridge publishing through pub.
func NewBridge(id string, s *sabertooth.Session, pub Publisher) *Bridge {
	return &Bridge{
		ID:               id,
		Session:          s,
		Publisher:        pub,
		TelemetryChannel: sabertooth.MotorChannel(2),
		reqCh:            make(chan request, 16),
	}
}

// NewControllerQueue creates a Queue for the controller id. The retained
// meta is cleared by the will when the connection drops.
func NewControllerQueue(brokerURL, id string) (*Queue, error) {
	opts, prefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	if opts.ClientID == "" {
		opts.SetClientID("saber:" + id)
	}
	opts.SetBinaryWill(prefix+id+"/meta", nil, 1, true)
	return NewQueue(opts, prefix), nil
}

// Topics returns the command topic patterns to subscribe.
func (b *Bridge) Topics() []string {
	topics := make([]string, len(commandTopics))
	for n, topic := range commandTopics {
		topics[n] = b.ID + "/" + topic
	}
	return topics
}

// Enqueue implements Handler, queueing a message for Serve.
// Messages are dropped when the queue is full.
func (b *Bridge) Enqueue(topic string, payload []byte) {
	select {
	case b.reqCh <- request{topic: topic, payload: payload}:
	default:
		glog.Warningf("%s: dropped, queue full", topic)
	}
}

// Attach subscribes the command topics on q and republishes meta on
// every connect.
func (b *Bridge) Attach(q *Queue) {
	for _, topic := range b.Topics() {
		q.Sub(topic, b.Enqueue)
	}
	q.OnConnect = func(*Queue) { b.RequestMeta() }
}

// Name implements framework.Named.
func (b *Bridge) Name() string {
	return "mqtt-bridge"
}

// Run implements framework.Runnable.
func (b *Bridge) Run(ctx context.Context) error {
	return b.Serve(ctx)
}

// RequestMeta asks Serve to publish session info.
func (b *Bridge) RequestMeta() {
	select {
	case b.reqCh <- request{meta: true}:
	default:
	}
}

// Serve handles queued requests until ctx is done, then releases the
// session and clears the retained meta.
func (b *Bridge) Serve(ctx context.Context) error {
	defer func() {
		b.Session.Release()
		if err := b.Publisher.Publish(b.ID+"/meta", nil, true); err != nil {
			glog.Warningf("clear meta: %v", err)
		}
	}()
	var ticker <-chan time.Time
	if b.TelemetryInterval > 0 {
		t := time.NewTicker(b.TelemetryInterval)
		defer t.Stop()
		ticker = t.C
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-b.reqCh:
			if req.meta {
				b.publishMeta()
			} else {
				b.Handle(req.topic, req.payload)
			}
		case <-ticker:
			b.PollTelemetry()
		}
	}
}

// Handle executes one command message. A rejected command is reported
// on ID/error and returned.
func (b *Bridge) Handle(topic string, payload []byte) error {
	err := b.handle(strings.TrimPrefix(topic, b.ID+"/"), payload)
	if err != nil {
		glog.Warningf("%s: %v", topic, err)
		b.publish("error", &wrappers.StringValue{Value: topic + ": " + err.Error()}, false)
	}
	return err
}

func (b *Bridge) handle(cmd string, payload []byte) error {
	switch {
	case strings.HasPrefix(cmd, "drive/"):
		motor, err := strconv.Atoi(strings.TrimPrefix(cmd, "drive/"))
		if err != nil {
			return errors.Errorf("invalid motor %q", cmd)
		}
		var speed wrappers.Int32Value
		if err = proto.Unmarshal(payload, &speed); err != nil {
			return err
		}
		return b.Session.Drive(sabertooth.Motor(motor), int(speed.Value))
	case cmd == "stop":
		return b.Session.Stop()
	case cmd == "baud":
		var rate wrappers.Int32Value
		if err := proto.Unmarshal(payload, &rate); err != nil {
			return err
		}
		if err := b.Session.SetBaudrate(int(rate.Value)); err != nil {
			return err
		}
		b.publishMeta()
		return nil
	case cmd == "ramp":
		var value wrappers.Int32Value
		if err := proto.Unmarshal(payload, &value); err != nil {
			return err
		}
		if value.Value < 0 || value.Value > sabertooth.MaxMessage {
			return errors.Wrapf(sabertooth.ErrInvalidMessage, "ramp %d", value.Value)
		}
		return b.Session.SetRamp(byte(value.Value))
	case cmd == "text":
		var line wrappers.StringValue
		if err := proto.Unmarshal(payload, &line); err != nil {
			return err
		}
		return b.Session.SendLine(line.Value)
	case cmd == "query":
		var line wrappers.StringValue
		if err := proto.Unmarshal(payload, &line); err != nil {
			return err
		}
		reply, err := b.Session.QueryLine(line.Value)
		if err != nil {
			return err
		}
		return b.publish("reply", &wrappers.BytesValue{Value: reply}, false)
	}
	return errors.Errorf("unknown command %q", cmd)
}

// PollTelemetry queries temperature and battery and publishes the values.
// Empty or unparsable replies are skipped.
func (b *Bridge) PollTelemetry() {
	queries := []struct {
		name  string
		query func(sabertooth.Channel) ([]byte, error)
	}{
		{"temperature", b.Session.QueryTemperature},
		{"battery", b.Session.QueryBattery},
	}
	for _, q := range queries {
		raw, err := q.query(b.TelemetryChannel)
		if err != nil {
			glog.Warningf("query %s: %v", q.name, err)
			continue
		}
		reply, err := telemetry.Parse(raw)
		if err != nil {
			glog.V(2).Infof("query %s: %v", q.name, err)
			continue
		}
		val, err := reply.Int()
		if err != nil {
			glog.V(2).Infof("query %s: %q: %v", q.name, reply.Value, err)
			continue
		}
		b.publish("telemetry/"+q.name, &wrappers.Int32Value{Value: int32(val)}, false)
	}
}

func (b *Bridge) publishMeta() {
	meta, err := json.Marshal(b.Session.Info())
	if err != nil {
		glog.Errorf("encode meta: %v", err)
		return
	}
	if err = b.Publisher.Publish(b.ID+"/meta", meta, true); err != nil {
		glog.Warningf("publish meta: %v", err)
	}
}

func (b *Bridge) publish(topic string, msg proto.Message, retain bool) error {
	payload, err := proto.Marshal(msg)
	if err != nil {
		return err
	}
	if err = b.Publisher.Publish(b.ID+"/"+topic, payload, retain); err != nil {
		glog.Warningf("publish %s: %v", topic, err)
		return err
	}
	return nil
}
