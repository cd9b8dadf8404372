package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/saber.go/pkg/bridge/mqtt"
	"github.com/robotalks/saber.go/pkg/env"
	fx "github.com/robotalks/saber.go/pkg/framework"
)

var (
	telemetryInterval time.Duration
)

func init() {
	env.SetupFlags()
	env.SetupMQTTFlags()
	flag.DurationVar(&telemetryInterval, "telemetry", telemetryInterval, "Telemetry polling interval, 0 disables polling.")
}

func main() {
	flag.Parse()

	conf := env.Default()
	id := conf.ControllerID()
	q, err := mqtt.NewControllerQueue(conf.MQTTBrokerURL, id)
	if err != nil {
		glog.Exit(err)
	}
	defer q.Close()

	session := conf.MustConnect()
	b := mqtt.NewBridge(id, session, q)
	b.TelemetryInterval = telemetryInterval
	b.Attach(q)
	if err = q.Connect(); err != nil {
		session.Release()
		glog.Exitf("connect %s: %v", conf.MQTTBrokerURL, err)
	}
	glog.Infof("serving %s as %q", conf.Port, q.TopicPrefix+id)

	if err = fx.NewRunner().HandleSignals().Go(b).Wait(); err != nil {
		glog.Error(err)
	}
}
