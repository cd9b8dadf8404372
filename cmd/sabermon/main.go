package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/golang/protobuf/proto"
	"github.com/golang/protobuf/ptypes/wrappers"

	"github.com/robotalks/saber.go/pkg/bridge/mqtt"
)

var (
	mqttURL = "mqtt://localhost:1883/saber/"
)

func init() {
	if val := os.Getenv("SABER_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

// decode renders a payload by the trailing topic name.
func decode(topic string, payload []byte) (string, error) {
	var msg proto.Message
	switch {
	case strings.HasSuffix(topic, "/meta"):
		return string(payload), nil
	case strings.HasSuffix(topic, "/stop"):
		return "stop", nil
	case strings.HasSuffix(topic, "/text"), strings.HasSuffix(topic, "/query"), strings.HasSuffix(topic, "/error"):
		msg = &wrappers.StringValue{}
	case strings.HasSuffix(topic, "/reply"):
		msg = &wrappers.BytesValue{}
	default:
		msg = &wrappers.Int32Value{}
	}
	if err := proto.Unmarshal(payload, msg); err != nil {
		return "", err
	}
	return proto.CompactTextString(msg), nil
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if err = q.Connect(); err != nil {
		log.Fatalln(err)
	}

	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		out, err := decode(topic, payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		log.Printf("%s: %s", topic, out)
	}))
	<-(chan struct{})(nil)
}
