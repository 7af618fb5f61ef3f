package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/miiarobot/miia.go/pkg/proto"
	"github.com/miiarobot/miia.go/pkg/telemetry"
)

var (
	mqttURL = "mqtt://localhost:1883/miia/"
)

func init() {
	if val := os.Getenv("MIIA_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := telemetry.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}

	q.Sub("+/"+telemetry.SensorsTopic, func(topic string, payload []byte) {
		var snap proto.Snapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			log.Printf("%s: bad snapshot: %v", topic, err)
			return
		}
		log.Printf("%s: button=%v distance=%d", topic, snap.Button, snap.Distance)
	})
	<-(chan struct{})(nil)
}
