// miiapubd opens the robot, polls its sensors on an interval and
// publishes each snapshot over MQTT for miiamon.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/miiarobot/miia.go/pkg/bot"
	"github.com/miiarobot/miia.go/pkg/framework"
	"github.com/miiarobot/miia.go/pkg/link"
	"github.com/miiarobot/miia.go/pkg/telemetry"
)

//go-build: CGO_ENABLED=0

var (
	mqttURL  = "mqtt://localhost:1883/miia/"
	device   string
	baud     = link.DefaultBaud
	interval = telemetry.DefaultInterval
)

func init() {
	if val := os.Getenv("MIIA_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&device, "device", device, "Serial device of the robot.")
	flag.IntVar(&baud, "baud", baud, "Serial baud rate.")
	flag.DurationVar(&interval, "interval", interval, "Sensor poll interval.")
}

func main() {
	flag.Parse()
	if device == "" {
		log.Fatalln("-device required")
	}

	session := link.NewSession(device)
	session.Baud = baud
	b := bot.New(session)
	if err := b.Connect(); err != nil {
		log.Fatalln(err)
	}
	defer b.Close()

	q, err := telemetry.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.WaitTimeout(10*time.Second) && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	defer q.Close()

	feed := telemetry.NewFeed(q, b)
	feed.Interval = interval

	runner := framework.NewRunner().HandleSignals()
	runner.Go(framework.NamedRun("feed", feed))
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
