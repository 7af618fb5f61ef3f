package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	"github.com/miiarobot/miia.go/pkg/proto"
)

// SensorsTopic is the per-host topic snapshots are published under.
const SensorsTopic = "sensors"

// DefaultInterval between sensor polls.
const DefaultInterval = time.Second

// HostID returns the unique ID identifying this host.
func HostID() string {
	id, err := machineid.ID()
	if err != nil {
		panic(err)
	}
	return id
}

// TopicFor builds the snapshot topic for a host.
func TopicFor(hostID string) string {
	return hostID + "/" + SensorsTopic
}

// Source provides the current sensor snapshot, refreshing it first.
// Implemented by *bot.Bot.
type Source interface {
	RefreshSensors() error
	Sensors() proto.Snapshot
}

// Feed polls a snapshot source and publishes each reading as JSON.
// It implements framework.Runnable.
type Feed struct {
	Queue    *Queue
	Source   Source
	HostID   string
	Interval time.Duration
}

// NewFeed creates a Feed for the local host.
func NewFeed(q *Queue, src Source) *Feed {
	return &Feed{
		Queue:    q,
		Source:   src,
		HostID:   HostID(),
		Interval: DefaultInterval,
	}
}

// Run polls until the context is canceled. A failed refresh is logged
// and skipped; the previous snapshot is never re-published.
func (f *Feed) Run(ctx context.Context) error {
	interval := f.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	topic := TopicFor(f.HostID)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := f.Source.RefreshSensors(); err != nil {
				glog.Warningf("sensor refresh failed: %v", err)
				continue
			}
			payload, err := json.Marshal(f.Source.Sensors())
			if err != nil {
				return err
			}
			f.Queue.Pub(topic, payload)
		}
	}
}
