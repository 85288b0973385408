// Package telemetry tracks process-wide counters shared between the event
// pipeline and the command handlers.
package telemetry

import (
	"sync/atomic"
	"time"
)

// DiscoverFunc returns the device paths currently visible to the bridge.
// A fresh lookup is performed for every snapshot.
type DiscoverFunc func() []string

// Context holds the mutable state that crosses concurrency boundaries:
// the monotonic event counter and the process start time. It is created
// once in main and passed by reference to the codec and the API layer.
type Context struct {
	startTime  time.Time
	eventCount atomic.Uint64
	simulate   bool
	discover   DiscoverFunc
}

// New creates a telemetry context. discover may be nil, in which case
// snapshots report no devices.
func New(simulate bool, discover DiscoverFunc) *Context {
	return &Context{
		startTime: time.Now(),
		simulate:  simulate,
		discover:  discover,
	}
}

// NextSequence increments the event counter and returns the new value.
// Safe for concurrent use.
func (c *Context) NextSequence() uint64 {
	return c.eventCount.Add(1)
}

// EventCount returns the number of events emitted so far.
func (c *Context) EventCount() uint64 {
	return c.eventCount.Load()
}

// Simulate reports whether the process runs the synthetic event source.
func (c *Context) Simulate() bool {
	return c.simulate
}

// Snapshot is the status payload sent to observers on connect and in
// response to get_status. It is computed on demand and never cached.
type Snapshot struct {
	Type       string   `json:"type"`
	Devices    []string `json:"devices"`
	Uptime     int64    `json:"uptime"`
	EventCount uint64   `json:"event_count"`
	Simulate   bool     `json:"simulate"`
}

// Snapshot builds a fresh status snapshot, including a new device lookup.
func (c *Context) Snapshot() Snapshot {
	devices := []string{}
	if c.discover != nil {
		if found := c.discover(); found != nil {
			devices = found
		}
	}
	return Snapshot{
		Type:       "status",
		Devices:    devices,
		Uptime:     int64(time.Since(c.startTime).Seconds()),
		EventCount: c.eventCount.Load(),
		Simulate:   c.simulate,
	}
}
