package trace

// Config controls log collection behavior.
type Config struct {
	Enabled             bool    // master switch
	EventsEnabled       bool    // record Event entries alongside snapshots
	MinSnapshotInterval float64 // minimum minutes between snapshots
}

// Collector accumulates events and snapshots during a run. Snapshots are
// event-triggered but throttled to MinSnapshotInterval; an optional backup
// emitter may add fixed-interval snapshots through ForceSnapshot.
type Collector struct {
	Config    Config
	Events    []Event
	Snapshots []Snapshot

	lastSnapshotTime float64
}

// NewCollector creates a Collector ready for recording. The first snapshot
// is allowed immediately.
func NewCollector(config Config) *Collector {
	return &Collector{
		Config:           config,
		Events:           make([]Event, 0),
		Snapshots:        make([]Snapshot, 0),
		lastSnapshotTime: -config.MinSnapshotInterval,
	}
}

// RecordEvent appends a state-transition event.
func (c *Collector) RecordEvent(e Event) {
	if !c.Config.Enabled || !c.Config.EventsEnabled {
		return
	}
	c.Events = append(c.Events, e)
}

// ShouldSnapshot reports whether the throttle allows a snapshot at now.
func (c *Collector) ShouldSnapshot(now float64) bool {
	if !c.Config.Enabled {
		return false
	}
	return now-c.lastSnapshotTime >= c.Config.MinSnapshotInterval
}

// RecordSnapshot appends a snapshot and resets the throttle window.
func (c *Collector) RecordSnapshot(s Snapshot) {
	c.Snapshots = append(c.Snapshots, s)
	c.lastSnapshotTime = s.Time
}
