package metrics

import (
	"time"
)

// RunResult summarizes a completed allocation run.
type RunResult struct {
	RunID          string
	Strategy       string
	Capacity       int
	LaneLoads      []int
	Vehicles       int
	Placed         int
	Rearranged     int // placements that needed the relocation fallback
	Relocations    int // small cars left in a new lane after a successful relocation
	Overflow       int
	OverflowLength int
	Utilization    float64 // total load / total capacity, in [0,1]
	StartTime      time.Time
	EndTime        time.Time
}

// MetricsSink records allocation runs for observability purposes.
type MetricsSink interface {
	RecordRun(res RunResult) error
}

// PlacementEvent records a vehicle assigned to a lane.
type PlacementEvent struct {
	RunID    string
	Lane     int
	Length   int
	Category string
	Via      string
	Time     time.Time
}

// PlacementRecorder records individual placements.
type PlacementRecorder interface {
	RecordPlacement(ev PlacementEvent) error
}

// RelocationEvent records a small car moved between lanes.
type RelocationEvent struct {
	RunID  string
	From   int
	To     int
	Length int
	Undone bool
	Time   time.Time
}

// RelocationRecorder records relocation moves and their rollbacks.
type RelocationRecorder interface {
	RecordRelocation(ev RelocationEvent) error
}

// OverflowEvent records a vehicle left off the deck.
type OverflowEvent struct {
	RunID    string
	Length   int
	Category string
	Time     time.Time
}

// OverflowRecorder records overflowed vehicles.
type OverflowRecorder interface {
	RecordOverflow(ev OverflowEvent) error
}

// NopSink implements MetricsSink and every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunResult) error              { return nil }
func (NopSink) RecordPlacement(PlacementEvent) error   { return nil }
func (NopSink) RecordRelocation(RelocationEvent) error { return nil }
func (NopSink) RecordOverflow(OverflowEvent) error     { return nil }
