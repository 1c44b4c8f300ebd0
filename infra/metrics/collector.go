package metrics

import (
	"time"

	"github.com/kilianp07/ferry/core/events"
	coremetrics "github.com/kilianp07/ferry/core/metrics"
	"github.com/kilianp07/ferry/internal/eventbus"
)

// EventRecorder forwards allocation events to the recorder interfaces of a
// sink. Publish records synchronously, so every event reaches the sink.
type EventRecorder struct {
	sink coremetrics.MetricsSink
	now  func() time.Time
}

// NewEventRecorder returns an EventRecorder for sink. A nil sink records
// nothing.
func NewEventRecorder(sink coremetrics.MetricsSink) *EventRecorder {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &EventRecorder{sink: sink, now: time.Now}
}

// Publish implements eventbus.Publisher.
func (r *EventRecorder) Publish(ev eventbus.Event) {
	switch e := ev.(type) {
	case events.PlacementEvent:
		if rec, ok := r.sink.(coremetrics.PlacementRecorder); ok {
			_ = rec.RecordPlacement(coremetrics.PlacementEvent{
				RunID:    e.RunID,
				Lane:     e.Lane,
				Length:   e.Vehicle.Length,
				Category: string(e.Vehicle.Category),
				Via:      e.Via,
				Time:     r.now(),
			})
		}
	case events.RelocationEvent:
		if rec, ok := r.sink.(coremetrics.RelocationRecorder); ok {
			_ = rec.RecordRelocation(coremetrics.RelocationEvent{
				RunID:  e.RunID,
				From:   e.From,
				To:     e.To,
				Length: e.Vehicle.Length,
				Undone: e.Undone,
				Time:   r.now(),
			})
		}
	case events.OverflowEvent:
		if rec, ok := r.sink.(coremetrics.OverflowRecorder); ok {
			_ = rec.RecordOverflow(coremetrics.OverflowEvent{
				RunID:    e.RunID,
				Length:   e.Vehicle.Length,
				Category: string(e.Vehicle.Category),
				Time:     r.now(),
			})
		}
	}
}
