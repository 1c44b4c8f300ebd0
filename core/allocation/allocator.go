package allocation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/ferry/core/events"
	"github.com/kilianp07/ferry/core/logger"
	"github.com/kilianp07/ferry/core/metrics"
	"github.com/kilianp07/ferry/core/model"
	"github.com/kilianp07/ferry/internal/eventbus"
)

// Allocator drives a vehicle sequence through lane selection and, when that
// fails, through the relocation fallback. An Allocator is not safe for
// concurrent use when its selector keeps state (RandomFit).
type Allocator struct {
	selector  LaneSelector
	rearrange bool
	sink      metrics.MetricsSink
	pub       eventbus.Publisher
	logger    logger.Logger
}

// NewAllocator creates an allocator using selector for direct placement.
// sink and pub are optional. Events are handed to pub synchronously, in the
// order they happen.
func NewAllocator(selector LaneSelector, sink metrics.MetricsSink, pub eventbus.Publisher, log logger.Logger) (*Allocator, error) {
	if selector == nil || log == nil {
		return nil, fmt.Errorf("allocation: nil parameter provided to NewAllocator")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Allocator{selector: selector, rearrange: true, sink: sink, pub: pub, logger: log}, nil
}

// SetRearrangement enables or disables the relocation fallback. It is
// enabled by default.
func (a *Allocator) SetRearrangement(enabled bool) {
	a.rearrange = enabled
}

// Strategy returns the active lane selection strategy.
func (a *Allocator) Strategy() StrategyType { return a.selector.Strategy() }

// Run places every vehicle of in, in input order. The returned error is
// non-nil only when ctx is canceled before all vehicles are processed.
func (a *Allocator) Run(ctx context.Context, in Input) (Result, error) {
	runID := uuid.NewString()
	start := time.Now()
	lanes := model.NewLanes(in.LaneCount)
	var overflow []model.Vehicle
	var st Stats

	rel := NewRelocator(a.logger)
	rel.SetObserver(func(v model.Vehicle, from, to int, undone bool) {
		if undone {
			st.Relocations--
		} else {
			st.Relocations++
		}
		a.publish(events.RelocationEvent{RunID: runID, Vehicle: v, From: from, To: to, Undone: undone})
	})

	a.logger.Infof("allocation %s: %d vehicles, %d lanes of %dcm, strategy %s",
		runID, len(in.Lengths), in.LaneCount, in.Capacity, a.selector.Strategy())

	for seq, length := range in.Lengths {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("allocation %s interrupted at vehicle %d: %w", runID, seq, err)
		}
		v := model.NewVehicle(seq, length)
		lane := a.selector.SelectLane(length, lanes, in.Capacity)
		via := events.ViaDirect
		if lane == NoLane && a.rearrange {
			lane = rel.PlaceWithRearrangement(length, lanes, in.Capacity)
			via = events.ViaRearranged
		}
		if lane == NoLane {
			overflow = append(overflow, v)
			a.logger.Warnf("vehicle %d (%s) overflowed", seq, v)
			a.publish(events.OverflowEvent{RunID: runID, Vehicle: v})
			continue
		}
		lanes[lane].Append(v)
		if via == events.ViaRearranged {
			st.Rearranged++
		}
		a.logger.Debugw("vehicle placed", map[string]any{
			"run_id": runID, "seq": seq, "length": length, "lane": lane, "via": via,
		})
		a.publish(events.PlacementEvent{RunID: runID, Vehicle: v, Lane: lane, Via: via})
	}

	res := Result{
		RunID:    runID,
		Strategy: a.selector.Strategy(),
		Capacity: in.Capacity,
		Lanes:    make([][]model.Vehicle, len(lanes)),
		Overflow: overflow,
	}
	for i := range lanes {
		res.Lanes[i] = lanes[i].Snapshot()
	}
	res.Stats = computeStats(res, in, st)

	a.logger.Infof("allocation %s done: %d placed, %d overflow (%dcm), %d relocated",
		runID, res.Stats.Placed, res.Stats.Overflow, res.Stats.OverflowLength, res.Stats.Relocations)
	a.publish(events.RunEvent{
		RunID:     runID,
		Strategy:  string(res.Strategy),
		Vehicles:  res.Stats.Vehicles,
		Placed:    res.Stats.Placed,
		Overflow:  res.Stats.Overflow,
		Relocated: res.Stats.Relocations,
	})
	if err := a.sink.RecordRun(runResult(res, start, time.Now())); err != nil {
		a.logger.Warnf("record run %s: %v", runID, err)
	}
	return res, nil
}

func (a *Allocator) publish(ev eventbus.Event) {
	if a.pub != nil {
		a.pub.Publish(ev)
	}
}

func runResult(res Result, start, end time.Time) metrics.RunResult {
	return metrics.RunResult{
		RunID:          res.RunID,
		Strategy:       string(res.Strategy),
		Capacity:       res.Capacity,
		LaneLoads:      res.LaneLoads(),
		Vehicles:       res.Stats.Vehicles,
		Placed:         res.Stats.Placed,
		Rearranged:     res.Stats.Rearranged,
		Relocations:    res.Stats.Relocations,
		Overflow:       res.Stats.Overflow,
		OverflowLength: res.Stats.OverflowLength,
		Utilization:    res.Stats.Utilization,
		StartTime:      start,
		EndTime:        end,
	}
}
