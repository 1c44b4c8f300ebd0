package allocation

import (
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/ferry/core/model"
)

// Input is the problem handed to an allocation run. Values are expected to be
// positive; validating them is the caller's job.
type Input struct {
	Capacity  int
	LaneCount int
	Lengths   []int
}

// TotalLength returns the sum of all vehicle lengths.
func (in Input) TotalLength() int {
	total := 0
	for _, l := range in.Lengths {
		total += l
	}
	return total
}

// Stats summarizes a run.
type Stats struct {
	Vehicles       int
	TotalLength    int
	Placed         int
	Rearranged     int // placements obtained through the relocation fallback
	Relocations    int // relocation moves kept after successful attempts
	Overflow       int
	OverflowLength int
	MeanLoad       float64
	LoadStdDev     float64
	Utilization    float64
}

// Result is a read-only snapshot of the final lane set and overflow list.
type Result struct {
	RunID    string
	Strategy StrategyType
	Capacity int
	Lanes    [][]model.Vehicle
	Overflow []model.Vehicle
	Stats    Stats
}

// LaneLoads returns the load of every lane in lane order.
func (r Result) LaneLoads() []int {
	loads := make([]int, len(r.Lanes))
	for i, vs := range r.Lanes {
		loads[i] = model.Lane{Vehicles: vs}.Load()
	}
	return loads
}

// OverflowLength returns the summed length of the overflow list.
func (r Result) OverflowLength() int {
	return model.Lane{Vehicles: r.Overflow}.Load()
}

// Utilization returns total load over total deck capacity.
func (r Result) Utilization() float64 {
	if len(r.Lanes) == 0 || r.Capacity <= 0 {
		return 0
	}
	total := 0
	for _, l := range r.LaneLoads() {
		total += l
	}
	return float64(total) / float64(r.Capacity*len(r.Lanes))
}

// computeStats fills the derived fields of s from the final result.
func computeStats(res Result, in Input, s Stats) Stats {
	s.Vehicles = len(in.Lengths)
	s.TotalLength = in.TotalLength()
	s.Overflow = len(res.Overflow)
	s.OverflowLength = res.OverflowLength()
	s.Placed = s.Vehicles - s.Overflow
	s.Utilization = res.Utilization()
	loads := res.LaneLoads()
	if len(loads) == 0 {
		return s
	}
	xs := make([]float64, len(loads))
	for i, l := range loads {
		xs[i] = float64(l)
	}
	s.MeanLoad, s.LoadStdDev = stat.PopMeanStdDev(xs, nil)
	return s
}
