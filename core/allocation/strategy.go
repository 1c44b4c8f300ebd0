package allocation

import (
	"github.com/kilianp07/ferry/core/model"
)

// NoLane is returned by lane searches that found no suitable lane.
const NoLane = -1

// StrategyType identifies a lane selection policy.
type StrategyType string

const (
	StrategyFirst    StrategyType = "first"
	StrategyEmptiest StrategyType = "emptiest"
	StrategyFullest  StrategyType = "fullest"
	StrategyRandom   StrategyType = "random"
)

// Strategies returns the accepted strategy identifiers.
func Strategies() []StrategyType {
	return []StrategyType{StrategyFirst, StrategyEmptiest, StrategyFullest, StrategyRandom}
}

// ParseStrategy maps an identifier to a StrategyType. Unrecognized
// identifiers map to StrategyFirst and ok is false.
func ParseStrategy(s string) (t StrategyType, ok bool) {
	switch StrategyType(s) {
	case StrategyFirst, StrategyEmptiest, StrategyFullest, StrategyRandom:
		return StrategyType(s), true
	default:
		return StrategyFirst, false
	}
}

// LaneSelector picks the lane a vehicle of the given length is placed in
// without moving anything, or returns NoLane.
type LaneSelector interface {
	SelectLane(length int, lanes []model.Lane, capacity int) int
	Strategy() StrategyType
}

// NewLaneSelector returns the selector for t. rng is only used by the random
// strategy; a nil rng makes it draw from a time-seeded source.
func NewLaneSelector(t StrategyType, rng Chooser) LaneSelector {
	switch t {
	case StrategyEmptiest:
		return EmptiestFit{}
	case StrategyFullest:
		return FullestFit{}
	case StrategyRandom:
		return NewRandomFit(rng)
	default:
		return FirstFit{}
	}
}

// FirstFit selects the first lane in lane order with enough room.
type FirstFit struct{}

func (FirstFit) Strategy() StrategyType { return StrategyFirst }

func (FirstFit) SelectLane(length int, lanes []model.Lane, capacity int) int {
	for i := range lanes {
		if lanes[i].Fits(length, capacity) {
			return i
		}
	}
	return NoLane
}

// EmptiestFit selects the least loaded lane with enough room. Ties go to the
// earliest lane.
type EmptiestFit struct{}

func (EmptiestFit) Strategy() StrategyType { return StrategyEmptiest }

func (EmptiestFit) SelectLane(length int, lanes []model.Lane, capacity int) int {
	best, bestLoad := NoLane, capacity+1
	for i := range lanes {
		load := lanes[i].Load()
		if load+length <= capacity && load < bestLoad {
			best, bestLoad = i, load
		}
	}
	return best
}

// FullestFit selects the most loaded lane with enough room. Ties go to the
// earliest lane.
type FullestFit struct{}

func (FullestFit) Strategy() StrategyType { return StrategyFullest }

func (FullestFit) SelectLane(length int, lanes []model.Lane, capacity int) int {
	best, bestLoad := NoLane, -1
	for i := range lanes {
		load := lanes[i].Load()
		if load+length <= capacity && load > bestLoad {
			best, bestLoad = i, load
		}
	}
	return best
}
