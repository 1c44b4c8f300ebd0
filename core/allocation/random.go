package allocation

import (
	"math/rand/v2"
	"time"

	"github.com/kilianp07/ferry/core/model"
)

// Chooser draws a uniform integer in [0,n). *rand.Rand satisfies it.
type Chooser interface {
	IntN(n int) int
}

// NewChooser returns a PCG-backed Chooser. A zero seed uses the current time.
func NewChooser(seed int64) Chooser {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
}

// RandomFit selects uniformly among the lanes with enough room.
type RandomFit struct {
	rng Chooser
}

// NewRandomFit returns a RandomFit drawing from rng, or from a time-seeded
// source when rng is nil.
func NewRandomFit(rng Chooser) *RandomFit {
	if rng == nil {
		rng = NewChooser(0)
	}
	return &RandomFit{rng: rng}
}

func (*RandomFit) Strategy() StrategyType { return StrategyRandom }

func (r *RandomFit) SelectLane(length int, lanes []model.Lane, capacity int) int {
	var suitable []int
	for i := range lanes {
		if lanes[i].Fits(length, capacity) {
			suitable = append(suitable, i)
		}
	}
	if len(suitable) == 0 {
		return NoLane
	}
	return suitable[r.rng.IntN(len(suitable))]
}
