package allocation

import (
	"cmp"
	"slices"

	"github.com/kilianp07/ferry/core/logger"
	"github.com/kilianp07/ferry/core/model"
)

// move is one undo log entry: vehicle was taken from lane from and appended
// to lane to.
type move struct {
	vehicle model.Vehicle
	from    int
	to      int
}

// MoveObserver is notified of each relocation move and of each rollback.
type MoveObserver func(v model.Vehicle, from, to int, undone bool)

// Relocator frees lane space by moving small cars to other lanes.
type Relocator struct {
	logger  logger.Logger
	observe MoveObserver
}

// NewRelocator returns a Relocator logging to log.
func NewRelocator(log logger.Logger) *Relocator {
	return &Relocator{logger: log}
}

// SetObserver registers fn to be called for every move and rollback.
func (r *Relocator) SetObserver(fn MoveObserver) {
	r.observe = fn
}

// AttemptRelocation moves small cars out of lanes[target], largest first,
// until at least required cm are freed. Each car goes to the first other lane
// with room; cars with no destination stay where they are. On success the
// moves are kept. Otherwise every move is undone in reverse order, returning
// each car to the end of the target lane, and false is returned.
func (r *Relocator) AttemptRelocation(target, required int, lanes []model.Lane, capacity int) bool {
	var undo []move
	freed := 0
	for _, v := range smallCarsBySize(lanes[target]) {
		dest := destinationLane(v.Length, target, lanes, capacity)
		if dest == NoLane {
			continue
		}
		lanes[target].Remove(v.Seq)
		lanes[dest].Append(v)
		undo = append(undo, move{vehicle: v, from: target, to: dest})
		r.notify(v, target, dest, false)
		freed += v.Length
		if freed >= required {
			r.logger.Infof("relocation: freed %dcm in lane %d by moving %d small cars", freed, target, len(undo))
			return true
		}
	}
	r.rollback(undo, lanes)
	if len(undo) > 0 {
		r.logger.Debugf("relocation: lane %d freed only %d of %dcm, %d moves undone", target, freed, required, len(undo))
	}
	return false
}

func (r *Relocator) rollback(undo []move, lanes []model.Lane) {
	for i := len(undo) - 1; i >= 0; i-- {
		m := undo[i]
		lanes[m.to].Remove(m.vehicle.Seq)
		lanes[m.from].Append(m.vehicle)
		r.notify(m.vehicle, m.to, m.from, true)
	}
}

func (r *Relocator) notify(v model.Vehicle, from, to int, undone bool) {
	if r.observe != nil {
		r.observe(v, from, to, undone)
	}
}

// PlaceWithRearrangement scans lanes in order and returns the first one that
// either has room for a vehicle of the given length or can be given room by
// AttemptRelocation. Lane membership only changes when relocation succeeds.
func (r *Relocator) PlaceWithRearrangement(length int, lanes []model.Lane, capacity int) int {
	for i := range lanes {
		free := capacity - lanes[i].Load()
		if free >= length {
			return i
		}
		required := length - free
		if required <= 0 {
			return i
		}
		if r.AttemptRelocation(i, required, lanes, capacity) {
			return i
		}
	}
	return NoLane
}

// smallCarsBySize returns the lane's small cars ordered by length, longest
// first. Equal lengths keep their lane order.
func smallCarsBySize(l model.Lane) []model.Vehicle {
	var cars []model.Vehicle
	for _, v := range l.Vehicles {
		if v.IsSmallCar() {
			cars = append(cars, v)
		}
	}
	slices.SortStableFunc(cars, func(a, b model.Vehicle) int {
		return cmp.Compare(b.Length, a.Length)
	})
	return cars
}

// destinationLane returns the first lane other than exclude with room for
// length, or NoLane.
func destinationLane(length, exclude int, lanes []model.Lane, capacity int) int {
	for i := range lanes {
		if i == exclude {
			continue
		}
		if lanes[i].Fits(length, capacity) {
			return i
		}
	}
	return NoLane
}
