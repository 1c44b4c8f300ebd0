package model

// Lane is an ordered row of vehicles on the deck.
type Lane struct {
	Vehicles []Vehicle
}

// Load returns the sum of vehicle lengths in the lane.
func (l Lane) Load() int {
	total := 0
	for _, v := range l.Vehicles {
		total += v.Length
	}
	return total
}

// Fits reports whether a vehicle of the given length can be appended without
// exceeding capacity.
func (l Lane) Fits(length, capacity int) bool {
	return l.Load()+length <= capacity
}

// Append adds the vehicle at the end of the lane.
func (l *Lane) Append(v Vehicle) {
	l.Vehicles = append(l.Vehicles, v)
}

// Remove deletes the vehicle with the given sequence number, preserving the
// order of the others. It returns false if the vehicle is not in the lane.
func (l *Lane) Remove(seq int) bool {
	for i, v := range l.Vehicles {
		if v.Seq == seq {
			l.Vehicles = append(l.Vehicles[:i], l.Vehicles[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of vehicles in the lane.
func (l Lane) Len() int { return len(l.Vehicles) }

// Snapshot returns a copy of the lane contents safe to hand to readers.
func (l Lane) Snapshot() []Vehicle {
	out := make([]Vehicle, len(l.Vehicles))
	copy(out, l.Vehicles)
	return out
}

// NewLanes creates count empty lanes.
func NewLanes(count int) []Lane {
	return make([]Lane, count)
}
