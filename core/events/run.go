package events

// RunEvent is emitted once an allocation run has processed every vehicle.
type RunEvent struct {
	RunID     string
	Strategy  string
	Vehicles  int
	Placed    int
	Overflow  int
	Relocated int
}
