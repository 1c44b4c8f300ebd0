package events

import "github.com/kilianp07/ferry/core/model"

// Placement paths reported in PlacementEvent.Via.
const (
	ViaDirect     = "direct"
	ViaRearranged = "rearranged"
)

// PlacementEvent is published for each vehicle assigned to a lane.
type PlacementEvent struct {
	RunID   string
	Vehicle model.Vehicle
	Lane    int
	Via     string
}

// OverflowEvent is published when a vehicle fits nowhere.
type OverflowEvent struct {
	RunID   string
	Vehicle model.Vehicle
}
