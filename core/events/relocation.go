package events

import "github.com/kilianp07/ferry/core/model"

// RelocationEvent is emitted for every small car moved out of a lane to free
// space. Undone is set when the move is rolled back after a failed attempt.
type RelocationEvent struct {
	RunID   string
	Vehicle model.Vehicle
	From    int
	To      int
	Undone  bool
}
