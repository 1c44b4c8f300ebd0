// Package events defines the allocation events emitted on the event bus.
//
// Available event types:
//   - PlacementEvent: a vehicle was assigned to a lane
//   - RelocationEvent: a small car was moved (or moved back) between lanes
//   - OverflowEvent: a vehicle could not be placed
//   - RunEvent: an allocation run completed
package events
