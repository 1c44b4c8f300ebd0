// Package allocation assigns vehicles to fixed-capacity deck lanes.
//
// A run feeds each vehicle, in input order, to the configured LaneSelector.
// When the selector finds no lane with enough room, the Relocator tries to
// free space in each lane in turn by moving that lane's small cars elsewhere;
// a relocation attempt that cannot free enough space is rolled back move by
// move so that the lanes are left as they were. Vehicles that fit nowhere go
// to the overflow list.
package allocation
