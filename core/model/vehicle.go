package model

import "fmt"

// Category is the label assigned to a vehicle from its length.
type Category string

const (
	CategorySmallCar  Category = "Small car"
	CategoryMediumCar Category = "Medium car"
	CategoryLargeCar  Category = "Large car"
	CategoryVan       Category = "Van"
	CategoryLorry     Category = "Lorry"
	// CategoryUnknown is returned for lengths outside every class range.
	CategoryUnknown Category = "Unknown"
)

// VehicleClass maps a half-open length range [Lower, Upper) to a category.
type VehicleClass struct {
	Category Category
	Lower    int // inclusive, in cm
	Upper    int // exclusive, in cm
}

// vehicleClasses is evaluated in order; the first matching class wins.
// It is never mutated after package initialization.
var vehicleClasses = [...]VehicleClass{
	{Category: CategorySmallCar, Lower: 350, Upper: 400},
	{Category: CategoryMediumCar, Lower: 400, Upper: 450},
	{Category: CategoryLargeCar, Lower: 450, Upper: 500},
	{Category: CategoryVan, Lower: 500, Upper: 600},
	{Category: CategoryLorry, Lower: 600, Upper: 2001},
}

// VehicleClasses returns a copy of the classification table in evaluation order.
func VehicleClasses() []VehicleClass {
	out := make([]VehicleClass, len(vehicleClasses))
	copy(out, vehicleClasses[:])
	return out
}

// Classify returns the category of a vehicle of the given length in cm.
// Lengths matching no class yield CategoryUnknown.
func Classify(length int) Category {
	for _, c := range vehicleClasses {
		if c.Contains(length) {
			return c.Category
		}
	}
	return CategoryUnknown
}

// Contains reports whether length falls in the class range.
func (c VehicleClass) Contains(length int) bool {
	return c.Lower <= length && length < c.Upper
}

// Vehicle is a vehicle waiting to board. Seq is its position in the input
// sequence and identifies it for the lifetime of an allocation run.
type Vehicle struct {
	Seq      int
	Length   int // in cm
	Category Category
}

// NewVehicle builds a vehicle and classifies it once.
func NewVehicle(seq, length int) Vehicle {
	return Vehicle{Seq: seq, Length: length, Category: Classify(length)}
}

// IsSmallCar reports whether the vehicle may be relocated to free lane space.
func (v Vehicle) IsSmallCar() bool {
	return v.Category == CategorySmallCar
}

// String renders the vehicle as "<length>cm (<category>)".
func (v Vehicle) String() string {
	return fmt.Sprintf("%dcm (%s)", v.Length, v.Category)
}
