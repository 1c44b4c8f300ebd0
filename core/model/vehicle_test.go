package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		length int
		want   Category
	}{
		{0, CategoryUnknown},
		{349, CategoryUnknown},
		{350, CategorySmallCar},
		{399, CategorySmallCar},
		{400, CategoryMediumCar},
		{449, CategoryMediumCar},
		{450, CategoryLargeCar},
		{500, CategoryVan},
		{599, CategoryVan},
		{600, CategoryLorry},
		{2000, CategoryLorry},
		{2001, CategoryUnknown},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, Classify(tt.length), "length %d", tt.length)
	}
}

func TestVehicleClasses_Contiguous(t *testing.T) {
	classes := VehicleClasses()
	require.Len(t, classes, 5)
	for i := 1; i < len(classes); i++ {
		assert.Equal(t, classes[i-1].Upper, classes[i].Lower)
	}
	classes[0].Category = "mutated"
	assert.Equal(t, CategorySmallCar, Classify(360), "table must not be mutable through the copy")
}

func TestNewVehicle(t *testing.T) {
	v := NewVehicle(3, 455)
	assert.Equal(t, 3, v.Seq)
	assert.Equal(t, CategoryLargeCar, v.Category)
	assert.False(t, v.IsSmallCar())
	assert.True(t, NewVehicle(0, 360).IsSmallCar())
	assert.Equal(t, "455cm (Large car)", v.String())
}

func TestLane(t *testing.T) {
	var l Lane
	assert.Equal(t, 0, l.Load())
	l.Append(NewVehicle(0, 360))
	l.Append(NewVehicle(1, 500))
	l.Append(NewVehicle(2, 370))
	assert.Equal(t, 1230, l.Load())
	assert.True(t, l.Fits(270, 1500))
	assert.False(t, l.Fits(271, 1500))

	require.True(t, l.Remove(1))
	assert.False(t, l.Remove(1))
	assert.Equal(t, []Vehicle{NewVehicle(0, 360), NewVehicle(2, 370)}, l.Vehicles)

	snap := l.Snapshot()
	snap[0] = NewVehicle(9, 999)
	assert.Equal(t, 0, l.Vehicles[0].Seq)
}
