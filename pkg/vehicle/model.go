// Package vehicle classifies map features per vehicle profile
// (pedestrian, bicycle, car) and supplies each profile's max speed, as
// a small per-profile, per-country model registry.
package vehicle

import "github.com/paulmach/osm"

// Type identifies a vehicle profile.
type Type int

const (
	Pedestrian Type = iota
	Bicycle
	Car

	numTypes = int(Car) + 1
)

func (t Type) String() string {
	switch t {
	case Pedestrian:
		return "pedestrian"
	case Bicycle:
		return "bicycle"
	case Car:
		return "car"
	default:
		return "unknown"
	}
}

// Mask is a bitset over vehicle types.
type Mask uint8

// Bit constants, one per Type.
const (
	MaskPedestrian Mask = 1 << Mask(Pedestrian)
	MaskBicycle    Mask = 1 << Mask(Bicycle)
	MaskCar        Mask = 1 << Mask(Car)
)

func bitFor(t Type) Mask { return 1 << Mask(t) }

// Has reports whether the mask has the bit for t set.
func (m Mask) Has(t Type) bool { return m&bitFor(t) != 0 }

// Set returns m with t's bit set.
func (m Mask) Set(t Type) Mask { return m | bitFor(t) }

// IsZero reports whether no vehicle type is allowed.
func (m Mask) IsZero() bool { return m == 0 }

// Model classifies a feature for one vehicle type and reports its
// profile-wide maximum speed.
type Model interface {
	IsRoad(tags osm.Tags) bool
	IsOneWay(tags osm.Tags) bool
	MaxSpeedKMPH() float64
}
