package crossmwm

import (
	"mwmgraph/pkg/mapfeature"
	"mwmgraph/pkg/vehicle"
)

// EdgeEstimator assigns a leap-weight-wave edge weight to lengthMeters
// of featureID's polyline, for vehicle type vt. Implementations must
// never return a negative weight.
type EdgeEstimator interface {
	Weight(featureID mapfeature.FeatureID, vt vehicle.Type, lengthMeters float64) float64
}

// SpeedEstimator is the default EdgeEstimator: weight is travel time,
// distance divided by speed. SpeedKMPH looks up the feature's speed for
// vt; a non-positive result is treated as 1 km/h to keep weights finite.
type SpeedEstimator struct {
	SpeedKMPH func(featureID mapfeature.FeatureID, vt vehicle.Type) float64
}

// Weight implements EdgeEstimator.
func (s SpeedEstimator) Weight(featureID mapfeature.FeatureID, vt vehicle.Type, lengthMeters float64) float64 {
	speed := s.SpeedKMPH(featureID, vt)
	if speed <= 0 {
		speed = 1
	}
	metersPerSecond := speed * 1000 / 3600
	return lengthMeters / metersPerSecond
}
