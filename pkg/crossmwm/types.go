// Package crossmwm detects tile border crossings and precomputes
// all-pairs leap weights between them, so online routing across tile
// boundaries reduces to local search plus a table lookup instead of a
// graph search spanning every tile on the path.
package crossmwm

import (
	"math"

	"mwmgraph/pkg/geomutil"
	"mwmgraph/pkg/mapfeature"
	"mwmgraph/pkg/vehicle"
)

// NoRoute marks an (enter, exit) pair with no path inside the tile.
const NoRoute = math.MaxFloat64

// Segment identifies one directed traversal of one feature's polyline
// segment: an enter Segment is oriented into the tile, an exit Segment
// out of it.
type Segment struct {
	FeatureID    mapfeature.FeatureID
	SegmentIndex uint32
	Forward      bool
}

// Less orders Segments by (FeatureID, SegmentIndex, Forward). The
// leap-weight wave does not use it: its queue breaks equal distances by
// joint id (see waveHeapItem.less).
func (s Segment) Less(o Segment) bool {
	if s.FeatureID != o.FeatureID {
		return s.FeatureID < o.FeatureID
	}
	if s.SegmentIndex != o.SegmentIndex {
		return s.SegmentIndex < o.SegmentIndex
	}
	return !s.Forward && o.Forward
}

// Transition is a directed border crossing recorded while scanning one
// feature's polyline against a tile's border polygon.
type Transition struct {
	FeatureID     mapfeature.FeatureID
	SegmentIndex  uint32
	RoadMask      vehicle.Mask
	OneWayMask    vehicle.Mask
	EnterSide     bool
	PointInside   geomutil.Point
	PointOutside  geomutil.Point
}

// AsSegment views t as the Segment it contributes to a vehicle type's
// enter or exit list: an enter transition's Segment runs forward into
// the tile, an exit transition's Segment runs forward out of it, both
// along the feature's own natural direction at SegmentIndex.
func (t Transition) AsSegment() Segment {
	return Segment{FeatureID: t.FeatureID, SegmentIndex: t.SegmentIndex, Forward: true}
}
