// Package geomutil holds the planar geometry primitives shared by the
// routing core: points, altitudes, junctions and the location-key
// quantization used to coalesce coincident feature vertices.
package geomutil

import (
	"math"

	"github.com/paulmach/orb"
)

// Point is a planar coordinate in the map's projected coordinate system.
type Point = orb.Point

// PointsEqualEpsilon is the absolute tolerance used to compare points.
const PointsEqualEpsilon = 1e-6

// PointsEqual reports whether a and b are equal within PointsEqualEpsilon
// on each axis.
func PointsEqual(a, b Point) bool {
	return math.Abs(a[0]-b[0]) < PointsEqualEpsilon && math.Abs(a[1]-b[1]) < PointsEqualEpsilon
}

// PointLess gives the lexicographic ordering over points (x, then y),
// required so Junction can be used as an ordered map key.
func PointLess(a, b Point) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	return a[1] < b[1]
}

// DistSq returns the squared Euclidean distance between a and b. Squared
// distance is what closest-edge ranking needs, so callers avoid the sqrt.
func DistSq(a, b Point) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx + dy*dy
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Point) float64 {
	return math.Sqrt(DistSq(a, b))
}

// ProjectToSegment returns the closest point on segment AB to P, along
// with the projection ratio t in [0,1] (0 = at A, 1 = at B) and the
// squared distance from P to the projection.
func ProjectToSegment(p, a, b Point) (proj Point, t float64, distSq float64) {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a, 0, DistSq(p, a)
	}

	t = ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	proj = Point{a[0] + t*dx, a[1] + t*dy}
	return proj, t, DistSq(p, proj)
}

// Altitude is a signed integer metre value. UnknownAltitude is the
// sentinel used when a feature carries no altitude information.
type Altitude int32

// UnknownAltitude is the sentinel for "altitude not available".
const UnknownAltitude Altitude = math.MinInt32

// InterpolateAltitude linearly interpolates between a and b at ratio t,
// falling back to UnknownAltitude if either endpoint is unknown.
func InterpolateAltitude(a, b Altitude, t float64) Altitude {
	if a == UnknownAltitude || b == UnknownAltitude {
		return UnknownAltitude
	}
	return Altitude(math.Round(float64(a) + t*float64(b-a)))
}

// Junction is a node on the routing graph: a point plus its altitude.
// Identity and ordering are defined on Point alone; Altitude rides along
// for downstream consumers but never affects equality.
type Junction struct {
	Point    Point
	Altitude Altitude
}

// Equal reports whether two junctions are the same point under
// PointsEqual. Altitude is not compared.
func (j Junction) Equal(other Junction) bool {
	return PointsEqual(j.Point, other.Point)
}

// Less gives the lexicographic ordering of junctions by point, so
// Junction can key an ordered container.
func (j Junction) Less(other Junction) bool {
	return PointLess(j.Point, other.Point)
}

// PointCoordBits is the fixed-point resolution (in bits) used to
// quantize a coordinate for the location-key index. 22 bits per axis
// gives ~4M distinguishable values on each axis, comfortably finer than
// PointsEqualEpsilon over a single tile's extent.
const PointCoordBits = 22

// coordScale converts a floating coordinate into the quantization grid.
// It assumes coordinates are expressed in the same projected units the
// feature reader hands the core (the external map format's convention);
// the core only needs the quantization to be bit-exact and stable.
const coordScale = float64(int64(1) << (PointCoordBits - 1))

// LocationKey packs the quantized (x, y) of p into a single uint64: two
// vertices coincide for index-graph purposes iff their keys match. This
// is the sole coalescence criterion for Joint formation — no epsilon is
// applied at this stage; the grid itself is the epsilon.
func LocationKey(p Point) uint64 {
	qx := quantize(p[0])
	qy := quantize(p[1])
	return uint64(uint32(qx))<<32 | uint64(uint32(qy))
}

func quantize(v float64) int32 {
	scaled := math.Round(v * coordScale)
	if scaled > math.MaxInt32 {
		return math.MaxInt32
	}
	if scaled < math.MinInt32 {
		return math.MinInt32
	}
	return int32(scaled)
}
