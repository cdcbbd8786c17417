// Package mapfeature defines the feature-reader contract the routing
// core consumes and ships one concrete in-memory implementation backed
// by github.com/paulmach/osm tag/way/node types.
// The core itself never imports this package's concrete type — only
// the Feature/Reader interfaces.
package mapfeature

import (
	"math"

	"github.com/paulmach/osm"

	"mwmgraph/pkg/geomutil"
)

// FeatureID is an opaque identifier into the tile's feature table.
type FeatureID uint32

// InvalidFeatureID marks a fake edge's feature id.
const InvalidFeatureID = FeatureID(math.MaxUint32)

// Valid reports whether id identifies a real feature.
func (id FeatureID) Valid() bool { return id != InvalidFeatureID }

// Feature is one map object: an iterable polyline plus the tags the
// vehicle models classify.
type Feature interface {
	ID() FeatureID
	Tags() osm.Tags
	// ParseGeometry must be called before PointCount/Point/Altitude.
	ParseGeometry(resolution int) error
	PointCount() int
	Point(i int) geomutil.Point
	Altitude(i int) geomutil.Altitude
	// Bidirectional reports whether the feature's natural polyline can
	// be traversed in both directions irrespective of vehicle one-way
	// rules (i.e. the raw feature geometry, not a profile's verdict).
	Bidirectional() bool
}

// Reader iterates every feature of one tile, in the reader's own
// deterministic order.
type Reader interface {
	ForEachFeature(fn func(Feature)) error
}

// Junctions materializes a feature's polyline as a Junction slice.
// Convenience built on the Feature contract; every caller that needs
// the polyline as Junctions (the index builder, the road graph) goes
// through this so the "feature with zero points is skipped, not an
// error" rule lives in one place.
func Junctions(f Feature) []geomutil.Junction {
	n := f.PointCount()
	if n == 0 {
		return nil
	}
	js := make([]geomutil.Junction, n)
	for i := 0; i < n; i++ {
		js[i] = geomutil.Junction{Point: f.Point(i), Altitude: f.Altitude(i)}
	}
	return js
}
