package mapfeature

import (
	"fmt"

	"github.com/paulmach/osm"

	"mwmgraph/pkg/geomutil"
)

// OSMSource is the default Reader: an in-memory set of OSM ways plus
// the coordinates (and, optionally, altitudes) of their referenced
// nodes. It takes already-resolved way/node data, rather than scanning
// a PBF file itself, so tests and the build CLI don't need to depend on
// a PBF decoder at all.
type OSMSource struct {
	ways      []osm.Way
	nodePoint map[osm.NodeID]geomutil.Point
	nodeAlt   map[osm.NodeID]geomutil.Altitude
}

// NewOSMSource builds a Reader over ways, resolving each referenced
// node's coordinates (and altitude, if present) from the given maps.
func NewOSMSource(ways []osm.Way, nodePoint map[osm.NodeID]geomutil.Point, nodeAlt map[osm.NodeID]geomutil.Altitude) *OSMSource {
	return &OSMSource{ways: ways, nodePoint: nodePoint, nodeAlt: nodeAlt}
}

// ForEachFeature invokes fn once per way, in the order the ways were
// given to NewOSMSource. Ways with fewer than 2 resolvable nodes are
// skipped silently — an empty/degenerate feature is not an error.
func (s *OSMSource) ForEachFeature(fn func(Feature)) error {
	for i := range s.ways {
		f := &osmFeature{id: FeatureID(i), way: &s.ways[i], src: s}
		if len(f.resolvedNodes()) < 2 {
			continue
		}
		fn(f)
	}
	return nil
}

type osmFeature struct {
	id       FeatureID
	way      *osm.Way
	src      *OSMSource
	resolved []osm.NodeID
	parsed   bool
}

func (f *osmFeature) ID() FeatureID  { return f.id }
func (f *osmFeature) Tags() osm.Tags { return f.way.Tags }

// Bidirectional defaults to forward and backward both true unless
// oneway is implied or stated: it is the feature's own polyline
// traversability, independent of any particular vehicle profile's
// one-way verdict.
func (f *osmFeature) Bidirectional() bool {
	hw := f.way.Tags.Find("highway")
	if hw == "motorway" || hw == "motorway_link" || f.way.Tags.Find("junction") == "roundabout" {
		return false
	}
	switch f.way.Tags.Find("oneway") {
	case "yes", "true", "1", "-1", "reverse", "reversible":
		return false
	}
	return true
}

// resolvedNodes returns the subset of the way's node IDs that have
// known coordinates, caching the result.
func (f *osmFeature) resolvedNodes() []osm.NodeID {
	if f.resolved != nil || f.parsed {
		return f.resolved
	}
	ids := make([]osm.NodeID, 0, len(f.way.Nodes))
	for _, wn := range f.way.Nodes {
		if _, ok := f.src.nodePoint[wn.ID]; ok {
			ids = append(ids, wn.ID)
		}
	}
	f.resolved = ids
	return ids
}

// ParseGeometry resolves the way's node list into point data. resolution
// is accepted for interface compatibility with a tiered-geometry feature
// reader, but this in-memory source carries a single resolution.
func (f *osmFeature) ParseGeometry(resolution int) error {
	ids := f.resolvedNodes()
	if len(ids) < 2 {
		f.parsed = true
		return fmt.Errorf("feature %d: fewer than 2 resolvable points", f.id)
	}
	f.parsed = true
	return nil
}

func (f *osmFeature) PointCount() int { return len(f.resolved) }

func (f *osmFeature) Point(i int) geomutil.Point {
	return f.src.nodePoint[f.resolved[i]]
}

func (f *osmFeature) Altitude(i int) geomutil.Altitude {
	if alt, ok := f.src.nodeAlt[f.resolved[i]]; ok {
		return alt
	}
	return geomutil.UnknownAltitude
}
