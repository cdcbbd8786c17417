// Package roadgraph is the road graph abstraction: an
// in-memory view of one tile's road network as junctions and directed
// edges, queryable by point proximity, with a transient fake-edge
// overlay for routing endpoints.
package roadgraph

import (
	"sort"

	"mwmgraph/pkg/geomutil"
	"mwmgraph/pkg/mapfeature"
)

// Edge is a directed traversal of one segment of one road feature, or a
// fake edge standing in for part of one. A fake edge always carries
// mapfeature.InvalidFeatureID; when PartOfReal is also true it inherits
// its weight from the real edge it was cut from, cached in
// FakeSpeedKMPH since FeatureID can no longer be used to look it up.
type Edge struct {
	FeatureID     mapfeature.FeatureID
	Forward       bool
	PartOfReal    bool
	FakeSpeedKMPH float64
	SegmentIndex  uint32
	StartJunction geomutil.Junction
	EndJunction   geomutil.Junction
}

// Vicinity pairs a real edge near a query point with that point's
// projection onto the edge, the unit closest-edge search and
// add-fake-edges exchange.
type Vicinity struct {
	Edge      Edge
	Projected geomutil.Junction
}

// Reverse returns e traversed in the opposite direction: endpoints swap,
// Forward flips, FeatureID and PartOfReal are preserved.
func Reverse(e Edge) Edge {
	e.Forward = !e.Forward
	e.StartJunction, e.EndJunction = e.EndJunction, e.StartJunction
	return e
}

// Equal reports field-wise equality.
func (e Edge) Equal(o Edge) bool {
	return e.FeatureID == o.FeatureID &&
		e.Forward == o.Forward &&
		e.PartOfReal == o.PartOfReal &&
		e.SegmentIndex == o.SegmentIndex &&
		e.StartJunction.Equal(o.StartJunction) &&
		e.EndJunction.Equal(o.EndJunction)
}

// Less gives the lexicographic ordering over (feature_id, segment_index,
// forward, endpoints) a fake edge needs.
func (e Edge) Less(o Edge) bool {
	if e.FeatureID != o.FeatureID {
		return e.FeatureID < o.FeatureID
	}
	if e.SegmentIndex != o.SegmentIndex {
		return e.SegmentIndex < o.SegmentIndex
	}
	if e.Forward != o.Forward {
		return o.Forward // false < true, i.e. backward sorts first
	}
	if !e.StartJunction.Equal(o.StartJunction) {
		return e.StartJunction.Less(o.StartJunction)
	}
	return e.EndJunction.Less(o.EndJunction)
}

// RoadInfo is per-feature metadata relevant to routing.
type RoadInfo struct {
	Junctions     []geomutil.Junction
	SpeedKMPH     float64
	Bidirectional bool
}

// Mode controls whether a one-way feature emits both directions.
type Mode int

const (
	ObeyOnewayTag Mode = iota
	IgnoreOnewayTag
)

// TypesHolder is an unordered set of classification tag strings exposed
// by edge_types/junction_types/feature_types for weighting or rendering
// callers, using the same tag-name convention the vehicle package's
// classification tables draw on: "highway-<value>" for the raw OSM
// highway tag, "hwtag-<profile>" per vehicle type the feature is a road
// for, and "hwtag-oneway" when any profile treats it as one-way.
type TypesHolder struct {
	types map[string]struct{}
}

func newTypesHolder() TypesHolder {
	return TypesHolder{types: make(map[string]struct{})}
}

func (h TypesHolder) add(t string) { h.types[t] = struct{}{} }

// Has reports whether t is a member of h.
func (h TypesHolder) Has(t string) bool {
	_, ok := h.types[t]
	return ok
}

// Types returns h's members in sorted order.
func (h TypesHolder) Types() []string {
	out := make([]string, 0, len(h.types))
	for t := range h.types {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
