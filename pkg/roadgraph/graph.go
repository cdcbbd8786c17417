package roadgraph

import (
	"github.com/paulmach/osm"

	"mwmgraph/pkg/geomutil"
	"mwmgraph/pkg/mapfeature"
	"mwmgraph/pkg/vehicle"
)

// Graph is an in-memory road network for one vehicle profile over one
// tile's features. It holds non-owning references to a
// mapfeature.Reader and a *vehicle.Bridge — callers that need several
// profiles over the same tile build one Graph per vehicle.Type, each
// sharing the same underlying Reader.
type Graph struct {
	bridge      *vehicle.Bridge
	vehicleType vehicle.Type
	mode        Mode

	roadInfo    map[mapfeature.FeatureID]RoadInfo
	featureTags map[mapfeature.FeatureID]osm.Tags
	vertexIndex map[uint64][]mapfeature.FeatureID
	index       *spatialIndex
}

// NewGraph builds a Graph over every feature reader yields that bridge
// classifies as a road for vehicleType, in mode. A feature is silently
// dropped — degenerate input is skipped, not an error — when its mask
// excludes vehicleType, its geometry fails to parse, or it resolves to
// fewer than two junctions.
func NewGraph(reader mapfeature.Reader, bridge *vehicle.Bridge, vehicleType vehicle.Type, mode Mode) (*Graph, error) {
	g := &Graph{
		bridge:      bridge,
		vehicleType: vehicleType,
		mode:        mode,
		roadInfo:    make(map[mapfeature.FeatureID]RoadInfo),
		featureTags: make(map[mapfeature.FeatureID]osm.Tags),
		vertexIndex: make(map[uint64][]mapfeature.FeatureID),
		index:       newSpatialIndex(),
	}

	err := reader.ForEachFeature(func(f mapfeature.Feature) {
		if !g.bridge.ClassifyRoad(f).Has(vehicleType) {
			return
		}
		if err := f.ParseGeometry(0); err != nil {
			return
		}
		junctions := mapfeature.Junctions(f)
		if len(junctions) < 2 {
			return
		}

		info := RoadInfo{
			Junctions:     junctions,
			SpeedKMPH:     bridge.MaxSpeedKMPH(vehicleType),
			Bidirectional: f.Bidirectional() && !bridge.ClassifyOneWay(f).Has(vehicleType),
		}
		g.roadInfo[f.ID()] = info
		g.featureTags[f.ID()] = f.Tags()
		g.index.insertFeature(f.ID(), info)
		g.indexVertices(f.ID(), junctions)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// indexVertices records, for every distinct location a feature's
// polyline visits, that the feature has a junction there. Buckets are
// keyed by geomutil.LocationKey so RegularOutgoingEdges/RegularIngoingEdges
// can find every feature touching a point without an exact-match scan
// over the whole tile.
func (g *Graph) indexVertices(fid mapfeature.FeatureID, junctions []geomutil.Junction) {
	seen := make(map[uint64]bool, len(junctions))
	for _, j := range junctions {
		key := geomutil.LocationKey(j.Point)
		if seen[key] {
			continue
		}
		seen[key] = true
		g.vertexIndex[key] = append(g.vertexIndex[key], fid)
	}
}

// RoadInfo returns the cached metadata for fid.
func (g *Graph) RoadInfo(fid mapfeature.FeatureID) (RoadInfo, bool) {
	info, ok := g.roadInfo[fid]
	return info, ok
}

// Mode returns the one-way handling this graph was built with.
func (g *Graph) Mode() Mode { return g.mode }

// tagsFeature adapts a bare osm.Tags value to vehicle.Feature so cached
// tags can be reclassified without holding on to the original
// mapfeature.Feature.
type tagsFeature struct{ tags osm.Tags }

func (f tagsFeature) Tags() osm.Tags { return f.tags }

// FeatureTypes returns fid's classification tags, derived from its raw
// OSM tags cached at NewGraph time: "highway-<value>", one
// "hwtag-<profile>" per vehicle type the bridge classifies it as a road
// for (independent of this Graph's own vehicleType), and "hwtag-oneway"
// if any profile treats it as one-way. Unknown fid yields an empty holder.
func (g *Graph) FeatureTypes(fid mapfeature.FeatureID) TypesHolder {
	h := newTypesHolder()
	tags, ok := g.featureTags[fid]
	if !ok {
		return h
	}
	if hw := tags.Find("highway"); hw != "" {
		h.add("highway-" + hw)
	}
	f := tagsFeature{tags: tags}
	roadMask := g.bridge.ClassifyRoad(f)
	for _, t := range []vehicle.Type{vehicle.Pedestrian, vehicle.Bicycle, vehicle.Car} {
		if roadMask.Has(t) {
			h.add("hwtag-" + t.String())
		}
	}
	if !g.bridge.ClassifyOneWay(f).IsZero() {
		h.add("hwtag-oneway")
	}
	return h
}

// EdgeTypes returns e's owning feature's classification tags. A fake
// edge carries mapfeature.InvalidFeatureID and yields an empty holder.
func (g *Graph) EdgeTypes(e Edge) TypesHolder {
	return g.FeatureTypes(e.FeatureID)
}

// JunctionTypes returns the union of FeatureTypes for every feature
// incident at j: a junction has no tags of its own in this model, so its
// types are those of the roads that meet there.
func (g *Graph) JunctionTypes(j geomutil.Junction) TypesHolder {
	h := newTypesHolder()
	g.ForEachFeatureClosestToCross(j.Point, func(fid mapfeature.FeatureID, _ RoadInfo) {
		for _, t := range g.FeatureTypes(fid).Types() {
			h.add(t)
		}
	})
	return h
}

// MaxSpeedKMPH returns this graph's vehicle profile's max speed.
func (g *Graph) MaxSpeedKMPH() float64 { return g.bridge.MaxSpeedKMPH(g.vehicleType) }

// SpeedKMPH returns e's speed: the owning real edge's speed when e is
// part_of_real, otherwise the graph's profile-wide max speed.
func (g *Graph) SpeedKMPH(e Edge) float64 {
	if e.PartOfReal {
		if e.FeatureID.Valid() {
			if info, ok := g.roadInfo[e.FeatureID]; ok {
				return info.SpeedKMPH
			}
		}
		return e.FakeSpeedKMPH
	}
	return g.MaxSpeedKMPH()
}

// RegularOutgoingEdges yields every real edge starting at j, across every
// feature with a vertex at j's point.
func (g *Graph) RegularOutgoingEdges(j geomutil.Junction) []Edge {
	var edges []Edge
	g.ForEachFeatureClosestToCross(j.Point, func(fid mapfeature.FeatureID, info RoadInfo) {
		forEachRealEdgeAtPoint(fid, info, j.Point, g.mode, loaderOutgoing, func(e Edge) {
			edges = append(edges, e)
		})
	})
	return edges
}

// RegularIngoingEdges yields every real edge ending at j.
func (g *Graph) RegularIngoingEdges(j geomutil.Junction) []Edge {
	var edges []Edge
	g.ForEachFeatureClosestToCross(j.Point, func(fid mapfeature.FeatureID, info RoadInfo) {
		forEachRealEdgeAtPoint(fid, info, j.Point, g.mode, loaderIngoing, func(e Edge) {
			edges = append(edges, e)
		})
	})
	return edges
}

// FakeOutgoingEdges yields the edges fakes currently has registered as
// starting at j. fakes is a per-request overlay obtained by the caller
// (see FakeOverlay) and is never owned by Graph, so concurrent requests
// against the same Graph never share fake-edge state.
func (g *Graph) FakeOutgoingEdges(j geomutil.Junction, fakes *FakeOverlay) []Edge {
	return fakes.OutgoingAt(j)
}

// FakeIngoingEdges yields the edges fakes currently has registered as
// ending at j.
func (g *Graph) FakeIngoingEdges(j geomutil.Junction, fakes *FakeOverlay) []Edge {
	return fakes.IngoingAt(j)
}

// OutgoingEdges is the union of regular and fake outgoing edges at j.
func (g *Graph) OutgoingEdges(j geomutil.Junction, fakes *FakeOverlay) []Edge {
	return append(g.RegularOutgoingEdges(j), g.FakeOutgoingEdges(j, fakes)...)
}

// IngoingEdges is the union of regular and fake ingoing edges at j.
func (g *Graph) IngoingEdges(j geomutil.Junction, fakes *FakeOverlay) []Edge {
	return append(g.RegularIngoingEdges(j), g.FakeIngoingEdges(j, fakes)...)
}

// FindClosestEdges returns up to count real edges nearest p, each paired
// with p's projection onto it, backed by the rtree spatial index.
func (g *Graph) FindClosestEdges(p geomutil.Point, count int) []Vicinity {
	return g.index.findClosest(p, count)
}

// ForEachFeatureClosestToCross invokes loader once for every feature
// whose polyline has a vertex equal to p (epsilon), pairing the feature
// id with its cached RoadInfo. RegularOutgoingEdges/RegularIngoingEdges
// are themselves built on this: the vertex index bucket keyed by p's
// quantized location is only a coarse candidate set, and hasVertexAt's
// PointsEqual check is what actually enforces the epsilon contract
// before a candidate reaches loader.
func (g *Graph) ForEachFeatureClosestToCross(p geomutil.Point, loader func(mapfeature.FeatureID, RoadInfo)) {
	for _, fid := range g.vertexIndex[geomutil.LocationKey(p)] {
		info := g.roadInfo[fid]
		if !hasVertexAt(info, p) {
			continue
		}
		loader(fid, info)
	}
}

// hasVertexAt reports whether info's polyline has a vertex within
// PointsEqualEpsilon of p.
func hasVertexAt(info RoadInfo, p geomutil.Point) bool {
	for _, j := range info.Junctions {
		if geomutil.PointsEqual(j.Point, p) {
			return true
		}
	}
	return false
}

// AddFakeEdges wires j into fakes at each vicinity's projected point
// (typically FindClosestEdges's result): for every Vicinity it adds a
// part_of_real fake stub connecting j to the projection (both
// directions, since j is an arbitrary query point rather than a
// one-way-tagged feature), then extends the projection on to the real
// edge's own endpoints — again both directions when the underlying
// feature allows reverse traversal — so j is actually reachable from,
// and can reach, the rest of the graph through that edge. fakes is the
// caller's own per-request overlay; it is never read from or stored on
// g, so two requests against the same Graph can run with independent
// overlays concurrently.
func (g *Graph) AddFakeEdges(j geomutil.Junction, vicinities []Vicinity, fakes *FakeOverlay) {
	for _, v := range vicinities {
		e := v.Edge
		speed := g.SpeedKMPH(Edge{PartOfReal: true, FeatureID: e.FeatureID, FakeSpeedKMPH: e.FakeSpeedKMPH})
		reverseAllowed := true
		if info, ok := g.roadInfo[e.FeatureID]; ok {
			reverseAllowed = info.Bidirectional || g.mode == IgnoreOnewayTag
		}

		addFakeStub(fakes, j, v.Projected, speed)
		addFakeStub(fakes, v.Projected, j, speed)

		addFakeStub(fakes, v.Projected, e.EndJunction, speed)
		if reverseAllowed {
			addFakeStub(fakes, e.EndJunction, v.Projected, speed)
		}

		addFakeStub(fakes, e.StartJunction, v.Projected, speed)
		if reverseAllowed {
			addFakeStub(fakes, v.Projected, e.StartJunction, speed)
		}
	}
}

// addFakeStub registers one part_of_real fake edge from -> to, with no
// real feature identity, at the given inherited speed, into fakes.
func addFakeStub(fakes *FakeOverlay, from, to geomutil.Junction, speedKMPH float64) {
	e := Edge{
		FeatureID:     mapfeature.InvalidFeatureID,
		Forward:       true,
		PartOfReal:    true,
		FakeSpeedKMPH: speedKMPH,
		StartJunction: from,
		EndJunction:   to,
	}
	fakes.addOutgoing(from.Point, e)
	fakes.addIngoing(to.Point, e)
}

// ResetFakes discards every fake edge fakes has accumulated since its
// last reset.
func (g *Graph) ResetFakes(fakes *FakeOverlay) { fakes.Reset() }

// ClearState discards all of fakes' transient per-request state.
// Currently that is exactly the fake overlay, but callers should prefer
// ClearState over ResetFakes so a future addition of other transient
// state doesn't require touching call sites.
func (g *Graph) ClearState(fakes *FakeOverlay) { fakes.Reset() }
