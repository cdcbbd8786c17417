package roadgraph

import (
	"testing"

	"github.com/paulmach/osm"

	"mwmgraph/pkg/geomutil"
	"mwmgraph/pkg/mapfeature"
	"mwmgraph/pkg/vehicle"
)

// testFeature is a minimal mapfeature.Feature over an explicit point
// list, independent of the OSM-backed default reader.
type testFeature struct {
	id   mapfeature.FeatureID
	tags osm.Tags
	pts  []geomutil.Point
	bidi bool
}

func (f *testFeature) ID() mapfeature.FeatureID      { return f.id }
func (f *testFeature) Tags() osm.Tags                { return f.tags }
func (f *testFeature) ParseGeometry(int) error        { return nil }
func (f *testFeature) PointCount() int                { return len(f.pts) }
func (f *testFeature) Point(i int) geomutil.Point     { return f.pts[i] }
func (f *testFeature) Altitude(int) geomutil.Altitude { return geomutil.UnknownAltitude }
func (f *testFeature) Bidirectional() bool            { return f.bidi }

type testReader struct{ features []mapfeature.Feature }

func (r *testReader) ForEachFeature(fn func(mapfeature.Feature)) error {
	for _, f := range r.features {
		fn(f)
	}
	return nil
}

func residentialTags() osm.Tags {
	return osm.Tags{{Key: "highway", Value: "residential"}}
}

func onewayTags() osm.Tags {
	return osm.Tags{{Key: "highway", Value: "residential"}, {Key: "oneway", Value: "yes"}}
}

func testBridge(t *testing.T) *vehicle.Bridge {
	t.Helper()
	b, err := vehicle.NewBridge("Germany")
	if err != nil {
		t.Fatalf("NewBridge: %v", err)
	}
	return b
}

// TestOutgoingEdgesSymmetry covers scenario S2: a bidirectional feature's
// interior junction has exactly one forward and one backward outgoing
// edge, and the backward edge is the reverse of the neighbor's forward
// edge into it.
func TestOutgoingEdgesSymmetry(t *testing.T) {
	f := &testFeature{
		id:   0,
		tags: residentialTags(),
		pts:  []geomutil.Point{{0, 0}, {1, 0}, {2, 0}},
		bidi: true,
	}
	g, err := NewGraph(&testReader{features: []mapfeature.Feature{f}}, testBridge(t), vehicle.Car, ObeyOnewayTag)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}

	mid := geomutil.Junction{Point: geomutil.Point{1, 0}}
	out := g.RegularOutgoingEdges(mid)
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}

	var forward, backward *Edge
	for i := range out {
		e := out[i]
		if e.Forward {
			forward = &out[i]
		} else {
			backward = &out[i]
		}
	}
	if forward == nil || backward == nil {
		t.Fatalf("expected one forward and one backward edge, got %+v", out)
	}
	if !geomutil.PointsEqual(forward.EndJunction.Point, geomutil.Point{2, 0}) {
		t.Errorf("forward edge end = %v, want (2,0)", forward.EndJunction.Point)
	}
	if !geomutil.PointsEqual(backward.EndJunction.Point, geomutil.Point{0, 0}) {
		t.Errorf("backward edge end = %v, want (0,0)", backward.EndJunction.Point)
	}

	fromNeighbor := g.RegularOutgoingEdges(geomutil.Junction{Point: geomutil.Point{0, 0}})
	if len(fromNeighbor) != 1 {
		t.Fatalf("len(outgoing at (0,0)) = %d, want 1", len(fromNeighbor))
	}
	if rev := Reverse(fromNeighbor[0]); !rev.Equal(*backward) {
		t.Errorf("Reverse(%+v) = %+v, want the backward edge %+v", fromNeighbor[0], rev, *backward)
	}

	in := g.RegularIngoingEdges(mid)
	if len(in) != 2 {
		t.Fatalf("len(in) = %d, want 2", len(in))
	}
}

// TestOneWayObeyed covers scenario S6: with ObeyOnewayTag, a one-way
// feature exposes only its forward direction; with IgnoreOnewayTag, both
// directions appear regardless.
func TestOneWayObeyed(t *testing.T) {
	f := &testFeature{
		id:   0,
		tags: onewayTags(),
		pts:  []geomutil.Point{{0, 0}, {1, 0}},
		bidi: true,
	}
	reader := &testReader{features: []mapfeature.Feature{f}}
	start := geomutil.Junction{Point: geomutil.Point{0, 0}}

	obey, err := NewGraph(reader, testBridge(t), vehicle.Car, ObeyOnewayTag)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	if out := obey.RegularOutgoingEdges(start); len(out) != 1 {
		t.Fatalf("ObeyOnewayTag: len(out) = %d, want 1", len(out))
	}

	ignore, err := NewGraph(reader, testBridge(t), vehicle.Car, IgnoreOnewayTag)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	end := geomutil.Junction{Point: geomutil.Point{1, 0}}
	if out := ignore.RegularOutgoingEdges(end); len(out) != 1 {
		t.Fatalf("IgnoreOnewayTag: len(out) at end = %d, want 1 (the reverse edge)", len(out))
	}
}

// TestFakeOverlaySplitsEdge covers scenario S3: adding fake edges at a
// snapped point wires it into the graph via the nearby real edge,
// inheriting that edge's speed because the fake edges are part_of_real.
func TestFakeOverlaySplitsEdge(t *testing.T) {
	f := &testFeature{
		id:   0,
		tags: residentialTags(),
		pts:  []geomutil.Point{{0, 0}, {10, 0}},
		bidi: true,
	}
	g, err := NewGraph(&testReader{features: []mapfeature.Feature{f}}, testBridge(t), vehicle.Car, ObeyOnewayTag)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}

	// Off-segment query point, mirroring scenario S3.
	snap := geomutil.Junction{Point: geomutil.Point{5, 1}}
	nearby := g.FindClosestEdges(snap.Point, 1)
	if len(nearby) != 1 {
		t.Fatalf("FindClosestEdges: got %d, want 1", len(nearby))
	}
	if !geomutil.PointsEqual(nearby[0].Projected.Point, geomutil.Point{5, 0}) {
		t.Fatalf("Projected = %v, want (5,0)", nearby[0].Projected.Point)
	}

	fakes := NewFakeOverlay()
	g.AddFakeEdges(snap, nearby, fakes)

	out := g.FakeOutgoingEdges(snap, fakes)
	var stub *Edge
	for i := range out {
		if geomutil.PointsEqual(out[i].EndJunction.Point, geomutil.Point{5, 0}) {
			stub = &out[i]
		}
	}
	if stub == nil {
		t.Fatalf("FakeOutgoingEdges(snap) = %+v, want an edge ending at (5,0)", out)
	}
	if !stub.PartOfReal {
		t.Errorf("fake edge PartOfReal = false, want true")
	}
	if stub.FeatureID.Valid() {
		t.Errorf("fake edge FeatureID.Valid() = true, want false")
	}
	if got, want := g.SpeedKMPH(*stub), g.roadInfo[0].SpeedKMPH; got != want {
		t.Errorf("SpeedKMPH(fake edge) = %v, want %v (inherited from real edge)", got, want)
	}

	// A second, independent overlay against the same Graph sees none of
	// the first overlay's edges: the overlay is per-request state, not
	// something Graph owns.
	other := NewFakeOverlay()
	if out := g.FakeOutgoingEdges(snap, other); len(out) != 0 {
		t.Errorf("independent overlay: FakeOutgoingEdges(snap) = %d, want 0", len(out))
	}
	if out := g.FakeOutgoingEdges(snap, fakes); len(out) == 0 {
		t.Errorf("original overlay: FakeOutgoingEdges(snap) = 0, want > 0 (unaffected by the second overlay)")
	}

	g.ResetFakes(fakes)
	if out := g.FakeOutgoingEdges(snap, fakes); len(out) != 0 {
		t.Errorf("after ResetFakes: FakeOutgoingEdges = %d, want 0", len(out))
	}
}

// TestFeatureTypesAndEdgeTypes covers the classification-tag accessors:
// a one-way residential road yields "highway-residential", "hwtag-car",
// and "hwtag-oneway", and an edge's types match its owning feature's.
func TestFeatureTypesAndEdgeTypes(t *testing.T) {
	f := &testFeature{
		id:   0,
		tags: onewayTags(),
		pts:  []geomutil.Point{{0, 0}, {1, 0}},
		bidi: true,
	}
	g, err := NewGraph(&testReader{features: []mapfeature.Feature{f}}, testBridge(t), vehicle.Car, ObeyOnewayTag)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}

	ft := g.FeatureTypes(0)
	for _, want := range []string{"highway-residential", "hwtag-car", "hwtag-oneway"} {
		if !ft.Has(want) {
			t.Errorf("FeatureTypes(0).Has(%q) = false, want true (got %v)", want, ft.Types())
		}
	}

	out := g.RegularOutgoingEdges(geomutil.Junction{Point: geomutil.Point{0, 0}})
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	if et := g.EdgeTypes(out[0]); !et.Has("highway-residential") {
		t.Errorf("EdgeTypes(out[0]).Has(highway-residential) = false, want true (got %v)", et.Types())
	}

	jt := g.JunctionTypes(geomutil.Junction{Point: geomutil.Point{0, 0}})
	if !jt.Has("highway-residential") {
		t.Errorf("JunctionTypes(start).Has(highway-residential) = false, want true (got %v)", jt.Types())
	}

	if fake := g.EdgeTypes(Edge{FeatureID: mapfeature.InvalidFeatureID}); len(fake.Types()) != 0 {
		t.Errorf("EdgeTypes(fake edge) = %v, want empty", fake.Types())
	}
}

// TestDeadEndHasNoOutgoingEdges covers the zero-neighbor edge case: a
// feature endpoint with nothing incident from any other feature yields
// no outgoing edges at all.
func TestDeadEndHasNoOutgoingEdges(t *testing.T) {
	f := &testFeature{
		id:   0,
		tags: residentialTags(),
		pts:  []geomutil.Point{{0, 0}, {1, 0}},
		bidi: true,
	}
	g, err := NewGraph(&testReader{features: []mapfeature.Feature{f}}, testBridge(t), vehicle.Car, ObeyOnewayTag)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	far := geomutil.Junction{Point: geomutil.Point{100, 100}}
	if out := g.RegularOutgoingEdges(far); len(out) != 0 {
		t.Errorf("RegularOutgoingEdges(far) = %d, want 0", len(out))
	}
}
