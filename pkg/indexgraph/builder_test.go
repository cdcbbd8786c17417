package indexgraph

import (
	"testing"

	"github.com/paulmach/osm"

	"mwmgraph/pkg/archive"
	"mwmgraph/pkg/geomutil"
	"mwmgraph/pkg/mapfeature"
	"mwmgraph/pkg/vehicle"
)

type testFeature struct {
	id   mapfeature.FeatureID
	pts  []geomutil.Point
	bidi bool
}

func (f *testFeature) ID() mapfeature.FeatureID { return f.id }
func (f *testFeature) Tags() osm.Tags {
	return osm.Tags{{Key: "highway", Value: "residential"}}
}
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

func testBridge(t *testing.T) *vehicle.Bridge {
	t.Helper()
	b, err := vehicle.NewBridge("Germany")
	if err != nil {
		t.Fatalf("NewBridge: %v", err)
	}
	return b
}

// TestJointCoalescence covers scenario S1: A=[(0,0),(1,0)], B=[(1,0),(1,1)]
// share a quantised location at (1,0); exactly one joint of size 2 is
// produced, and the other three vertices form dropped singletons.
func TestJointCoalescence(t *testing.T) {
	a := &testFeature{id: 0, pts: []geomutil.Point{{0, 0}, {1, 0}}, bidi: true}
	b := &testFeature{id: 1, pts: []geomutil.Point{{1, 0}, {1, 1}}, bidi: true}

	ig, err := Build(&testReader{features: []mapfeature.Feature{a, b}}, testBridge(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := ig.NumJoints(); got != 1 {
		t.Fatalf("NumJoints() = %d, want 1", got)
	}
	joint, _ := ig.JointAt(0)
	if len(joint.Points) != 2 {
		t.Fatalf("joint size = %d, want 2", len(joint.Points))
	}
	if !geomutil.PointsEqual(joint.Location, geomutil.Point{1, 0}) {
		t.Errorf("joint location = %v, want (1,0)", joint.Location)
	}
}

// TestIsolatedFeatureRetainsMask covers the open question resolution
// (S1 extended): a feature with no vertex surviving into any joint still
// has a recorded road mask.
func TestIsolatedFeatureRetainsMask(t *testing.T) {
	f := &testFeature{id: 0, pts: []geomutil.Point{{10, 10}, {11, 11}}, bidi: true}
	ig, err := Build(&testReader{features: []mapfeature.Feature{f}}, testBridge(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if ig.NumJoints() != 0 {
		t.Fatalf("NumJoints() = %d, want 0", ig.NumJoints())
	}
	mask, ok := ig.Mask(0)
	if !ok {
		t.Fatalf("Mask(0) not found, want a recorded mask despite no surviving joint")
	}
	if !mask.Has(vehicle.Car) {
		t.Errorf("mask.Has(Car) = false, want true")
	}
}

// TestOutgoingEdgesCompressesShapePoints checks that an intermediate
// non-joint vertex between two joints is folded into one JointEdge
// rather than exposed as its own node.
func TestOutgoingEdgesCompressesShapePoints(t *testing.T) {
	// A: (0,0) -- (0.5,0) -- (1,0), B meets A at (0,0), C meets A at (1,0).
	a := &testFeature{id: 0, pts: []geomutil.Point{{0, 0}, {0.5, 0}, {1, 0}}, bidi: true}
	b := &testFeature{id: 1, pts: []geomutil.Point{{0, 0}, {0, 1}}, bidi: true}
	c := &testFeature{id: 2, pts: []geomutil.Point{{1, 0}, {1, 1}}, bidi: true}

	ig, err := Build(&testReader{features: []mapfeature.Feature{a, b, c}}, testBridge(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if ig.NumJoints() != 2 {
		t.Fatalf("NumJoints() = %d, want 2", ig.NumJoints())
	}

	start, ok := ig.JointAtPoint(geomutil.Point{0, 0})
	if !ok {
		t.Fatalf("no joint at (0,0)")
	}
	edges := ig.OutgoingEdges(start, vehicle.Car)

	var toOther *JointEdge
	for i := range edges {
		if edges[i].FeatureID == 0 {
			toOther = &edges[i]
		}
	}
	if toOther == nil {
		t.Fatalf("no JointEdge over feature A from (0,0), got %+v", edges)
	}
	if toOther.ToVertex != 2 {
		t.Errorf("ToVertex = %d, want 2 (the far joint, skipping the shape point)", toOther.ToVertex)
	}
	if got, want := toOther.LengthMeters, 1.0; got < want-1e-9 || got > want+1e-9 {
		t.Errorf("LengthMeters = %v, want %v (compressed over both segments)", got, want)
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	a := &testFeature{id: 0, pts: []geomutil.Point{{0, 0}, {1, 0}}, bidi: true}
	b := &testFeature{id: 1, pts: []geomutil.Point{{1, 0}, {1, 1}}, bidi: true}
	// c meets b at (1,1), so the joint at (1,0) has a neighbor joint to
	// reach along b.
	c := &testFeature{id: 2, pts: []geomutil.Point{{1, 1}, {2, 1}}, bidi: true}
	reader := &testReader{features: []mapfeature.Feature{a, b, c}}

	ig, err := Build(reader, testBridge(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	w := archive.NewWriter()
	if err := ig.WriteTo(w); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	dir := t.TempDir()
	path := dir + "/tile.mwm"
	if err := w.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ar, err := archive.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	loaded, err := ReadFrom(ar)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if loaded.NumJoints() != ig.NumJoints() {
		t.Fatalf("NumJoints() after round trip = %d, want %d", loaded.NumJoints(), ig.NumJoints())
	}
	if err := loaded.PopulateGeometry(reader); err != nil {
		t.Fatalf("PopulateGeometry: %v", err)
	}

	joint, _ := loaded.JointAtPoint(geomutil.Point{1, 0})
	if len(loaded.OutgoingEdges(joint, vehicle.Car)) == 0 {
		t.Errorf("OutgoingEdges after round trip is empty, want at least one edge")
	}
}
