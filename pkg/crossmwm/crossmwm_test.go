package crossmwm

import (
	"testing"

	"github.com/paulmach/osm"

	"mwmgraph/pkg/borders"
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

func unitSquare() borders.Region {
	return borders.NewRegionFromRings([][]geomutil.Point{
		{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
	})
}

// TestBorderTransition covers scenario S4: a feature crossing the edge
// of the unit square [0,1]^2 from inside to outside emits exactly one
// exiting transition.
func TestBorderTransition(t *testing.T) {
	f := &testFeature{id: 0, pts: []geomutil.Point{{0.5, 0.9}, {0.5, 1.1}}, bidi: true}
	transitions, err := DetectTransitions(&testReader{features: []mapfeature.Feature{f}}, testBridge(t), unitSquare())
	if err != nil {
		t.Fatalf("DetectTransitions: %v", err)
	}
	if len(transitions) != 1 {
		t.Fatalf("len(transitions) = %d, want 1", len(transitions))
	}
	tr := transitions[0]
	if tr.SegmentIndex != 0 {
		t.Errorf("SegmentIndex = %d, want 0", tr.SegmentIndex)
	}
	if tr.EnterSide {
		t.Errorf("EnterSide = true, want false (exiting)")
	}
	if !geomutil.PointsEqual(tr.PointInside, geomutil.Point{0.5, 0.9}) {
		t.Errorf("PointInside = %v, want (0.5,0.9)", tr.PointInside)
	}
	if !geomutil.PointsEqual(tr.PointOutside, geomutil.Point{0.5, 1.1}) {
		t.Errorf("PointOutside = %v, want (0.5,1.1)", tr.PointOutside)
	}
}

func TestBuildConnectorsGroupsByVehicleType(t *testing.T) {
	enter := Transition{FeatureID: 0, SegmentIndex: 0, RoadMask: vehicle.MaskCar | vehicle.MaskPedestrian, EnterSide: true}
	exit := Transition{FeatureID: 1, SegmentIndex: 3, RoadMask: vehicle.MaskCar, EnterSide: false}
	connectors := BuildConnectors([]Transition{enter, exit})

	car := connectors[vehicle.Car]
	if len(car.Enters()) != 1 || len(car.Exits()) != 1 {
		t.Fatalf("car connector = %d enters, %d exits, want 1, 1", len(car.Enters()), len(car.Exits()))
	}

	ped := connectors[vehicle.Pedestrian]
	if len(ped.Enters()) != 1 || len(ped.Exits()) != 0 {
		t.Fatalf("pedestrian connector = %d enters, %d exits, want 1, 0", len(ped.Enters()), len(ped.Exits()))
	}
}
