package borders

import (
	"testing"

	"mwmgraph/pkg/geomutil"
)

func unitSquare() Region {
	ring := []geomutil.Point{
		{0, 0}, {1, 0}, {1, 1}, {0, 1},
	}
	return NewRegionFromRings([][]geomutil.Point{ring})
}

func TestRegionContainsInsidePoint(t *testing.T) {
	r := unitSquare()
	if !r.Contains(geomutil.Point{0.5, 0.5}) {
		t.Errorf("Contains(0.5,0.5) = false, want true")
	}
}

func TestRegionContainsOutsidePoint(t *testing.T) {
	r := unitSquare()
	if r.Contains(geomutil.Point{1.5, 1.5}) {
		t.Errorf("Contains(1.5,1.5) = true, want false")
	}
}

func TestRegionBorderCrossing(t *testing.T) {
	// A segment crossing y=1 near the square's edge.
	r := unitSquare()
	inside := r.Contains(geomutil.Point{0.5, 0.9})
	outside := r.Contains(geomutil.Point{0.5, 1.1})
	if inside == outside {
		t.Errorf("expected exactly one of (0.5,0.9),(0.5,1.1) inside the square, got inside=%v outside=%v", inside, outside)
	}
	if !inside || outside {
		t.Errorf("Contains(0.5,0.9) = %v, Contains(0.5,1.1) = %v, want true, false", inside, outside)
	}
}
