package roadgraph

import (
	"math"
	"sort"

	"github.com/tidwall/rtree"

	"mwmgraph/pkg/geomutil"
	"mwmgraph/pkg/mapfeature"
)

// candidateEdge is what the spatial index stores per segment: enough to
// reconstruct the segment's natural-direction Edge without re-touching
// the feature's RoadInfo.
type candidateEdge struct {
	FeatureID    mapfeature.FeatureID
	SegmentIndex uint32
	SpeedKMPH    float64
	Start, End   geomutil.Junction
}

// spatialIndex is the find_closest_edges backend. The
// teacher declared github.com/tidwall/rtree in go.mod but never
// imported it, falling back to an ad hoc sorted-grid scan
// (pkg/routing/snap.go); this wires the real dependency as the
// generic bounding-box index it is.
type spatialIndex struct {
	tree rtree.RTreeG[candidateEdge]
}

func newSpatialIndex() *spatialIndex {
	return &spatialIndex{}
}

// insertFeature indexes every segment of info's polyline under its
// axis-aligned bounding box.
func (s *spatialIndex) insertFeature(fid mapfeature.FeatureID, info RoadInfo) {
	for i := 0; i+1 < len(info.Junctions); i++ {
		a, b := info.Junctions[i], info.Junctions[i+1]
		min := [2]float64{math.Min(a.Point[0], b.Point[0]), math.Min(a.Point[1], b.Point[1])}
		max := [2]float64{math.Max(a.Point[0], b.Point[0]), math.Max(a.Point[1], b.Point[1])}
		s.tree.Insert(min, max, candidateEdge{FeatureID: fid, SegmentIndex: uint32(i), SpeedKMPH: info.SpeedKMPH, Start: a, End: b})
	}
}

type rankedVicinity struct {
	v      Vicinity
	distSq float64
}

// findClosest returns up to count real edges nearest p together with p's
// projection onto each, nearest first, ties broken by (FeatureID,
// SegmentIndex). It searches an expanding box around p rather than the
// whole tree, growing the box until the count nearest candidates all lie
// within the box's half-width (so no edge outside the box can be
// nearer). Once the half-width exceeds a sanity bound, the candidates
// gathered so far are returned as they are.
func (s *spatialIndex) findClosest(p geomutil.Point, count int) []Vicinity {
	if count <= 0 {
		return nil
	}

	const initialRadius = 0.001
	const maxRadius = 16.0

	seen := make(map[mapfeature.FeatureID]map[uint32]bool)
	var ranked []rankedVicinity

	for radius := initialRadius; ; radius *= 4 {
		ranked = ranked[:0]
		for k := range seen {
			delete(seen, k)
		}
		min := [2]float64{p[0] - radius, p[1] - radius}
		max := [2]float64{p[0] + radius, p[1] + radius}
		s.tree.Search(min, max, func(_, _ [2]float64, data candidateEdge) bool {
			bySeg, ok := seen[data.FeatureID]
			if !ok {
				bySeg = make(map[uint32]bool)
				seen[data.FeatureID] = bySeg
			}
			if bySeg[data.SegmentIndex] {
				return true
			}
			bySeg[data.SegmentIndex] = true

			proj, t, distSq := geomutil.ProjectToSegment(p, data.Start.Point, data.End.Point)
			projected := geomutil.Junction{
				Point:    proj,
				Altitude: geomutil.InterpolateAltitude(data.Start.Altitude, data.End.Altitude, t),
			}
			ranked = append(ranked, rankedVicinity{
				v: Vicinity{
					Edge: Edge{
						FeatureID:     data.FeatureID,
						Forward:       true,
						FakeSpeedKMPH: data.SpeedKMPH,
						SegmentIndex:  data.SegmentIndex,
						StartJunction: data.Start,
						EndJunction:   data.End,
					},
					Projected: projected,
				},
				distSq: distSq,
			})
			return true
		})

		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].distSq != ranked[j].distSq {
				return ranked[i].distSq < ranked[j].distSq
			}
			if ranked[i].v.Edge.FeatureID != ranked[j].v.Edge.FeatureID {
				return ranked[i].v.Edge.FeatureID < ranked[j].v.Edge.FeatureID
			}
			return ranked[i].v.Edge.SegmentIndex < ranked[j].v.Edge.SegmentIndex
		})

		// Any edge within radius of p has a bounding box meeting the
		// search box, so the ranking is exact once the count-th
		// candidate lies within radius.
		if len(ranked) >= count && ranked[count-1].distSq <= radius*radius {
			break
		}
		if radius > maxRadius {
			break
		}
	}

	if len(ranked) > count {
		ranked = ranked[:count]
	}

	vicinities := make([]Vicinity, len(ranked))
	for i, r := range ranked {
		vicinities[i] = r.v
	}
	return vicinities
}
