package crossmwm

import (
	"mwmgraph/pkg/borders"
	"mwmgraph/pkg/mapfeature"
	"mwmgraph/pkg/vehicle"
)

// DetectTransitions runs the border-crossing scan over every feature
// reader yields: a two-state automaton (Inside, Outside) walking each
// feature's polyline vertex by vertex, emitting a Transition on every
// edge where containment flips. Road-masked features only; a feature
// whose mask is zero, or whose geometry fails to parse, contributes
// nothing. Transition order is the feature iteration order.
func DetectTransitions(reader mapfeature.Reader, bridge *vehicle.Bridge, region borders.Region) ([]Transition, error) {
	var transitions []Transition

	err := reader.ForEachFeature(func(f mapfeature.Feature) {
		mask := bridge.ClassifyRoad(f)
		if mask.IsZero() {
			return
		}
		if err := f.ParseGeometry(0); err != nil {
			return
		}
		junctions := mapfeature.Junctions(f)
		if len(junctions) < 2 {
			return
		}

		onewayMask := bridge.ClassifyOneWay(f)
		prevInside := region.Contains(junctions[0].Point)
		for i := 1; i < len(junctions); i++ {
			inside := region.Contains(junctions[i].Point)
			if inside == prevInside {
				continue
			}
			t := Transition{
				FeatureID:    f.ID(),
				SegmentIndex: uint32(i - 1),
				RoadMask:     mask,
				OneWayMask:   onewayMask,
				EnterSide:    inside,
			}
			if inside {
				t.PointOutside, t.PointInside = junctions[i-1].Point, junctions[i].Point
			} else {
				t.PointInside, t.PointOutside = junctions[i-1].Point, junctions[i].Point
			}
			transitions = append(transitions, t)
			prevInside = inside
		}
	})
	if err != nil {
		return nil, err
	}
	return transitions, nil
}
