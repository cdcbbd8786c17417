package roadgraph

import (
	"mwmgraph/pkg/geomutil"
	"mwmgraph/pkg/mapfeature"
)

// loaderKind tags which of the two edge-materialisation strategies a
// scan is running: a tagged variant plus one parameterized helper,
// rather than a class hierarchy of direction-specific loaders.
type loaderKind int

const (
	loaderOutgoing loaderKind = iota
	loaderIngoing
)

// forEachRealEdgeAtPoint is the shared helper behind incident-edge
// materialisation: it scans info's polyline for every vertex equal to p,
// and for each match considers the two segments touching that vertex —
// the "head" segment running away from it in the feature's natural
// direction, and the "tail" segment running into it — turning each into
// a real Edge oriented for the requested loaderKind, and calling cb once
// per edge actually emitted.
//
// The natural-direction traversal of a segment is always emitted; the
// reverse traversal is emitted only when info.Bidirectional or mode is
// IgnoreOnewayTag.
func forEachRealEdgeAtPoint(fid mapfeature.FeatureID, info RoadInfo, p geomutil.Point, mode Mode, kind loaderKind, cb func(Edge)) {
	n := len(info.Junctions)
	reverseAllowed := info.Bidirectional || mode == IgnoreOnewayTag

	for i := 0; i < n; i++ {
		if !geomutil.PointsEqual(info.Junctions[i].Point, p) {
			continue
		}
		cross := info.Junctions[i]

		// Head segment: i -> i+1, natural direction away from cross.
		if i+1 < n {
			successor := info.Junctions[i+1]
			switch kind {
			case loaderOutgoing:
				cb(Edge{FeatureID: fid, Forward: true, SegmentIndex: uint32(i), StartJunction: cross, EndJunction: successor})
			case loaderIngoing:
				if reverseAllowed {
					cb(Edge{FeatureID: fid, Forward: false, SegmentIndex: uint32(i), StartJunction: successor, EndJunction: cross})
				}
			}
		}

		// Tail segment: i-1 -> i, natural direction into cross.
		if i-1 >= 0 {
			predecessor := info.Junctions[i-1]
			switch kind {
			case loaderOutgoing:
				if reverseAllowed {
					cb(Edge{FeatureID: fid, Forward: false, SegmentIndex: uint32(i - 1), StartJunction: cross, EndJunction: predecessor})
				}
			case loaderIngoing:
				cb(Edge{FeatureID: fid, Forward: true, SegmentIndex: uint32(i - 1), StartJunction: predecessor, EndJunction: cross})
			}
		}
	}
}
