// Package indexgraph builds and serves the joint-level routing graph
// used by the cross-tile connector's leap-weight precomputation: feature
// vertices that coincide under location-key quantization are coalesced
// into Joints, and only Joints of size ≥ 2 become routing nodes.
package indexgraph

import (
	"mwmgraph/pkg/geomutil"
	"mwmgraph/pkg/mapfeature"
)

// RoadPoint identifies one vertex of one feature's polyline.
type RoadPoint struct {
	FeatureID   mapfeature.FeatureID
	VertexIndex uint32
}

// JointID indexes into an IndexGraph's joint table.
type JointID uint32

// InvalidJointID marks "no joint".
const InvalidJointID = JointID(^uint32(0))

// Joint is an equivalence class of RoadPoints whose geometric locations
// coincide under location-key quantization. Location is the coordinate
// shared by every member.
type Joint struct {
	Points   []RoadPoint
	Location geomutil.Point
}

// JointEdge is one compressed traversal between two joints along a
// single feature: every intermediate, non-joint vertex between
// FromVertex and ToVertex is folded into LengthMeters rather than
// exposed as its own graph node.
type JointEdge struct {
	Target       JointID
	FeatureID    mapfeature.FeatureID
	Forward      bool
	FromVertex   uint32
	ToVertex     uint32
	LengthMeters float64
}
