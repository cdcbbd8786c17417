package indexgraph

import (
	"mwmgraph/pkg/geomutil"
	"mwmgraph/pkg/mapfeature"
	"mwmgraph/pkg/vehicle"
)

// IndexGraph is a joint-level routing graph over one tile, queryable
// per vehicle profile. It is consumed both by serialisation and
// directly by the cross-tile connector's Dijkstra wave, which needs a
// routable graph over joints without touching the feature reader again.
type IndexGraph struct {
	joints      []Joint
	jointOf     map[uint64]JointID
	masks       map[mapfeature.FeatureID]vehicle.Mask
	onewayMasks map[mapfeature.FeatureID]vehicle.Mask
	bidirectional map[mapfeature.FeatureID]bool
	geometry    map[mapfeature.FeatureID][]geomutil.Junction
}

// Import installs joints as the graph's joint table, rebuilding the
// location-key index used by OutgoingEdges' compression scan. It is the
// entry point deserialisation uses to repopulate a graph without
// re-running Build over the original feature reader.
func (ig *IndexGraph) Import(joints []Joint) {
	ig.joints = joints
	ig.jointOf = make(map[uint64]JointID, len(joints))
	for i, j := range joints {
		ig.jointOf[geomutil.LocationKey(j.Location)] = JointID(i)
	}
}

// NumJoints returns the number of routing nodes in the graph.
func (ig *IndexGraph) NumJoints() int { return len(ig.joints) }

// JointAt returns the Joint for id.
func (ig *IndexGraph) JointAt(id JointID) (Joint, bool) {
	if int(id) < 0 || int(id) >= len(ig.joints) {
		return Joint{}, false
	}
	return ig.joints[id], true
}

// JointAtPoint returns the JointID whose location matches p, if any.
func (ig *IndexGraph) JointAtPoint(p geomutil.Point) (JointID, bool) {
	id, ok := ig.jointOf[geomutil.LocationKey(p)]
	return id, ok
}

// Mask returns the road mask recorded for fid during Build.
func (ig *IndexGraph) Mask(fid mapfeature.FeatureID) (vehicle.Mask, bool) {
	m, ok := ig.masks[fid]
	return m, ok
}

// SetMasks installs externally-supplied mask tables, for deserialisation
// paths that load the persisted mask table before (or instead of)
// running Build.
func (ig *IndexGraph) SetMasks(masks, onewayMasks map[mapfeature.FeatureID]vehicle.Mask) {
	ig.masks = masks
	ig.onewayMasks = onewayMasks
}

// OutgoingEdges returns one JointEdge per reachable neighbor joint of j
// for vehicle type vt: for every RoadPoint j contains, it walks forward
// (and, when the feature allows reverse traversal for vt, backward)
// along that feature's polyline, folding every intermediate non-joint
// vertex into the edge's accumulated length, stopping at the first
// vertex that is itself a joint.
func (ig *IndexGraph) OutgoingEdges(j JointID, vt vehicle.Type) []JointEdge {
	joint, ok := ig.JointAt(j)
	if !ok {
		return nil
	}

	var edges []JointEdge
	for _, rp := range joint.Points {
		mask, ok := ig.masks[rp.FeatureID]
		if !ok || !mask.Has(vt) {
			continue
		}
		junctions := ig.geometry[rp.FeatureID]
		if junctions == nil {
			continue
		}

		if target, toIdx, length, ok := ig.scan(junctions, int(rp.VertexIndex), 1); ok {
			edges = append(edges, JointEdge{
				Target: target, FeatureID: rp.FeatureID, Forward: true,
				FromVertex: rp.VertexIndex, ToVertex: uint32(toIdx), LengthMeters: length,
			})
		}

		reverseAllowed := ig.bidirectional[rp.FeatureID] && !ig.onewayMasks[rp.FeatureID].Has(vt)
		if reverseAllowed {
			if target, toIdx, length, ok := ig.scan(junctions, int(rp.VertexIndex), -1); ok {
				edges = append(edges, JointEdge{
					Target: target, FeatureID: rp.FeatureID, Forward: false,
					FromVertex: rp.VertexIndex, ToVertex: uint32(toIdx), LengthMeters: length,
				})
			}
		}
	}
	return edges
}

// NearestJoint returns the joint reachable from vertex vertexIndex of
// feature fid's polyline by walking in direction step (+1 or -1): if
// the vertex itself already belongs to a joint, that joint is returned
// with zero extra length; otherwise it walks (compressing shape points,
// same rule as OutgoingEdges) until it finds one. Used by the cross-tile
// connector to splice a border-crossing point, which need not itself be
// a joint, onto the joint graph.
func (ig *IndexGraph) NearestJoint(fid mapfeature.FeatureID, vertexIndex int, step int) (JointID, float64, bool) {
	junctions, ok := ig.geometry[fid]
	if !ok || vertexIndex < 0 || vertexIndex >= len(junctions) {
		return 0, 0, false
	}
	if jid, found := ig.jointOf[geomutil.LocationKey(junctions[vertexIndex].Point)]; found {
		return jid, 0, true
	}
	return ig.scan(junctions, vertexIndex, step)
}

// scan walks junctions from index from in direction step (+1 or -1),
// accumulating planar distance, until it reaches a vertex that belongs
// to a joint (the compression stop condition) or runs off the polyline.
func (ig *IndexGraph) scan(junctions []geomutil.Junction, from, step int) (target JointID, toIdx int, length float64, ok bool) {
	i := from
	for {
		next := i + step
		if next < 0 || next >= len(junctions) {
			return 0, 0, 0, false
		}
		length += geomutil.Dist(junctions[i].Point, junctions[next].Point)
		i = next
		if jid, found := ig.jointOf[geomutil.LocationKey(junctions[i].Point)]; found {
			return jid, i, length, true
		}
	}
}
