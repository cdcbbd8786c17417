package indexgraph

import (
	"sort"

	"mwmgraph/pkg/geomutil"
	"mwmgraph/pkg/mapfeature"
	"mwmgraph/pkg/vehicle"
)

// Build runs steps 1-5 of the index graph builder over every feature
// reader yields, using bridge to classify roads and one-way
// restrictions: vertices are bucketed by location key, then joints are
// emitted in sorted-key order. Serialisation is a separate step
// (WriteTo).
func Build(reader mapfeature.Reader, bridge *vehicle.Bridge) (*IndexGraph, error) {
	ig := &IndexGraph{
		masks:       make(map[mapfeature.FeatureID]vehicle.Mask),
		onewayMasks: make(map[mapfeature.FeatureID]vehicle.Mask),
		bidirectional: make(map[mapfeature.FeatureID]bool),
		geometry:    make(map[mapfeature.FeatureID][]geomutil.Junction),
	}

	buckets := make(map[uint64][]RoadPoint)
	locations := make(map[uint64]geomutil.Point)

	err := reader.ForEachFeature(func(f mapfeature.Feature) {
		// Step 1-2: classify and record the road mask.
		mask := bridge.ClassifyRoad(f)
		if mask.IsZero() {
			return
		}
		ig.masks[f.ID()] = mask
		ig.onewayMasks[f.ID()] = bridge.ClassifyOneWay(f)
		ig.bidirectional[f.ID()] = f.Bidirectional()

		// Step 3: parse geometry.
		if err := f.ParseGeometry(0); err != nil {
			return
		}
		junctions := mapfeature.Junctions(f)
		if len(junctions) == 0 {
			return
		}
		ig.geometry[f.ID()] = junctions

		// Step 4: bucket every vertex by its location key.
		for i, j := range junctions {
			key := geomutil.LocationKey(j.Point)
			buckets[key] = append(buckets[key], RoadPoint{FeatureID: f.ID(), VertexIndex: uint32(i)})
			if _, ok := locations[key]; !ok {
				locations[key] = j.Point
			}
		}
	})
	if err != nil {
		return nil, err
	}

	// Step 5: emit only joints of size >= 2, in a deterministic order
	// (sorted by key) rather than map iteration order.
	keys := make([]uint64, 0, len(buckets))
	for k, pts := range buckets {
		if len(pts) >= 2 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	joints := make([]Joint, len(keys))
	for i, k := range keys {
		joints[i] = Joint{Points: buckets[k], Location: locations[k]}
	}

	ig.Import(joints)
	return ig, nil
}
