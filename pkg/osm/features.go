package osm

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"mwmgraph/pkg/geomutil"
)

// ParseFeatures reads an OSM PBF file and returns every way plus the
// coordinates of its referenced nodes, preserving per-way geometry
// instead of flattening it into directed edges: the routing index needs a feature's full polyline (for joint detection
// and border-crossing scans), not a pre-resolved adjacency list.
//
// The reader is consumed twice (seeks back to start for the second
// pass), so it must implement io.ReadSeeker. Ways are filtered to those
// with at least 2 nodes and a non-empty highway tag; classification into
// vehicle profiles and one-way handling is left entirely to the vehicle
// package, so this pass keeps every tagged road rather than only
// car-accessible ones.
func ParseFeatures(ctx context.Context, rs io.ReadSeeker) ([]osm.Way, map[osm.NodeID]geomutil.Point, error) {
	referencedNodes := make(map[osm.NodeID]struct{})
	var ways []osm.Way

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if w.Tags.Find("highway") == "" || len(w.Nodes) < 2 {
			continue
		}
		for _, wn := range w.Nodes {
			referencedNodes[wn.ID] = struct{}{}
		}
		ways = append(ways, *w)
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()
	log.Printf("osm: pass 1 complete: %d road ways, %d referenced nodes", len(ways), len(referencedNodes))

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	nodePoint := make(map[osm.NodeID]geomutil.Point, len(referencedNodes))
	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referencedNodes[n.ID]; !needed {
			continue
		}
		nodePoint[n.ID] = geomutil.Point{n.Lon, n.Lat}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()
	log.Printf("osm: pass 2 complete: %d node coordinates collected", len(nodePoint))

	return ways, nodePoint, nil
}
