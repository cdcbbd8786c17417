package crossmwm

import (
	"math"

	"mwmgraph/pkg/indexgraph"
	"mwmgraph/pkg/vehicle"
)

// waveState is reusable state for a batch of Dijkstra waves over the
// same index graph, avoiding per-enter map allocation via a
// touched-list reset.
type waveState struct {
	dist    []float64
	touched []indexgraph.JointID
	heap    waveHeap
}

func newWaveState(numJoints int) *waveState {
	dist := make([]float64, numJoints)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	return &waveState{dist: dist, heap: waveHeap{items: make([]waveHeapItem, 0, 64)}}
}

func (ws *waveState) reset() {
	for _, j := range ws.touched {
		ws.dist[j] = math.Inf(1)
	}
	ws.touched = ws.touched[:0]
	ws.heap.Reset()
}

// run executes one Dijkstra wave from (start, startOffset) until the
// queue empties or shouldStop reports true for a dequeued joint,
// recording finalized distances into ws.dist (readable via touched).
func (ws *waveState) run(ig *indexgraph.IndexGraph, vt vehicle.Type, estimator EdgeEstimator, start indexgraph.JointID, startOffset float64, shouldStop func(indexgraph.JointID) bool) {
	ws.reset()
	ws.dist[start] = startOffset
	ws.touched = append(ws.touched, start)
	ws.heap.Push(waveHeapItem{joint: start, dist: startOffset})

	for ws.heap.Len() > 0 {
		cur := ws.heap.Pop()
		if cur.dist > ws.dist[cur.joint] {
			continue // stale entry
		}
		if shouldStop != nil && shouldStop(cur.joint) {
			break
		}
		for _, edge := range ig.OutgoingEdges(cur.joint, vt) {
			w := estimator.Weight(edge.FeatureID, vt, edge.LengthMeters)
			if w < 0 {
				continue
			}
			newDist := cur.dist + w
			if newDist < ws.dist[edge.Target] {
				if math.IsInf(ws.dist[edge.Target], 1) {
					ws.touched = append(ws.touched, edge.Target)
				}
				ws.dist[edge.Target] = newDist
				ws.heap.Push(waveHeapItem{joint: edge.Target, dist: newDist})
			}
		}
	}
}

// BuildLeapWeights runs one Dijkstra wave per enter Segment of connector
// and fills its weight table: for each enter, a Dijkstra wave from the
// joint nearest its inside vertex, then for every exit, the wave's
// distance to the joint nearest that exit's inside vertex, plus the
// estimator weight of the residual length each splice introduced.
// Unreachable pairs and enters
// or exits that don't resolve to any joint (a feature with no surviving
// joints) are left as NoRoute. logf, if non-nil, is called every 10
// enters processed.
func BuildLeapWeights(ig *indexgraph.IndexGraph, connector *Connector, estimator EdgeEstimator, shouldStop func(indexgraph.JointID) bool, logf func(format string, args ...interface{})) {
	enters := connector.Enters()
	exits := connector.Exits()

	exitJoint := make([]indexgraph.JointID, len(exits))
	exitOffset := make([]float64, len(exits))
	exitOK := make([]bool, len(exits))
	for j, x := range exits {
		jid, off, ok := ig.NearestJoint(x.FeatureID, int(x.SegmentIndex), -1)
		exitJoint[j], exitOffset[j], exitOK[j] = jid, estimator.Weight(x.FeatureID, connector.VehicleType, off), ok
	}

	weights := make([][]float64, len(enters))
	state := newWaveState(ig.NumJoints())

	for i, e := range enters {
		row := make([]float64, len(exits))
		for j := range row {
			row[j] = NoRoute
		}

		startJoint, startOffset, ok := ig.NearestJoint(e.FeatureID, int(e.SegmentIndex)+1, 1)
		if ok {
			startWeight := estimator.Weight(e.FeatureID, connector.VehicleType, startOffset)
			state.run(ig, connector.VehicleType, estimator, startJoint, startWeight, shouldStop)
			for j := range exits {
				if !exitOK[j] {
					continue
				}
				d := state.dist[exitJoint[j]]
				if !math.IsInf(d, 1) {
					row[j] = d + exitOffset[j]
				}
			}
		}
		weights[i] = row

		if logf != nil && (i+1)%10 == 0 {
			logf("leap weights: %d/%d enters processed", i+1, len(enters))
		}
	}

	enterIndex := make(map[Segment]int, len(enters))
	for i, e := range enters {
		enterIndex[e] = i
	}
	exitIndex := make(map[Segment]int, len(exits))
	for j, x := range exits {
		exitIndex[x] = j
	}
	connector.FillWeights(func(enter, exit Segment) float64 {
		i, iok := enterIndex[enter]
		j, jok := exitIndex[exit]
		if !iok || !jok {
			return NoRoute
		}
		return weights[i][j]
	})
}
