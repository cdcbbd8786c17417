package roadgraph

import "mwmgraph/pkg/geomutil"

// FakeOverlay is the transient fake-edge overlay for one routing
// request. It is not shared between concurrent requests: each caller
// obtains its own overlay value and passes it alongside a *Graph to the
// edge accessors, one per request rather than pooled and reused.
//
// Keys are exact geomutil.Point values (float64 is a comparable Go map
// key), not epsilon-equivalence classes, so vicinity lookups must go
// through find_closest_edges instead.
type FakeOverlay struct {
	outgoing map[geomutil.Point][]Edge
	ingoing  map[geomutil.Point][]Edge
}

// NewFakeOverlay returns an empty overlay.
func NewFakeOverlay() *FakeOverlay {
	return &FakeOverlay{
		outgoing: make(map[geomutil.Point][]Edge),
		ingoing:  make(map[geomutil.Point][]Edge),
	}
}

// Reset empties both overlay maps in one operation.
func (o *FakeOverlay) Reset() {
	o.outgoing = make(map[geomutil.Point][]Edge)
	o.ingoing = make(map[geomutil.Point][]Edge)
}

// OutgoingAt returns the fake outgoing edges starting at j's exact point.
func (o *FakeOverlay) OutgoingAt(j geomutil.Junction) []Edge { return o.outgoing[j.Point] }

// IngoingAt returns the fake ingoing edges ending at j's exact point.
func (o *FakeOverlay) IngoingAt(j geomutil.Junction) []Edge { return o.ingoing[j.Point] }

func (o *FakeOverlay) addOutgoing(p geomutil.Point, e Edge) {
	o.outgoing[p] = append(o.outgoing[p], e)
}

func (o *FakeOverlay) addIngoing(p geomutil.Point, e Edge) {
	o.ingoing[p] = append(o.ingoing[p], e)
}
