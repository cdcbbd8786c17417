package crossmwm

import "mwmgraph/pkg/vehicle"

var allVehicleTypes = []vehicle.Type{vehicle.Pedestrian, vehicle.Bicycle, vehicle.Car}

// Connector holds one vehicle type's ordered enter/exit Segment lists
// and the leap-weight table between them.
type Connector struct {
	VehicleType vehicle.Type
	enters      []Segment
	exits       []Segment
	weights     [][]float64 // weights[enterIdx][exitIdx]
}

// Enters returns the connector's ordered enter Segments.
func (c *Connector) Enters() []Segment { return c.enters }

// Exits returns the connector's ordered exit Segments.
func (c *Connector) Exits() []Segment { return c.exits }

// Weight returns the leap weight from enters()[enterIdx] to
// exits()[exitIdx], or NoRoute if the table hasn't been filled yet or
// the pair is unreachable.
func (c *Connector) Weight(enterIdx, exitIdx int) float64 {
	if c.weights == nil {
		return NoRoute
	}
	return c.weights[enterIdx][exitIdx]
}

// FillWeights populates the full enter x exit weight table by calling
// lookup once per pair. lookup returns NoRoute for unreachable pairs.
func (c *Connector) FillWeights(lookup func(enter, exit Segment) float64) {
	c.weights = make([][]float64, len(c.enters))
	for i, e := range c.enters {
		row := make([]float64, len(c.exits))
		for j, x := range c.exits {
			row[j] = lookup(e, x)
		}
		c.weights[i] = row
	}
}

// BuildConnectors groups transitions's AsSegment projections per vehicle
// type whose road mask bit is set, giving each an ordered enter list
// (EnterSide=true transitions) and exit list (EnterSide=false).
func BuildConnectors(transitions []Transition) map[vehicle.Type]*Connector {
	out := make(map[vehicle.Type]*Connector, len(allVehicleTypes))
	for _, vt := range allVehicleTypes {
		out[vt] = &Connector{VehicleType: vt}
	}
	for _, t := range transitions {
		seg := t.AsSegment()
		for _, vt := range allVehicleTypes {
			if !t.RoadMask.Has(vt) {
				continue
			}
			c := out[vt]
			if t.EnterSide {
				c.enters = append(c.enters, seg)
			} else {
				c.exits = append(c.exits, seg)
			}
		}
	}
	return out
}
