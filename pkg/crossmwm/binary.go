package crossmwm

import (
	"encoding/binary"
	"fmt"
	"io"

	"mwmgraph/pkg/archive"
	"mwmgraph/pkg/geomutil"
	"mwmgraph/pkg/mapfeature"
	"mwmgraph/pkg/vehicle"
)

// Section is the tile archive section name transitions and per-vehicle
// connectors are written to: transition list followed by one block per
// vehicle type (enter list, exit list, weight matrix).
const Section = "cross_mwm"

// WriteTo serialises transitions followed by one block per connector,
// in vehicle.Type order, into w's "cross_mwm" section.
func WriteTo(w *archive.Writer, transitions []Transition, connectors map[vehicle.Type]*Connector) error {
	sw := w.GetWriter(Section)

	if err := binary.Write(sw, binary.LittleEndian, uint32(len(transitions))); err != nil {
		return fmt.Errorf("crossmwm: write transition count: %w", err)
	}
	for _, t := range transitions {
		if err := writeTransition(sw, t); err != nil {
			return err
		}
	}

	for _, vt := range allVehicleTypes {
		c := connectors[vt]
		if c == nil {
			c = &Connector{VehicleType: vt}
		}
		if err := binary.Write(sw, binary.LittleEndian, uint8(vt)); err != nil {
			return fmt.Errorf("crossmwm: write vehicle type: %w", err)
		}
		if err := writeSegments(sw, c.Enters()); err != nil {
			return err
		}
		if err := writeSegments(sw, c.Exits()); err != nil {
			return err
		}
		for i := range c.Enters() {
			for j := range c.Exits() {
				if err := binary.Write(sw, binary.LittleEndian, c.Weight(i, j)); err != nil {
					return fmt.Errorf("crossmwm: write weight: %w", err)
				}
			}
		}
	}
	return nil
}

func writeTransition(sw *archive.SectionWriter, t Transition) error {
	if err := binary.Write(sw, binary.LittleEndian, uint32(t.FeatureID)); err != nil {
		return fmt.Errorf("crossmwm: write transition: %w", err)
	}
	if err := binary.Write(sw, binary.LittleEndian, t.SegmentIndex); err != nil {
		return fmt.Errorf("crossmwm: write transition: %w", err)
	}
	if err := binary.Write(sw, binary.LittleEndian, uint8(t.RoadMask)); err != nil {
		return fmt.Errorf("crossmwm: write transition: %w", err)
	}
	if err := binary.Write(sw, binary.LittleEndian, uint8(t.OneWayMask)); err != nil {
		return fmt.Errorf("crossmwm: write transition: %w", err)
	}
	if err := binary.Write(sw, binary.LittleEndian, boolToUint8(t.EnterSide)); err != nil {
		return fmt.Errorf("crossmwm: write transition: %w", err)
	}
	if err := binary.Write(sw, binary.LittleEndian, t.PointInside[0]); err != nil {
		return fmt.Errorf("crossmwm: write transition: %w", err)
	}
	if err := binary.Write(sw, binary.LittleEndian, t.PointInside[1]); err != nil {
		return fmt.Errorf("crossmwm: write transition: %w", err)
	}
	if err := binary.Write(sw, binary.LittleEndian, t.PointOutside[0]); err != nil {
		return fmt.Errorf("crossmwm: write transition: %w", err)
	}
	if err := binary.Write(sw, binary.LittleEndian, t.PointOutside[1]); err != nil {
		return fmt.Errorf("crossmwm: write transition: %w", err)
	}
	return nil
}

func writeSegments(sw *archive.SectionWriter, segs []Segment) error {
	if err := binary.Write(sw, binary.LittleEndian, uint32(len(segs))); err != nil {
		return fmt.Errorf("crossmwm: write segment count: %w", err)
	}
	for _, s := range segs {
		if err := binary.Write(sw, binary.LittleEndian, uint32(s.FeatureID)); err != nil {
			return fmt.Errorf("crossmwm: write segment: %w", err)
		}
		if err := binary.Write(sw, binary.LittleEndian, s.SegmentIndex); err != nil {
			return fmt.Errorf("crossmwm: write segment: %w", err)
		}
		if err := binary.Write(sw, binary.LittleEndian, boolToUint8(s.Forward)); err != nil {
			return fmt.Errorf("crossmwm: write segment: %w", err)
		}
	}
	return nil
}

func boolToUint8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// ReadFrom deserialises the transition list and per-vehicle connectors
// from r's "cross_mwm" section.
func ReadFrom(r *archive.Reader) ([]Transition, map[vehicle.Type]*Connector, error) {
	sec, err := r.GetReader(Section)
	if err != nil {
		return nil, nil, err
	}

	var numTransitions uint32
	if err := binary.Read(sec, binary.LittleEndian, &numTransitions); err != nil {
		return nil, nil, fmt.Errorf("crossmwm: read transition count: %w", err)
	}
	transitions := make([]Transition, numTransitions)
	for i := range transitions {
		t, err := readTransition(sec)
		if err != nil {
			return nil, nil, err
		}
		transitions[i] = t
	}

	connectors := make(map[vehicle.Type]*Connector, len(allVehicleTypes))
	for range allVehicleTypes {
		var rawVT uint8
		if err := binary.Read(sec, binary.LittleEndian, &rawVT); err != nil {
			return nil, nil, fmt.Errorf("crossmwm: read vehicle type: %w", err)
		}
		vt := vehicle.Type(rawVT)

		enters, err := readSegments(sec)
		if err != nil {
			return nil, nil, err
		}
		exits, err := readSegments(sec)
		if err != nil {
			return nil, nil, err
		}
		c := &Connector{VehicleType: vt, enters: enters, exits: exits}
		if len(enters) > 0 && len(exits) > 0 {
			c.weights = make([][]float64, len(enters))
			for i := range enters {
				row := make([]float64, len(exits))
				for j := range exits {
					if err := binary.Read(sec, binary.LittleEndian, &row[j]); err != nil {
						return nil, nil, fmt.Errorf("crossmwm: read weight: %w", err)
					}
				}
				c.weights[i] = row
			}
		}
		connectors[vt] = c
	}
	return transitions, connectors, nil
}

func readTransition(sec io.Reader) (Transition, error) {
	var t Transition
	var fid, seg uint32
	var roadMask, onewayMask, enterSide uint8
	var inX, inY, outX, outY float64
	for _, dst := range []interface{}{&fid, &seg, &roadMask, &onewayMask, &enterSide, &inX, &inY, &outX, &outY} {
		if err := binary.Read(sec, binary.LittleEndian, dst); err != nil {
			return Transition{}, fmt.Errorf("crossmwm: read transition: %w", err)
		}
	}
	t.FeatureID = mapfeature.FeatureID(fid)
	t.SegmentIndex = seg
	t.RoadMask = vehicle.Mask(roadMask)
	t.OneWayMask = vehicle.Mask(onewayMask)
	t.EnterSide = enterSide != 0
	t.PointInside = geomutil.Point{inX, inY}
	t.PointOutside = geomutil.Point{outX, outY}
	return t, nil
}

func readSegments(sec io.Reader) ([]Segment, error) {
	var n uint32
	if err := binary.Read(sec, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("crossmwm: read segment count: %w", err)
	}
	segs := make([]Segment, n)
	for i := range segs {
		var fid, idx uint32
		var fwd uint8
		if err := binary.Read(sec, binary.LittleEndian, &fid); err != nil {
			return nil, fmt.Errorf("crossmwm: read segment: %w", err)
		}
		if err := binary.Read(sec, binary.LittleEndian, &idx); err != nil {
			return nil, fmt.Errorf("crossmwm: read segment: %w", err)
		}
		if err := binary.Read(sec, binary.LittleEndian, &fwd); err != nil {
			return nil, fmt.Errorf("crossmwm: read segment: %w", err)
		}
		segs[i] = Segment{FeatureID: mapfeature.FeatureID(fid), SegmentIndex: idx, Forward: fwd != 0}
	}
	return segs, nil
}
