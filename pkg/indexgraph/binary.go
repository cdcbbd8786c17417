package indexgraph

import (
	"encoding/binary"
	"fmt"

	"mwmgraph/pkg/archive"
	"mwmgraph/pkg/geomutil"
	"mwmgraph/pkg/mapfeature"
	"mwmgraph/pkg/vehicle"
)

// RoutingSection is the tile archive section name the joint table and
// mask table are written to.
const RoutingSection = "routing"

// WriteTo serialises ig's joint table followed by its per-feature mask
// table into w's "routing" section, using a length-prefixed fixed-width
// encoding through the shared archive container.
func (ig *IndexGraph) WriteTo(w *archive.Writer) error {
	sw := w.GetWriter(RoutingSection)

	if err := binary.Write(sw, binary.LittleEndian, uint32(len(ig.joints))); err != nil {
		return fmt.Errorf("indexgraph: write joint count: %w", err)
	}
	for _, j := range ig.joints {
		if err := binary.Write(sw, binary.LittleEndian, j.Location[0]); err != nil {
			return fmt.Errorf("indexgraph: write joint location: %w", err)
		}
		if err := binary.Write(sw, binary.LittleEndian, j.Location[1]); err != nil {
			return fmt.Errorf("indexgraph: write joint location: %w", err)
		}
		if err := binary.Write(sw, binary.LittleEndian, uint32(len(j.Points))); err != nil {
			return fmt.Errorf("indexgraph: write joint size: %w", err)
		}
		for _, p := range j.Points {
			if err := binary.Write(sw, binary.LittleEndian, uint32(p.FeatureID)); err != nil {
				return fmt.Errorf("indexgraph: write road point: %w", err)
			}
			if err := binary.Write(sw, binary.LittleEndian, p.VertexIndex); err != nil {
				return fmt.Errorf("indexgraph: write road point: %w", err)
			}
		}
	}

	if err := binary.Write(sw, binary.LittleEndian, uint32(len(ig.masks))); err != nil {
		return fmt.Errorf("indexgraph: write mask count: %w", err)
	}
	for fid, mask := range ig.masks {
		if err := binary.Write(sw, binary.LittleEndian, uint32(fid)); err != nil {
			return fmt.Errorf("indexgraph: write mask entry: %w", err)
		}
		if err := binary.Write(sw, binary.LittleEndian, uint8(mask)); err != nil {
			return fmt.Errorf("indexgraph: write mask entry: %w", err)
		}
		if err := binary.Write(sw, binary.LittleEndian, uint8(ig.onewayMasks[fid])); err != nil {
			return fmt.Errorf("indexgraph: write mask entry: %w", err)
		}
		var bidi uint8
		if ig.bidirectional[fid] {
			bidi = 1
		}
		if err := binary.Write(sw, binary.LittleEndian, bidi); err != nil {
			return fmt.Errorf("indexgraph: write mask entry: %w", err)
		}
	}
	return nil
}

// ReadFrom deserialises the joint and mask tables from r's "routing"
// section. Geometry is not persisted here — it lives in the tile's own
// feature data — so callers must call PopulateGeometry with the tile's
// reader before using OutgoingEdges.
func ReadFrom(r *archive.Reader) (*IndexGraph, error) {
	sec, err := r.GetReader(RoutingSection)
	if err != nil {
		return nil, err
	}

	var numJoints uint32
	if err := binary.Read(sec, binary.LittleEndian, &numJoints); err != nil {
		return nil, fmt.Errorf("indexgraph: read joint count: %w", err)
	}
	joints := make([]Joint, numJoints)
	for i := range joints {
		var x, y float64
		if err := binary.Read(sec, binary.LittleEndian, &x); err != nil {
			return nil, fmt.Errorf("indexgraph: read joint location: %w", err)
		}
		if err := binary.Read(sec, binary.LittleEndian, &y); err != nil {
			return nil, fmt.Errorf("indexgraph: read joint location: %w", err)
		}
		var numPoints uint32
		if err := binary.Read(sec, binary.LittleEndian, &numPoints); err != nil {
			return nil, fmt.Errorf("indexgraph: read joint size: %w", err)
		}
		points := make([]RoadPoint, numPoints)
		for k := range points {
			var fid, vidx uint32
			if err := binary.Read(sec, binary.LittleEndian, &fid); err != nil {
				return nil, fmt.Errorf("indexgraph: read road point: %w", err)
			}
			if err := binary.Read(sec, binary.LittleEndian, &vidx); err != nil {
				return nil, fmt.Errorf("indexgraph: read road point: %w", err)
			}
			points[k] = RoadPoint{FeatureID: mapfeature.FeatureID(fid), VertexIndex: vidx}
		}
		joints[i] = Joint{Points: points, Location: geomutil.Point{x, y}}
	}

	var numMasks uint32
	if err := binary.Read(sec, binary.LittleEndian, &numMasks); err != nil {
		return nil, fmt.Errorf("indexgraph: read mask count: %w", err)
	}
	masks := make(map[mapfeature.FeatureID]vehicle.Mask, numMasks)
	onewayMasks := make(map[mapfeature.FeatureID]vehicle.Mask, numMasks)
	bidirectional := make(map[mapfeature.FeatureID]bool, numMasks)
	for i := uint32(0); i < numMasks; i++ {
		var fid uint32
		var mask, oneway, bidi uint8
		if err := binary.Read(sec, binary.LittleEndian, &fid); err != nil {
			return nil, fmt.Errorf("indexgraph: read mask entry: %w", err)
		}
		if err := binary.Read(sec, binary.LittleEndian, &mask); err != nil {
			return nil, fmt.Errorf("indexgraph: read mask entry: %w", err)
		}
		if err := binary.Read(sec, binary.LittleEndian, &oneway); err != nil {
			return nil, fmt.Errorf("indexgraph: read mask entry: %w", err)
		}
		if err := binary.Read(sec, binary.LittleEndian, &bidi); err != nil {
			return nil, fmt.Errorf("indexgraph: read mask entry: %w", err)
		}
		id := mapfeature.FeatureID(fid)
		masks[id] = vehicle.Mask(mask)
		onewayMasks[id] = vehicle.Mask(oneway)
		bidirectional[id] = bidi != 0
	}

	ig := &IndexGraph{geometry: make(map[mapfeature.FeatureID][]geomutil.Junction)}
	ig.Import(joints)
	ig.masks = masks
	ig.onewayMasks = onewayMasks
	ig.bidirectional = bidirectional
	return ig, nil
}

// PopulateGeometry re-parses geometry for every feature present in the
// mask table, giving OutgoingEdges' compression scan polylines to walk.
func (ig *IndexGraph) PopulateGeometry(reader mapfeature.Reader) error {
	return reader.ForEachFeature(func(f mapfeature.Feature) {
		if _, ok := ig.masks[f.ID()]; !ok {
			return
		}
		if err := f.ParseGeometry(0); err != nil {
			return
		}
		ig.geometry[f.ID()] = mapfeature.Junctions(f)
	})
}
