// Package borders loads tile border polygons and answers point
// containment queries. The cross-tile connector only depends on the
// small Region interface, so this default loader can be swapped for
// another border source without touching connector logic.
//
// Containment is implemented with github.com/golang/geo/s2, treating
// each polygon ring's coordinates as latitude/longitude degrees — the
// convention the .poly border files already use.
package borders

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"

	"mwmgraph/pkg/geomutil"
)

// Region answers point-in-polygon queries for one tile's border.
type Region interface {
	Contains(p geomutil.Point) bool
}

// loopRegion is the default Region, backed by one or more s2.Loop rings
// (a country border may be a multi-ring polygon with holes).
type loopRegion struct {
	loops []*s2.Loop
}

// Contains reports whether p falls inside an odd number of rings
// (even-odd fill rule over disjoint/nested loops).
func (r *loopRegion) Contains(p geomutil.Point) bool {
	pt := s2.PointFromLatLng(s2.LatLngFromDegrees(p[1], p[0]))
	inside := false
	for _, loop := range r.loops {
		if loop.ContainsPoint(pt) {
			inside = !inside
		}
	}
	return inside
}

// NewRegionFromRings builds a Region directly from closed point rings,
// each given as (lng, lat) pairs via geomutil.Point, primarily for tests
// that don't want to round-trip through a .poly file.
func NewRegionFromRings(rings [][]geomutil.Point) Region {
	loops := make([]*s2.Loop, 0, len(rings))
	for _, ring := range rings {
		pts := make([]s2.Point, len(ring))
		for i, p := range ring {
			pts[i] = s2.PointFromLatLng(s2.LatLngFromDegrees(p[1], p[0]))
		}
		loop := s2.LoopFromPoints(pts)
		// Normalize so the loop's interior is always its smaller side,
		// regardless of the ring's winding order in the source file.
		loop.Normalize()
		loops = append(loops, loop)
	}
	return &loopRegion{loops: loops}
}

// Load reads the border polygon for country from
// <path>/borders/<country>.poly and returns its Region.
//
// The .poly format is one or more rings, each introduced by a name line,
// followed by "lng lat" coordinate lines, and terminated by a lone
// "END" line; the whole file is terminated by a final "END".
func Load(path, country string) (Region, error) {
	filePath := fmt.Sprintf("%s/borders/%s.poly", path, country)
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("borders: open %s: %w", filePath, err)
	}
	defer f.Close()

	var rings [][]geomutil.Point
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	// Skip the file's own name line.
	if scanner.Scan() {
		// discard.
	}

	var current []geomutil.Point
	inRing := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "END" {
			if inRing {
				rings = append(rings, current)
				current = nil
				inRing = false
				continue
			}
			break // file terminator
		}
		if !inRing {
			inRing = true
			continue // ring name/index line
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("borders: malformed coordinate line %q", line)
		}
		lng, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("borders: bad longitude %q: %w", fields[0], err)
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("borders: bad latitude %q: %w", fields[1], err)
		}
		current = append(current, geomutil.Point{lng, lat})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("borders: read %s: %w", filePath, err)
	}
	if len(rings) == 0 {
		return nil, fmt.Errorf("borders: %s: no rings found", filePath)
	}

	return NewRegionFromRings(rings), nil
}
