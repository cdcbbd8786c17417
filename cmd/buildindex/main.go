// Command buildindex is the routing index build entry point: it reads
// an OSM PBF extract and a country code, builds the joint-level index
// graph and cross-tile connectors for each vehicle type, and writes one
// archive file per tile.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"mwmgraph/pkg/archive"
	"mwmgraph/pkg/borders"
	"mwmgraph/pkg/crossmwm"
	"mwmgraph/pkg/indexgraph"
	"mwmgraph/pkg/mapfeature"
	mwmosm "mwmgraph/pkg/osm"
	"mwmgraph/pkg/vehicle"
)

// parseVehicleTypes splits a comma-separated opt-in list (e.g.
// "car,bicycle") into vehicle.Types, case-insensitive. An empty list
// means all three profiles.
func parseVehicleTypes(raw string) ([]vehicle.Type, error) {
	if strings.TrimSpace(raw) == "" {
		return []vehicle.Type{vehicle.Car, vehicle.Bicycle, vehicle.Pedestrian}, nil
	}
	var types []vehicle.Type
	for _, name := range strings.Split(raw, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "car":
			types = append(types, vehicle.Car)
		case "bicycle":
			types = append(types, vehicle.Bicycle)
		case "pedestrian":
			types = append(types, vehicle.Pedestrian)
		default:
			return nil, fmt.Errorf("unknown vehicle type %q (want car, bicycle, or pedestrian)", name)
		}
	}
	return types, nil
}

func main() {
	input := flag.String("input", "", "Path to .osm.pbf file")
	output := flag.String("output", "tile.mwm", "Output archive file path")
	country := flag.String("country", "", "Country name used to select the vehicle model set (e.g. Germany)")
	bordersPath := flag.String("borders-path", "", "Directory containing borders/<country>.poly")
	vehicleTypes := flag.String("vehicle-types", "", "Comma-separated vehicle types to compute leap weights for (car,bicycle,pedestrian); empty means all three")
	flag.Parse()

	if *input == "" || *country == "" || *bordersPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: buildindex --input <file.osm.pbf> --country <name> --borders-path <dir> [--output tile.mwm] [--vehicle-types car,bicycle,pedestrian]")
		os.Exit(1)
	}

	vts, err := parseVehicleTypes(*vehicleTypes)
	if err != nil {
		log.Fatalf("Invalid --vehicle-types: %v", err)
	}

	start := time.Now()

	log.Println("Opening OSM file...")
	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("Failed to open input file: %v", err)
	}
	defer f.Close()

	log.Println("Parsing OSM ways and nodes...")
	ways, nodePoint, err := mwmosm.ParseFeatures(context.Background(), f)
	if err != nil {
		log.Fatalf("Failed to parse OSM data: %v", err)
	}
	reader := mapfeature.NewOSMSource(ways, nodePoint, nil)

	log.Printf("Building vehicle bridge for %s...", *country)
	bridge, err := vehicle.NewBridge(*country)
	if err != nil {
		log.Fatalf("Failed to build vehicle bridge: %v", err)
	}

	log.Printf("Loading border polygon for %s...", *country)
	region, err := borders.Load(*bordersPath, *country)
	if err != nil {
		log.Fatalf("Failed to load border polygon: %v", err)
	}

	if err := build(reader, bridge, region, *output, vts); err != nil {
		log.Fatalf("Build failed: %v", err)
	}

	log.Printf("Done in %s. Output: %s", time.Since(start).Round(time.Millisecond), *output)
}

// build runs the index-graph and cross-tile connector build pipeline
// and commits it to path. Leap weights are computed for every vehicle
// type in vehicleTypes (the other profiles' connectors are still
// written, with their weight tables left at NoRoute everywhere). It
// wraps its body in a single top-level recover so a panic anywhere in
// the pipeline is logged as a failure rather than crashing the process
// with a partially written archive — archive.Writer.Save only commits
// on a clean return, so a recovered panic here simply never calls it.
func build(reader mapfeature.Reader, bridge *vehicle.Bridge, region borders.Region, path string, vehicleTypes []vehicle.Type) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("buildindex: panic during build: %v", r)
		}
	}()

	log.Println("Building index graph...")
	ig, err := indexgraph.Build(reader, bridge)
	if err != nil {
		return fmt.Errorf("build index graph: %w", err)
	}
	log.Printf("Index graph: %d joints", ig.NumJoints())

	log.Println("Detecting border transitions...")
	transitions, err := crossmwm.DetectTransitions(reader, bridge, region)
	if err != nil {
		return fmt.Errorf("detect transitions: %w", err)
	}
	log.Printf("Found %d border transitions", len(transitions))

	connectors := crossmwm.BuildConnectors(transitions)

	estimator := crossmwm.SpeedEstimator{
		SpeedKMPH: func(_ mapfeature.FeatureID, vt vehicle.Type) float64 { return bridge.MaxSpeedKMPH(vt) },
	}

	for _, vt := range vehicleTypes {
		c := connectors[vt]
		log.Printf("Computing leap weights for %s: %d enters, %d exits...", vt, len(c.Enters()), len(c.Exits()))
		logged := 0
		crossmwm.BuildLeapWeights(ig, c, estimator, func(indexgraph.JointID) bool { return false }, func(format string, args ...interface{}) {
			logged++
			log.Printf(format, args...)
		})
		log.Printf("Leap weights for %s done (%d progress messages)", vt, logged)
	}

	w := archive.NewWriter()
	if err := ig.WriteTo(w); err != nil {
		return fmt.Errorf("write index graph: %w", err)
	}
	if err := crossmwm.WriteTo(w, transitions, connectors); err != nil {
		return fmt.Errorf("write cross-tile connectors: %w", err)
	}
	if err := w.Save(path); err != nil {
		return fmt.Errorf("save archive: %w", err)
	}
	return nil
}

