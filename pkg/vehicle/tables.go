package vehicle

import "github.com/paulmach/osm"

// carHighways and the access rules below generalize a single car-only
// accessibility and direction table into one table per profile.
var carHighways = map[string]bool{
	"motorway":       true,
	"motorway_link":  true,
	"trunk":          true,
	"trunk_link":     true,
	"primary":        true,
	"primary_link":   true,
	"secondary":      true,
	"secondary_link": true,
	"tertiary":       true,
	"tertiary_link":  true,
	"unclassified":   true,
	"residential":    true,
	"living_street":  true,
	"service":        true,
}

var bicycleHighways = map[string]bool{
	"cycleway":      true,
	"primary":       true,
	"secondary":     true,
	"tertiary":      true,
	"unclassified":  true,
	"residential":   true,
	"living_street": true,
	"service":       true,
	"track":         true,
	"path":          true,
}

var pedestrianHighways = map[string]bool{
	"footway":       true,
	"pedestrian":    true,
	"path":          true,
	"steps":         true,
	"living_street": true,
	"residential":   true,
	"track":         true,
	"service":       true,
}

// carModel classifies features the way a car can traverse them.
type carModel struct{ maxSpeedKMPH float64 }

func (m carModel) IsRoad(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if !carHighways[hw] {
		return false
	}
	if tags.Find("area") == "yes" {
		return false
	}
	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	if tags.Find("motor_vehicle") == "no" {
		return false
	}
	return true
}

func (m carModel) IsOneWay(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		return true
	}
	switch tags.Find("oneway") {
	case "yes", "true", "1", "-1", "reverse":
		return true
	}
	return false
}

func (m carModel) MaxSpeedKMPH() float64 { return m.maxSpeedKMPH }

// bicycleModel classifies features a bicycle can traverse.
type bicycleModel struct{ maxSpeedKMPH float64 }

func (m bicycleModel) IsRoad(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if !bicycleHighways[hw] {
		return false
	}
	if tags.Find("bicycle") == "no" {
		return false
	}
	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	return true
}

func (m bicycleModel) IsOneWay(tags osm.Tags) bool {
	if tags.Find("oneway:bicycle") == "yes" {
		return true
	}
	switch tags.Find("oneway") {
	case "yes", "true", "1", "-1", "reverse":
		return tags.Find("oneway:bicycle") != "no"
	}
	return false
}

func (m bicycleModel) MaxSpeedKMPH() float64 { return m.maxSpeedKMPH }

// pedestrianModel classifies features a pedestrian can traverse.
// Pedestrians ignore vehicle oneway restrictions by convention.
type pedestrianModel struct{ maxSpeedKMPH float64 }

func (m pedestrianModel) IsRoad(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if !pedestrianHighways[hw] {
		return false
	}
	if tags.Find("foot") == "no" {
		return false
	}
	return true
}

func (m pedestrianModel) IsOneWay(tags osm.Tags) bool {
	return tags.Find("oneway:foot") == "yes"
}

func (m pedestrianModel) MaxSpeedKMPH() float64 { return m.maxSpeedKMPH }

// countryModels bundles one Model per vehicle Type for a single country.
type countryModels [numTypes]Model

// defaultSpeeds are used for any country without an explicit override.
var defaultSpeeds = map[Type]float64{
	Pedestrian: 5,
	Bicycle:    15,
	Car:        90,
}

// countrySpeedOverrides lets a handful of countries specialise max
// speeds (e.g. autobahns) without duplicating the tag tables.
var countrySpeedOverrides = map[string]map[Type]float64{
	"Germany": {Car: 130},
}

// registry builds and caches the per-country model triple on first use.
var registry = map[string]countryModels{}

func modelsForCountry(country string) countryModels {
	if m, ok := registry[country]; ok {
		return m
	}
	speeds := defaultSpeeds
	if override, ok := countrySpeedOverrides[country]; ok {
		merged := map[Type]float64{}
		for k, v := range defaultSpeeds {
			merged[k] = v
		}
		for k, v := range override {
			if v != 0 {
				merged[k] = v
			}
		}
		speeds = merged
	}
	m := countryModels{
		pedestrianModel{maxSpeedKMPH: speeds[Pedestrian]},
		bicycleModel{maxSpeedKMPH: speeds[Bicycle]},
		carModel{maxSpeedKMPH: speeds[Car]},
	}
	registry[country] = m
	return m
}

// knownCountries restricts which country codes resolve to a model triple,
// so an unrecognised country fails loudly instead of silently falling
// back to defaults for every string.
var knownCountries = map[string]bool{
	"Singapore": true,
	"Malaysia":  true,
	"Germany":   true,
	"France":    true,
}

func init() {
	for c := range countrySpeedOverrides {
		knownCountries[c] = true
	}
}

// RegisterCountry makes country resolvable by NewBridge, using the given
// per-vehicle max speeds (zero-valued entries fall back to the default).
func RegisterCountry(country string, speeds map[Type]float64) {
	knownCountries[country] = true
	countrySpeedOverrides[country] = speeds
}
