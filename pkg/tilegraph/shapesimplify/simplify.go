// Package shapesimplify gives the OSM ingestion layer a ready-made
// Douglas-Peucker simplifier for edge shapes, expressed in the same
// metres-based epsilon the rest of the ingestion pipeline uses (see
// pkg/geo's TileQuantizationStepMeters), instead of the raw
// degrees-based threshold orb/simplify takes natively.
package shapesimplify

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// earthRadiusMeters matches the constant used by the haversine distance
// helpers elsewhere in the ingestion pipeline.
const earthRadiusMeters = 6_371_000.0

// degreesPerMeter converts a metres-scale threshold into the degrees-scale
// threshold orb/simplify expects, using a small-angle approximation: one
// degree of arc on a sphere of earthRadiusMeters.
const degreesPerMeter = 180.0 / (math.Pi * earthRadiusMeters)

// Simplify reduces ls with the Douglas-Peucker algorithm, treating
// epsilonMeters as an approximate ground distance rather than a raw
// coordinate-space tolerance. The endpoints of ls are always preserved.
func Simplify(ls orb.LineString, epsilonMeters float64) orb.LineString {
	if len(ls) < 3 || epsilonMeters <= 0 {
		return ls
	}

	threshold := epsilonMeters * degreesPerMeter
	simplifier := simplify.DouglasPeucker(threshold)

	out := simplifier.Simplify(ls.Clone())
	simplified, ok := out.(orb.LineString)
	if !ok {
		return ls
	}
	return simplified
}
