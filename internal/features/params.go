package features

import "math"

// Fixed feature constants.
const (
	// ExtremelyLargeDistance stands in for "no other object" and "no road
	// edge" distances.
	ExtremelyLargeDistance = 1e10
	// SmallOverlapThreshold is the lateral overlap, in metres, below which a
	// lead object only counts when its heading is nearly aligned.
	SmallOverlapThreshold = 0.5
)

var (
	maxHeadingDiff                = 75 * math.Pi / 180
	maxHeadingDiffForSmallOverlap = 10 * math.Pi / 180
)

// Params carries the tunable thresholds of the feature computations.
type Params struct {
	CollisionDistanceThreshold float64 // Distances below this count as collisions
	OffroadDistanceThreshold   float64 // Road-edge distances above this count as offroad
	CornerRoundingFactor       float64 // Fraction of min(length, width) rounded off box corners
	MaximumTimeToCollision     float64 // Seconds; also the value reported with no lead object
	LaneAssociationDistance    float64 // Metres from a lane centerline to be on that lane
}

// DefaultParams returns the benchmark thresholds.
func DefaultParams() Params {
	return Params{
		CollisionDistanceThreshold: 0.0,
		OffroadDistanceThreshold:   0.0,
		CornerRoundingFactor:       0.7,
		MaximumTimeToCollision:     5.0,
		LaneAssociationDistance:    2.0,
	}
}
