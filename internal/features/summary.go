package features

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Summary condenses a feature record for logging. It is not a score.
type Summary struct {
	Samples int
	Objects int
	// Fractions of (sample, object) pairs flagged at one or more valid steps.
	CollisionRate         float64
	OffroadRate           float64
	RedLightViolationRate float64
	// MeanSpeed averages linear speed over valid steps with a defined speed;
	// NaN when there are none.
	MeanSpeed float64
}

// Summarize reduces m to a Summary.
func Summarize(m *MetricFeatures) Summary {
	s := Summary{Samples: m.NumSamples(), Objects: m.NumObjects(), MeanSpeed: math.NaN()}
	var collided, offroad, redLight, pairs float64
	var speeds []float64
	for k := range m.Valid {
		for i := range m.Valid[k] {
			pairs++
			collided += flagged(m.CollisionPerStep[k][i], m.Valid[k][i])
			offroad += flagged(m.OffroadPerStep[k][i], m.Valid[k][i])
			redLight += flagged(m.TrafficLightViolationPerStep[k][i], m.Valid[k][i])
			for t, ok := range m.Valid[k][i] {
				if v := m.LinearSpeed[k][i][t]; ok && !math.IsNaN(v) {
					speeds = append(speeds, v)
				}
			}
		}
	}
	if pairs > 0 {
		s.CollisionRate = collided / pairs
		s.OffroadRate = offroad / pairs
		s.RedLightViolationRate = redLight / pairs
	}
	if len(speeds) > 0 {
		s.MeanSpeed = floats.Sum(speeds) / float64(len(speeds))
	}
	return s
}

func flagged(flags, valid []bool) float64 {
	for t, f := range flags {
		if f && valid[t] {
			return 1
		}
	}
	return 0
}
