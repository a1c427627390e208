package features

import (
	"math"

	"github.com/banshee-data/simagents/internal/geometry"
)

// ComputeKinematicFeatures returns speed, acceleration, angular speed and
// angular acceleration of one object by backward differences over steps of
// dt seconds. Speed and angular speed are NaN at step 0; the accelerations
// are NaN at steps 0 and 1. Heading differences are wrapped to [-π, π).
func ComputeKinematicFeatures(x, y, z, heading []float64, dt float64) (speed, accel, angSpeed, angAccel []float64) {
	n := len(x)
	speed, accel = nanSeries(n), nanSeries(n)
	angSpeed, angAccel = nanSeries(n), nanSeries(n)

	dh := nanSeries(n)
	for t := 1; t < n; t++ {
		dx, dy, dz := x[t]-x[t-1], y[t]-y[t-1], z[t]-z[t-1]
		speed[t] = math.Sqrt(dx*dx+dy*dy+dz*dz) / dt
		dh[t] = geometry.WrapAngle(heading[t] - heading[t-1])
		angSpeed[t] = dh[t] / dt
	}
	for t := 2; t < n; t++ {
		accel[t] = (speed[t] - speed[t-1]) / dt
		angAccel[t] = geometry.WrapAngle(dh[t]-dh[t-1]) / (dt * dt)
	}
	return speed, accel, angSpeed, angAccel
}

// ComputeAverageDisplacementError returns the mean 3D distance between the
// simulated and logged positions over the steps where the log is valid. It
// is NaN when no logged step is valid.
func ComputeAverageDisplacementError(simX, simY, simZ, logX, logY, logZ []float64, logValid []bool) float64 {
	var sum float64
	var count int
	for t, ok := range logValid {
		if !ok {
			continue
		}
		dx, dy, dz := simX[t]-logX[t], simY[t]-logY[t], simZ[t]-logZ[t]
		sum += math.Sqrt(dx*dx + dy*dy + dz*dz)
		count++
	}
	return sum / float64(count)
}

func nanSeries(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
