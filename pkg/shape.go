package sipm

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// signalShape computes the pulse template of a single cell: the signal of
// one photoelectron at time 0, peak-normalized to 1.
//
// Two-exponential model:
//
//	s(t) = exp(-t/tau_fall) - exp(-t/tau_rise)
//
// With the slow component enabled a third falling exponential is added with
// weight SlowComponentFraction.
func signalShape(p Properties) []float64 {
	nSignalPoints := p.NSignalPoints()
	tr := p.RisingTime / p.Sampling
	tff := p.FallingTimeFast / p.Sampling
	shape := make([]float64, nSignalPoints)

	if p.HasSlowComponent() {
		tfs := p.FallingTimeSlow / p.Sampling
		slf := p.SlowComponentFraction
		for i := range shape {
			t := float64(i)
			shape[i] = (1-slf)*math.Exp(-t/tff) + slf*math.Exp(-t/tfs) - math.Exp(-t/tr)
		}
	} else {
		for i := range shape {
			t := float64(i)
			shape[i] = math.Exp(-t/tff) - math.Exp(-t/tr)
		}
	}

	peak := floats.Max(shape)
	if peak <= 0 {
		panic("sipm: signal shape peak must be positive")
	}
	// Divide rather than multiply by the reciprocal so the peak sample is
	// exactly 1.
	for i := range shape {
		shape[i] /= peak
	}
	return shape
}
