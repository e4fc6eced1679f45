package sipm

import "math"

// generateSignal builds the analog waveform: a gaussian noise baseline on
// which every hit stamps the pulse template, shifted to its time bin and
// scaled by its amplitude times a per-hit gain variation factor.
func (s *Sensor) generateSignal() {
	nSignalPoints := s.properties.NSignalPoints()
	sampling := s.properties.Sampling

	samples := s.rng.RandGaussianSlice(0, s.properties.SnrLinear, nSignalPoints)

	for _, hit := range s.hits {
		amplitude := hit.Amplitude * s.rng.RandGaussian(1, s.properties.Ccgv)
		bin := int(math.Floor(hit.Time / sampling))
		if bin < 0 || bin >= nSignalPoints {
			continue
		}
		addScaledShape(samples[bin:], s.signalShape, amplitude)
	}

	s.signal.samples = samples
	s.signal.sampling = sampling
}

// addScaledShape adds amplitude*shape onto dst. The loop runs four lanes
// per iteration so the compiler can keep the adds in registers; the scalar
// tail covers the last len%4 samples.
func addScaledShape(dst, shape []float64, amplitude float64) {
	n := len(dst)
	if len(shape) < n {
		n = len(shape)
	}
	i := 0
	for ; i+4 <= n; i += 4 {
		dst[i] += shape[i] * amplitude
		dst[i+1] += shape[i+1] * amplitude
		dst[i+2] += shape[i+2] * amplitude
		dst[i+3] += shape[i+3] * amplitude
	}
	for ; i < n; i++ {
		dst[i] += shape[i] * amplitude
	}
}
