package sipm

import (
	"gonum.org/v1/gonum/floats"
)

// AnalogSignal is the sampled waveform produced by one event.
//
// The window accessors restrict the waveform to [start, start+gate),
// clipped to the signal, and apply a threshold, returning -1 to flag an
// empty event instead of returning zeros: Integral, Peak and Top return -1
// when the window is empty or its maximum is below the threshold; Tot and
// Toa count only samples strictly above the threshold and return -1 when
// there are none.
type AnalogSignal struct {
	samples  []float64
	sampling float64
}

func (s *AnalogSignal) Size() int         { return len(s.samples) }
func (s *AnalogSignal) Sampling() float64 { return s.sampling }

// Samples returns the underlying sample slice, valid until the next
// RunEvent; callers that keep it across events must copy it.
func (s *AnalogSignal) Samples() []float64 { return s.samples }

func (s *AnalogSignal) window(start, gate float64) (int, int) {
	lo := int(start / s.sampling)
	hi := int((start + gate) / s.sampling)
	if lo < 0 {
		lo = 0
	}
	if hi > len(s.samples) {
		hi = len(s.samples)
	}
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

// Integral returns the area of the waveform in the window, in sample
// units times ns.
func (s *AnalogSignal) Integral(start, gate, threshold float64) float64 {
	lo, hi := s.window(start, gate)
	if lo == hi || floats.Max(s.samples[lo:hi]) < threshold {
		return -1
	}
	return floats.Sum(s.samples[lo:hi]) * s.sampling
}

// Peak returns the maximum sample in the window.
func (s *AnalogSignal) Peak(start, gate, threshold float64) float64 {
	lo, hi := s.window(start, gate)
	if lo == hi {
		return -1
	}
	peak := floats.Max(s.samples[lo:hi])
	if peak < threshold {
		return -1
	}
	return peak
}

// Tot returns the time over threshold in the window.
func (s *AnalogSignal) Tot(start, gate, threshold float64) float64 {
	lo, hi := s.window(start, gate)
	over := 0
	for _, v := range s.samples[lo:hi] {
		if v > threshold {
			over++
		}
	}
	if over == 0 {
		return -1
	}
	return float64(over) * s.sampling
}

// Toa returns the time of arrival: the delay from the window start to the
// first sample over threshold.
func (s *AnalogSignal) Toa(start, gate, threshold float64) float64 {
	lo, hi := s.window(start, gate)
	for i, v := range s.samples[lo:hi] {
		if v > threshold {
			return float64(i) * s.sampling
		}
	}
	return -1
}

// Top returns the time of peak: the delay from the window start to the
// maximum sample.
func (s *AnalogSignal) Top(start, gate, threshold float64) float64 {
	lo, hi := s.window(start, gate)
	if lo == hi {
		return -1
	}
	if floats.Max(s.samples[lo:hi]) < threshold {
		return -1
	}
	idx := floats.MaxIdx(s.samples[lo:hi])
	return float64(idx) * s.sampling
}
