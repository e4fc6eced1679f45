package sipm

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/exp/maps"
)

// Sensor simulates a single SiPM device. It owns the photon buffers, the
// hit list, the sampled signal and the random generator, all of which are
// mutated by RunEvent: a Sensor must not be shared between goroutines.
// Fan out over events instead, one Sensor per worker.
type Sensor struct {
	properties  Properties
	rng         *Random
	signalShape []float64

	nTotalHits uint32
	nPe        uint32
	nDcr       uint32
	nXt        uint32
	nAp        uint32

	photonTimes       []float64
	photonWavelengths []float64
	hits              []Hit
	// hitsGraph[i] is the index of the hit that generated hit i,
	// or -1 for primaries (photoelectrons and dark counts).
	hitsGraph []int32

	signal AnalogSignal
}

// NewSensor builds a sensor from the given properties. The pulse shape
// template is computed eagerly so the first event pays no setup cost.
func NewSensor(p Properties) (*Sensor, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &Sensor{
		properties: p,
		rng:        NewRandom(uint64(time.Now().UnixNano())),
	}
	s.signalShape = signalShape(p)
	s.signal.sampling = p.Sampling
	return s, nil
}

// Properties returns a copy of the sensor parameters.
func (s *Sensor) Properties() Properties { return s.properties }

// Rng returns the sensor's random generator, mainly for reseeding.
func (s *Sensor) Rng() *Random { return s.rng }

// Signal returns the waveform generated by the last RunEvent.
func (s *Sensor) Signal() *AnalogSignal { return &s.signal }

// Hits returns the hit list of the last RunEvent, for diagnostics.
func (s *Sensor) Hits() []Hit { return s.hits }

// HitsGraph returns, for each hit, the index of its generating hit,
// or -1 for primaries.
func (s *Sensor) HitsGraph() []int32 { return s.hitsGraph }

// Debug returns the per-event counters.
func (s *Sensor) Debug() DebugInfo {
	return DebugInfo{
		NPhotons: uint32(len(s.photonTimes)),
		NPe:      s.nPe,
		NDcr:     s.nDcr,
		NXt:      s.nXt,
		NAp:      s.nAp,
	}
}

// SetProperty sets a single named property and rebuilds the pulse shape.
// On error the previous state is preserved.
func (s *Sensor) SetProperty(name string, value float64) error {
	props := s.properties
	if err := props.SetProperty(name, value); err != nil {
		return err
	}
	return s.SetProperties(props)
}

// SetProperties replaces the sensor parameters and rebuilds the pulse shape.
// On error the previous state is preserved.
func (s *Sensor) SetProperties(p Properties) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.properties = p
	s.signalShape = signalShape(p)
	s.signal.sampling = p.Sampling
	return nil
}

// AddPhoton appends a photon arrival time to the pending buffer.
func (s *Sensor) AddPhoton(t float64) {
	s.photonTimes = append(s.photonTimes, t)
}

// AddPhotonWavelength appends a photon with its wavelength.
func (s *Sensor) AddPhotonWavelength(t, wavelength float64) {
	s.photonTimes = append(s.photonTimes, t)
	s.photonWavelengths = append(s.photonWavelengths, wavelength)
}

// AddPhotons appends all photon times at once.
func (s *Sensor) AddPhotons(times []float64) {
	s.photonTimes = append(s.photonTimes, times...)
}

// AddPhotonsWavelengths appends photon times with their wavelengths.
func (s *Sensor) AddPhotonsWavelengths(times, wavelengths []float64) error {
	if len(times) != len(wavelengths) {
		return &ErrLengthMismatch{NTimes: len(times), NWavelengths: len(wavelengths)}
	}
	s.photonTimes = append(s.photonTimes, times...)
	s.photonWavelengths = append(s.photonWavelengths, wavelengths...)
	return nil
}

// RunEvent runs the full event pipeline on the pending photons:
// dark counts, photoelectrons, optical crosstalk, amplitude
// recalculation, afterpulses and signal generation.
func (s *Sensor) RunEvent() {
	if s.properties.HasDcr() {
		s.addDcrEvents()
	}
	s.addPhotoelectrons()
	if s.properties.HasXt() {
		s.addXtEvents()
	}
	s.calculateSignalAmplitudes()
	if s.properties.HasAp() {
		s.addApEvents()
	}
	s.generateSignal()
}

// ResetState clears the per-event state. Properties and the pulse shape
// template are kept.
func (s *Sensor) ResetState() {
	s.nTotalHits = 0
	s.nPe = 0
	s.nDcr = 0
	s.nXt = 0
	s.nAp = 0

	s.hits = s.hits[:0]
	s.hitsGraph = s.hitsGraph[:0]
	s.photonTimes = s.photonTimes[:0]
	s.photonWavelengths = s.photonWavelengths[:0]
	s.signal.samples = s.signal.samples[:0]
}

// evaluatePde interpolates the detection probability for a wavelength,
// clamping to the first and last tabulated values outside the range.
func (s *Sensor) evaluatePde(x float64) float64 {
	wl := s.properties.PdeWavelengths
	pde := s.properties.PdeValues
	last := len(wl) - 1
	if x <= wl[0] {
		return pde[0]
	}
	if x >= wl[last] {
		return pde[last]
	}
	i := sort.SearchFloat64s(wl, x)
	weight := (x - wl[i-1]) / (wl[i] - wl[i-1])
	return weight*pde[i] + (1-weight)*pde[i-1]
}

func (s *Sensor) isDetected(pde float64) bool {
	return s.rng.Rand() < pde
}

func (s *Sensor) isInSensor(r, c int32) bool {
	n := s.properties.NSideCells
	return r >= 0 && c >= 0 && r < n && c < n
}

// hitCell generates the cell coordinates for a new photoelectron according
// to the configured spatial distribution.
func (s *Sensor) hitCell() (int32, int32) {
	nSideCells := s.properties.NSideCells
	maxCell := nSideCells - 1

	switch s.properties.HitDistribution {
	case HitCircle:
		var x, y float64
		if s.rng.Rand() < 0.95 {
			// In the unit circle
			for {
				x = s.rng.Rand()*2 - 1
				y = s.rng.Rand()*2 - 1
				if x*x+y*y <= 1 {
					break
				}
			}
		} else {
			// In the corners outside the circle
			for {
				x = s.rng.Rand()*2 - 1
				y = s.rng.Rand()*2 - 1
				if x*x+y*y > 1 {
					break
				}
			}
		}
		row := int32((x + 1) * float64(nSideCells) / 2)
		col := int32((y + 1) * float64(nSideCells) / 2)
		return clampCell(row, maxCell), clampCell(col, maxCell)

	case HitGaussian:
		x := s.rng.RandGaussian(0, 1)
		y := s.rng.RandGaussian(0, 1)
		if math.Abs(x) < 3 && math.Abs(y) < 3 {
			row := int32((x + 3) * float64(nSideCells) / 6)
			col := int32((y + 3) * float64(nSideCells) / 6)
			return clampCell(row, maxCell), clampCell(col, maxCell)
		}
		return s.rng.RandInteger(maxCell), s.rng.RandInteger(maxCell)

	default:
		return s.rng.RandInteger(maxCell), s.rng.RandInteger(maxCell)
	}
}

func clampCell(v, max int32) int32 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// addDcrEvents generates dark counts as a poisson process over the signal
// window. The cursor starts well before the window so the first arrival is
// not biased towards zero. Dcr is in Hz and times in ns, hence the 1e9.
func (s *Sensor) addDcrEvents() {
	signalLength := s.properties.SignalLength
	meanDcr := 1e9 / s.properties.Dcr
	maxCell := s.properties.NSideCells - 1

	last := -100.0
	for last < signalLength {
		last += s.rng.RandExponential(meanDcr)
		if last > 0 && last < signalLength {
			row := s.rng.RandInteger(maxCell)
			col := s.rng.RandInteger(maxCell)
			s.appendHit(Hit{Time: last, Amplitude: 1, Row: row, Col: col, Type: HitDarkCount}, -1)
			s.nDcr++
		}
	}
}

// addPhotoelectrons converts the pending photons into hits according to
// the detection efficiency mode.
func (s *Sensor) addPhotoelectrons() {
	nPhotons := len(s.photonTimes)
	if cap(s.hits)-len(s.hits) < nPhotons {
		hits := make([]Hit, len(s.hits), len(s.hits)+nPhotons)
		copy(hits, s.hits)
		s.hits = hits
	}

	pdeType := s.properties.PdeType
	if pdeType == PdeSpectrum && len(s.photonWavelengths) != nPhotons {
		logger.Info("missing wavelengths, running event without PDE", "sensor")
		pdeType = PdeNone
	}

	switch pdeType {
	case PdeNone:
		for i := 0; i < nPhotons; i++ {
			row, col := s.hitCell()
			s.appendHit(Hit{Time: s.photonTimes[i], Amplitude: 1, Row: row, Col: col, Type: HitPhotoelectron}, -1)
			s.nPe++
		}

	case PdeSimple:
		pde := s.properties.Pde
		for i := 0; i < nPhotons; i++ {
			if s.isDetected(pde) {
				row, col := s.hitCell()
				s.appendHit(Hit{Time: s.photonTimes[i], Amplitude: 1, Row: row, Col: col, Type: HitPhotoelectron}, -1)
				s.nPe++
			}
		}

	case PdeSpectrum:
		for i := 0; i < nPhotons; i++ {
			if s.isDetected(s.evaluatePde(s.photonWavelengths[i])) {
				row, col := s.hitCell()
				s.appendHit(Hit{Time: s.photonTimes[i], Amplitude: 1, Row: row, Col: col, Type: HitPhotoelectron}, -1)
				s.nPe++
			}
		}
	}
}

// addXtEvents adds optical crosstalk. The cursor bound is the live hit
// count, so crosstalk generated here is itself a candidate generator and
// cascades until the list stops growing.
func (s *Sensor) addXtEvents() {
	xt := s.properties.Xt
	expXt := math.Exp(-xt)

	cursor := uint32(0)
	for cursor < s.nTotalHits {
		parent := int32(cursor)
		hit := s.hits[cursor]
		cursor++

		// Poisson process by exponential-uniform thinning
		for test := s.rng.Rand(); test > expXt; test *= s.rng.Rand() {
			var rowAdd, colAdd int32
			for {
				rowAdd = s.rng.RandInteger(2) - 1
				colAdd = s.rng.RandInteger(2) - 1
				if rowAdd+colAdd != 0 {
					break
				}
			}
			xtRow := hit.Row + rowAdd
			xtCol := hit.Col + colAdd

			if s.isInSensor(xtRow, xtCol) {
				s.appendHit(Hit{Time: hit.Time, Amplitude: 1, Row: xtRow, Col: xtCol, Type: HitOpticalCrosstalk}, parent)
				s.nXt++
			}
		}
	}
}

// addApEvents adds afterpulses. Runs after calculateSignalAmplitudes so an
// afterpulse inherits the recalculated amplitude of its generator; the
// afterpulses themselves are not recalculated again within the event.
func (s *Sensor) addApEvents() {
	ap := s.properties.Ap
	expAp := math.Exp(-ap)
	tauApFast := s.properties.TauApFast
	tauApSlow := s.properties.TauApSlow
	slowFraction := s.properties.ApSlowFraction
	recoveryTime := s.properties.RecoveryTime
	signalLength := s.properties.SignalLength

	cursor := uint32(0)
	for cursor < s.nTotalHits {
		parent := int32(cursor)
		hit := s.hits[cursor]
		cursor++

		for test := s.rng.Rand(); test > expAp; test *= s.rng.Rand() {
			var delay float64
			if s.rng.Rand() < slowFraction {
				delay = s.rng.RandExponential(tauApSlow)
			} else {
				delay = s.rng.RandExponential(tauApFast)
			}

			if hit.Time+delay < signalLength {
				amplitude := hit.Amplitude * (1 - math.Exp(-delay/recoveryTime))
				s.appendHit(Hit{Time: hit.Time + delay, Amplitude: amplitude, Row: hit.Row, Col: hit.Col, Type: HitAfterPulse}, parent)
				s.nAp++
			}
		}
	}
}

func (s *Sensor) appendHit(hit Hit, parent int32) {
	s.hits = append(s.hits, hit)
	s.hitsGraph = append(s.hitsGraph, parent)
	s.nTotalHits++
}

// sortHits orders the hit list by time, keeping the parent indices in
// hitsGraph pointing at the same hits. The sort is stable so equal-time
// hits keep their generation order.
func (s *Sensor) sortHits() {
	n := len(s.hits)
	order := make([]int32, n)
	for i := range order {
		order[i] = int32(i)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return s.hits[order[a]].Time < s.hits[order[b]].Time
	})

	newPos := make([]int32, n)
	for newIdx, oldIdx := range order {
		newPos[oldIdx] = int32(newIdx)
	}

	hits := make([]Hit, n)
	graph := make([]int32, n)
	for newIdx, oldIdx := range order {
		hits[newIdx] = s.hits[oldIdx]
		if p := s.hitsGraph[oldIdx]; p >= 0 {
			graph[newIdx] = newPos[p]
		} else {
			graph[newIdx] = -1
		}
	}
	s.hits = hits
	s.hitsGraph = graph
}

// calculateSignalAmplitudes recalculates the amplitude of hits landing on a
// cell that already fired. The cell recharges as an RC circuit, so a hit
// arriving dt after the previous one in the same cell carries
// 1 - exp(-dt/tau) of the full amplitude.
func (s *Sensor) calculateSignalAmplitudes() {
	s.sortHits()

	nSideCells := s.properties.NSideCells
	counts := make(map[int32]int32, len(s.hits))
	for _, hit := range s.hits {
		counts[hit.ID(nSideCells)]++
	}

	recoveryTime := s.properties.RecoveryTime
	for _, id := range maps.Keys(counts) {
		if counts[id] < 2 {
			continue
		}
		first := true
		var previousHitTime float64
		for i := range s.hits {
			if s.hits[i].ID(nSideCells) != id {
				continue
			}
			if first {
				first = false
			} else {
				delay := s.hits[i].Time - previousHitTime
				s.hits[i].Amplitude = 1 - math.Exp(-delay/recoveryTime)
			}
			previousHitTime = s.hits[i].Time
		}
	}
}

func (s *Sensor) String() string {
	var sb strings.Builder
	sb.WriteString(s.properties.String())
	fmt.Fprintf(&sb, "Pending photons: %d\n", len(s.photonTimes))
	fmt.Fprintf(&sb, "%s\n", s.Debug())
	return sb.String()
}
