package sipm

import (
	"fmt"
	"sync"
)

// Result carries the waveform features of one simulated event. Events are
// processed out of order by the workers; Idx is the original event index
// so downstream code can re-sort.
type Result struct {
	Idx         int
	Times       []float64
	Wavelengths []float64
	Integral    float64
	Peak        float64
	Tot         float64
	Toa         float64
	Top         float64
	Debug       DebugInfo
	Error       bool
}

// Simulator is the batch driver: it feeds a list of per-event photon
// vectors through sensors and collects the waveform features of each
// event. Events are disjoint, so the fan-out is over events: each worker
// owns its Sensor and its random generator, and only the result append is
// shared.
type Simulator struct {
	properties Properties

	intStart  float64
	intGate   float64
	threshold float64
	seed      uint64

	times       [][]float64
	wavelengths [][]float64

	mu      sync.Mutex
	results []Result
}

func NewSimulator(p Properties) *Simulator {
	return &Simulator{
		properties: p,
		intGate:    p.SignalLength,
		threshold:  0.5,
		seed:       1,
	}
}

// SetIntegrationWindow sets the window [start, start+gate) and the
// threshold used by the waveform accessors.
func (s *Simulator) SetIntegrationWindow(start, gate, threshold float64) {
	s.intStart = start
	s.intGate = gate
	s.threshold = threshold
}

// SetSeed fixes the base seed. Worker w is seeded with seed+w, so a
// single-worker run with the same seed and events is reproducible. With
// several workers the events are handed out through a shared channel, so
// which worker processes which event depends on scheduling and per-event
// results can differ between runs.
func (s *Simulator) SetSeed(seed uint64) {
	s.seed = seed
}

// AddEvents replaces the pending events with the given photon time vectors.
func (s *Simulator) AddEvents(times [][]float64) {
	s.times = times
	s.wavelengths = nil
}

// AddEventsWavelengths replaces the pending events with photon time and
// wavelength vectors.
func (s *Simulator) AddEventsWavelengths(times, wavelengths [][]float64) error {
	if len(times) != len(wavelengths) {
		return &ErrLengthMismatch{NTimes: len(times), NWavelengths: len(wavelengths)}
	}
	s.times = times
	s.wavelengths = wavelengths
	return nil
}

// PushBack appends one event.
func (s *Simulator) PushBack(times []float64) {
	s.times = append(s.times, times)
}

// PushBackWavelengths appends one event with wavelengths.
func (s *Simulator) PushBackWavelengths(times, wavelengths []float64) error {
	if len(times) != len(wavelengths) {
		return &ErrLengthMismatch{NTimes: len(times), NWavelengths: len(wavelengths)}
	}
	s.times = append(s.times, times)
	s.wavelengths = append(s.wavelengths, wavelengths)
	return nil
}

// Clear drops pending events and collected results.
func (s *Simulator) Clear() {
	s.times = nil
	s.wavelengths = nil
	s.results = nil
}

// Results returns the collected results, in completion order.
func (s *Simulator) Results() []Result {
	return s.results
}

// RunSimulation processes all pending events over nWorkers workers and
// collects a Result per event. When the sensor is in spectrum PDE mode but
// no wavelengths were supplied, the batch is demoted to no-PDE with a
// single warning.
func (s *Simulator) RunSimulation(nWorkers int) error {
	if nWorkers < 1 {
		nWorkers = 1
	}

	props := s.properties
	if props.PdeType == PdeSpectrum && len(s.wavelengths) == 0 {
		logger.Info("missing wavelengths, running simulation without PDE", "simulator")
		props.PdeType = PdeNone
	}
	if err := props.Validate(); err != nil {
		return err
	}

	s.results = make([]Result, 0, len(s.times))

	jobs := make(chan int, nWorkers)
	var wg sync.WaitGroup
	for w := 0; w < nWorkers; w++ {
		wg.Add(1)
		go s.worker(w, props, jobs, &wg)
	}

	for i := range s.times {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return nil
}

func (s *Simulator) worker(id int, props Properties, jobs <-chan int, wg *sync.WaitGroup) {
	defer wg.Done()

	sensor, err := NewSensor(props)
	if err != nil {
		logger.Error(fmt.Sprintf("worker %d: %v", id, err))
		return
	}
	sensor.Rng().Seed(s.seed + uint64(id))

	for idx := range jobs {
		s.runOne(sensor, idx)
	}
}

func (s *Simulator) runOne(sensor *Sensor, idx int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("event %d recovered from panic: %v", idx, r))
			s.appendResult(Result{Idx: idx, Error: true})
		}
	}()

	sensor.ResetState()
	if sensor.Properties().PdeType == PdeSpectrum && idx < len(s.wavelengths) {
		if err := sensor.AddPhotonsWavelengths(s.times[idx], s.wavelengths[idx]); err != nil {
			logger.Error(fmt.Sprintf("event %d: %v", idx, err))
			s.appendResult(Result{Idx: idx, Error: true})
			return
		}
	} else {
		sensor.AddPhotons(s.times[idx])
	}
	sensor.RunEvent()

	signal := sensor.Signal()
	result := Result{
		Idx:      idx,
		Times:    s.times[idx],
		Integral: signal.Integral(s.intStart, s.intGate, s.threshold),
		Peak:     signal.Peak(s.intStart, s.intGate, s.threshold),
		Tot:      signal.Tot(s.intStart, s.intGate, s.threshold),
		Toa:      signal.Toa(s.intStart, s.intGate, s.threshold),
		Top:      signal.Top(s.intStart, s.intGate, s.threshold),
		Debug:    sensor.Debug(),
	}
	if idx < len(s.wavelengths) {
		result.Wavelengths = s.wavelengths[idx]
	}
	s.appendResult(result)
}

func (s *Simulator) appendResult(r Result) {
	s.mu.Lock()
	s.results = append(s.results, r)
	s.mu.Unlock()
}
