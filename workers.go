package main

import (
	"fmt"
	"sync"

	sipm "github.com/next-exp/simsipm_go/pkg"
)

type WorkerData struct {
	Idx         int
	Times       []float64
	Wavelengths []float64
}

// EventResult pairs the waveform with its features so the writer can store
// both. The signal slice is a copy of the sensor's samples.
type EventResult struct {
	Idx      int
	Signal   []float64
	Integral float64
	Peak     float64
	Tot      float64
	Toa      float64
	Top      float64
	Debug    sipm.DebugInfo
	Error    bool
}

func worker(id int, config Configuration, jobs <-chan WorkerData, results chan<- EventResult, wg *sync.WaitGroup) {
	defer wg.Done()

	sensor, err := sipm.NewSensor(config.Sensor)
	if err != nil {
		ErrorLog.Error(fmt.Sprintf("Worker %d: %v", id, err))
		return
	}
	sensor.Rng().Seed(config.Seed + uint64(id))

	for event := range jobs {
		results <- processEvent(sensor, config, event)
	}
}

func processEvent(sensor *sipm.Sensor, config Configuration, event WorkerData) (result EventResult) {
	defer func() {
		if r := recover(); r != nil {
			ErrorLog.Error(fmt.Sprintf("Event %d recovered from panic: %v", event.Idx, r))
			result = EventResult{Idx: event.Idx, Error: true}
		}
	}()

	sensor.ResetState()
	if event.Wavelengths != nil {
		if err := sensor.AddPhotonsWavelengths(event.Times, event.Wavelengths); err != nil {
			ErrorLog.Error(fmt.Sprintf("Event %d: %v", event.Idx, err))
			return EventResult{Idx: event.Idx, Error: true}
		}
	} else {
		sensor.AddPhotons(event.Times)
	}
	sensor.RunEvent()

	signal := sensor.Signal()
	samples := make([]float64, signal.Size())
	copy(samples, signal.Samples())

	return EventResult{
		Idx:      event.Idx,
		Signal:   samples,
		Integral: signal.Integral(config.IntStart, config.IntGate, config.Threshold),
		Peak:     signal.Peak(config.IntStart, config.IntGate, config.Threshold),
		Tot:      signal.Tot(config.IntStart, config.IntGate, config.Threshold),
		Toa:      signal.Toa(config.IntStart, config.IntGate, config.Threshold),
		Top:      signal.Top(config.IntStart, config.IntGate, config.Threshold),
		Debug:    sensor.Debug(),
	}
}

func sendEventsToWorkers(times [][]float64, wavelengths [][]float64, jobs chan<- WorkerData) {
	for i := range times {
		data := WorkerData{Idx: i, Times: times[i]}
		if wavelengths != nil {
			data.Wavelengths = wavelengths[i]
		}
		jobs <- data
	}
	close(jobs)
}
