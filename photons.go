package main

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	sipm "github.com/next-exp/simsipm_go/pkg"
)

// generatePhotonEvents builds the per-event photon lists: a poisson number
// of photons per event with gaussian arrival times. Wavelengths are drawn
// uniformly in the configured band only when the sensor runs in spectrum
// PDE mode.
func generatePhotonEvents(config Configuration) ([][]float64, [][]float64) {
	src := rand.New(rand.NewSource(config.Seed))
	nPhotons := distuv.Poisson{Lambda: config.PhotonsMean, Src: src}
	arrival := distuv.Normal{Mu: config.PhotonTimeMean, Sigma: config.PhotonTimeSigma, Src: src}

	withWavelengths := config.Sensor.PdeType == sipm.PdeSpectrum

	times := make([][]float64, config.Events)
	var wavelengths [][]float64
	if withWavelengths {
		wavelengths = make([][]float64, config.Events)
	}

	for i := range times {
		n := int(nPhotons.Rand())
		eventTimes := make([]float64, n)
		for j := range eventTimes {
			eventTimes[j] = arrival.Rand()
		}
		times[i] = eventTimes

		if withWavelengths {
			eventWavelengths := make([]float64, n)
			band := config.WavelengthMax - config.WavelengthMin
			for j := range eventWavelengths {
				eventWavelengths[j] = config.WavelengthMin + band*src.Float64()
			}
			wavelengths[i] = eventWavelengths
		}
	}
	return times, wavelengths
}
