package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sipm "github.com/next-exp/simsipm_go/pkg"
)

func testConfiguration() Configuration {
	var config Configuration
	config.Events = 20
	config.PhotonsMean = 10
	config.PhotonTimeMean = 25
	config.PhotonTimeSigma = 5
	config.WavelengthMin = 350
	config.WavelengthMax = 550
	config.Seed = 42
	config.Sensor = sipm.DefaultProperties()
	return config
}

func TestGeneratePhotonEvents(t *testing.T) {
	t.Parallel()

	t.Run("no wavelengths without spectrum pde", func(t *testing.T) {
		t.Parallel()
		config := testConfiguration()
		times, wavelengths := generatePhotonEvents(config)
		require.Len(t, times, config.Events)
		assert.Nil(t, wavelengths)
	})

	t.Run("wavelengths in band with spectrum pde", func(t *testing.T) {
		t.Parallel()
		config := testConfiguration()
		config.Sensor.SetPdeSpectrum(map[float64]float64{400: 0.1, 500: 0.3})

		times, wavelengths := generatePhotonEvents(config)
		require.Len(t, wavelengths, config.Events)
		for i := range times {
			require.Len(t, wavelengths[i], len(times[i]))
			for _, wl := range wavelengths[i] {
				assert.GreaterOrEqual(t, wl, config.WavelengthMin)
				assert.Less(t, wl, config.WavelengthMax)
			}
		}
	})

	t.Run("deterministic for a seed", func(t *testing.T) {
		t.Parallel()
		config := testConfiguration()
		firstTimes, _ := generatePhotonEvents(config)
		secondTimes, _ := generatePhotonEvents(config)
		require.Equal(t, firstTimes, secondTimes)
	})
}
