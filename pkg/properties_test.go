package sipm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProperties(t *testing.T) {
	t.Parallel()

	props := DefaultProperties()
	require.NoError(t, props.Validate())

	assert.Equal(t, int32(40), props.NSideCells)
	assert.Equal(t, 1.0, props.Sampling)
	assert.Equal(t, 500.0, props.SignalLength)
	assert.Equal(t, 500, props.NSignalPoints())
	assert.Equal(t, PdeNone, props.PdeType)
	assert.Equal(t, HitUniform, props.HitDistribution)
	assert.True(t, props.HasDcr())
	assert.True(t, props.HasXt())
	assert.True(t, props.HasAp())
	assert.False(t, props.HasSlowComponent())
}

func TestSetProperty(t *testing.T) {
	t.Parallel()

	t.Run("sets every recognized name", func(t *testing.T) {
		t.Parallel()
		props := DefaultProperties()

		names := map[string]float64{
			"nSideCells":            10,
			"sampling":              0.5,
			"signalLength":          200,
			"risingTime":            2,
			"fallingTimeFast":       40,
			"fallingTimeSlow":       120,
			"slowComponentFraction": 0.3,
			"hasSlowComponent":      1,
			"pdeType":               1,
			"pde":                   0.4,
			"hitDistribution":       2,
			"dcr":                   100e3,
			"xt":                    0.1,
			"ap":                    0.05,
			"tauApFast":             15,
			"tauApSlow":             85,
			"apSlowFraction":        0.7,
			"recoveryTime":          20,
			"ccgv":                  0.02,
			"snrLinear":             0.01,
		}
		for name, value := range names {
			require.NoError(t, props.SetProperty(name, value), name)
		}

		assert.Equal(t, int32(10), props.NSideCells)
		assert.Equal(t, 400, props.NSignalPoints())
		assert.Equal(t, PdeSimple, props.PdeType)
		assert.Equal(t, HitGaussian, props.HitDistribution)
		assert.True(t, props.SlowComponent)
	})

	t.Run("unknown name", func(t *testing.T) {
		t.Parallel()
		props := DefaultProperties()
		err := props.SetProperty("risetime", 1)
		var unknownErr *ErrUnknownProperty
		require.ErrorAs(t, err, &unknownErr)
		assert.Equal(t, "risetime", unknownErr.Name)
	})

	t.Run("out of range value preserves state", func(t *testing.T) {
		t.Parallel()
		props := DefaultProperties()
		before := props

		var invalidErr *ErrInvalidValue
		require.ErrorAs(t, props.SetProperty("xt", -0.1), &invalidErr)
		require.ErrorAs(t, props.SetProperty("nSideCells", 0), &invalidErr)
		require.ErrorAs(t, props.SetProperty("sampling", 0), &invalidErr)
		require.ErrorAs(t, props.SetProperty("pde", 1.5), &invalidErr)
		assert.Equal(t, before, props)
	})
}

func TestSetPdeSpectrum(t *testing.T) {
	t.Parallel()

	props := DefaultProperties()
	props.SetPdeSpectrum(map[float64]float64{
		500: 0.35,
		300: 0.10,
		400: 0.30,
	})

	assert.Equal(t, PdeSpectrum, props.PdeType)
	assert.Equal(t, []float64{300, 400, 500}, props.PdeWavelengths)
	assert.Equal(t, []float64{0.10, 0.30, 0.35}, props.PdeValues)
	require.NoError(t, props.Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("spectrum mode needs points", func(t *testing.T) {
		t.Parallel()
		props := DefaultProperties()
		props.PdeType = PdeSpectrum
		assert.Error(t, props.Validate())
	})

	t.Run("slow component needs time constant", func(t *testing.T) {
		t.Parallel()
		props := DefaultProperties()
		props.SlowComponent = true
		props.FallingTimeSlow = 0
		assert.Error(t, props.Validate())
	})
}

func TestSetSnrDb(t *testing.T) {
	t.Parallel()

	props := DefaultProperties()
	props.SetSnrDb(20)
	assert.InDelta(t, 0.1, props.SnrLinear, 1e-12)
}
