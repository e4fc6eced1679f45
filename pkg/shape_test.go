package sipm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/floats"
)

func TestSignalShape(t *testing.T) {
	t.Parallel()

	t.Run("two exponential model", func(t *testing.T) {
		t.Parallel()
		props := DefaultProperties()
		props.Sampling = 1
		props.SignalLength = 200
		props.RisingTime = 1
		props.FallingTimeFast = 50

		shape := signalShape(props)
		require.Len(t, shape, props.NSignalPoints())
		assert.Equal(t, 1.0, floats.Max(shape))
		assert.Equal(t, 0.0, shape[0])
		// The pulse decays after the peak
		peakIdx := floats.MaxIdx(shape)
		assert.Greater(t, shape[peakIdx], shape[len(shape)-1])
	})

	t.Run("three exponential model", func(t *testing.T) {
		t.Parallel()
		props := DefaultProperties()
		props.SlowComponent = true
		props.FallingTimeSlow = 100
		props.SlowComponentFraction = 0.2

		shape := signalShape(props)
		require.Len(t, shape, props.NSignalPoints())
		assert.Equal(t, 1.0, floats.Max(shape))

		// The slow tail decays slower than the fast-only pulse
		fastOnly := props
		fastOnly.SlowComponent = false
		fast := signalShape(fastOnly)
		assert.Greater(t, shape[len(shape)-1], fast[len(fast)-1])
	})

	t.Run("fractional sampling", func(t *testing.T) {
		t.Parallel()
		props := DefaultProperties()
		props.Sampling = 0.4
		props.SignalLength = 100

		shape := signalShape(props)
		assert.Len(t, shape, 250)
		assert.Equal(t, 1.0, floats.Max(shape))
	})
}
