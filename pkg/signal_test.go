package sipm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSignal(samples []float64, sampling float64) *AnalogSignal {
	return &AnalogSignal{samples: samples, sampling: sampling}
}

func TestAnalogSignalAccessors(t *testing.T) {
	t.Parallel()

	// Triangle pulse peaking at sample 3
	signal := testSignal([]float64{0, 1, 2, 3, 2, 1, 0, 0}, 1.0)

	t.Run("integral", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 9.0, signal.Integral(0, 8, 0.5))
	})

	t.Run("peak", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 3.0, signal.Peak(0, 8, 0.5))
	})

	t.Run("tot", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 5.0, signal.Tot(0, 8, 0.5))
	})

	t.Run("toa", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 1.0, signal.Toa(0, 8, 0.5))
	})

	t.Run("top", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 3.0, signal.Top(0, 8, 0.5))
	})

	t.Run("window restriction", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 7.0, signal.Integral(2, 3, 0.5))
		assert.Equal(t, 3.0, signal.Peak(2, 3, 0.5))
		assert.Equal(t, 0.0, signal.Toa(2, 3, 0.5))
		assert.Equal(t, 1.0, signal.Top(2, 3, 0.5))
	})

	t.Run("window clipped to waveform", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 9.0, signal.Integral(0, 1000, 0.5))
	})
}

func TestAnalogSignalUnderThreshold(t *testing.T) {
	t.Parallel()

	signal := testSignal([]float64{0, 0.1, 0.2, 0.1}, 1.0)

	assert.Equal(t, -1.0, signal.Integral(0, 4, 0.5))
	assert.Equal(t, -1.0, signal.Peak(0, 4, 0.5))
	assert.Equal(t, -1.0, signal.Tot(0, 4, 0.5))
	assert.Equal(t, -1.0, signal.Toa(0, 4, 0.5))
	assert.Equal(t, -1.0, signal.Top(0, 4, 0.5))
}

func TestAnalogSignalEmptyWindow(t *testing.T) {
	t.Parallel()

	signal := testSignal([]float64{1, 2, 3}, 1.0)

	require.Equal(t, -1.0, signal.Integral(10, 5, 0.5))
	require.Equal(t, -1.0, signal.Peak(10, 5, 0.5))
	require.Equal(t, -1.0, signal.Toa(10, 5, 0.5))
	require.Equal(t, -1.0, signal.Top(10, 5, 0.5))
	require.Equal(t, -1.0, signal.Tot(10, 5, 0.5))
}

func TestAnalogSignalHalfSampling(t *testing.T) {
	t.Parallel()

	signal := testSignal([]float64{0, 0, 1, 2, 1, 0}, 0.5)

	assert.Equal(t, 2.0, signal.Peak(0, 3, 0.5))
	assert.Equal(t, 2.0, signal.Integral(0, 3, 0.5))
	assert.Equal(t, 1.5, signal.Tot(0, 3, 0.5))
	assert.Equal(t, 1.0, signal.Toa(0, 3, 0.5))
	assert.Equal(t, 1.5, signal.Top(0, 3, 0.5))
}
