package sipm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/stat"
)

func TestRandomDeterminism(t *testing.T) {
	t.Parallel()

	a := NewRandom(42)
	b := NewRandom(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Rand(), b.Rand())
	}

	a.Seed(7)
	b.Seed(7)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.RandExponential(25), b.RandExponential(25))
		assert.Equal(t, a.RandGaussian(1, 0.1), b.RandGaussian(1, 0.1))
		assert.Equal(t, a.RandInteger(9), b.RandInteger(9))
	}
}

func TestRandInteger(t *testing.T) {
	t.Parallel()

	rng := NewRandom(1)
	seen := make(map[int32]bool)
	for i := 0; i < 10000; i++ {
		v := rng.RandInteger(2)
		require.GreaterOrEqual(t, v, int32(0))
		require.LessOrEqual(t, v, int32(2))
		seen[v] = true
	}
	// Both ends included
	assert.True(t, seen[0])
	assert.True(t, seen[2])
}

func TestRandDistributions(t *testing.T) {
	t.Parallel()

	t.Run("uniform in unit interval", func(t *testing.T) {
		t.Parallel()
		rng := NewRandom(3)
		for i := 0; i < 10000; i++ {
			v := rng.Rand()
			require.GreaterOrEqual(t, v, 0.0)
			require.Less(t, v, 1.0)
		}
	})

	t.Run("exponential mean", func(t *testing.T) {
		t.Parallel()
		rng := NewRandom(4)
		samples := make([]float64, 50000)
		for i := range samples {
			samples[i] = rng.RandExponential(25)
		}
		assert.InDelta(t, 25, stat.Mean(samples, nil), 0.5)
	})

	t.Run("gaussian moments", func(t *testing.T) {
		t.Parallel()
		rng := NewRandom(5)
		samples := rng.RandGaussianSlice(1, 0.1, 50000)
		mean, std := stat.MeanStdDev(samples, nil)
		assert.InDelta(t, 1, mean, 0.005)
		assert.InDelta(t, 0.1, std, 0.005)
	})

	t.Run("gaussian slice with zero sigma", func(t *testing.T) {
		t.Parallel()
		rng := NewRandom(6)
		samples := rng.RandGaussianSlice(0, 0, 100)
		for _, v := range samples {
			require.Equal(t, 0.0, v)
		}
	})
}
