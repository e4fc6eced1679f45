package sipm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/floats"
)

func TestAddScaledShape(t *testing.T) {
	t.Parallel()

	shape := make([]float64, 9)
	for i := range shape {
		shape[i] = float64(i + 1)
	}

	// The blocked loop must agree with the plain scalar superposition for
	// every tail length.
	for n := 1; n <= len(shape); n++ {
		n := n
		t.Run(fmt.Sprintf("length %d", n), func(t *testing.T) {
			t.Parallel()

			dst := make([]float64, n)
			for i := range dst {
				dst[i] = 0.5
			}
			want := make([]float64, n)
			copy(want, dst)
			floats.AddScaled(want, 1.5, shape[:n])

			addScaledShape(dst, shape, 1.5)
			require.Equal(t, want, dst)
		})
	}
}

func TestAddScaledShapeShortShape(t *testing.T) {
	t.Parallel()

	dst := make([]float64, 10)
	shape := []float64{1, 2, 3}
	addScaledShape(dst, shape, 2)

	require.Equal(t, []float64{2, 4, 6, 0, 0, 0, 0, 0, 0, 0}, dst)
}

func TestGenerateSignalSuperposition(t *testing.T) {
	t.Parallel()

	// Two noiseless photons in different cells at different times must
	// produce the sum of two shifted templates.
	props := quietProperties()
	sensor := newTestSensor(t, props, 1)
	sensor.AddPhotons([]float64{0, 50})
	sensor.RunEvent()

	shape := signalShape(props)
	n := props.NSignalPoints()
	want := make([]float64, n)
	copy(want, shape)
	for i := 50; i < n; i++ {
		want[i] += shape[i-50]
	}

	hits := sensor.Hits()
	require.Len(t, hits, 2)
	if hits[0].ID(props.NSideCells) != hits[1].ID(props.NSideCells) {
		require.Equal(t, want, sensor.Signal().Samples())
	}
}
