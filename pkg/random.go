package sipm

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Random wraps the pseudo-random generator owned by a single Sensor.
// It is not safe for concurrent use; the batch driver gives each worker
// its own Sensor and hence its own Random.
type Random struct {
	src *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{src: rand.New(rand.NewSource(seed))}
}

// Seed reseeds the generator. Two sensors seeded with the same value
// produce identical events for identical inputs.
func (r *Random) Seed(seed uint64) {
	r.src.Seed(seed)
}

// Rand returns a uniform value in [0,1).
func (r *Random) Rand() float64 {
	return r.src.Float64()
}

// RandInteger returns a uniform integer in [0,max], both ends included.
func (r *Random) RandInteger(max int32) int32 {
	return int32(r.src.Intn(int(max) + 1))
}

// RandExponential returns an exponential value with the given mean.
func (r *Random) RandExponential(mean float64) float64 {
	return distuv.Exponential{Rate: 1 / mean, Src: r.src}.Rand()
}

// RandGaussian returns a gaussian value with the given mean and sigma.
func (r *Random) RandGaussian(mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: r.src}.Rand()
}

// RandGaussianSlice fills a new slice of n gaussian values.
func (r *Random) RandGaussianSlice(mu, sigma float64, n int) []float64 {
	out := make([]float64, n)
	if sigma == 0 {
		for i := range out {
			out[i] = mu
		}
		return out
	}
	norm := distuv.Normal{Mu: mu, Sigma: sigma, Src: r.src}
	for i := range out {
		out[i] = norm.Rand()
	}
	return out
}
