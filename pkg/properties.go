package sipm

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
)

type PdeType int

const (
	// PdeNone detects every photon.
	PdeNone PdeType = iota
	// PdeSimple applies a single detection probability to every photon.
	PdeSimple
	// PdeSpectrum interpolates the detection probability from a
	// wavelength spectrum.
	PdeSpectrum
)

func (p PdeType) String() string {
	switch p {
	case PdeNone:
		return "None"
	case PdeSimple:
		return "Simple"
	case PdeSpectrum:
		return "Spectrum"
	default:
		return "Unknown"
	}
}

type HitDistribution int

const (
	HitUniform HitDistribution = iota
	HitCircle
	HitGaussian
)

func (h HitDistribution) String() string {
	switch h {
	case HitUniform:
		return "Uniform"
	case HitCircle:
		return "Circle"
	case HitGaussian:
		return "Gaussian"
	default:
		return "Unknown"
	}
}

// Properties holds the device parameters of a SiPM sensor.
//
// Times are in nanoseconds. Dcr is in Hz; the dark count generator uses a
// mean inter-arrival time of 1e9/Dcr, which fixes the time axis of the
// simulation to nanoseconds.
//
// A Properties value is plain data. A Sensor keeps its own copy and rebuilds
// the cached pulse shape whenever the copy changes, so after a sensor is
// built all mutations must go through Sensor.SetProperty or
// Sensor.SetProperties.
type Properties struct {
	NSideCells            int32           `json:"n_side_cells"`
	Sampling              float64         `json:"sampling"`
	SignalLength          float64         `json:"signal_length"`
	RisingTime            float64         `json:"rising_time"`
	FallingTimeFast       float64         `json:"falling_time_fast"`
	FallingTimeSlow       float64         `json:"falling_time_slow"`
	SlowComponentFraction float64         `json:"slow_component_fraction"`
	SlowComponent         bool            `json:"has_slow_component"`
	PdeType               PdeType         `json:"pde_type"`
	Pde                   float64         `json:"pde"`
	PdeWavelengths        []float64       `json:"pde_wavelengths"`
	PdeValues             []float64       `json:"pde_values"`
	HitDistribution       HitDistribution `json:"hit_distribution"`
	Dcr                   float64         `json:"dcr"`
	Xt                    float64         `json:"xt"`
	Ap                    float64         `json:"ap"`
	TauApFast             float64         `json:"tau_ap_fast"`
	TauApSlow             float64         `json:"tau_ap_slow"`
	ApSlowFraction        float64         `json:"ap_slow_fraction"`
	RecoveryTime          float64         `json:"recovery_time"`
	Ccgv                  float64         `json:"ccgv"`
	SnrLinear             float64         `json:"snr_linear"`
}

// DefaultProperties returns the parameters of a generic 1x1 mm, 25 um cell
// device.
func DefaultProperties() Properties {
	return Properties{
		NSideCells:            40,
		Sampling:              1,
		SignalLength:          500,
		RisingTime:            1,
		FallingTimeFast:       50,
		FallingTimeSlow:       100,
		SlowComponentFraction: 0.2,
		SlowComponent:         false,
		PdeType:               PdeNone,
		Pde:                   0.3,
		HitDistribution:       HitUniform,
		Dcr:                   200e3,
		Xt:                    0.05,
		Ap:                    0.03,
		TauApFast:             10,
		TauApSlow:             80,
		ApSlowFraction:        0.8,
		RecoveryTime:          50,
		Ccgv:                  0.05,
		SnrLinear:             snrLinearFromDb(30),
	}
}

func snrLinearFromDb(db float64) float64 {
	return math.Pow(10, -db/20)
}

// SetSnrDb sets the electronic noise sigma from a signal-to-noise ratio in dB.
func (p *Properties) SetSnrDb(db float64) {
	p.SnrLinear = snrLinearFromDb(db)
}

// SetPdeSpectrum stores the spectral response as two slices sorted by
// wavelength and switches the PDE type to spectrum mode.
func (p *Properties) SetPdeSpectrum(spectrum map[float64]float64) {
	wavelengths := maps.Keys(spectrum)
	sort.Float64s(wavelengths)
	values := make([]float64, len(wavelengths))
	for i, wl := range wavelengths {
		values[i] = spectrum[wl]
	}
	p.PdeWavelengths = wavelengths
	p.PdeValues = values
	p.PdeType = PdeSpectrum
}

// NSignalPoints returns the number of samples in the signal window.
func (p Properties) NSignalPoints() int {
	return int(math.Ceil(p.SignalLength / p.Sampling))
}

func (p Properties) HasDcr() bool           { return p.Dcr > 0 }
func (p Properties) HasXt() bool            { return p.Xt > 0 }
func (p Properties) HasAp() bool            { return p.Ap > 0 }
func (p Properties) HasSlowComponent() bool { return p.SlowComponent }

// SetProperty sets a property from its name. Unknown names and out-of-range
// values return an error and leave the object unchanged.
func (p *Properties) SetProperty(name string, value float64) error {
	switch name {
	case "nSideCells":
		if value < 1 {
			return &ErrInvalidValue{Name: name, Value: value, Reason: "must be at least 1"}
		}
		p.NSideCells = int32(value)
	case "sampling":
		if value <= 0 {
			return &ErrInvalidValue{Name: name, Value: value, Reason: "must be positive"}
		}
		p.Sampling = value
	case "signalLength":
		if value <= 0 {
			return &ErrInvalidValue{Name: name, Value: value, Reason: "must be positive"}
		}
		p.SignalLength = value
	case "risingTime":
		if value <= 0 {
			return &ErrInvalidValue{Name: name, Value: value, Reason: "must be positive"}
		}
		p.RisingTime = value
	case "fallingTimeFast":
		if value <= 0 {
			return &ErrInvalidValue{Name: name, Value: value, Reason: "must be positive"}
		}
		p.FallingTimeFast = value
	case "fallingTimeSlow":
		if value <= 0 {
			return &ErrInvalidValue{Name: name, Value: value, Reason: "must be positive"}
		}
		p.FallingTimeSlow = value
	case "slowComponentFraction":
		if value < 0 || value > 1 {
			return &ErrInvalidValue{Name: name, Value: value, Reason: "must be in [0,1]"}
		}
		p.SlowComponentFraction = value
	case "hasSlowComponent":
		p.SlowComponent = value != 0
	case "pdeType":
		if value != float64(PdeNone) && value != float64(PdeSimple) && value != float64(PdeSpectrum) {
			return &ErrInvalidValue{Name: name, Value: value, Reason: "must be 0 (none), 1 (simple) or 2 (spectrum)"}
		}
		p.PdeType = PdeType(value)
	case "pde":
		if value < 0 || value > 1 {
			return &ErrInvalidValue{Name: name, Value: value, Reason: "must be in [0,1]"}
		}
		p.Pde = value
	case "pdeSpectrum":
		return &ErrInvalidValue{Name: name, Value: value, Reason: "use SetPdeSpectrum"}
	case "hitDistribution":
		if value != float64(HitUniform) && value != float64(HitCircle) && value != float64(HitGaussian) {
			return &ErrInvalidValue{Name: name, Value: value, Reason: "must be 0 (uniform), 1 (circle) or 2 (gaussian)"}
		}
		p.HitDistribution = HitDistribution(value)
	case "dcr":
		if value < 0 {
			return &ErrInvalidValue{Name: name, Value: value, Reason: "must be non-negative"}
		}
		p.Dcr = value
	case "xt":
		if value < 0 || value > 1 {
			return &ErrInvalidValue{Name: name, Value: value, Reason: "must be in [0,1]"}
		}
		p.Xt = value
	case "ap":
		if value < 0 || value > 1 {
			return &ErrInvalidValue{Name: name, Value: value, Reason: "must be in [0,1]"}
		}
		p.Ap = value
	case "tauApFast":
		if value <= 0 {
			return &ErrInvalidValue{Name: name, Value: value, Reason: "must be positive"}
		}
		p.TauApFast = value
	case "tauApSlow":
		if value <= 0 {
			return &ErrInvalidValue{Name: name, Value: value, Reason: "must be positive"}
		}
		p.TauApSlow = value
	case "apSlowFraction":
		if value < 0 || value > 1 {
			return &ErrInvalidValue{Name: name, Value: value, Reason: "must be in [0,1]"}
		}
		p.ApSlowFraction = value
	case "recoveryTime":
		if value <= 0 {
			return &ErrInvalidValue{Name: name, Value: value, Reason: "must be positive"}
		}
		p.RecoveryTime = value
	case "ccgv":
		if value < 0 {
			return &ErrInvalidValue{Name: name, Value: value, Reason: "must be non-negative"}
		}
		p.Ccgv = value
	case "snrLinear":
		if value < 0 {
			return &ErrInvalidValue{Name: name, Value: value, Reason: "must be non-negative"}
		}
		p.SnrLinear = value
	default:
		return &ErrUnknownProperty{Name: name}
	}
	return nil
}

// Validate checks the cross-field constraints that SetProperty cannot see.
func (p Properties) Validate() error {
	if p.NSideCells < 1 {
		return &ErrInvalidValue{Name: "nSideCells", Value: float64(p.NSideCells), Reason: "must be at least 1"}
	}
	if p.Sampling <= 0 {
		return &ErrInvalidValue{Name: "sampling", Value: p.Sampling, Reason: "must be positive"}
	}
	if p.SignalLength <= 0 {
		return &ErrInvalidValue{Name: "signalLength", Value: p.SignalLength, Reason: "must be positive"}
	}
	if p.RisingTime <= 0 || p.FallingTimeFast <= 0 {
		return &ErrInvalidValue{Name: "risingTime", Value: p.RisingTime, Reason: "pulse time constants must be positive"}
	}
	if p.SlowComponent && p.FallingTimeSlow <= 0 {
		return &ErrInvalidValue{Name: "fallingTimeSlow", Value: p.FallingTimeSlow, Reason: "must be positive"}
	}
	if p.PdeType == PdeSpectrum {
		if len(p.PdeWavelengths) < 2 {
			return &ErrInvalidValue{Name: "pdeSpectrum", Value: float64(len(p.PdeWavelengths)), Reason: "needs at least two points"}
		}
		if len(p.PdeWavelengths) != len(p.PdeValues) {
			return &ErrInvalidValue{Name: "pdeSpectrum", Value: float64(len(p.PdeValues)), Reason: "wavelengths and values must have the same length"}
		}
	}
	return nil
}

func (p Properties) String() string {
	var sb strings.Builder
	sb.WriteString("SiPM properties:\n")
	fmt.Fprintf(&sb, "  Cells: %d x %d\n", p.NSideCells, p.NSideCells)
	fmt.Fprintf(&sb, "  Sampling: %f ns\n", p.Sampling)
	fmt.Fprintf(&sb, "  Signal length: %f ns (%d points)\n", p.SignalLength, p.NSignalPoints())
	fmt.Fprintf(&sb, "  Rising time: %f ns\n", p.RisingTime)
	fmt.Fprintf(&sb, "  Falling time: %f ns\n", p.FallingTimeFast)
	if p.SlowComponent {
		fmt.Fprintf(&sb, "  Falling time (slow): %f ns, fraction %f\n", p.FallingTimeSlow, p.SlowComponentFraction)
	}
	fmt.Fprintf(&sb, "  PDE: %s", p.PdeType)
	if p.PdeType == PdeSimple {
		fmt.Fprintf(&sb, " (%f)", p.Pde)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  Hit distribution: %s\n", p.HitDistribution)
	fmt.Fprintf(&sb, "  DCR: %f Hz\n", p.Dcr)
	fmt.Fprintf(&sb, "  XT: %f\n", p.Xt)
	fmt.Fprintf(&sb, "  AP: %f (tau %f/%f ns, slow fraction %f)\n", p.Ap, p.TauApFast, p.TauApSlow, p.ApSlowFraction)
	fmt.Fprintf(&sb, "  Recovery time: %f ns\n", p.RecoveryTime)
	fmt.Fprintf(&sb, "  CCGV: %f\n", p.Ccgv)
	fmt.Fprintf(&sb, "  SNR sigma: %f\n", p.SnrLinear)
	return sb.String()
}
