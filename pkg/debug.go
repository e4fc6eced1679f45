package sipm

import "fmt"

// DebugInfo carries the per-event hit counters.
type DebugInfo struct {
	NPhotons uint32
	NPe      uint32
	NDcr     uint32
	NXt      uint32
	NAp      uint32
}

func (d DebugInfo) String() string {
	return fmt.Sprintf("Photons: %d, Pe: %d, Dcr: %d, Xt: %d, Ap: %d",
		d.NPhotons, d.NPe, d.NDcr, d.NXt, d.NAp)
}
