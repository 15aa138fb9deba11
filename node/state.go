package node

import "github.com/UKHASnet/ukhasnet-fc-node/protocol"

// PowerMode selects the sleep strategy entered after a transmit wake.
// Ordinals match the packet X field: 0 = timer, 1 = reservoir.
type PowerMode uint8

const (
	// TimerSleep keeps the regulator enabled and wakes on a fixed timer.
	// Used when the cell voltage is too low to reliably restart the boost
	// regulator after gating it off.
	TimerSleep PowerMode = iota
	// ReservoirSleep gates the regulator off and wakes on the hardware
	// low-voltage detect interrupt as the reservoir capacitor discharges.
	ReservoirSleep
)

func (m PowerMode) String() string {
	if m == ReservoirSleep {
		return "reservoir"
	}
	return "timer"
}

// Decision is the wake scheduler's verdict for one wake event.
type Decision uint8

const (
	Skip Decision = iota
	Transmit
)

// State is the process-wide duty-cycle state. Owned exclusively by the
// control loop; components mutate it only through their contracts.
type State struct {
	// Seq is 'a' for the first packet, then cycles 'b'..'z'.
	Seq byte
	// WakeCount is always in [1, WakeFrequency]; a transmit happens exactly
	// when it reaches WakeFrequency.
	WakeCount uint8
	Mode      PowerMode
	// LastBatteryMV is the last trusted sample, used only for hysteresis.
	LastBatteryMV uint16
}

// NewState provisions boot state. The wake counter starts saturated so the
// first wake transmits and a fresh node announces itself immediately.
func NewState(cfg *Config) *State {
	return &State{
		Seq:       protocol.SeqFirst,
		WakeCount: cfg.WakeFrequency,
		Mode:      ReservoirSleep,
	}
}

// AdvanceSeq moves to the next sequence id. After 'z' the id wraps to 'b',
// keeping 'a' reserved as the boot marker, unless restartAtA is set.
func (s *State) AdvanceSeq(restartAtA bool) {
	if s.Seq == 'z' {
		if restartAtA {
			s.Seq = protocol.SeqFirst
		} else {
			s.Seq = protocol.SeqWrapLow
		}
		return
	}
	s.Seq++
}
