package node

import (
	"time"

	"github.com/UKHASnet/ukhasnet-fc-node/errcode"
	"github.com/UKHASnet/ukhasnet-fc-node/protocol"
)

// Config carries the per-node provisioning values. Fixed at boot; the duty
// cycle never mutates it.
type Config struct {
	NodeID string // short alphanumeric, appears bracketed in every packet
	Hops   string // decimal digit string, relay hop ceiling

	WakeFrequency uint8 // transmit once per this many wakes; 1 = every wake
	TxPowerDBm    int8

	// Power-mode hysteresis. Below ThresholdMV the boost regulator can keep
	// running but may fail to restart, so the node stops gating it off.
	ThresholdMV  uint16
	HysteresisMV uint16

	// TimerWakeInterval is the per-wake sleep in timer mode, composed from
	// short hardware timer sleeps. Reservoir mode wake spacing is set by the
	// discharge curve, not by us.
	TimerWakeInterval time.Duration

	IncludeVoltage     bool // emit the V field
	IncludeDiagnostics bool // emit the X field

	// SeqRestartAtA lets the sequence id revisit 'a' after 'z'. The firmware
	// family disagrees on this; default is the wrap-to-'b' policy.
	SeqRestartAtA bool
}

// DefaultConfig returns the stock film-canister provisioning.
func DefaultConfig() Config {
	return Config{
		NodeID:            "JH1",
		Hops:              "1",
		WakeFrequency:     30,
		TxPowerDBm:        5,
		ThresholdMV:       1000,
		HysteresisMV:      100,
		TimerWakeInterval: 32 * time.Second,
		IncludeVoltage:    true,
	}
}

// Validate checks the provisioning values, including that the worst-case
// packet this node can emit fits the payload bound.
func (c Config) Validate() error {
	if c.NodeID == "" {
		return &errcode.E{C: errcode.InvalidConfig, Msg: "NodeID must be set"}
	}
	for i := 0; i < len(c.NodeID); i++ {
		b := c.NodeID[i]
		if !(b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z') {
			return &errcode.E{C: errcode.InvalidConfig, Msg: "NodeID must be alphanumeric"}
		}
	}
	if c.Hops == "" {
		return &errcode.E{C: errcode.InvalidConfig, Msg: "Hops must be set"}
	}
	for i := 0; i < len(c.Hops); i++ {
		if c.Hops[i] < '0' || c.Hops[i] > '9' {
			return &errcode.E{C: errcode.InvalidConfig, Msg: "Hops must be decimal digits"}
		}
	}
	if c.WakeFrequency < 1 {
		return &errcode.E{C: errcode.InvalidConfig, Msg: "WakeFrequency must be >= 1"}
	}
	if c.TimerWakeInterval <= 0 {
		return &errcode.E{C: errcode.InvalidConfig, Msg: "TimerWakeInterval must be positive"}
	}

	// Worst case over the documented field ranges for this provisioning.
	worst := protocol.Packet{
		Hops:       c.Hops,
		Seq:        'z',
		HasVoltage: c.IncludeVoltage,
		BatteryMV:  65535,
		HasTemp:    true,
		TempTenths: -550,
		HasDiag:    c.IncludeDiagnostics,
		WakeFreq:   c.WakeFrequency,
		PowerDBm:   c.TxPowerDBm,
		Mode:       protocol.ModeReservoir,
		NodeID:     c.NodeID,
	}
	var buf [protocol.MaxPacketSize]byte
	if _, err := protocol.Encode(buf[:], &worst); err != nil {
		return &errcode.E{C: errcode.InvalidConfig, Msg: "packet cannot fit payload bound", Err: err}
	}
	return nil
}
