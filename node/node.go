// Package node implements the adaptive duty-cycle controller: wake
// scheduling, packet transmission, voltage-hysteresis power-mode selection
// and sleep dispatch. One logical thread of control; the only blocking
// point per iteration is the sleep primitive.
package node

import (
	"context"
	"time"

	"github.com/UKHASnet/ukhasnet-fc-node/hw"
	"github.com/UKHASnet/ukhasnet-fc-node/protocol"
	"github.com/UKHASnet/ukhasnet-fc-node/x/mathx"
)

const (
	// bootSettle lets the reservoir cap charge before anything draws current.
	bootSettle = 1 * time.Second
	// txSettle covers the PA turn-off tail after a send, so the cap recharge
	// estimate during sleep starts from a quiet rail.
	txSettle = 10 * time.Millisecond
	// wakeSettle tops the cap back up after a reservoir wake before the loop
	// body runs.
	wakeSettle = 50 * time.Millisecond
	// initRetry paces the fatal-retry loop when the radio will not start.
	initRetry = 100 * time.Millisecond

	// timerChunk is the longest single hardware timer sleep (watchdog
	// granularity); longer intervals are composed from repeats.
	timerChunk = 8 * time.Second

	// Sensor range clamp, deci-degrees C.
	tempMinTenths = -550
	tempMaxTenths = 1250
)

// settle is the short-delay primitive. A variable so tests can stub it;
// the long sleeps go through hw.Sleeper, never through this.
var settle = time.Sleep

// Node owns the duty-cycle state and drives the hardware collaborators.
type Node struct {
	cfg   Config
	st    *State
	sched WakeScheduler
	power PowerModeSelector

	radio hw.Radio
	temp  hw.Thermometer
	batt  hw.BatteryMonitor
	reg   hw.Regulator
	slp   hw.Sleeper

	buf [protocol.MaxPacketSize]byte
}

// New validates the provisioning and builds a node around the collaborators.
func New(cfg Config, p hw.Peripherals) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Node{
		cfg:   cfg,
		st:    NewState(&cfg),
		sched: WakeScheduler{freq: cfg.WakeFrequency},
		power: PowerModeSelector{thresholdMV: cfg.ThresholdMV, hysteresisMV: cfg.HysteresisMV},
		radio: p.Radio,
		temp:  p.Thermometer,
		batt:  p.Battery,
		reg:   p.Regulator,
		slp:   p.Sleeper,
	}, nil
}

// State exposes the duty-cycle state read-only for observers (simulator,
// tests). Mutation stays inside the loop.
func (n *Node) State() State { return *n.st }

// Boot brings the hardware up. The node must not enter the duty cycle
// without a working radio, so init failures retry forever.
func (n *Node) Boot() {
	settle(bootSettle)
	n.reg.Enable()
	for n.radio.Init() != nil {
		println("radio init failed, retrying")
		settle(initRetry)
	}
	n.radio.Sleep()
}

// Run executes the duty cycle until the context is cancelled. Hardware
// builds pass a background context; the loop then never exits.
func (n *Node) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n.Step()
	}
}

// Step processes exactly one wake event: scheduler decision, transmit path
// on a transmit wake, then sleep dispatch. It returns after the wake event
// that ends the sleep.
func (n *Node) Step() {
	if n.sched.OnWake(n.st) == Transmit {
		n.transmit()
	}
	n.sleep()
}

// transmit samples, encodes and sends one packet, then advances the
// sequence id and the power mode. Failures are policy, not errors: a bad
// send or sensor read costs one packet, never a retry.
func (n *Node) transmit() {
	mv, err := n.batt.ReadBatteryMV()
	if err != nil {
		mv = 0 // invalid sentinel: selector holds mode
	}

	pkt := protocol.Packet{
		Hops:       n.cfg.Hops,
		Seq:        n.st.Seq,
		HasVoltage: n.cfg.IncludeVoltage && mv != 0,
		BatteryMV:  mv,
		NodeID:     n.cfg.NodeID,
	}
	if tc, err := n.temp.ReadTemperatureC(); err == nil {
		pkt.HasTemp = true
		pkt.TempTenths = tempTenths(tc)
	}
	if n.cfg.IncludeDiagnostics {
		pkt.HasDiag = true
		pkt.WakeFreq = n.cfg.WakeFrequency
		pkt.PowerDBm = n.cfg.TxPowerDBm
		pkt.Mode = uint8(n.st.Mode)
	}

	if line, err := protocol.Encode(n.buf[:], &pkt); err == nil {
		if err := n.radio.Send(line, n.cfg.TxPowerDBm); err != nil {
			println("send failed:", err.Error())
		}
		// Let the PA wind down before the radio sleeps and the cap budget
		// for the next cycle is assessed.
		settle(txSettle)
	}
	n.radio.Sleep()

	// The id advances whether or not the send got out; receivers detect
	// loss from the gap.
	n.st.AdvanceSeq(n.cfg.SeqRestartAtA)
	n.power.UpdateMode(n.st, mv)
}

// sleep blocks in the strategy the current power mode dictates.
func (n *Node) sleep() {
	switch n.st.Mode {
	case ReservoirSleep:
		// Gate the regulator off for the wait. The wake interrupt enables
		// it eagerly; Enable is idempotent so repeating it here is safe
		// whatever order the race resolves in.
		n.reg.Disable()
		n.slp.SleepUntilInterrupt()
		n.reg.Enable()
		settle(wakeSettle)
	case TimerSleep:
		// Regulator stays on; compose the interval from short timer sleeps.
		remaining := n.cfg.TimerWakeInterval
		for remaining > 0 {
			d := remaining
			if d > timerChunk {
				d = timerChunk
			}
			n.slp.SleepFixed(d)
			remaining -= d
		}
	}
}

// tempTenths converts degrees C to clamped signed deci-degrees.
func tempTenths(tc float32) int32 {
	t := tc * 10
	if t >= 0 {
		t += 0.5
	} else {
		t -= 0.5
	}
	return mathx.Clamp(int32(t), tempMinTenths, tempMaxTenths)
}
