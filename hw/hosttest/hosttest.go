// Package hosttest provides scriptable in-memory implementations of the hw
// collaborator interfaces, for unit tests and the host simulator. No TinyGo
// chip driver deps.
package hosttest

import (
	"time"

	"github.com/UKHASnet/ukhasnet-fc-node/errcode"
	"github.com/UKHASnet/ukhasnet-fc-node/hw"
)

// Radio records every send and can be scripted to fail.
type Radio struct {
	InitFailures int // remaining Init calls to fail before succeeding
	SendErr      error
	InitCalls    int
	SleepCalls   int
	Sent         [][]byte
	Powers       []int8
}

func (r *Radio) Init() error {
	r.InitCalls++
	if r.InitFailures > 0 {
		r.InitFailures--
		return errcode.RadioInit
	}
	return nil
}

func (r *Radio) Send(payload []byte, powerDBm int8) error {
	p := make([]byte, len(payload))
	copy(p, payload)
	r.Sent = append(r.Sent, p)
	r.Powers = append(r.Powers, powerDBm)
	return r.SendErr
}

func (r *Radio) Sleep() { r.SleepCalls++ }

// Thermometer returns a fixed reading or a scripted error.
type Thermometer struct {
	TempC float32
	Err   error
	Reads int
}

func (t *Thermometer) ReadTemperatureC() (float32, error) {
	t.Reads++
	return t.TempC, t.Err
}

// Battery pops readings from Trace, then repeats MV. A zero reading models
// the invalid-sample sentinel.
type Battery struct {
	MV    uint16
	Trace []uint16
	Err   error
	Reads int
}

func (b *Battery) ReadBatteryMV() (uint16, error) {
	b.Reads++
	if len(b.Trace) > 0 {
		b.MV = b.Trace[0]
		b.Trace = b.Trace[1:]
	}
	return b.MV, b.Err
}

// Regulator tracks the gate state and transition count.
type Regulator struct {
	On       bool
	Enables  int
	Disables int
}

func (r *Regulator) Enable()  { r.On = true; r.Enables++ }
func (r *Regulator) Disable() { r.On = false; r.Disables++ }

// Sleeper counts both sleep disciplines without blocking. OnInterruptWait,
// when set, runs during SleepUntilInterrupt; tests use it to model the wake
// interrupt re-enabling the regulator before the loop resumes.
type Sleeper struct {
	InterruptWaits  int
	FixedSleeps     []time.Duration
	OnInterruptWait func()
}

func (s *Sleeper) SleepUntilInterrupt() {
	s.InterruptWaits++
	if s.OnInterruptWait != nil {
		s.OnInterruptWait()
	}
}

func (s *Sleeper) SleepFixed(d time.Duration) {
	s.FixedSleeps = append(s.FixedSleeps, d)
}

// Peripherals returns a complete fake set with sane defaults.
func Peripherals() (hw.Peripherals, *Radio, *Battery, *Thermometer, *Regulator, *Sleeper) {
	r := &Radio{}
	b := &Battery{MV: 1500}
	th := &Thermometer{TempC: 21.5}
	reg := &Regulator{}
	slp := &Sleeper{}
	return hw.Peripherals{
		Radio:       r,
		Thermometer: th,
		Battery:     b,
		Regulator:   reg,
		Sleeper:     slp,
	}, r, b, th, reg, slp
}
