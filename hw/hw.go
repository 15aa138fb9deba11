// Package hw declares the hardware collaborators the duty-cycle controller
// drives. Implementations live in drivers/ (real silicon) and hw/hosttest
// (scriptable fakes); the controller itself never touches a register.
package hw

import "time"

// Radio is the packet transmitter.
type Radio interface {
	// Init brings the radio up and verifies it responds. Called at boot;
	// the controller retries until it succeeds.
	Init() error
	// Send transmits one payload at the given output power. A failed send
	// is reported, never retried by the caller within the same wake.
	Send(payload []byte, powerDBm int8) error
	// Sleep drops the radio into its lowest-power mode. Idempotent.
	Sleep()
}

// Thermometer reads the onboard temperature sensor.
type Thermometer interface {
	// ReadTemperatureC returns degrees Celsius, roughly -55..+125.
	ReadTemperatureC() (float32, error)
}

// BatteryMonitor samples the cell terminal voltage.
type BatteryMonitor interface {
	// ReadBatteryMV returns millivolts. 0 is the invalid-sample sentinel.
	ReadBatteryMV() (uint16, error)
}

// Regulator gates the boost regulator output. Both operations are
// idempotent and safe to race with the platform's wake interrupt, which
// may re-enable the regulator before the control loop resumes.
type Regulator interface {
	Enable()
	Disable()
}

// Sleeper exposes the platform sleep primitives. Both calls fully halt
// execution; they return on the wake event.
type Sleeper interface {
	// SleepUntilInterrupt blocks until the low-voltage detect line fires.
	SleepUntilInterrupt()
	// SleepFixed blocks for one hardware timer interval. The timer may only
	// support short maximums; callers compose longer sleeps from repeats.
	SleepFixed(d time.Duration)
}

// Peripherals bundles the full collaborator set for wiring.
type Peripherals struct {
	Radio       Radio
	Thermometer Thermometer
	Battery     BatteryMonitor
	Regulator   Regulator
	Sleeper     Sleeper
}
