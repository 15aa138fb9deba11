//go:build rp2040

package main

import (
	"machine"
	"sync/atomic"
	"time"

	"github.com/UKHASnet/ukhasnet-fc-node/drivers/ds18b20"
	"github.com/UKHASnet/ukhasnet-fc-node/drivers/rfm69"
	"github.com/UKHASnet/ukhasnet-fc-node/hw"
)

// Board wiring (Pico GP numbering).
const (
	pinRadioCS   = machine.GP17
	pinOneWire   = machine.GP22
	pinRegulator = machine.GP21 // high = boost regulator on
	pinWake      = machine.GP20 // reservoir comparator, rising edge on charge
	pinBattery   = machine.GP26 // ADC0, behind a 1:2 divider
)

// batteryDividerNum/Den scale the ADC reading back to pack millivolts.
const (
	batteryDividerNum = 2
	batteryDividerDen = 1
	adcRefMV          = 3300
)

func peripherals() hw.Peripherals {
	spi := machine.SPI0
	_ = spi.Configure(machine.SPIConfig{
		Frequency: 4 * machine.MHz,
		Mode:      0,
	})
	pinRadioCS.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pinRadioCS.High()

	reg := &regulatorPin{pin: pinRegulator}
	reg.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	machine.InitADC()
	adc := machine.ADC{Pin: pinBattery}
	adc.Configure(machine.ADCConfig{})

	return hw.Peripherals{
		Radio: &rfmRadio{
			dev: rfm69.New(spi, func(high bool) { pinRadioCS.Set(high) }),
		},
		Thermometer: &oneWireThermometer{
			dev: ds18b20.New(&oneWirePin{pin: pinOneWire}),
		},
		Battery:   &adcBattery{adc: adc},
		Regulator: reg,
		Sleeper:   newWakeSleeper(pinWake, reg),
	}
}

func halt() { time.Sleep(time.Hour) }

// ---- radio ----

type rfmRadio struct {
	dev *rfm69.Device
}

func (r *rfmRadio) Init() error { return r.dev.Configure(rfm69.DefaultConfig()) }

func (r *rfmRadio) Send(payload []byte, powerDBm int8) error {
	return r.dev.Send(payload, powerDBm)
}

func (r *rfmRadio) Sleep() { r.dev.Sleep() }

// ---- thermometer ----

type oneWireThermometer struct {
	dev *ds18b20.Device
}

func (t *oneWireThermometer) ReadTemperatureC() (float32, error) {
	tenths, err := t.dev.Read()
	if err != nil {
		return 0, err
	}
	return float32(tenths) / 10, nil
}

// oneWirePin bit-bangs the Dallas 1-Wire protocol on a single GPIO.
// The bus idles released (input with pullup); a cell drives low only.
type oneWirePin struct {
	pin machine.Pin
}

func (w *oneWirePin) release() {
	w.pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
}

func (w *oneWirePin) driveLow() {
	w.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	w.pin.Low()
}

func (w *oneWirePin) Reset() error {
	w.driveLow()
	delayUS(480)
	w.release()
	delayUS(70)
	present := !w.pin.Get()
	delayUS(410)
	if !present {
		return ds18b20.ErrNoPresence
	}
	return nil
}

func (w *oneWirePin) WriteByte(b byte) error {
	for i := 0; i < 8; i++ {
		if b&1 != 0 {
			w.driveLow()
			delayUS(6)
			w.release()
			delayUS(64)
		} else {
			w.driveLow()
			delayUS(60)
			w.release()
			delayUS(10)
		}
		b >>= 1
	}
	return nil
}

func (w *oneWirePin) ReadByte() (byte, error) {
	var b byte
	for i := 0; i < 8; i++ {
		w.driveLow()
		delayUS(6)
		w.release()
		delayUS(9)
		if w.pin.Get() {
			b |= 1 << i
		}
		delayUS(55)
	}
	return b, nil
}

func delayUS(us int) { time.Sleep(time.Duration(us) * time.Microsecond) }

// ---- battery ----

type adcBattery struct {
	adc machine.ADC
}

func (b *adcBattery) ReadBatteryMV() (uint16, error) {
	raw := uint32(b.adc.Get()) // 16-bit left-aligned
	mv := raw * adcRefMV / 0xFFFF * batteryDividerNum / batteryDividerDen
	return uint16(mv), nil
}

// ---- regulator ----

type regulatorPin struct {
	pin machine.Pin
}

func (r *regulatorPin) Enable()  { r.pin.High() }
func (r *regulatorPin) Disable() { r.pin.Low() }

// ---- sleeper ----

// wakeSleeper parks the core until the reservoir comparator fires. The
// interrupt handler turns the regulator back on before the main loop
// resumes so the storage cap starts charging as early as possible.
type wakeSleeper struct {
	fired uint32
}

func newWakeSleeper(pin machine.Pin, reg *regulatorPin) *wakeSleeper {
	s := &wakeSleeper{}
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	_ = pin.SetInterrupt(machine.PinRising, func(machine.Pin) {
		reg.Enable()
		atomic.StoreUint32(&s.fired, 1)
	})
	return s
}

func (s *wakeSleeper) SleepUntilInterrupt() {
	atomic.StoreUint32(&s.fired, 0)
	// TODO: use the RP2040 dormant clock mode here instead of polling;
	// needs the xosc dormant sequence which machine does not expose yet.
	for atomic.LoadUint32(&s.fired) == 0 {
		time.Sleep(time.Millisecond)
	}
}

func (s *wakeSleeper) SleepFixed(d time.Duration) { time.Sleep(d) }
