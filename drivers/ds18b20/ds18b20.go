// Package ds18b20 provides a driver for the DS18B20 1-Wire thermometer.
// It exposes a two-phase measurement API:
//
//	d.Convert()                  // start a conversion (fast)
//	t, err := d.Tenths()         // fetch the scratchpad once ready
//
// For convenience, d.Read() performs convert + a fixed conversion wait.
//
// The byte-level 1-Wire link is behind the Wire interface; the bit timing
// lives with the platform (bit-banged pin on hardware, scripted fake on the
// host). The driver avoids floating-point: temperatures are signed tenths
// of a degree C.
package ds18b20

import (
	"errors"
	"time"
)

// ROM and function commands.
const (
	cmdSkipROM        = 0xCC
	cmdConvertT       = 0x44
	cmdReadScratchpad = 0xBE
)

// Errors returned by the driver.
var (
	ErrNoPresence = errors.New("ds18b20: no presence pulse")
	ErrCRC        = errors.New("ds18b20: scratchpad crc mismatch")
)

// Wire is the byte-level 1-Wire link. Reset fails when no device answers
// the presence slot.
type Wire interface {
	Reset() error
	WriteByte(b byte) error
	ReadByte() (byte, error)
}

// Config controls non-hardware behaviour.
type Config struct {
	// ConvertDelay is the wait Read() inserts between Convert and Tenths.
	// Default 750 ms (12-bit conversion time).
	ConvertDelay time.Duration
}

// Device wraps a 1-Wire link to a single DS18B20 (skip-ROM addressing; one
// sensor per bus on these boards).
type Device struct {
	w   Wire
	cfg Config
}

// New creates the device object around a configured link.
func New(w Wire) *Device {
	return &Device{w: w, cfg: Config{ConvertDelay: 750 * time.Millisecond}}
}

// Configure applies optional config.
func (d *Device) Configure(cfgs ...Config) {
	if len(cfgs) > 0 && cfgs[0].ConvertDelay > 0 {
		d.cfg.ConvertDelay = cfgs[0].ConvertDelay
	}
}

// Convert starts a temperature conversion. The sensor needs its conversion
// time (up to 750 ms at 12 bits) before the scratchpad is worth reading.
func (d *Device) Convert() error {
	if err := d.w.Reset(); err != nil {
		return ErrNoPresence
	}
	if err := d.w.WriteByte(cmdSkipROM); err != nil {
		return err
	}
	return d.w.WriteByte(cmdConvertT)
}

// Tenths reads the scratchpad and returns the temperature in signed tenths
// of a degree C. The full 9 bytes are read so the CRC can be checked.
func (d *Device) Tenths() (int32, error) {
	if err := d.w.Reset(); err != nil {
		return 0, ErrNoPresence
	}
	if err := d.w.WriteByte(cmdSkipROM); err != nil {
		return 0, err
	}
	if err := d.w.WriteByte(cmdReadScratchpad); err != nil {
		return 0, err
	}
	var sp [9]byte
	for i := range sp {
		b, err := d.w.ReadByte()
		if err != nil {
			return 0, err
		}
		sp[i] = b
	}
	if crc8(sp[:8]) != sp[8] {
		return 0, ErrCRC
	}
	raw := int16(uint16(sp[1])<<8 | uint16(sp[0])) // 1/16 C per LSB
	return int32(raw) * 10 / 16, nil
}

// Read performs a blocking convert + fetch cycle.
func (d *Device) Read() (int32, error) {
	if err := d.Convert(); err != nil {
		return 0, err
	}
	time.Sleep(d.cfg.ConvertDelay)
	return d.Tenths()
}

// crc8 is the Dallas/Maxim CRC (poly 0x31 reflected).
func crc8(data []byte) byte {
	var crc byte
	for _, b := range data {
		for i := 0; i < 8; i++ {
			mix := (crc ^ b) & 0x01
			crc >>= 1
			if mix != 0 {
				crc ^= 0x8C
			}
			b >>= 1
		}
	}
	return crc
}
