// Package rfm69 provides a transmit-oriented driver for the HopeRF RFM69
// sub-GHz FSK radio, the packet radio on the film-canister nodes. It
// implements the slice of the chip this node needs: version probe, FSK
// packet-mode configuration, variable-length packet transmit and sleep.
//
// The driver is integer-only and works against the generic SPI interface
// from tinygo.org/x/drivers; chip select is a caller-supplied pin function
// so host tests can run without hardware.
package rfm69

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"

	"github.com/UKHASnet/ukhasnet-fc-node/x/mathx"
)

// Errors returned by the driver.
var (
	ErrNotDetected = errors.New("rfm69: chip not detected")
	ErrTxTimeout   = errors.New("rfm69: tx timeout")
	ErrTooLong     = errors.New("rfm69: payload too long")
)

// MaxPayload is the FIFO budget for one variable-length packet.
const MaxPayload = 64

// PA0 output power range, dBm.
const (
	MinPowerDBm = -18
	MaxPowerDBm = 13
)

// PinOutput drives the chip-select line. true = high.
type PinOutput func(high bool)

// Config programs the RF link. Zero fields take the UKHASnet defaults.
type Config struct {
	FrequencyHz uint32 // carrier
	BitrateBps  uint32
	DeviationHz uint32
	PowerDBm    int8
	SyncWord    []byte // 1..8 bytes
}

// DefaultConfig is the 869.5 MHz UKHASnet link setup.
func DefaultConfig() Config {
	return Config{
		FrequencyHz: 869_500_000,
		BitrateBps:  2400,
		DeviationHz: 12_000,
		PowerDBm:    5,
		SyncWord:    []byte{0x2D, 0xAA},
	}
}

// Device wraps an SPI connection to an RFM69 module.
type Device struct {
	bus drivers.SPI
	cs  PinOutput

	mode byte
	buf  [2]byte
}

// New creates the device object. The SPI bus must already be configured;
// nothing touches the chip until Configure.
func New(bus drivers.SPI, cs PinOutput) *Device {
	return &Device{bus: bus, cs: cs, mode: modeStandby}
}

// Configure probes the chip and programs the FSK packet-mode link. Returns
// ErrNotDetected when the version register does not answer; boot code
// treats that as retryable.
func (d *Device) Configure(cfg Config) error {
	if cfg.FrequencyHz == 0 {
		cfg.FrequencyHz = DefaultConfig().FrequencyHz
	}
	if cfg.BitrateBps == 0 {
		cfg.BitrateBps = DefaultConfig().BitrateBps
	}
	if cfg.DeviationHz == 0 {
		cfg.DeviationHz = DefaultConfig().DeviationHz
	}
	if len(cfg.SyncWord) == 0 || len(cfg.SyncWord) > 8 {
		cfg.SyncWord = DefaultConfig().SyncWord
	}

	if d.readReg(regVersion) != chipVersion {
		return ErrNotDetected
	}

	d.setMode(modeStandby)

	// FSK, packet mode, no shaping.
	d.writeReg(regDataModul, 0x00)

	// Bitrate and deviation from the 32 MHz crystal.
	br := uint16(32_000_000 / cfg.BitrateBps)
	d.writeReg(regBitrateMsb, byte(br>>8))
	d.writeReg(regBitrateLsb, byte(br))
	fdev := uint16(uint64(cfg.DeviationHz) * 1000 / fstepMilliHz)
	d.writeReg(regFdevMsb, byte(fdev>>8))
	d.writeReg(regFdevLsb, byte(fdev))

	// Carrier.
	frf := uint32(uint64(cfg.FrequencyHz) * 1000 / fstepMilliHz)
	d.writeReg(regFrfMsb, byte(frf>>16))
	d.writeReg(regFrfMid, byte(frf>>8))
	d.writeReg(regFrfLsb, byte(frf))

	// Sync word.
	d.writeReg(regSyncConfig, syncOn|byte(len(cfg.SyncWord)-1)<<3)
	for i, b := range cfg.SyncWord {
		d.writeReg(regSyncValue1+byte(i), b)
	}

	// Variable-length packets with CRC; FIFO threshold for tx-on-not-empty.
	d.writeReg(regPacketConfig1, packet1VariableLen|packet1CrcOn)
	d.writeReg(regPayloadLength, MaxPayload)
	d.writeReg(regFifoThresh, 0x8F)

	d.SetTxPower(cfg.PowerDBm)
	return nil
}

// SetTxPower programs PA0 output power, clamped to the module's range.
func (d *Device) SetTxPower(dbm int8) {
	p := mathx.Clamp(dbm, MinPowerDBm, MaxPowerDBm)
	d.writeReg(regPaLevel, paLevelPA0|byte(p-MinPowerDBm))
}

// Send transmits one variable-length packet at the given power and leaves
// the chip in standby.
func (d *Device) Send(payload []byte, powerDBm int8) error {
	if len(payload) == 0 || len(payload) > MaxPayload-1 {
		return ErrTooLong
	}
	d.SetTxPower(powerDBm)
	d.setMode(modeStandby)
	if err := d.waitFlag(regIrqFlags1, irq1ModeReady); err != nil {
		return err
	}

	// Length prefix then payload, one burst.
	d.csLow()
	d.spiByte(regFifo | writeFlag)
	d.spiByte(byte(len(payload)))
	for _, b := range payload {
		d.spiByte(b)
	}
	d.csHigh()

	d.setMode(modeTx)
	err := d.waitFlag(regIrqFlags2, irq2PacketSent)
	d.setMode(modeStandby)
	return err
}

// Sleep drops the chip to its lowest-power mode. Idempotent.
func (d *Device) Sleep() {
	d.setMode(modeSleep)
}

// Version reads the silicon revision register.
func (d *Device) Version() byte { return d.readReg(regVersion) }

func (d *Device) setMode(mode byte) {
	cur := d.readReg(regOpMode)
	d.writeReg(regOpMode, cur&^byte(opModeMask)|mode)
	d.mode = mode
}

// waitFlag polls a flag register until the bit sets, bounded.
func (d *Device) waitFlag(reg, bit byte) error {
	deadline := time.Now().Add(500 * time.Millisecond)
	for d.readReg(reg)&bit == 0 {
		if time.Now().After(deadline) {
			return ErrTxTimeout
		}
		time.Sleep(time.Millisecond)
	}
	return nil
}

func (d *Device) readReg(reg byte) byte {
	d.csLow()
	d.buf[0] = reg &^ byte(writeFlag)
	d.buf[1] = 0
	var rx [2]byte
	_ = d.bus.Tx(d.buf[:], rx[:])
	d.csHigh()
	return rx[1]
}

func (d *Device) writeReg(reg, val byte) {
	d.csLow()
	d.buf[0] = reg | writeFlag
	d.buf[1] = val
	_ = d.bus.Tx(d.buf[:], nil)
	d.csHigh()
}

func (d *Device) spiByte(b byte) {
	_, _ = d.bus.Transfer(b)
}

func (d *Device) csLow() {
	if d.cs != nil {
		d.cs(false)
	}
}

func (d *Device) csHigh() {
	if d.cs != nil {
		d.cs(true)
	}
}
