package rfm69

import (
	"bytes"
	"testing"
)

// fakeSPI emulates the register file and FIFO of an RFM69 behind the
// drivers.SPI interface. Mode transitions raise the flags the driver polls
// so tests never block.
type fakeSPI struct {
	regs    [0x80]byte
	fifo    []byte
	inBurst bool
	addr    byte
	gotAddr bool
}

func newFakeSPI() *fakeSPI {
	f := &fakeSPI{}
	f.regs[regVersion] = chipVersion
	f.regs[regIrqFlags1] = irq1ModeReady
	return f
}

// csEdge is wired into the driver's chip-select pin.
func (f *fakeSPI) csEdge(high bool) {
	if !high {
		f.inBurst = true
		f.gotAddr = false
	} else {
		f.inBurst = false
	}
}

func (f *fakeSPI) write(reg, val byte) {
	f.regs[reg] = val
	if reg == regOpMode {
		// Every mode is instantly ready; entering TX sends the packet.
		f.regs[regIrqFlags1] |= irq1ModeReady
		if val&opModeMask == modeTx {
			f.regs[regIrqFlags2] |= irq2PacketSent
		}
	}
}

func (f *fakeSPI) Tx(w, r []byte) error {
	if len(w) == 0 {
		return nil
	}
	addr := w[0]
	if addr&writeFlag != 0 {
		for i, b := range w[1:] {
			f.write(addr&^byte(writeFlag)+byte(i), b)
		}
		return nil
	}
	for i := range r {
		if i == 0 {
			continue // address shift-out
		}
		r[i] = f.regs[addr+byte(i-1)]
	}
	return nil
}

func (f *fakeSPI) Transfer(b byte) (byte, error) {
	if !f.gotAddr {
		f.addr = b
		f.gotAddr = true
		return 0, nil
	}
	if f.addr == regFifo|writeFlag {
		f.fifo = append(f.fifo, b)
		return 0, nil
	}
	f.write(f.addr&^byte(writeFlag), b)
	return 0, nil
}

func newTestDevice() (*Device, *fakeSPI) {
	f := newFakeSPI()
	d := New(f, f.csEdge)
	return d, f
}

func TestConfigure_ProgramsLink(t *testing.T) {
	d, f := newTestDevice()
	if err := d.Configure(DefaultConfig()); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	// 2400 bps from a 32 MHz crystal.
	br := uint16(f.regs[regBitrateMsb])<<8 | uint16(f.regs[regBitrateLsb])
	if br != 32_000_000/2400 {
		t.Errorf("bitrate reg = %d, want %d", br, 32_000_000/2400)
	}

	// Carrier within one synthesizer step of 869.5 MHz.
	frf := uint32(f.regs[regFrfMsb])<<16 | uint32(f.regs[regFrfMid])<<8 | uint32(f.regs[regFrfLsb])
	hz := uint64(frf) * fstepMilliHz / 1000
	if hz < 869_499_900 || hz > 869_500_100 {
		t.Errorf("carrier = %d Hz, want ~869500000", hz)
	}

	if f.regs[regPacketConfig1] != packet1VariableLen|packet1CrcOn {
		t.Errorf("packet config = %#x", f.regs[regPacketConfig1])
	}
	if f.regs[regSyncValue1] != 0x2D || f.regs[regSyncValue1+1] != 0xAA {
		t.Errorf("sync word = %#x %#x", f.regs[regSyncValue1], f.regs[regSyncValue1+1])
	}
}

func TestConfigure_NotDetected(t *testing.T) {
	d, f := newTestDevice()
	f.regs[regVersion] = 0x00
	if err := d.Configure(DefaultConfig()); err != ErrNotDetected {
		t.Errorf("Configure err = %v, want ErrNotDetected", err)
	}
}

func TestSend_WritesLengthPrefixedFifo(t *testing.T) {
	d, f := newTestDevice()
	if err := d.Configure(DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	payload := []byte("2aV3300T21.5[AB1]")
	if err := d.Send(payload, 5); err != nil {
		t.Fatalf("Send: %v", err)
	}

	want := append([]byte{byte(len(payload))}, payload...)
	if !bytes.Equal(f.fifo, want) {
		t.Errorf("fifo = %q, want %q", f.fifo, want)
	}
	if f.regs[regOpMode]&opModeMask != modeStandby {
		t.Errorf("not back in standby after send")
	}
}

func TestSend_RejectsOversizedPayload(t *testing.T) {
	d, _ := newTestDevice()
	big := make([]byte, MaxPayload)
	if err := d.Send(big, 5); err != ErrTooLong {
		t.Errorf("Send err = %v, want ErrTooLong", err)
	}
}

func TestSetTxPower_ClampsToPA0Range(t *testing.T) {
	d, f := newTestDevice()
	cases := []struct {
		dbm  int8
		want byte
	}{
		{5, paLevelPA0 | 23},
		{MinPowerDBm, paLevelPA0 | 0},
		{MaxPowerDBm, paLevelPA0 | 31},
		{127, paLevelPA0 | 31},  // clamped high
		{-128, paLevelPA0 | 0},  // clamped low
	}
	for _, c := range cases {
		d.SetTxPower(c.dbm)
		if f.regs[regPaLevel] != c.want {
			t.Errorf("SetTxPower(%d): pa level = %#x, want %#x", c.dbm, f.regs[regPaLevel], c.want)
		}
	}
}

func TestSleep_SetsSleepMode(t *testing.T) {
	d, f := newTestDevice()
	d.Sleep()
	if f.regs[regOpMode]&opModeMask != modeSleep {
		t.Errorf("op mode = %#x, want sleep", f.regs[regOpMode])
	}
}
