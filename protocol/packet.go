// Package protocol implements the UKHASnet ASCII packet grammar:
//
//	<HOPS><SEQID>[V<mv>][T<temp>][X<wake>,<dbm>,<mode>][<NODEID>]
//
// One line, no trailing delimiter; consumers parse by field-prefix
// character. The encoder writes into a caller-supplied buffer and
// guarantees the payload never exceeds MaxPayloadSize, a hard bound on
// constrained hardware where an overrun corrupts adjacent state.
package protocol

import (
	"errors"

	"github.com/UKHASnet/ukhasnet-fc-node/x/conv"
)

const (
	// MaxPacketSize is the transmit buffer size (payload + NUL on the wire
	// format's C heritage; the Go encoder never writes the terminator).
	MaxPacketSize = 64
	// MaxPayloadSize bounds the encoded packet.
	MaxPayloadSize = MaxPacketSize - 1

	// SeqFirst is the boot sequence id; SeqWrapLow is where the id lands
	// after 'z' when the first-boot id is reserved.
	SeqFirst   = 'a'
	SeqWrapLow = 'b'
)

// Errors returned by the codec.
var (
	ErrTooLong   = errors.New("packet: exceeds payload bound")
	ErrShortBuf  = errors.New("packet: buffer too small")
	ErrMalformed = errors.New("packet: malformed")
)

// Mode ordinals carried in the X diagnostic field.
const (
	ModeTimer     = 0
	ModeReservoir = 1
)

// Packet is one telemetry report. Optional fields carry a Has flag; the
// encoder skips absent fields and the decoder sets the flags it saw.
type Packet struct {
	Hops string // decimal digit string, hop-count ceiling
	Seq  byte   // 'a'..'z'

	HasVoltage bool
	BatteryMV  uint16

	HasTemp    bool
	TempTenths int32 // deci-degrees C, signed

	HasDiag  bool
	WakeFreq uint8
	PowerDBm int8
	Mode     uint8 // ModeTimer or ModeReservoir

	NodeID string
}

// Encode writes p into buf and returns the used slice. It fails rather
// than exceed MaxPayloadSize or the buffer.
func Encode(buf []byte, p *Packet) ([]byte, error) {
	lim := len(buf)
	if lim > MaxPayloadSize {
		lim = MaxPayloadSize
	}
	var scratch [20]byte
	n := 0

	put := func(s []byte) bool {
		if n+len(s) > lim {
			return false
		}
		n += copy(buf[n:], s)
		return true
	}
	putb := func(b byte) bool {
		if n >= lim {
			return false
		}
		buf[n] = b
		n++
		return true
	}

	ok := put([]byte(p.Hops)) && putb(p.Seq)
	if ok && p.HasVoltage {
		ok = putb('V') && put(conv.Utoa(scratch[:], uint64(p.BatteryMV)))
	}
	if ok && p.HasTemp {
		ok = putb('T') && put(conv.Tenths(scratch[:], p.TempTenths))
	}
	if ok && p.HasDiag {
		ok = putb('X') &&
			put(conv.Utoa(scratch[:], uint64(p.WakeFreq))) &&
			putb(',') &&
			put(conv.Itoa(scratch[:], int64(p.PowerDBm))) &&
			putb(',') &&
			put(conv.Utoa(scratch[:], uint64(p.Mode)))
	}
	if ok {
		ok = putb('[') && put([]byte(p.NodeID)) && putb(']')
	}
	if !ok {
		if len(buf) < MaxPayloadSize {
			return nil, ErrShortBuf
		}
		return nil, ErrTooLong
	}
	return buf[:n], nil
}

// Decode parses one packet line. It accepts exactly the grammar Encode
// emits; trailing bytes after the node id are rejected.
func Decode(line []byte) (*Packet, error) {
	if len(line) > MaxPayloadSize {
		return nil, ErrTooLong
	}
	p := &Packet{}
	i := 0

	// HOPS: one or more decimal digits.
	start := i
	for i < len(line) && isDigit(line[i]) {
		i++
	}
	if i == start {
		return nil, ErrMalformed
	}
	p.Hops = string(line[start:i])

	// SEQID: single lowercase letter.
	if i >= len(line) || line[i] < 'a' || line[i] > 'z' {
		return nil, ErrMalformed
	}
	p.Seq = line[i]
	i++

	for i < len(line) {
		switch line[i] {
		case 'V':
			i++
			v, n := parseUint(line[i:])
			if n == 0 || v > 0xFFFF {
				return nil, ErrMalformed
			}
			p.BatteryMV = uint16(v)
			p.HasVoltage = true
			i += n
		case 'T':
			i++
			t, n := parseTenths(line[i:])
			if n == 0 {
				return nil, ErrMalformed
			}
			p.TempTenths = t
			p.HasTemp = true
			i += n
		case 'X':
			i++
			wf, n := parseUint(line[i:])
			if n == 0 || wf > 0xFF {
				return nil, ErrMalformed
			}
			i += n
			if i >= len(line) || line[i] != ',' {
				return nil, ErrMalformed
			}
			i++
			db, n := parseInt(line[i:])
			if n == 0 || db < -128 || db > 127 {
				return nil, ErrMalformed
			}
			i += n
			if i >= len(line) || line[i] != ',' {
				return nil, ErrMalformed
			}
			i++
			m, n := parseUint(line[i:])
			if n == 0 || m > ModeReservoir {
				return nil, ErrMalformed
			}
			i += n
			p.WakeFreq = uint8(wf)
			p.PowerDBm = int8(db)
			p.Mode = uint8(m)
			p.HasDiag = true
		case '[':
			i++
			start := i
			for i < len(line) && line[i] != ']' {
				if !isAlnum(line[i]) {
					return nil, ErrMalformed
				}
				i++
			}
			if i >= len(line) || i == start {
				return nil, ErrMalformed
			}
			p.NodeID = string(line[start:i])
			i++
			if i != len(line) {
				return nil, ErrMalformed
			}
			return p, nil
		default:
			return nil, ErrMalformed
		}
	}
	// Ran out of input before the bracketed node id.
	return nil, ErrMalformed
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isAlnum(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// parseUint reads leading decimal digits; returns value and count consumed.
func parseUint(b []byte) (uint64, int) {
	var v uint64
	n := 0
	for n < len(b) && isDigit(b[n]) {
		v = v*10 + uint64(b[n]-'0')
		if v > 1<<32 {
			return 0, 0
		}
		n++
	}
	return v, n
}

func parseInt(b []byte) (int64, int) {
	neg := false
	n := 0
	if n < len(b) && b[n] == '-' {
		neg = true
		n++
	}
	v, d := parseUint(b[n:])
	if d == 0 {
		return 0, 0
	}
	n += d
	if neg {
		return -int64(v), n
	}
	return int64(v), n
}

// parseTenths reads "<sign><int>.<frac>" with exactly one fractional digit.
func parseTenths(b []byte) (int32, int) {
	neg := false
	n := 0
	if n < len(b) && b[n] == '-' {
		neg = true
		n++
	}
	w, d := parseUint(b[n:])
	if d == 0 {
		return 0, 0
	}
	n += d
	if n+1 >= len(b) || b[n] != '.' || !isDigit(b[n+1]) {
		return 0, 0
	}
	t := int32(w*10) + int32(b[n+1]-'0')
	n += 2
	if neg {
		t = -t
	}
	return t, n
}
