package errcode

// Code is a stable, short error identifier for node faults.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK Code = "ok"

	RadioInit    Code = "radio_init"
	RadioSend    Code = "radio_send"
	RadioTimeout Code = "radio_timeout"

	SensorRead  Code = "sensor_read"
	BadVoltage  Code = "bad_voltage"
	BadChecksum Code = "bad_checksum"
	NotDetected Code = "not_detected"

	InvalidConfig Code = "invalid_config"
	UnknownNode   Code = "unknown_node"

	BadPacket Code = "bad_packet"
	Truncated Code = "truncated"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
