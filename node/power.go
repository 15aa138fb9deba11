package node

// PowerModeSelector tracks battery voltage against a threshold with
// hysteresis and picks the sleep strategy. Called once per transmit wake,
// after sampling, before sleep.
//
// The boost regulator runs down to a lower cell voltage than it can
// reliably restart from. Below the threshold, gating it off during
// reservoir sleep risks a restart failure, so the node switches to timed
// sleep with the regulator left on. The hysteresis band stops the mode
// flapping around the threshold.
type PowerModeSelector struct {
	thresholdMV  uint16
	hysteresisMV uint16
}

// UpdateMode applies one sample. A zero sample is the invalid sentinel:
// the mode holds and the stored voltage is not overwritten.
func (p PowerModeSelector) UpdateMode(s *State, batteryMV uint16) PowerMode {
	if batteryMV == 0 {
		return s.Mode
	}
	s.LastBatteryMV = batteryMV
	switch s.Mode {
	case ReservoirSleep:
		if batteryMV < p.thresholdMV {
			s.Mode = TimerSleep
		}
	case TimerSleep:
		if batteryMV > p.thresholdMV+p.hysteresisMV {
			s.Mode = ReservoirSleep
		}
	}
	return s.Mode
}
