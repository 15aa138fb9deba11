package node

// WakeScheduler counts wake events and picks transmit wakes. It is total:
// every call is one wake, and the only side effect is the wake counter.
type WakeScheduler struct {
	freq uint8
}

// OnWake records one wake event. Returns Transmit when the counter has
// reached the wake frequency (and resets it to 1), Skip otherwise.
func (w WakeScheduler) OnWake(s *State) Decision {
	if s.WakeCount >= w.freq {
		s.WakeCount = 1
		return Transmit
	}
	s.WakeCount++
	return Skip
}
