package node

import "testing"

func TestScheduler_TransmitSpacing(t *testing.T) {
	for _, freq := range []uint8{1, 2, 5, 30} {
		cfg := DefaultConfig()
		cfg.WakeFrequency = freq
		s := NewState(&cfg)
		w := WakeScheduler{freq: freq}

		const k = 200
		transmits := 0
		last := -1
		for i := 0; i < k; i++ {
			if w.OnWake(s) == Transmit {
				transmits++
				if last >= 0 && i-last != int(freq) {
					t.Errorf("freq %d: transmit spacing %d wakes, want %d", freq, i-last, freq)
				}
				last = i
			}
		}
		// Counter starts saturated, so the first wake transmits and the
		// rest follow every freq wakes.
		want := 1 + (k-1)/int(freq)
		if transmits != want {
			t.Errorf("freq %d: %d transmits over %d wakes, want %d", freq, transmits, k, want)
		}
	}
}

func TestScheduler_CounterInvariant(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WakeFrequency = 4
	s := NewState(&cfg)
	w := WakeScheduler{freq: 4}

	for i := 0; i < 50; i++ {
		w.OnWake(s)
		if s.WakeCount < 1 || s.WakeCount > 4 {
			t.Fatalf("wake %d: counter %d outside [1,4]", i, s.WakeCount)
		}
	}
}

func TestScheduler_SkipWakesTouchNothingElse(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WakeFrequency = 10
	s := NewState(&cfg)
	s.WakeCount = 1 // just transmitted
	w := WakeScheduler{freq: 10}

	seq, mode := s.Seq, s.Mode
	for i := 0; i < 9; i++ {
		if d := w.OnWake(s); d != Skip {
			t.Fatalf("wake %d: decision %v, want Skip", i, d)
		}
	}
	if s.Seq != seq || s.Mode != mode {
		t.Errorf("skip wakes mutated seq/mode: %c %v", s.Seq, s.Mode)
	}
}
