package config

import (
	"testing"
	"time"

	"github.com/UKHASnet/ukhasnet-fc-node/errcode"
)

func TestLookup_EmbeddedNode(t *testing.T) {
	cfg, err := Lookup("JH2")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if cfg.NodeID != "JH2" || cfg.Hops != "2" {
		t.Errorf("identity = %q/%q", cfg.NodeID, cfg.Hops)
	}
	if cfg.WakeFrequency != 10 || cfg.TxPowerDBm != 10 {
		t.Errorf("duty cycle = %d/%d", cfg.WakeFrequency, cfg.TxPowerDBm)
	}
	if cfg.ThresholdMV != 1050 || cfg.HysteresisMV != 150 {
		t.Errorf("hysteresis = %d/%d", cfg.ThresholdMV, cfg.HysteresisMV)
	}
	if cfg.TimerWakeInterval != 32*time.Second {
		t.Errorf("timer interval = %v", cfg.TimerWakeInterval)
	}
	if !cfg.IncludeDiagnostics {
		t.Errorf("diagnostics flag not applied")
	}
}

func TestLookup_UnknownNode(t *testing.T) {
	_, err := Lookup("NOPE")
	if errcode.Of(err) != errcode.UnknownNode {
		t.Errorf("err = %v, want unknown_node", err)
	}
}

func TestLookup_OverriddenResolver(t *testing.T) {
	old := EmbeddedNodeLookup
	EmbeddedNodeLookup = func(id string) ([]byte, bool) {
		if id != "TST" {
			return nil, false
		}
		return []byte(`{"hops": "9", "wake_frequency": 1, "seq_restart_at_a": true}`), true
	}
	t.Cleanup(func() { EmbeddedNodeLookup = old })

	cfg, err := Lookup("TST")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if cfg.Hops != "9" || cfg.WakeFrequency != 1 || !cfg.SeqRestartAtA {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	// Untouched fields keep defaults.
	if cfg.ThresholdMV != 1000 {
		t.Errorf("default threshold lost: %d", cfg.ThresholdMV)
	}
}

func TestLookup_InvalidProvisioningRejected(t *testing.T) {
	old := EmbeddedNodeLookup
	EmbeddedNodeLookup = func(string) ([]byte, bool) {
		return []byte(`{"wake_frequency": 0}`), true
	}
	t.Cleanup(func() { EmbeddedNodeLookup = old })

	if _, err := Lookup("BAD"); errcode.Of(err) != errcode.InvalidConfig {
		t.Errorf("err = %v, want invalid_config", err)
	}
}
