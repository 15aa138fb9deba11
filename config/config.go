// Package config resolves per-node provisioning from embedded JSON,
// replacing the firmware family's per-node source duplication with one
// parameterized build. Keys are node IDs; values override DefaultConfig.
package config

import (
	"time"

	"github.com/andreyvit/tinyjson"

	"github.com/UKHASnet/ukhasnet-fc-node/errcode"
	"github.com/UKHASnet/ukhasnet-fc-node/node"
)

// EmbeddedNodeLookup allows overriding how configs are resolved (tests,
// code generation).
var EmbeddedNodeLookup = func(nodeID string) ([]byte, bool) {
	b, ok := embeddedNodes[nodeID]
	return b, ok
}

// Lookup resolves and validates the provisioning for one node ID.
func Lookup(nodeID string) (node.Config, error) {
	cfg := node.DefaultConfig()
	cfg.NodeID = nodeID

	raw, ok := EmbeddedNodeLookup(nodeID)
	if !ok || len(raw) == 0 {
		return cfg, &errcode.E{C: errcode.UnknownNode, Msg: "no embedded config for node " + nodeID}
	}

	r := tinyjson.Raw(raw)
	val := r.Value()
	r.EnsureEOF()

	m, ok := val.(map[string]any)
	if !ok {
		return cfg, &errcode.E{C: errcode.InvalidConfig, Msg: "embedded config is not a JSON object"}
	}

	if v, ok := str(m, "hops"); ok {
		cfg.Hops = v
	}
	if v, ok := num(m, "wake_frequency"); ok {
		cfg.WakeFrequency = uint8(v)
	}
	if v, ok := num(m, "tx_power_dbm"); ok {
		cfg.TxPowerDBm = int8(v)
	}
	if v, ok := num(m, "threshold_mv"); ok {
		cfg.ThresholdMV = uint16(v)
	}
	if v, ok := num(m, "hysteresis_mv"); ok {
		cfg.HysteresisMV = uint16(v)
	}
	if v, ok := num(m, "timer_wake_interval_s"); ok {
		cfg.TimerWakeInterval = time.Duration(v) * time.Second
	}
	if v, ok := boolean(m, "include_voltage"); ok {
		cfg.IncludeVoltage = v
	}
	if v, ok := boolean(m, "include_diagnostics"); ok {
		cfg.IncludeDiagnostics = v
	}
	if v, ok := boolean(m, "seq_restart_at_a"); ok {
		cfg.SeqRestartAtA = v
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func str(m map[string]any, k string) (string, bool) {
	v, ok := m[k].(string)
	return v, ok
}

func num(m map[string]any, k string) (int64, bool) {
	switch v := m[k].(type) {
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	default:
		return 0, false
	}
}

func boolean(m map[string]any, k string) (bool, bool) {
	v, ok := m[k].(bool)
	return v, ok
}
