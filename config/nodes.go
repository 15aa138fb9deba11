package config

// -----------------------------------------------------------------------------
// Embedded provisioning
//
// Populate embeddedNodes at build time (e.g. via code generation) or
// manually during development. One entry per deployed node.
// -----------------------------------------------------------------------------

const cfgJH1 = `{
  "hops": "1",
  "wake_frequency": 30,
  "tx_power_dbm": 5,
  "threshold_mv": 1000,
  "hysteresis_mv": 100,
  "timer_wake_interval_s": 32,
  "include_voltage": true
}`

const cfgJH2 = `{
  "hops": "2",
  "wake_frequency": 10,
  "tx_power_dbm": 10,
  "threshold_mv": 1050,
  "hysteresis_mv": 150,
  "timer_wake_interval_s": 32,
  "include_voltage": true,
  "include_diagnostics": true
}`

var embeddedNodes = map[string][]byte{
	"JH1": []byte(cfgJH1),
	"JH2": []byte(cfgJH2),
}
