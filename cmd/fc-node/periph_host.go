//go:build !rp2040

package main

import (
	"os"
	"time"

	"github.com/UKHASnet/ukhasnet-fc-node/hw"
	"github.com/UKHASnet/ukhasnet-fc-node/hw/hosttest"
)

// Host builds run against fakes. The resulting binary is a smoke test of
// the wiring, not a node; use cmd/nodesim for anything interactive.
func peripherals() hw.Peripherals {
	p, _, batt, _, _, slp := hosttest.Peripherals()
	batt.MV = 1450
	slp.OnInterruptWait = func() { time.Sleep(time.Second) }
	return p
}

func halt() { os.Exit(1) }
