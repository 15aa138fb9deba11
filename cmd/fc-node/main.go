// fc-node is the sensor-node firmware entry point. The node identity is
// baked in at build time:
//
//	tinygo flash -target=pico -ldflags="-X main.nodeID=JH2" ./cmd/fc-node
//
// Provisioning for the identity comes from the embedded table in the
// config package. The peripherals() factory is per-target: the rp2040
// build wires real SPI, ADC and 1-Wire hardware, every other build gets
// host fakes so the binary stays compilable and testable off-target.
package main

import (
	"context"

	"github.com/UKHASnet/ukhasnet-fc-node/config"
	"github.com/UKHASnet/ukhasnet-fc-node/node"
)

// nodeID selects the embedded provisioning entry. Override with -ldflags -X.
var nodeID = "JH1"

func main() {
	cfg, err := config.Lookup(nodeID)
	if err != nil {
		// Without a valid provisioning there is nothing sane to transmit.
		for {
			println("fc-node: provisioning", nodeID, ":", err.Error())
			halt()
		}
	}

	n, err := node.New(cfg, peripherals())
	if err != nil {
		for {
			println("fc-node:", err.Error())
			halt()
		}
	}

	n.Boot()
	n.Run(context.Background())
}
