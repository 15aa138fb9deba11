// The gateway listens on a serial-attached receiver, parses packet lines
// and logs per-node telemetry. Host-side tool; the node firmware lives in
// cmd/fc-node.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"go.bug.st/serial"

	"github.com/UKHASnet/ukhasnet-fc-node/bus"
	"github.com/UKHASnet/ukhasnet-fc-node/gateway"
	"github.com/UKHASnet/ukhasnet-fc-node/protocol"
)

func main() {
	portName := flag.String("port", "/dev/ttyUSB0", "serial port of the receiver")
	baud := flag.Int("baud", 115200, "baud rate")
	flag.Parse()

	port, err := serial.Open(*portName, &serial.Mode{
		BaudRate: *baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		log.Fatalf("open %s: %v", *portName, err)
	}
	defer port.Close()

	b := bus.NewBus(64)
	g := gateway.New(b.NewConnection("gateway"))

	conn := b.NewConnection("logger")
	nodes := conn.Subscribe(bus.T("net", "node", "+"))
	invalid := conn.Subscribe(gateway.TopicInvalid)

	go func() {
		for {
			select {
			case msg := <-nodes.Channel():
				pkt := msg.Payload.(*protocol.Packet)
				logPacket(pkt)
			case msg := <-invalid.Channel():
				log.Printf("unparseable line: %q", msg.Payload)
			}
		}
	}()

	log.Printf("listening on %s at %d baud", *portName, *baud)
	if err := g.Run(context.Background(), port); err != nil {
		log.Fatalf("receiver stream: %v", err)
	}
}

func logPacket(pkt *protocol.Packet) {
	batt := "-"
	if pkt.HasVoltage {
		batt = fmt.Sprintf("%dmV", pkt.BatteryMV)
	}
	temp := "-"
	if pkt.HasTemp {
		temp = fmt.Sprintf("%.1fC", float64(pkt.TempTenths)/10)
	}
	log.Printf("[%s] seq=%c hops=%s batt=%s temp=%s", pkt.NodeID, pkt.Seq, pkt.Hops, batt, temp)
}
