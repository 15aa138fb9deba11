// Package gateway turns a stream of received packet lines (typically from a
// serial-attached receiver) into bus traffic: the raw line, a parsed packet
// retained per node, and a reject topic for anything malformed.
package gateway

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/UKHASnet/ukhasnet-fc-node/bus"
	"github.com/UKHASnet/ukhasnet-fc-node/protocol"
)

// Topics published by the gateway.
var (
	TopicRaw     = bus.T("net", "raw")
	TopicInvalid = bus.T("net", "invalid")
)

// TopicNode is the retained per-node packet topic.
func TopicNode(nodeID string) bus.Topic { return bus.T("net", "node", nodeID) }

type Gateway struct {
	conn *bus.Connection
}

func New(conn *bus.Connection) *Gateway {
	return &Gateway{conn: conn}
}

// Run consumes packet lines from r until EOF, read error or cancellation.
// Each line is published raw; lines that parse also land retained under
// the sender's node topic, so late subscribers see the last report.
func (g *Gateway) Run(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		g.conn.Publish(g.conn.NewMessage(TopicRaw, string(line), false))

		pkt, err := protocol.Decode(line)
		if err != nil {
			g.conn.Publish(g.conn.NewMessage(TopicInvalid, string(line), false))
			continue
		}
		g.conn.Publish(g.conn.NewMessage(TopicNode(pkt.NodeID), pkt, true))
	}
	return sc.Err()
}
