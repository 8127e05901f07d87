// Package node implements the gossip participant: membership tracking,
// the wire protocol, the connection manager, and the event loop and
// periodic broadcaster that drive them.
package node

import (
	"context"
	"time"

	"github.com/mcastellin/gossipmesh/internal/logging"
)

// Config holds everything needed to start one node, taken directly from
// the parsed command-line flags.
type Config struct {
	Port    uint16
	Period  time.Duration
	Connect string
}

// Node is one running gossip participant: a listening transport, the
// membership table it maintains, the engine reacting to connection
// events, and the broadcaster generating outbound gossip.
type Node struct {
	cfg        Config
	PublicAddr string

	table     *Table
	transport *Transport
	engine    *Engine
	broadcast *Broadcaster
	log       *logging.Logger

	stopBroadcast chan struct{}
}

// New binds the node's listener and wires its table, engine, and
// broadcaster together. Binding starts the transport's accept loop; the
// event loop, the broadcaster and the dial of cfg.Connect start in Run.
func New(cfg Config) (*Node, error) {
	transport := NewTransport()
	addr, err := transport.Listen(cfg.Port)
	if err != nil {
		return nil, err
	}

	log := logging.New(addr)
	table := NewTable(addr)
	engine := NewEngine(addr, table, transport, log)
	broadcast := NewBroadcaster(table, transport, cfg.Period, log)

	return &Node{
		cfg:           cfg,
		PublicAddr:    addr,
		table:         table,
		transport:     transport,
		engine:        engine,
		broadcast:     broadcast,
		log:           log,
		stopBroadcast: make(chan struct{}),
	}, nil
}

// Run starts the node's event loop and broadcaster, dials the initial peer
// if one was configured, and blocks until ctx is done.
func (n *Node) Run(ctx context.Context) {
	go n.engine.Run()
	go n.broadcast.Run(n.stopBroadcast)

	if n.cfg.Connect != "" {
		n.transport.Dial(n.cfg.Connect)
	}

	<-ctx.Done()
	n.Shutdown()
}

// Shutdown stops the broadcaster, closes the transport and every open
// connection, and flushes any buffered log output.
func (n *Node) Shutdown() {
	select {
	case <-n.stopBroadcast:
	default:
		close(n.stopBroadcast)
	}
	n.transport.Close()
	n.log.Sync()
}

// Nodes returns the address of every peer currently in the broadcast
// fan-out: its public address once Resolved, its ephemeral remote address
// while still Unresolved.
func (n *Node) Nodes() []string {
	targets := n.table.BroadcastTargets()
	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = t.PublicAddr
	}
	return out
}
