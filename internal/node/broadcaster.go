package node

import (
	"fmt"
	"time"

	"github.com/mcastellin/gossipmesh/internal/logging"
)

// Broadcaster periodically sends a gossip Chat message to every peer
// currently in the membership table. It reads the table only to snapshot
// the current targets, then sends outside of any lock.
type Broadcaster struct {
	table     *Table
	transport *Transport
	period    time.Duration
	log       *logging.Logger
}

// NewBroadcaster wires a Broadcaster to the table it reads targets from and
// the transport it sends through, firing every period.
func NewBroadcaster(table *Table, transport *Transport, period time.Duration, log *logging.Logger) *Broadcaster {
	return &Broadcaster{table: table, transport: transport, period: period, log: log}
}

// Run ticks every period until stop is closed. Meant to be started in its
// own goroutine.
func (b *Broadcaster) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(b.period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.tick()
		case <-stop:
			return
		}
	}
}

func (b *Broadcaster) tick() {
	targets := b.table.BroadcastTargets()
	if len(targets) == 0 {
		return
	}

	msg := Chat(fmt.Sprintf("random message %d", uniformRandom(1000)))

	addrs := make([]string, len(targets))
	for i, t := range targets {
		addrs[i] = t.PublicAddr
	}
	b.log.Event(fmt.Sprintf("Sending message [%s] to %s", msg.Text, formatAddrs(addrs)))

	for _, t := range targets {
		b.transport.Send(t.Handle, msg)
	}
}
