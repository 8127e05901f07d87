package node

import (
	"errors"
	"fmt"
	"io"

	"github.com/mcastellin/gossipmesh/internal/logging"
)

// Engine is the single consumer of a Transport's event stream. Every
// membership mutation and every protocol reaction happens on its one
// goroutine, so the Table never needs to reason about concurrent writers
// racing a single connection's lifecycle.
type Engine struct {
	selfAddr  string
	table     *Table
	transport *Transport
	log       *logging.Logger
}

// NewEngine wires an Engine to the table and transport it will drive.
func NewEngine(selfAddr string, table *Table, transport *Transport, log *logging.Logger) *Engine {
	return &Engine{selfAddr: selfAddr, table: table, transport: transport, log: log}
}

// Run consumes events until the transport's event channel is closed. It is
// meant to be started in its own goroutine.
func (e *Engine) Run() {
	for ev := range e.transport.Events() {
		switch ev.Kind {
		case EventAccepted:
			e.onAccepted(ev)
		case EventConnected:
			e.onConnected(ev)
		case EventMessage:
			e.onMessage(ev)
		case EventDisconnected:
			e.onDisconnected(ev)
		}
	}
}

func (e *Engine) onAccepted(ev Event) {
	e.table.RecordInbound(ev.Handle, ev.RemoteAddr)
}

func (e *Engine) onConnected(ev Event) {
	if !ev.Ok {
		e.log.Error(fmt.Sprintf("can not connect to %q", ev.RemoteAddr), ev.Err)
		return
	}

	if evict, should := e.table.RecordOutbound(ev.Handle, ev.RemoteAddr); should {
		e.transport.CloseHandle(evict)
		return
	}

	e.transport.Send(ev.Handle, Announce(e.selfAddr))
	e.transport.Send(ev.Handle, RequestRoster())
}

func (e *Engine) onMessage(ev Event) {
	switch ev.Message.Kind {
	case KindAnnounce:
		e.handleAnnounce(ev.Handle, ev.Message.Addr)
	case KindRequestRoster:
		e.handleRequestRoster(ev.Handle)
	case KindRoster:
		e.handleRoster(ev.Handle, ev.Message.Addrs, ev.RemoteAddr)
	case KindChat:
		e.handleChat(ev.Handle, ev.Message.Text, ev.RemoteAddr)
	}
}

func (e *Engine) handleAnnounce(h Handle, addr string) {
	if evict, should := e.table.Resolve(h, addr); should {
		e.transport.CloseHandle(evict)
	}
}

func (e *Engine) handleRequestRoster(h Handle) {
	e.transport.Send(h, Roster(e.table.Roster()))
}

// rosterDialTargets filters a received roster down to the addresses worth
// dialing: not this node itself (D2), not the peer that sent the roster
// (already connected), and not an address already Resolved in the table.
func rosterDialTargets(addrs []string, selfAddr, sender string, known func(string) bool) []string {
	var targets []string
	for _, addr := range addrs {
		if addr == selfAddr || addr == sender || known(addr) {
			continue
		}
		targets = append(targets, addr)
	}
	return targets
}

// handleRoster dials every address in addrs this node doesn't already know
// about, skipping itself (D2), the sender (already connected), and any
// address already Resolved in the table.
func (e *Engine) handleRoster(h Handle, addrs []string, sender string) {
	targets := rosterDialTargets(addrs, e.selfAddr, sender, e.table.ContainsPublic)
	for _, addr := range targets {
		e.transport.Dial(addr)
	}
	if len(targets) > 0 {
		e.log.Event(fmt.Sprintf("Connected to new participants: %s", formatAddrs(targets)))
	}
}

func (e *Engine) handleChat(h Handle, text string, fallbackAddr string) {
	addr, ok := e.table.PublicFor(h)
	if !ok {
		addr = fallbackAddr
	}
	e.log.Event(fmt.Sprintf("Received message [%s] from %q", text, addr))
}

func (e *Engine) onDisconnected(ev Event) {
	if ev.Err != nil && !errors.Is(ev.Err, io.EOF) {
		e.log.Error(fmt.Sprintf("connection to %q closed", ev.RemoteAddr), ev.Err)
	}
	e.table.Remove(ev.Handle)
}
