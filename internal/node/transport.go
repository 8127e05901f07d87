package node

import (
	"fmt"
	"net"
	"sync"
)

// EventKind tags the variant of an Event arriving off the Transport's
// event channel.
type EventKind int

const (
	EventAccepted EventKind = iota
	EventConnected
	EventMessage
	EventDisconnected
)

// Event is everything the Engine's single goroutine needs to react to one
// connection-manager occurrence. RemoteAddr is populated on every Kind
// (not just Accepted/Connected) so a Chat message can be attributed to its
// sender's ephemeral address even when the table has no resolved entry for
// the handle yet. Err carries the underlying error for a failed dial and
// for every disconnect (io.EOF when the peer closed cleanly between frames).
type Event struct {
	Kind       EventKind
	Handle     Handle
	RemoteAddr string
	Ok         bool
	Message    Message
	Err        error
}

// conn is the per-connection state the Transport tracks: the live socket,
// its observed remote address, and an outbox that serializes writes onto
// one dedicated writer goroutine. Send returns once the message is queued;
// while the outbox already holds 16 messages it waits until the writer
// takes one or the connection closes.
type conn struct {
	netConn net.Conn
	remote  string
	outbox  chan Message
	closeCh chan struct{}
	once    sync.Once
}

// Transport is the event-driven connection manager: it owns the listener
// and every open socket, and funnels everything that happens on any of
// them onto a single channel for one consumer goroutine.
type Transport struct {
	listener net.Listener
	events   chan Event

	mu    sync.Mutex
	conns map[Handle]*conn
}

// NewTransport creates a Transport with no listener yet bound.
func NewTransport() *Transport {
	return &Transport{
		events: make(chan Event, 64),
		conns:  make(map[Handle]*conn),
	}
}

// Events returns the channel every Accepted/Connected/Message/Disconnected
// occurrence is delivered on, in the order the transport observed them.
func (tr *Transport) Events() <-chan Event {
	return tr.events
}

// Listen binds a TCP listener on 127.0.0.1:port, starts accepting
// connections in the background, and returns the bound address.
func (tr *Transport) Listen(port uint16) (string, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return "", fmt.Errorf("node: listen on port %d: %w", port, err)
	}
	tr.listener = ln
	go tr.acceptLoop()
	return ln.Addr().String(), nil
}

func (tr *Transport) acceptLoop() {
	for {
		netConn, err := tr.listener.Accept()
		if err != nil {
			return
		}
		h := newHandle()
		c := tr.register(h, netConn)
		go tr.readLoop(h, c)
		go tr.writeLoop(h, c)
		tr.events <- Event{Kind: EventAccepted, Handle: h, RemoteAddr: c.remote}
	}
}

// Dial opens an outbound connection to addr in the background, returning
// the handle immediately. An EventConnected with Ok=false is delivered if
// the dial fails; otherwise an EventConnected with Ok=true follows once the
// socket is up and its read/write loops are running.
func (tr *Transport) Dial(addr string) Handle {
	h := newHandle()
	go func() {
		netConn, err := net.Dial("tcp", addr)
		if err != nil {
			tr.events <- Event{Kind: EventConnected, Handle: h, RemoteAddr: addr, Ok: false, Err: err}
			return
		}
		c := tr.register(h, netConn)
		go tr.readLoop(h, c)
		go tr.writeLoop(h, c)
		tr.events <- Event{Kind: EventConnected, Handle: h, RemoteAddr: c.remote, Ok: true}
	}()
	return h
}

func (tr *Transport) register(h Handle, netConn net.Conn) *conn {
	c := &conn{
		netConn: netConn,
		remote:  netConn.RemoteAddr().String(),
		outbox:  make(chan Message, 16),
		closeCh: make(chan struct{}),
	}
	tr.mu.Lock()
	tr.conns[h] = c
	tr.mu.Unlock()
	return c
}

func (tr *Transport) readLoop(h Handle, c *conn) {
	for {
		msg, err := readFrame(c.netConn)
		if err != nil {
			tr.closeConn(h, c)
			tr.events <- Event{Kind: EventDisconnected, Handle: h, RemoteAddr: c.remote, Err: err}
			return
		}
		tr.events <- Event{Kind: EventMessage, Handle: h, RemoteAddr: c.remote, Message: msg}
	}
}

func (tr *Transport) writeLoop(h Handle, c *conn) {
	for {
		select {
		case msg := <-c.outbox:
			if err := writeFrame(c.netConn, msg); err != nil {
				tr.closeConn(h, c)
				return
			}
		case <-c.closeCh:
			return
		}
	}
}

// Send queues msg for delivery on h's connection. It is a no-op if h is
// unknown or already closed.
func (tr *Transport) Send(h Handle, msg Message) {
	tr.mu.Lock()
	c, ok := tr.conns[h]
	tr.mu.Unlock()
	if !ok {
		return
	}
	select {
	case c.outbox <- msg:
	case <-c.closeCh:
	}
}

// CloseHandle forcibly closes h's connection, used by the Engine to tear
// down the losing side of a D1 duplicate-resolution tie-break.
func (tr *Transport) CloseHandle(h Handle) {
	tr.mu.Lock()
	c, ok := tr.conns[h]
	tr.mu.Unlock()
	if !ok {
		return
	}
	tr.closeConn(h, c)
}

func (tr *Transport) closeConn(h Handle, c *conn) {
	c.once.Do(func() {
		close(c.closeCh)
		c.netConn.Close()
		tr.mu.Lock()
		delete(tr.conns, h)
		tr.mu.Unlock()
	})
}

// Close shuts down the listener and every open connection. Intended for
// test teardown; production use terminates the process instead.
func (tr *Transport) Close() error {
	var err error
	if tr.listener != nil {
		err = tr.listener.Close()
	}
	tr.mu.Lock()
	conns := make(map[Handle]*conn, len(tr.conns))
	for h, c := range tr.conns {
		conns[h] = c
	}
	tr.mu.Unlock()
	for h, c := range conns {
		tr.closeConn(h, c)
	}
	return err
}
