package node

import "github.com/rs/xid"

// Handle is an opaque, per-connection identifier minted by the Transport
// for every accepted or dialed TCP connection. It is never a peer identity
// -- the Table is what maps a Handle to the public address it (currently)
// resolves to.
type Handle xid.ID

// newHandle mints a fresh globally-ordered handle for one connection.
func newHandle() Handle {
	return Handle(xid.New())
}

func (h Handle) String() string {
	return xid.ID(h).String()
}
