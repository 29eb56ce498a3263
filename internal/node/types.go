// internal/node/types.go
package node

// ReadRequest is one outbound read, uniquely identified for the
// lifetime of the node instance. The id is echoed back by the
// connection with the completion so the node can re-attach the
// original trigger context.
type ReadRequest struct {
	ID       string
	Topic    string
	Value    any
	UnitID   uint8
	FC       uint8
	Address  uint16
	Quantity uint16
}

// Response is the decoded result of one read.
// Exactly one of Bits/Registers is set depending on FC; Value is the
// logical reading (scalar when quantity is 1, slice otherwise).
type Response struct {
	Value     any
	Bits      []bool   // FC 1,2
	Registers []uint16 // FC 3,4
}

// ConnEvent is a lifecycle event broadcast by a connection to its
// registered consumers.
type ConnEvent uint8

const (
	// EventConnected fires when the transport comes up.
	EventConnected ConnEvent = iota
	// EventDisconnected fires when the transport goes down.
	EventDisconnected
	// EventClosed fires when the connection is closed for good.
	EventClosed
)

// Consumer is the face a node shows to the connection it registers
// with: an identity plus a lifecycle event sink.
type Consumer interface {
	ID() string
	OnConnEvent(ev ConnEvent)
}

// Conn is the shared modbus connection collaborator. The node never
// owns or locks it; it registers interest, submits discrete reads and
// reacts to callbacks. Read invokes exactly one of onDone/onFail per
// call, possibly on another goroutine.
type Conn interface {
	IsActive() bool
	IsInactive() bool
	Read(req ReadRequest, onDone func(Response, ReadRequest), onFail func(error, ReadRequest))
	Register(c Consumer)
	Deregister(id string, done func())
	Close() error
}

// Resolver looks a connection up by its configuration reference.
// A nil result means no connection is configured, which is a valid
// terminal outcome rather than an error.
type Resolver func(ref string) Conn
