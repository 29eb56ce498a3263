// internal/status/constants.go
package status

// Code identifies one node-visible status state rendered by the host.
type Code uint8

// ---- LIFECYCLE ----

// CodeWaiting means the node is up but not yet allowed to read
// (startup delay pending or connection not ready).
const CodeWaiting Code = 0

// CodeConnected means the node is attached to an active connection.
const CodeConnected Code = 1

// CodeClosed means the node was told to shut down and is draining.
const CodeClosed Code = 2

// CodeDisconnected means the node is detached from its connection.
const CodeDisconnected Code = 3

// ---- ACTIVITY ----

// CodeReading means a read request is in flight.
const CodeReading Code = 4

// CodeReadingDone means the last read completed and was emitted.
const CodeReadingDone Code = 5

// ---- FAILURE ----

// CodeError means the last read or lifecycle step failed.
const CodeError Code = 6

// String returns the host-facing label for a code.
func (c Code) String() string {
	switch c {
	case CodeWaiting:
		return "waiting"
	case CodeConnected:
		return "connected"
	case CodeClosed:
		return "closed"
	case CodeDisconnected:
		return "disconnected"
	case CodeReading:
		return "reading"
	case CodeReadingDone:
		return "reading done"
	case CodeError:
		return "error"
	default:
		return "unknown"
	}
}
