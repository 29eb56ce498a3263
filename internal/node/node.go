// internal/node/node.go
package node

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MathiasJens3n/modbus-getter/internal/correlate"
	"github.com/MathiasJens3n/modbus-getter/internal/flow"
	"github.com/MathiasJens3n/modbus-getter/internal/gate"
	"github.com/MathiasJens3n/modbus-getter/internal/status"
)

// Config is the immutable runtime configuration of one getter node.
type Config struct {
	ID       string
	Name     string
	Server   string // connection reference, resolved on connect
	UnitID   uint8
	DataType string
	Address  uint16
	Quantity uint16

	// Delay is the startup grace period armed on (re)connect.
	Delay time.Duration

	ShowStatusActivities bool
	ShowErrors           bool
	ShowWarnings         bool
	EmptyMsgOnFail       bool
	KeepMsgProps         bool
}

// StatusFunc receives node-visible status updates. The host renders
// them; the node treats this as a side-channel write.
type StatusFunc func(s status.Snapshot)

// Options carries the optional collaborators of a node.
type Options struct {
	Logger *slog.Logger
	Status StatusFunc
}

// Node is one modbus getter instance: it turns inbound triggers into
// correlated read requests against a shared connection and emits each
// completion downstream exactly once.
//
// All mutable state (gate, store, connection handle) is owned by the
// node and mutated only through its own handlers.
type Node struct {
	cfg     Config
	log     *slog.Logger
	emit    flow.Emitter
	resolve Resolver
	report  StatusFunc

	store *correlate.Store
	gate  *gate.Gate

	mu   sync.Mutex
	conn Conn

	seq atomic.Uint64
}

// New creates a node with immutable config.
func New(cfg Config, emit flow.Emitter, resolve Resolver, opts Options) (*Node, error) {
	if cfg.ID == "" {
		return nil, errors.New("node: id required")
	}
	if cfg.Quantity == 0 {
		return nil, errors.New("node: quantity must be > 0")
	}
	if _, err := FunctionCode(cfg.DataType); err != nil {
		return nil, err
	}
	if emit == nil {
		return nil, errors.New("node: emitter required")
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Node{
		cfg:     cfg,
		log:     log.With("node", cfg.ID),
		emit:    emit,
		resolve: resolve,
		report:  opts.Status,
		store:   correlate.NewStore(),
		gate:    gate.New(),
	}, nil
}

// ID returns the node identity used for consumer registration.
func (n *Node) ID() string { return n.cfg.ID }

// Pending reports the number of in-flight reads.
func (n *Node) Pending() int { return n.store.Len() }

// Trigger processes one inbound message. A payload carrying an
// explicit boolean "connection" entry drives the lifecycle adapter;
// anything else is a read trigger. Trigger never blocks and never
// propagates a fault to the caller.
func (n *Node) Trigger(msg flow.Message) {
	if want, ok := flow.ConnectionIntent(msg); ok {
		if want {
			n.connect()
		} else {
			n.disconnect(nil)
		}
		return
	}

	if msg.Payload == nil {
		n.warn("dropping malformed trigger: nil payload", "topic", msg.Topic)
		return
	}

	conn, ready := n.readyConn()
	if !ready {
		// Gate rejection: dropped, never queued or surfaced as an error.
		n.warn("not ready, dropping trigger", "topic", msg.Topic)
		n.setActivity(status.Snapshot{Code: status.CodeWaiting})
		return
	}

	req, err := n.buildRequest(msg)
	if err != nil {
		n.reportError("request build failed", err, msg.Topic)
		if n.cfg.EmptyMsgOnFail {
			topic := msg.Topic
			if topic == "" {
				topic = n.cfg.ID
			}
			var props map[string]any
			if n.cfg.KeepMsgProps {
				props = msg.Properties
			}
			n.emitPlaceholder(topic, "", props, err)
		}
		return
	}

	if err := n.store.Put(req.ID, msg); err != nil {
		// Correlation ids are unique per instance; a duplicate is an
		// anomaly worth reporting, and the trigger is dropped.
		n.warn("pending insert refused", "id", req.ID, "err", err)
		return
	}

	n.setActivity(status.Snapshot{Code: status.CodeReading})
	conn.Read(req, n.onSuccess, n.onFailure)
}

// readyConn returns the attached connection together with the full
// readiness verdict: attached, transport active, grace period elapsed.
func (n *Node) readyConn() (Conn, bool) {
	n.mu.Lock()
	conn := n.conn
	n.mu.Unlock()

	if conn == nil || !conn.IsActive() {
		return nil, false
	}
	if !n.gate.Elapsed() {
		return nil, false
	}
	return conn, true
}

// connect resolves the configured connection reference and attaches.
// An unresolved reference is a valid terminal outcome, not an error.
func (n *Node) connect() {
	if n.resolve == nil {
		return
	}
	conn := n.resolve(n.cfg.Server)
	if conn == nil {
		return
	}

	n.mu.Lock()
	n.conn = conn
	n.mu.Unlock()

	conn.Register(n)
	n.gate.Init(n.cfg.Delay)
	n.setStatus(status.Snapshot{Code: status.CodeConnected})
}

// disconnect detaches the node from its connection and resets
// node-local state. The transport itself is closed only here, not on
// host-driven teardown, since its final close is shared across all
// consumers.
func (n *Node) disconnect(done func()) {
	n.setStatus(status.Snapshot{Code: status.CodeClosed})
	n.detach(true, done)
}

// Close is the host-driven teardown: mirrors disconnect minus the
// explicit transport close.
func (n *Node) Close(done func()) {
	n.setStatus(status.Snapshot{Code: status.CodeClosed})
	n.detach(false, done)
}

func (n *Node) detach(closeTransport bool, done func()) {
	n.store.ClearAll()
	n.gate.Reset()

	n.mu.Lock()
	conn := n.conn
	n.conn = nil
	n.mu.Unlock()

	if conn == nil {
		if done != nil {
			done()
		}
		return
	}

	// Deregistration is asynchronous; shutdown continues in its
	// completion callback.
	conn.Deregister(n.cfg.ID, func() {
		if closeTransport {
			if err := conn.Close(); err != nil {
				n.warn("transport close failed", "err", err)
			}
		}
		n.setStatus(status.Snapshot{Code: status.CodeDisconnected})
		if done != nil {
			done()
		}
	})
}

// OnConnEvent reacts to lifecycle events of the attached connection.
func (n *Node) OnConnEvent(ev ConnEvent) {
	switch ev {
	case EventConnected:
		n.gate.Init(n.cfg.Delay)
		n.setStatus(status.Snapshot{Code: status.CodeConnected})
	case EventDisconnected, EventClosed:
		// Completions for cleared ids take the stale branch.
		n.store.ClearAll()
		n.gate.Reset()
		n.setStatus(status.Snapshot{Code: status.CodeDisconnected})
	}
}

// ---- diagnostics ----

func (n *Node) warn(msg string, args ...any) {
	if n.cfg.ShowWarnings {
		n.log.Warn(msg, args...)
	}
}

func (n *Node) reportError(msg string, err error, topic string) {
	if n.cfg.ShowErrors {
		n.log.Error(msg, "err", err, "topic", topic)
	}
	n.setStatus(status.Snapshot{
		Code:      status.CodeError,
		Detail:    err.Error(),
		ErrorCode: errorCode(err),
	})
}

// setActivity surfaces routine activity statuses, gated by config.
func (n *Node) setActivity(s status.Snapshot) {
	if !n.cfg.ShowStatusActivities {
		return
	}
	n.setStatus(s)
}

func (n *Node) setStatus(s status.Snapshot) {
	if n.report != nil {
		n.report(s)
	}
}
