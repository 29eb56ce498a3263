// internal/modbus/conn.go
package modbus

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	mb "github.com/goburrow/modbus"

	"github.com/MathiasJens3n/modbus-getter/internal/node"
)

// ErrNotConnected is returned for reads submitted while the transport
// is down.
var ErrNotConnected = errors.New("modbus: not connected")

// Config is minimal transport config for one shared connection.
type Config struct {
	ID        string
	Transport string // "tcp" or "rtu"
	Endpoint  string // host:port for tcp, device path for rtu
	Timeout   time.Duration

	// Serial parameters, rtu only.
	BaudRate int
	DataBits int
	Parity   string
	StopBits int
}

// Conn is one shared modbus connection. Potentially many nodes
// register as consumers; each submits discrete reads and gets exactly
// one success or failure callback per submission.
//
// The goburrow client is not goroutine-safe, so all wire access is
// serialized behind wireMu.
type Conn struct {
	cfg Config
	log *slog.Logger

	wireMu  sync.Mutex
	client  mb.Client
	setUnit func(uint8)
	dial    func() error
	hangup  func() error

	active atomic.Bool

	consMu    sync.Mutex
	consumers map[string]node.Consumer
}

// New builds an unconnected Conn for the configured transport.
func New(cfg Config, log *slog.Logger) (*Conn, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus: endpoint required")
	}
	if log == nil {
		log = slog.Default()
	}

	c := &Conn{
		cfg:       cfg,
		log:       log.With("conn", cfg.ID),
		consumers: make(map[string]node.Consumer),
	}

	switch cfg.Transport {
	case "rtu":
		h := mb.NewRTUClientHandler(cfg.Endpoint)
		h.Timeout = cfg.Timeout
		h.BaudRate = cfg.BaudRate
		h.DataBits = cfg.DataBits
		h.Parity = cfg.Parity
		h.StopBits = cfg.StopBits
		c.client = mb.NewClient(h)
		c.setUnit = func(u uint8) { h.SlaveId = u }
		c.dial = h.Connect
		c.hangup = h.Close
	case "tcp", "":
		h := mb.NewTCPClientHandler(cfg.Endpoint)
		h.Timeout = cfg.Timeout
		c.client = mb.NewClient(h)
		c.setUnit = func(u uint8) { h.SlaveId = u }
		c.dial = h.Connect
		c.hangup = h.Close
	default:
		return nil, fmt.Errorf("modbus: unsupported transport %q", cfg.Transport)
	}

	return c, nil
}

// Connect brings the transport up and notifies registered consumers.
func (c *Conn) Connect() error {
	c.wireMu.Lock()
	err := c.dial()
	c.wireMu.Unlock()

	if err != nil {
		return fmt.Errorf("modbus: connect %s: %w", c.cfg.Endpoint, err)
	}

	c.active.Store(true)
	c.broadcast(node.EventConnected)
	return nil
}

// Close shuts the transport down for good.
func (c *Conn) Close() error {
	wasActive := c.active.Swap(false)

	c.wireMu.Lock()
	err := c.hangup()
	c.wireMu.Unlock()

	if wasActive {
		c.broadcast(node.EventClosed)
	}
	return err
}

// IsActive reports whether the transport is up.
func (c *Conn) IsActive() bool { return c.active.Load() }

// IsInactive reports whether the transport is down.
func (c *Conn) IsInactive() bool { return !c.active.Load() }

// Register attaches a consumer to this connection's lifecycle events.
func (c *Conn) Register(cons node.Consumer) {
	c.consMu.Lock()
	defer c.consMu.Unlock()

	c.consumers[cons.ID()] = cons
}

// Deregister detaches the consumer with the given id. Detachment is
// asynchronous; done fires once the consumer is removed.
func (c *Conn) Deregister(id string, done func()) {
	go func() {
		c.consMu.Lock()
		delete(c.consumers, id)
		c.consMu.Unlock()

		if done != nil {
			done()
		}
	}()
}

// Read submits one read. Exactly one of onDone/onFail is invoked, on
// a separate goroutine, once the wire round trip finishes.
func (c *Conn) Read(req node.ReadRequest, onDone func(node.Response, node.ReadRequest), onFail func(error, node.ReadRequest)) {
	go func() {
		resp, err := c.read(req)
		if err != nil {
			c.noteWireError(err)
			onFail(err, req)
			return
		}
		onDone(resp, req)
	}()
}

func (c *Conn) read(req node.ReadRequest) (node.Response, error) {
	c.wireMu.Lock()
	defer c.wireMu.Unlock()

	if !c.active.Load() {
		return node.Response{}, ErrNotConnected
	}

	c.setUnit(req.UnitID)

	var raw []byte
	var err error

	switch req.FC {
	case 1:
		raw, err = c.client.ReadCoils(req.Address, req.Quantity)
	case 2:
		raw, err = c.client.ReadDiscreteInputs(req.Address, req.Quantity)
	case 3:
		raw, err = c.client.ReadHoldingRegisters(req.Address, req.Quantity)
	case 4:
		raw, err = c.client.ReadInputRegisters(req.Address, req.Quantity)
	default:
		return node.Response{}, fmt.Errorf("modbus: unsupported function code %d", req.FC)
	}
	if err != nil {
		return node.Response{}, err
	}

	return decode(req.FC, raw, req.Quantity), nil
}

// noteWireError downgrades the connection on transport-level errors.
// Device exceptions keep the transport up.
func (c *Conn) noteWireError(err error) {
	var netErr net.Error
	transportDead := errors.Is(err, io.EOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.As(err, &netErr)

	if !transportDead {
		return
	}
	if c.active.Swap(false) {
		c.log.Warn("transport down", "err", err)
		c.broadcast(node.EventDisconnected)
	}
}

func (c *Conn) broadcast(ev node.ConnEvent) {
	c.consMu.Lock()
	consumers := make([]node.Consumer, 0, len(c.consumers))
	for _, cons := range c.consumers {
		consumers = append(consumers, cons)
	}
	c.consMu.Unlock()

	for _, cons := range consumers {
		cons.OnConnEvent(ev)
	}
}
