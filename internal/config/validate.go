// internal/config/validate.go
package config

import (
	"fmt"
)

var validDataTypes = map[string]bool{
	"coil":             true,
	"discrete_input":   true,
	"holding_register": true,
	"input_register":   true,
}

// Quantity caps per the modbus application protocol.
const (
	maxBitQuantity      = 2000 // FC 1,2
	maxRegisterQuantity = 125  // FC 3,4
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	// ------------------------------------------------------------
	// CONNECTION VALIDATION
	// ------------------------------------------------------------

	conns := make(map[string]bool)

	for _, c := range cfg.Getter.Connections {
		if c.ID == "" {
			return fmt.Errorf("connection with empty id")
		}
		if conns[c.ID] {
			return fmt.Errorf("duplicate connection id %q", c.ID)
		}
		conns[c.ID] = true

		switch c.Transport {
		case "tcp", "":
		case "rtu":
			if c.BaudRate <= 0 {
				return fmt.Errorf("connection %q: rtu requires baud_rate", c.ID)
			}
		default:
			return fmt.Errorf("connection %q: unsupported transport %q", c.ID, c.Transport)
		}

		if c.Endpoint == "" {
			return fmt.Errorf("connection %q: endpoint required", c.ID)
		}
		if c.TimeoutMs < 0 {
			return fmt.Errorf("connection %q: timeout_ms must be >= 0", c.ID)
		}
	}

	// ------------------------------------------------------------
	// NODE VALIDATION
	// ------------------------------------------------------------

	nodes := make(map[string]bool)

	for _, n := range cfg.Getter.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node with empty id")
		}
		if nodes[n.ID] {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		nodes[n.ID] = true

		// A missing server reference is allowed: the node then never
		// attaches, which is a valid terminal outcome. A dangling one
		// is a config error.
		if n.Server != "" && !conns[n.Server] {
			return fmt.Errorf("node %q: unknown server %q", n.ID, n.Server)
		}

		if n.DataType != "" && !validDataTypes[n.DataType] {
			return fmt.Errorf("node %q: unknown data_type %q", n.ID, n.DataType)
		}

		if n.Quantity == 0 {
			return fmt.Errorf("node %q: quantity must be > 0", n.ID)
		}

		switch n.DataType {
		case "coil", "discrete_input":
			if n.Quantity > maxBitQuantity {
				return fmt.Errorf("node %q: quantity %d exceeds %d bits", n.ID, n.Quantity, maxBitQuantity)
			}
		default:
			if n.Quantity > maxRegisterQuantity {
				return fmt.Errorf("node %q: quantity %d exceeds %d registers", n.ID, n.Quantity, maxRegisterQuantity)
			}
		}

		if n.TriggerIntervalMs < 0 {
			return fmt.Errorf("node %q: trigger_interval_ms must be >= 0", n.ID)
		}
	}

	return nil
}
