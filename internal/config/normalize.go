// internal/config/normalize.go
package config

import "strconv"

const (
	defaultTimeoutMs = 1000
	defaultDataType  = "holding_register"

	// minDelayUnits is the fallback multiplier when start_delay_time
	// is absent or not numeric. Mirrors gate.MinDelayUnits.
	minDelayUnits = 10
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	for ci := range cfg.Getter.Connections {
		c := &cfg.Getter.Connections[ci]

		if c.Transport == "" {
			c.Transport = "tcp"
		}
		if c.TimeoutMs == 0 {
			c.TimeoutMs = defaultTimeoutMs
		}
	}

	for ni := range cfg.Getter.Nodes {
		n := &cfg.Getter.Nodes[ni]

		if n.DataType == "" {
			n.DataType = defaultDataType
		}

		// ------------------------------------------------------------
		// STARTUP DELAY NORMALIZATION
		// ------------------------------------------------------------

		if !n.StartDelayOn {
			n.StartDelayUnits = 0
			continue
		}

		units, err := strconv.Atoi(n.StartDelayTime)
		if err != nil || units <= 0 {
			units = minDelayUnits
		}
		n.StartDelayUnits = units
	}
}
