// internal/config/validate_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *Config {
	return &Config{
		Getter: GetterConfig{
			Connections: []ConnectionConfig{
				{ID: "conn1", Transport: "tcp", Endpoint: "127.0.0.1:502", TimeoutMs: 1000},
			},
			Nodes: []NodeConfig{
				{
					ID:       "getter1",
					Server:   "conn1",
					UnitID:   1,
					DataType: "holding_register",
					Address:  3,
					Quantity: 1,
				},
			},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, Validate(baseConfig()))
}

func TestValidate_Connections(t *testing.T) {
	cfg := baseConfig()
	cfg.Getter.Connections[0].ID = ""
	assert.Error(t, Validate(cfg))

	cfg = baseConfig()
	cfg.Getter.Connections = append(cfg.Getter.Connections, cfg.Getter.Connections[0])
	assert.Error(t, Validate(cfg))

	cfg = baseConfig()
	cfg.Getter.Connections[0].Transport = "ascii"
	assert.Error(t, Validate(cfg))

	cfg = baseConfig()
	cfg.Getter.Connections[0].Endpoint = ""
	assert.Error(t, Validate(cfg))

	cfg = baseConfig()
	cfg.Getter.Connections[0].Transport = "rtu"
	cfg.Getter.Connections[0].BaudRate = 0
	assert.Error(t, Validate(cfg))

	cfg = baseConfig()
	cfg.Getter.Connections[0].Transport = "rtu"
	cfg.Getter.Connections[0].BaudRate = 9600
	assert.NoError(t, Validate(cfg))
}

func TestValidate_Nodes(t *testing.T) {
	cfg := baseConfig()
	cfg.Getter.Nodes[0].ID = ""
	assert.Error(t, Validate(cfg))

	cfg = baseConfig()
	cfg.Getter.Nodes = append(cfg.Getter.Nodes, cfg.Getter.Nodes[0])
	assert.Error(t, Validate(cfg))

	cfg = baseConfig()
	cfg.Getter.Nodes[0].Server = "missing"
	assert.Error(t, Validate(cfg))

	// An empty server reference is allowed: the node never attaches.
	cfg = baseConfig()
	cfg.Getter.Nodes[0].Server = ""
	assert.NoError(t, Validate(cfg))

	cfg = baseConfig()
	cfg.Getter.Nodes[0].DataType = "word"
	assert.Error(t, Validate(cfg))

	cfg = baseConfig()
	cfg.Getter.Nodes[0].Quantity = 0
	assert.Error(t, Validate(cfg))
}

func TestValidate_QuantityCaps(t *testing.T) {
	cfg := baseConfig()
	cfg.Getter.Nodes[0].DataType = "coil"
	cfg.Getter.Nodes[0].Quantity = 2000
	assert.NoError(t, Validate(cfg))

	cfg.Getter.Nodes[0].Quantity = 2001
	assert.Error(t, Validate(cfg))

	cfg = baseConfig()
	cfg.Getter.Nodes[0].Quantity = 125
	assert.NoError(t, Validate(cfg))

	cfg.Getter.Nodes[0].Quantity = 126
	assert.Error(t, Validate(cfg))
}
