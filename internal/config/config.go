// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Getter GetterConfig `yaml:"getter"`
}

type GetterConfig struct {
	Connections []ConnectionConfig `yaml:"connections"`
	Nodes       []NodeConfig       `yaml:"nodes"`
	Mqtt        *MqttConfig        `yaml:"mqtt"`
}

// ---- CONNECTION ----

type ConnectionConfig struct {
	ID        string `yaml:"id"`
	Transport string `yaml:"transport"` // tcp | rtu
	Endpoint  string `yaml:"endpoint"`  // host:port or serial device
	TimeoutMs int    `yaml:"timeout_ms"`

	// Serial parameters, rtu only.
	BaudRate int    `yaml:"baud_rate"`
	DataBits int    `yaml:"data_bits"`
	Parity   string `yaml:"parity"`
	StopBits int    `yaml:"stop_bits"`
}

// ---- NODE ----

type NodeConfig struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Server string `yaml:"server"` // connection reference

	UnitID   uint8  `yaml:"unit_id"`
	DataType string `yaml:"data_type"`
	Address  uint16 `yaml:"address"`
	Quantity uint16 `yaml:"quantity"`

	// Startup grace period: the time value is free text from the UI,
	// parsed during normalization.
	StartDelayOn    bool   `yaml:"start_delay_on"`
	StartDelayTime  string `yaml:"start_delay_time"`
	StartDelayUnits int    `yaml:"-"` // normalized

	TriggerIntervalMs int `yaml:"trigger_interval_ms"`

	ShowStatusActivities bool `yaml:"show_status_activities"`
	ShowErrors           bool `yaml:"show_errors"`
	ShowWarnings         bool `yaml:"show_warnings"`
	EmptyMsgOnFail       bool `yaml:"empty_msg_on_fail"`
	KeepMsgProps         bool `yaml:"keep_msg_properties"`
}

// ---- MQTT SINK ----

type MqttConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
}

// Load reads and decodes a YAML config file.
// It performs no validation; call Validate and Normalize afterwards.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	return &cfg, nil
}
