// internal/sink/mqtt/sink.go
package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/MathiasJens3n/modbus-getter/internal/flow"
)

// Config is the broker side of the sink.
type Config struct {
	Broker      string // e.g. tcp://127.0.0.1:1883
	ClientID    string
	TopicPrefix string
}

// Sink publishes every emitted downstream message as JSON to
// <prefix>/<topic>. It is the wire between a node and whatever
// consumes its readings.
type Sink struct {
	prefix  string
	publish func(topic string, payload []byte) error
}

// New connects to the broker and returns a ready sink.
func New(cfg Config) (*Sink, error) {
	if cfg.Broker == "" {
		return nil, errors.New("mqtt sink: broker required")
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "modbus-getter"
	}

	opts := pahomqtt.NewClientOptions().AddBroker(cfg.Broker).SetClientID(clientID)
	client := pahomqtt.NewClient(opts)

	if token := client.Connect(); token.WaitTimeout(10*time.Second) && token.Error() != nil {
		return nil, fmt.Errorf("mqtt sink: connect %s: %w", cfg.Broker, token.Error())
	}

	return &Sink{
		prefix: cfg.TopicPrefix,
		publish: func(topic string, payload []byte) error {
			token := client.Publish(topic, 0, false, payload)
			token.Wait()
			return token.Error()
		},
	}, nil
}

// Emit implements flow.Emitter.
func (s *Sink) Emit(msg flow.Message) error {
	body, err := json.Marshal(map[string]any{
		"topic":      msg.Topic,
		"payload":    msg.Payload,
		"properties": msg.Properties,
	})
	if err != nil {
		return fmt.Errorf("mqtt sink: encode: %w", err)
	}

	topic := msg.Topic
	if s.prefix != "" {
		topic = s.prefix + "/" + topic
	}

	return s.publish(topic, body)
}
