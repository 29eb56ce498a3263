// internal/node/request.go
package node

import (
	"fmt"

	"github.com/MathiasJens3n/modbus-getter/internal/flow"
)

// Supported logical data types. Each maps to exactly one read
// function code.
const (
	DataTypeCoil          = "coil"
	DataTypeDiscreteInput = "discrete_input"
	DataTypeHolding       = "holding_register"
	DataTypeInput         = "input_register"
)

// FunctionCode maps a configured data type onto its modbus read
// function code.
func FunctionCode(dataType string) (uint8, error) {
	switch dataType {
	case DataTypeCoil:
		return 1, nil
	case DataTypeDiscreteInput:
		return 2, nil
	case DataTypeHolding:
		return 3, nil
	case DataTypeInput:
		return 4, nil
	default:
		return 0, fmt.Errorf("node: unknown data type %q", dataType)
	}
}

// nextID returns a correlation id unique for this node instance.
func (n *Node) nextID() string {
	return fmt.Sprintf("%s-%d", n.cfg.ID, n.seq.Add(1))
}

// buildRequest turns a well-formed trigger into an outbound read.
// Pure transformation plus id generation; malformed payloads are
// rejected before this point.
func (n *Node) buildRequest(msg flow.Message) (ReadRequest, error) {
	fc, err := FunctionCode(n.cfg.DataType)
	if err != nil {
		return ReadRequest{}, err
	}

	value, err := flow.ExtractValue(msg.Payload)
	if err != nil {
		return ReadRequest{}, err
	}

	topic := msg.Topic
	if topic == "" {
		topic = n.cfg.ID
	}

	return ReadRequest{
		ID:       n.nextID(),
		Topic:    topic,
		Value:    value,
		UnitID:   n.cfg.UnitID,
		FC:       fc,
		Address:  n.cfg.Address,
		Quantity: n.cfg.Quantity,
	}, nil
}
