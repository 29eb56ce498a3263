// internal/flow/message.go
package flow

import "errors"

// ErrNilPayload marks a trigger that carries no payload at all.
var ErrNilPayload = errors.New("flow: nil payload")

// Message is one unit of traffic between the host engine and a node.
// Properties carry caller-supplied metadata verbatim; nodes never
// interpret them, only preserve them when configured to.
type Message struct {
	Topic      string
	Payload    any
	Properties map[string]any
}

// ExtractValue returns the logical value carried by a trigger payload.
// A map payload with a "value" key yields that entry even when it is
// zero, false, or empty: presence decides, not truthiness. Any other
// payload is used as-is.
func ExtractValue(payload any) (any, error) {
	if payload == nil {
		return nil, ErrNilPayload
	}
	if m, ok := payload.(map[string]any); ok {
		if v, present := m["value"]; present {
			return v, nil
		}
	}
	return payload, nil
}

// ConnectionIntent reports whether msg carries an explicit connection
// lifecycle command and, if so, the commanded state. A payload without
// a boolean "connection" entry is an ordinary read trigger.
func ConnectionIntent(msg Message) (want bool, ok bool) {
	m, isMap := msg.Payload.(map[string]any)
	if !isMap {
		return false, false
	}
	v, present := m["connection"]
	if !present {
		return false, false
	}
	b, isBool := v.(bool)
	if !isBool {
		return false, false
	}
	return b, true
}
