// internal/flow/emitter.go
package flow

// Emitter delivers downstream messages produced by a node.
type Emitter interface {
	Emit(msg Message) error
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(msg Message) error

// Emit calls f(msg).
func (f EmitterFunc) Emit(msg Message) error { return f(msg) }

// MultiEmitter fans one message out to several emitters.
// Delivery is best-effort: the first error is returned but every
// emitter still sees the message.
type MultiEmitter []Emitter

// Emit delivers msg to every emitter in order.
func (m MultiEmitter) Emit(msg Message) error {
	var first error
	for _, e := range m {
		if err := e.Emit(msg); err != nil && first == nil {
			first = err
		}
	}
	return first
}
