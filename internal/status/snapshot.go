// internal/status/snapshot.go
package status

// Snapshot is exactly what the node is allowed to surface to the host.
// It carries no logic and no memory of the past beyond current state.
type Snapshot struct {
	Code      Code
	Detail    string // optional; error class or device code text
	ErrorCode uint16 // 0 means no device error
}
