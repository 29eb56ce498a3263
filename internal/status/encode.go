// internal/status/encode.go
package status

import "fmt"

// Encode renders a Snapshot into the host's status line.
// No IO. No side effects.
func Encode(s Snapshot) string {
	if s.Detail == "" {
		return s.Code.String()
	}
	if s.ErrorCode != 0 {
		return fmt.Sprintf("%s: %s (code %d)", s.Code, s.Detail, s.ErrorCode)
	}
	return fmt.Sprintf("%s: %s", s.Code, s.Detail)
}
