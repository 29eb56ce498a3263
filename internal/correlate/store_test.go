// internal/correlate/store_test.go
package correlate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MathiasJens3n/modbus-getter/internal/flow"
)

func TestPutTakeOut_ExactlyOnce(t *testing.T) {
	s := NewStore()

	original := flow.Message{Topic: "t1", Payload: 5}
	require.NoError(t, s.Put("id-1", original))
	require.Equal(t, 1, s.Len())

	got, ok := s.TakeOut("id-1")
	require.True(t, ok)
	assert.Equal(t, original, got)
	assert.Equal(t, 0, s.Len())

	// Second take-out with the same id reports not-found.
	_, ok = s.TakeOut("id-1")
	assert.False(t, ok)
}

func TestPut_DuplicateID(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Put("id-1", flow.Message{Topic: "first"}))
	err := s.Put("id-1", flow.Message{Topic: "second"})
	require.ErrorIs(t, err, ErrDuplicateID)

	// The original entry survives the refused insert.
	got, ok := s.TakeOut("id-1")
	require.True(t, ok)
	assert.Equal(t, "first", got.Topic)
}

func TestTakeOut_Absent(t *testing.T) {
	s := NewStore()

	_, ok := s.TakeOut("never-inserted")
	assert.False(t, ok)
}

func TestClearAll(t *testing.T) {
	s := NewStore()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Put(id, flow.Message{Topic: id}))
	}
	require.Equal(t, 3, s.Len())

	s.ClearAll()
	assert.Equal(t, 0, s.Len())

	// Late completions for cleared ids take the not-found branch.
	_, ok := s.TakeOut("a")
	assert.False(t, ok)

	// Clearing an already-empty store is safe.
	s.ClearAll()
	assert.Equal(t, 0, s.Len())
}
