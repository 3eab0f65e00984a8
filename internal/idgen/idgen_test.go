package idgen

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestUUID_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := UUID{}.New("text")
		require.True(t, strings.HasPrefix(id, "text-"))
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true

		parsed, err := uuid.Parse(strings.TrimPrefix(id, "text-"))
		require.NoError(t, err)
		require.Equal(t, uuid.Version(7), parsed.Version())
	}
}

func TestSequence(t *testing.T) {
	t.Parallel()

	var s Sequence
	require.Equal(t, "shape-1", s.New("shape"))
	require.Equal(t, "text-2", s.New("text"))
}
