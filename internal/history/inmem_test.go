package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_SeedsOnFirstLoad(t *testing.T) {
	s := NewInMemoryStore("persona")

	h, err := s.Load(context.Background(), "U1")
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Equal(t, RoleSystem, h[0].Role)
	assert.Equal(t, "persona", h[0].Content)
}

func TestInMemoryStore_SaveThenLoad(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore("persona")

	h, err := s.Load(ctx, "U1")
	require.NoError(t, err)

	h = h.Append(RoleUser, "Hello").Append(RoleAssistant, "Hi")
	require.NoError(t, s.Save(ctx, "U1", h))

	got, err := s.Load(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestInMemoryStore_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore("persona")

	h, err := s.Load(ctx, "U1")
	require.NoError(t, err)
	h[0].Content = "mutated by caller"

	got, err := s.Load(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, "persona", got[0].Content)
}

func TestInMemoryStore_UsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore("persona")

	h, err := s.Load(ctx, "U1")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "U1", h.Append(RoleUser, "only for U1")))

	other, err := s.Load(ctx, "U2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}
