package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreReadMissing(t *testing.T) {
	m := NewMemoryStore()
	_, err := m.Read(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCreateReadWrite(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	v1, err := m.Write(ctx, []byte(`[]`), "")
	require.NoError(t, err)
	require.NotEmpty(t, v1)

	doc, err := m.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte(`[]`), doc.Content)
	require.Equal(t, v1, doc.Version)

	v2, err := m.Write(ctx, []byte(`[1]`), v1)
	require.NoError(t, err)
	require.NotEqual(t, v1, v2)
}

func TestMemoryStoreStaleTokenRejected(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	v1 := m.Seed([]byte(`["a"]`))

	// a concurrent writer wins the race
	_, err := m.Write(ctx, []byte(`["b"]`), v1)
	require.NoError(t, err)

	// the stale token is rejected and content is unchanged
	_, err = m.Write(ctx, []byte(`["c"]`), v1)
	require.ErrorIs(t, err, ErrConflict)

	doc, err := m.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte(`["b"]`), doc.Content)
}
