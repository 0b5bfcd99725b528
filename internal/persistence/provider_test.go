package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProvider_ReleaseFreesEmptyStorage(t *testing.T) {
	p := NewMemoryProvider()

	p.Open("s1")
	require.Equal(t, 1, p.Len())

	p.Release("s1")
	assert.Equal(t, 0, p.Len())
}

func TestMemoryProvider_ReleaseKeepsCartUntilTTL(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProvider()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	require.NoError(t, p.Open("s1").SetItem(ctx, CartKey, "[1]"))
	p.Release("s1")
	assert.Equal(t, 1, p.Len())

	got, err := p.Open("s1").GetItem(ctx, CartKey)
	require.NoError(t, err)
	assert.Equal(t, "[1]", got)
	p.Release("s1")

	now = now.Add(DefaultTTL + time.Hour)
	p.Release("other")
	assert.Equal(t, 0, p.Len())
}

func TestMemoryProvider_OpenSessionsAreNeverPruned(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryProvider()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	require.NoError(t, p.Open("active").SetItem(ctx, CartKey, "[1]"))

	now = now.Add(2 * DefaultTTL)
	p.Release("other")
	assert.Equal(t, 1, p.Len())
}
