package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "products:all", []row{{1, "Rice"}}, time.Minute))

	var got []row
	require.True(t, m.Get(ctx, "products:all", &got))
	assert.Equal(t, []row{{1, "Rice"}}, got)

	require.NoError(t, m.Del(ctx, "products:all"))
	assert.False(t, m.Get(ctx, "products:all", &got))
}

func TestMemoryExpires(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "k", 1, time.Nanosecond))
	time.Sleep(time.Millisecond)

	var v int
	assert.False(t, m.Get(ctx, "k", &v))
}

func TestMemoryIncr(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	n, err := m.Incr(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = m.Incr(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var got int64
	require.True(t, m.Get(ctx, "gen", &got))
	assert.Equal(t, int64(2), got)

	require.NoError(t, m.Set(ctx, "word", "rice", 0))
	_, err = m.Incr(ctx, "word")
	assert.Error(t, err)
}

func TestNopNeverHits(t *testing.T) {
	var s Store = Nop{}
	var v int
	require.NoError(t, s.Set(context.Background(), "k", 1, 0))
	assert.False(t, s.Get(context.Background(), "k", &v))
}
