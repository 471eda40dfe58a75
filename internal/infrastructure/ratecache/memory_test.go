package ratecache

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, "USD", "GHS")
	assert.False(t, ok)

	c.Set(ctx, "USD", "GHS", decimal.RequireFromString("12.5"))
	rate, ok := c.Get(ctx, "USD", "GHS")
	assert.True(t, ok)
	assert.Equal(t, "12.5", rate.String())

	_, ok = c.Get(ctx, "GHS", "USD")
	assert.False(t, ok, "el par es direccional")
}

func TestMemoryCache_Vence(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	c.Set(ctx, "USD", "GHS", decimal.NewFromInt(12))
	now = now.Add(2 * time.Minute)

	_, ok := c.Get(ctx, "USD", "GHS")
	assert.False(t, ok)
	assert.Empty(t, c.items)
}

func TestMemoryCache_Deshabilitada(t *testing.T) {
	c := NewMemoryCache(0)
	c.Set(context.Background(), "USD", "GHS", decimal.NewFromInt(12))
	_, ok := c.Get(context.Background(), "USD", "GHS")
	assert.False(t, ok)
}
