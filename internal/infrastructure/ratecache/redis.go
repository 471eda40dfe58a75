package ratecache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pricing-api/internal/application/ports"
)

var _ ports.RateCache = (*RedisCache)(nil)

// RedisCache comparte las tasas entre réplicas. Los errores de Redis se registran y se tratan
// como fallo de caché: la conversión sigue hacia el proveedor.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	log    zerolog.Logger
}

// NewRedisCache construye la caché sobre un cliente ya configurado.
func NewRedisCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, prefix: "pricing:", log: log}
}

func (c *RedisCache) Get(ctx context.Context, from, to string) (decimal.Decimal, bool) {
	raw, err := c.client.Get(ctx, c.prefix+key(from, to)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("from", from).Str("to", to).Msg("leer tasa de redis")
		}
		return decimal.Zero, false
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		c.log.Warn().Err(err).Str("value", raw).Msg("tasa corrupta en redis")
		return decimal.Zero, false
	}
	return rate, true
}

func (c *RedisCache) Set(ctx context.Context, from, to string, rate decimal.Decimal) {
	if c.ttl <= 0 {
		return
	}
	if err := c.client.Set(ctx, c.prefix+key(from, to), rate.String(), c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("from", from).Str("to", to).Msg("guardar tasa en redis")
	}
}
