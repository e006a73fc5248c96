package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tu-usuario/erp-core/internal/application/inventory"
)

const itemsListKey = "erp:items:list"

// Ensure implementations satisfy the port.
var _ inventory.ItemsCache = (*RedisItemsCache)(nil)
var _ inventory.ItemsCache = (*NoopItemsCache)(nil)

// RedisItemsCache cachea en Redis el JSON del listado de ítems.
// Es un caché de paso: cualquier error de Redis se trata como cache miss
// para que el listado siga funcionando contra la BD.
type RedisItemsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisItemsCache construye el caché y verifica la conexión.
func NewRedisItemsCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisItemsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisItemsCache{client: client, ttl: ttl}, nil
}

// GetList devuelve el listado cacheado y si hubo hit.
func (c *RedisItemsCache) GetList(ctx context.Context) ([]byte, bool) {
	data, err := c.client.Get(ctx, itemsListKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// error de red u otro: se degrada a miss
			return nil, false
		}
		return nil, false
	}
	return data, true
}

// SetList guarda el listado serializado con TTL.
func (c *RedisItemsCache) SetList(ctx context.Context, data []byte) {
	_ = c.client.Set(ctx, itemsListKey, data, c.ttl).Err()
}

// Invalidate borra la entrada; se llama tras cualquier mutación de ítems.
func (c *RedisItemsCache) Invalidate(ctx context.Context) {
	_ = c.client.Del(ctx, itemsListKey).Err()
}

// Close cierra la conexión con Redis.
func (c *RedisItemsCache) Close() error {
	return c.client.Close()
}

// NoopItemsCache caché nulo para entornos sin Redis (REDIS_ADDR vacío).
type NoopItemsCache struct{}

func (NoopItemsCache) GetList(ctx context.Context) ([]byte, bool) { return nil, false }
func (NoopItemsCache) SetList(ctx context.Context, data []byte)   {}
func (NoopItemsCache) Invalidate(ctx context.Context)             {}
