package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/redis/go-redis/v9"
)

var _ analytics.DashboardCache = (*RedisDashboardCache)(nil)

const dashboardKey = "stock-ledger:dashboard"

// setIfGeneration escribe el snapshot solo si la generación no cambió desde la lectura.
// KEYS[1] = entrada, KEYS[2] = generación; ARGV = generación leída, valor, ttl en ms.
var setIfGeneration = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// RedisDashboardCache guarda el último dashboard calculado. La entrada es un snapshot completo y
// se borra en cada commit; la llave "<key>:gen" cuenta las invalidaciones y Set solo escribe si
// no hubo ninguna desde el Get que la precedió.
type RedisDashboardCache struct {
	client *redis.Client
	key    string
	genKey string
	ttl    time.Duration
}

// NewRedisDashboardCache construye la caché. ttl <= 0 usa 30s.
func NewRedisDashboardCache(client *redis.Client, ttl time.Duration) *RedisDashboardCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisDashboardCache{client: client, key: dashboardKey, genKey: dashboardKey + ":gen", ttl: ttl}
}

// WithKey cambia la llave (tests en paralelo sobre el mismo Redis).
func (c *RedisDashboardCache) WithKey(key string) *RedisDashboardCache {
	cp := *c
	cp.key = key
	cp.genKey = key + ":gen"
	return &cp
}

// Get devuelve la entrada (si existe) y la generación vigente en una sola ida a Redis.
func (c *RedisDashboardCache) Get(ctx context.Context) (*dto.DashboardResponse, int64, bool, error) {
	vals, err := c.client.MGet(ctx, c.key, c.genKey).Result()
	if err != nil {
		return nil, 0, false, fmt.Errorf("redis get dashboard: %w", err)
	}
	var gen int64
	if g, ok := vals[1].(string); ok {
		if gen, err = strconv.ParseInt(g, 10, 64); err != nil {
			return nil, 0, false, fmt.Errorf("redis generación dashboard %q: %w", g, err)
		}
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, false, nil
	}
	var d dto.DashboardResponse
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		// Entrada corrupta o de otra versión: se trata como ausente.
		return nil, gen, false, nil
	}
	return &d, gen, true, nil
}

// Set guarda d si la generación sigue siendo gen; si no, no hace nada.
func (c *RedisDashboardCache) Set(ctx context.Context, gen int64, d *dto.DashboardResponse) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode dashboard: %w", err)
	}
	err = setIfGeneration.Run(ctx, c.client, []string{c.key, c.genKey},
		strconv.FormatInt(gen, 10), raw, c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("redis set dashboard: %w", err)
	}
	return nil
}

// Invalidate borra la entrada y avanza la generación en una misma transacción.
func (c *RedisDashboardCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.genKey)
		pipe.Del(ctx, c.key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis del dashboard: %w", err)
	}
	return nil
}

// NewRedisClient abre el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}
