// Package redis opens go-redis clients from environment configuration.
//
//	client, err := redis.Open(ctx, cfg.Redis)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// The client backs pkg/cache (sidebar lists) and the session store.
// Healthcheck and Shutdown plug into the health endpoints and the server's
// shutdown hooks.
//
// # Configuration
//
//	REDIS_URL             - redis:// or rediss:// URL (default: redis://localhost:6379/0)
//	REDIS_POOL_SIZE       - Maximum connections (default: 10)
//	REDIS_MIN_IDLE_CONNS  - Idle connections kept open (default: 2)
//	REDIS_MAX_IDLE_TIME   - Idle connection lifetime (default: 10m)
//	REDIS_MAX_ACTIVE_TIME - Connection lifetime (default: 30m)
//	REDIS_RETRY_ATTEMPTS  - Connection attempts at startup (default: 3)
//	REDIS_RETRY_INTERVAL  - Base retry interval (default: 5s)
//	REDIS_TIMEOUT         - Dial, read and write timeout (default: 3s)
package redis
