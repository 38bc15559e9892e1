package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Healthcheck reports ErrNotReady until client answers PING with PONG.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return fmt.Errorf("%w: no client configured", ErrNotReady)
		}
		reply, err := client.Ping(ctx).Result()
		switch {
		case err != nil:
			return fmt.Errorf("%w: ping: %w", ErrNotReady, err)
		case reply != "PONG":
			return fmt.Errorf("%w: ping replied %q", ErrNotReady, reply)
		}
		return nil
	}
}
