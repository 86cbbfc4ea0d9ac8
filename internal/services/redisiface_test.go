package services

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Each adapter method must surface connection failures rather than swallow
// them; the OAuth pending flow treats any redis error as a lost signup.
func TestRedisAdapter_SurfacesConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		ReadTimeout: 50 * time.Millisecond,
	})
	defer func() { _ = client.Close() }()

	adapter := NewRedisAdapter(client)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	ops := map[string]func() error{
		"Set": func() error { return adapter.Set(ctx, "k", "v", 10*time.Second) },
		"Get": func() error { _, err := adapter.Get(ctx, "k"); return err },
		"Del": func() error { return adapter.Del(ctx, "k") },
	}
	for name, op := range ops {
		if err := op(); err == nil {
			t.Errorf("expected %s to fail against an unreachable server", name)
		}
	}
}

func TestNewRedisAdapter_SatisfiesRedisClient(t *testing.T) {
	var _ RedisClient = NewRedisAdapter(nil)
}
