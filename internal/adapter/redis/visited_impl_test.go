package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestVisitedRepo(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("ping: %v", err)
	}

	repo := NewVisitedRepo(client, time.Minute)
	scope := uuid.NewString()
	t.Cleanup(func() { _ = repo.Clear(ctx, scope) })

	first, err := repo.MarkVisited(ctx, scope, "https://example.com/a")
	if err != nil || !first {
		t.Fatalf("first MarkVisited = %v, %v; want true", first, err)
	}
	second, err := repo.MarkVisited(ctx, scope, "https://example.com/a")
	if err != nil || second {
		t.Fatalf("second MarkVisited = %v, %v; want false", second, err)
	}

	ttl, err := client.TTL(ctx, repo.key(scope)).Result()
	if err != nil || ttl <= 0 {
		t.Errorf("TTL = %v, %v; want positive expiry", ttl, err)
	}

	if err := repo.Clear(ctx, scope); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	again, _ := repo.MarkVisited(ctx, scope, "https://example.com/a")
	if !again {
		t.Error("MarkVisited after Clear = false, want true")
	}
}
