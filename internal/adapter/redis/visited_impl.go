package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/search-engine/pkg/utils"
)

const visitedKeyPrefix = "crawler:visited:"

// VisitedRepoImpl provides a concrete implementation for the VisitedRepository interface using Redis sets.
type VisitedRepoImpl struct {
	client *redis.Client
	ttl    time.Duration
}

// NewVisitedRepo creates a new instance of VisitedRepoImpl.
// Sets expire after ttl so an interrupted crawl never leaves keys behind forever.
func NewVisitedRepo(client *redis.Client, ttl time.Duration) *VisitedRepoImpl {
	return &VisitedRepoImpl{client: client, ttl: ttl}
}

func (r *VisitedRepoImpl) key(scope string) string {
	return fmt.Sprintf("%s%s", visitedKeyPrefix, scope)
}

// MarkVisited adds the hashed URL to the scope's set. SADD reports 1 only for the first writer.
func (r *VisitedRepoImpl) MarkVisited(ctx context.Context, scope, url string) (bool, error) {
	key := r.key(scope)

	pipe := r.client.TxPipeline()
	added := pipe.SAdd(ctx, key, utils.HashURL(url))
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return added.Val() == 1, nil
}

// Clear removes the scope's set.
func (r *VisitedRepoImpl) Clear(ctx context.Context, scope string) error {
	return r.client.Del(ctx, r.key(scope)).Err()
}

// Ping checks that the Redis server is reachable.
func (r *VisitedRepoImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
