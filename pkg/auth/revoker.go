package auth

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// TokenRevoker is a denylist of revoked session token ids. Entries expire
// with the token itself, so the list stays bounded.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) bool
}

const revokedKeyPrefix = "session:revoked:"

type redisRevoker struct {
	client *redis.Client
}

// NewRedisRevoker stores revocations in Redis so they survive restarts and
// are visible to every API instance.
func NewRedisRevoker(client *redis.Client) TokenRevoker {
	return &redisRevoker{client: client}
}

func (r *redisRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return r.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
}

func (r *redisRevoker) IsRevoked(ctx context.Context, tokenID string) bool {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	// Fail open: an unreachable denylist must not lock every role out.
	return err == nil && n > 0
}

type memoryRevoker struct {
	cache *gocache.Cache
}

// NewMemoryRevoker is the single-instance fallback used when Redis is not
// configured.
func NewMemoryRevoker() TokenRevoker {
	return &memoryRevoker{cache: gocache.New(4*time.Hour, 10*time.Minute)}
}

func (r *memoryRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	r.cache.Set(tokenID, struct{}{}, ttl)
	return nil
}

func (r *memoryRevoker) IsRevoked(_ context.Context, tokenID string) bool {
	_, found := r.cache.Get(tokenID)
	return found
}
