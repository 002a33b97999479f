package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// UsedTokenStore records redeemed password reset tokens so each token is
// honored at most once. Entries expire together with the token they shadow,
// keeping the set small.
type UsedTokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewUsedTokenStore wraps the given Redis client. ttl should match the reset
// token lifetime; a retention shorter than that reopens the replay window.
func NewUsedTokenStore(client *redis.Client, ttl time.Duration) *UsedTokenStore {
	return &UsedTokenStore{client: client, ttl: ttl}
}

// MarkUsed records the token and reports whether this call was the first to
// do so. SETNX makes the check-and-set atomic across replicas.
func (s *UsedTokenStore) MarkUsed(ctx context.Context, token string) (bool, error) {
	first, err := s.client.SetNX(ctx, s.key(token), "1", s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark reset token: %w", err)
	}
	return first, nil
}

// key hashes the token so raw credentials never land in the store.
func (s *UsedTokenStore) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "resetused:" + hex.EncodeToString(sum[:])
}
