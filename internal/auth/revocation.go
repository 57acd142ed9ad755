package auth

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const revokedKeyPrefix = "quillhub||revoked-token||"

// RevocationStore keeps revoked token ids in redis until the token would
// have expired anyway.
type RevocationStore struct {
	redisClient *redis.Client
}

func NewRevocationStore(redisClient *redis.Client) *RevocationStore {
	return &RevocationStore{
		redisClient: redisClient,
	}
}

func RevokedKey(jti string) string {
	return revokedKeyPrefix + jti
}

func (rs *RevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return rs.redisClient.Set(ctx, RevokedKey(jti), 1, ttl).Err()
}

func (rs *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	count, err := rs.redisClient.Exists(ctx, RevokedKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
