// Copyright (c) 2026 Vivi Sews. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vivisews/vivisews/internal/platform/constants"
)

// # Token Revocation

// RedisRevocationStore implements [RevocationStore]. Each revoked token ID is
// a key that expires together with the token, so the set never outgrows the
// tokens still in circulation.
type RedisRevocationStore struct {
	client redis.UniversalClient
}

// NewRevocationStore creates a new Redis implementation of the RevocationStore.
func NewRevocationStore(client redis.UniversalClient) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

func revokedKey(tokenID string) string {
	return constants.RedisPrefixRevokedToken + tokenID
}

/*
Revoke marks tokenID as revoked for ttl.

A non-positive ttl means the token has already expired and nothing is stored.
*/
func (repository *RedisRevocationStore) Revoke(context context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	if err := repository.client.Set(context, revokedKey(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis_revocation_set_failed: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID was revoked and has not yet expired.
func (repository *RedisRevocationStore) IsRevoked(context context.Context, tokenID string) (bool, error) {
	count, err := repository.client.Exists(context, revokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_revocation_exists_failed: %w", err)
	}
	return count > 0, nil
}
