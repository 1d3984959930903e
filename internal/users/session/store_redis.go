// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/tradehub/internal/platform/constants"
	"github.com/taibuivan/tradehub/internal/platform/sec"
)

// RedisRefreshStore implements [RefreshStore] using Redis. Keys are the
// SHA-256 of the access token, never the token itself.
type RedisRefreshStore struct {
	client *redis.Client
}

// NewRefreshStore creates a new Redis-backed RefreshStore.
func NewRefreshStore(client *redis.Client) *RedisRefreshStore {
	return &RedisRefreshStore{client: client}
}

func bindingKey(accessToken string) string {
	return constants.RedisPrefixSessionRefresh + sec.HashToken(accessToken)
}

// Bind stores the refresh token under the hashed access token.
func (store *RedisRefreshStore) Bind(ctx context.Context, accessToken, refreshToken string, ttl time.Duration) error {
	if err := store.client.Set(ctx, bindingKey(accessToken), refreshToken, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_bind_failed: %w", err)
	}
	return nil
}

/*
Lookup retrieves the refresh token bound to accessToken.

Returns:
  - string: Refresh token
  - error: ErrNoBinding if absent or expired, or connectivity errors
*/
func (store *RedisRefreshStore) Lookup(ctx context.Context, accessToken string) (string, error) {
	refreshToken, err := store.client.Get(ctx, bindingKey(accessToken)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoBinding
		}
		return "", fmt.Errorf("redis_session_lookup_failed: %w", err)
	}
	return refreshToken, nil
}

// Unbind deletes the binding of accessToken.
func (store *RedisRefreshStore) Unbind(ctx context.Context, accessToken string) error {
	if err := store.client.Del(ctx, bindingKey(accessToken)).Err(); err != nil {
		return fmt.Errorf("redis_session_unbind_failed: %w", err)
	}
	return nil
}
