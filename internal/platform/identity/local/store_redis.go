// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package local

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/tradehub/internal/platform/constants"
)

// RedisTokenRepository implements [TokenRepository] using Redis.
//
// Keys:
//   - identity:refresh:<hash>       → account id (TTL = refresh lifetime)
//   - identity:user_tokens:<id>     → set of live refresh hashes
//   - identity:revoked:<hash>       → "1" until the access token would expire
type RedisTokenRepository struct {
	client *redis.Client
}

// NewTokenRepository creates a new Redis-backed TokenRepository.
func NewTokenRepository(client *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{client: client}
}

/*
StoreRefresh stores a refresh token hash and indexes it under its account.

Parameters:
  - ctx: context.Context
  - tokenHash: string
  - accountID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisTokenRepository) StoreRefresh(ctx context.Context, tokenHash, accountID string, ttl time.Duration) error {
	userKey := constants.RedisPrefixIdentityUserTokens + accountID

	pipe := repository.client.TxPipeline()
	pipe.Set(ctx, constants.RedisPrefixIdentityRefresh+tokenHash, accountID, ttl)
	pipe.SAdd(ctx, userKey, tokenHash)
	pipe.Expire(ctx, userKey, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis_refresh_token_store_failed: %w", err)
	}

	return nil
}

/*
ConsumeRefresh atomically reads and deletes a refresh token hash.

Returns:
  - string: Account ID
  - error: errTokenNotFound or connectivity errors
*/
func (repository *RedisTokenRepository) ConsumeRefresh(ctx context.Context, tokenHash string) (string, error) {
	accountID, err := repository.client.GetDel(ctx, constants.RedisPrefixIdentityRefresh+tokenHash).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", errTokenNotFound
		}
		return "", fmt.Errorf("redis_refresh_token_consume_failed: %w", err)
	}

	if err := repository.client.SRem(ctx, constants.RedisPrefixIdentityUserTokens+accountID, tokenHash).Err(); err != nil {
		return "", fmt.Errorf("redis_refresh_token_unindex_failed: %w", err)
	}

	return accountID, nil
}

// RevokeAllRefresh deletes every refresh token indexed under accountID.
func (repository *RedisTokenRepository) RevokeAllRefresh(ctx context.Context, accountID string) error {
	userKey := constants.RedisPrefixIdentityUserTokens + accountID

	hashes, err := repository.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("redis_refresh_token_list_failed: %w", err)
	}

	keys := make([]string, 0, len(hashes)+1)
	for _, hash := range hashes {
		keys = append(keys, constants.RedisPrefixIdentityRefresh+hash)
	}
	keys = append(keys, userKey)

	if err := repository.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis_refresh_token_revoke_all_failed: %w", err)
	}

	return nil
}

// RevokeAccess marks an access token hash as revoked.
func (repository *RedisTokenRepository) RevokeAccess(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	if err := repository.client.Set(ctx, constants.RedisPrefixIdentityRevoked+tokenHash, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis_access_token_revoke_failed: %w", err)
	}

	return nil
}

// IsAccessRevoked reports whether the access token hash carries a revocation marker.
func (repository *RedisTokenRepository) IsAccessRevoked(ctx context.Context, tokenHash string) (bool, error) {
	count, err := repository.client.Exists(ctx, constants.RedisPrefixIdentityRevoked+tokenHash).Result()
	if err != nil {
		return false, fmt.Errorf("redis_access_token_check_failed: %w", err)
	}

	return count > 0, nil
}
