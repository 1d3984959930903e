// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tradehub/internal/platform/config"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/tradehub")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("AUTH_URL", "https://auth.example.test")
	t.Setenv("AUTH_PUBLIC_KEY", "anon")
	t.Setenv("AUTH_SERVICE_KEY", "service")
}

/*
TestLoad_Defaults verifies the defaults applied on top of the required settings.
*/
func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, config.BackendGoTrue, cfg.IdentityBackend)
	assert.Equal(t, []string{
		"http://localhost:3000",
		"http://localhost:3001",
		"http://127.0.0.1:3000",
	}, cfg.AllowedOrigins)
	assert.Equal(t, 10*time.Minute, cfg.SessionRefreshLeeway)
	assert.Equal(t, int32(20), cfg.DatabaseMaxConns)
	assert.Equal(t, 10, cfg.RedisPoolSize)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

/*
TestLoad_AllowedOriginsList verifies comma separated parsing of the allow-list.
*/
func TestLoad_AllowedOriginsList(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://tradehub.example,https://admin.tradehub.example")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://tradehub.example", "https://admin.tradehub.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.IsProduction())
}

/*
TestLoad_BackendRequirements checks that each identity backend demands its own settings.
*/
func TestLoad_BackendRequirements(t *testing.T) {
	t.Run("gotrue_missing_service_key", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("AUTH_SERVICE_KEY", "")

		_, err := config.Load()
		assert.ErrorContains(t, err, "AUTH_SERVICE_KEY")
	})

	t.Run("local_missing_keys", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("IDENTITY_BACKEND", config.BackendLocal)

		_, err := config.Load()
		assert.ErrorContains(t, err, "JWT_PRIVATE_KEY_PATH")
	})

	t.Run("local_with_keys", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("IDENTITY_BACKEND", config.BackendLocal)
		t.Setenv("JWT_PRIVATE_KEY_PATH", "/keys/private.pem")
		t.Setenv("JWT_PUBLIC_KEY_PATH", "/keys/public.pem")

		_, err := config.Load()
		assert.NoError(t, err)
	})

	t.Run("unknown_backend", func(t *testing.T) {
		setBaseEnv(t)
		t.Setenv("IDENTITY_BACKEND", "ldap")

		_, err := config.Load()
		assert.ErrorContains(t, err, "unknown IDENTITY_BACKEND")
	})
}

/*
TestLoad_MissingDatabase verifies that required variables are enforced.
*/
func TestLoad_MissingDatabase(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "")

	_, err := config.Load()
	assert.Error(t, err)
}

/*
TestLoad_PoolSizes verifies that pool sizes below one are rejected.
*/
func TestLoad_PoolSizes(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("REDIS_POOL_SIZE", "0")

	_, err := config.Load()
	assert.ErrorContains(t, err, "REDIS_POOL_SIZE")
}
