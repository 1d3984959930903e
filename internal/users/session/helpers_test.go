// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tradehub/internal/platform/constants"
	"github.com/taibuivan/tradehub/internal/platform/sec"
	"github.com/taibuivan/tradehub/internal/users/session"
)

// memoryStore is an in-memory [session.RefreshStore].
type memoryStore struct {
	mu       sync.Mutex
	bindings map[string]string
	failBind error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{bindings: map[string]string{}}
}

func (m *memoryStore) Bind(_ context.Context, accessToken, refreshToken string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failBind != nil {
		return m.failBind
	}
	m.bindings[accessToken] = refreshToken
	return nil
}

func (m *memoryStore) Lookup(_ context.Context, accessToken string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	refreshToken, ok := m.bindings[accessToken]
	if !ok {
		return "", session.ErrNoBinding
	}
	return refreshToken, nil
}

func (m *memoryStore) Unbind(_ context.Context, accessToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bindings, accessToken)
	return nil
}

func (m *memoryStore) bound(accessToken string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	refreshToken, ok := m.bindings[accessToken]
	return refreshToken, ok
}

var errStoreDown = errors.New("store down")

// signedToken mints a real JWT expiring after ttl, so the refresher can read its expiry.
func signedToken(t *testing.T, ttl time.Duration) string {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	token, _, err := sec.NewTokenServiceFromKeys(key, &key.PublicKey, constants.AuthIssuer).
		GenerateAccessToken("00000000-0000-7000-8000-000000000099", "miner@example.com", ttl)
	require.NoError(t, err)

	return token
}
