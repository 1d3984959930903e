// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package local

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tradehub/internal/platform/constants"
	"github.com/taibuivan/tradehub/internal/platform/identity"
	"github.com/taibuivan/tradehub/internal/platform/sec"
)

// # In-memory repositories

type memoryAccounts struct {
	mu   sync.Mutex
	byID map[string]*Account
}

func (m *memoryAccounts) Create(_ context.Context, account *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if strings.EqualFold(existing.Email, account.Email) {
			return errEmailTaken
		}
	}
	copied := *account
	m.byID[account.ID] = &copied
	return nil
}

func (m *memoryAccounts) FindByEmail(_ context.Context, email string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if strings.EqualFold(existing.Email, email) {
			copied := *existing
			return &copied, nil
		}
	}
	return nil, errAccountNotFound
}

func (m *memoryAccounts) FindByID(_ context.Context, id string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.byID[id]
	if !ok {
		return nil, errAccountNotFound
	}
	copied := *existing
	return &copied, nil
}

func (m *memoryAccounts) MergeMetadata(_ context.Context, id string, patch identity.Metadata) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.byID[id]
	if !ok {
		return nil, errAccountNotFound
	}
	existing.Metadata = existing.Metadata.Merge(patch)
	copied := *existing
	return &copied, nil
}

type memoryTokens struct {
	mu      sync.Mutex
	refresh map[string]string
	revoked map[string]bool
}

func (m *memoryTokens) StoreRefresh(_ context.Context, tokenHash, accountID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh[tokenHash] = accountID
	return nil
}

func (m *memoryTokens) ConsumeRefresh(_ context.Context, tokenHash string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	accountID, ok := m.refresh[tokenHash]
	if !ok {
		return "", errTokenNotFound
	}
	delete(m.refresh, tokenHash)
	return accountID, nil
}

func (m *memoryTokens) RevokeAllRefresh(_ context.Context, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for hash, owner := range m.refresh {
		if owner == accountID {
			delete(m.refresh, hash)
		}
	}
	return nil
}

func (m *memoryTokens) RevokeAccess(_ context.Context, tokenHash string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenHash] = true
	return nil
}

func (m *memoryTokens) IsAccessRevoked(_ context.Context, tokenHash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[tokenHash], nil
}

func newTestProvider(t *testing.T) *Provider {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return NewProvider(
		&memoryAccounts{byID: map[string]*Account{}},
		&memoryTokens{refresh: map[string]string{}, revoked: map[string]bool{}},
		sec.NewTokenServiceFromKeys(key, &key.PublicKey, constants.AuthIssuer),
	)
}

/*
TestProvider_SignUpAndSignIn verifies a new account can sign in and resolve its token.
*/
func TestProvider_SignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	provider := newTestProvider(t)

	// 1. Sign up opens a session immediately
	created, err := provider.SignUp(ctx, "steve@example.com", "diamond-pick", identity.Metadata{identity.MetaName: "Steve"})
	require.NoError(t, err)
	assert.True(t, created.Active())
	assert.NotEmpty(t, created.RefreshToken)
	assert.Equal(t, "Steve", created.User.Metadata[identity.MetaName])

	// 2. Duplicate email (any case) is rejected
	_, err = provider.SignUp(ctx, "STEVE@example.com", "other", nil)
	assert.ErrorIs(t, err, identity.ErrRejected)

	// 3. Passwords over the bcrypt limit are rejected, not failed
	_, err = provider.SignUp(ctx, "alex@example.com", strings.Repeat("x", 73), nil)
	assert.ErrorIs(t, err, identity.ErrRejected)

	// 4. Wrong password and unknown email look the same
	_, err = provider.SignInWithPassword(ctx, "steve@example.com", "wrong")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	_, err = provider.SignInWithPassword(ctx, "alex@example.com", "diamond-pick")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)

	// 5. Correct credentials
	session, err := provider.SignInWithPassword(ctx, "Steve@Example.com", "diamond-pick")
	require.NoError(t, err)

	user, err := provider.GetUser(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, user.ID)
	assert.Equal(t, "steve@example.com", user.Email)
}

/*
TestProvider_GetUser_RejectsGarbage maps every verification failure to ErrInvalidToken.
*/
func TestProvider_GetUser_RejectsGarbage(t *testing.T) {
	provider := newTestProvider(t)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := provider.GetUser(context.Background(), token)
		assert.ErrorIs(t, err, identity.ErrInvalidToken, "token %q", token)
	}
}

/*
TestProvider_RefreshRotates verifies a refresh token works exactly once.
*/
func TestProvider_RefreshRotates(t *testing.T) {
	ctx := context.Background()
	provider := newTestProvider(t)

	session, err := provider.SignUp(ctx, "alex@example.com", "emerald", nil)
	require.NoError(t, err)

	refreshed, err := provider.RefreshSession(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, session.User.ID, refreshed.User.ID)

	_, err = provider.RefreshSession(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}

/*
TestProvider_UpdateMetadata merges without dropping other keys.
*/
func TestProvider_UpdateMetadata(t *testing.T) {
	ctx := context.Background()
	provider := newTestProvider(t)

	session, err := provider.SignUp(ctx, "notch@example.com", "creeper", identity.Metadata{identity.MetaName: "Notch"})
	require.NoError(t, err)

	user, err := provider.UpdateMetadata(ctx, session.User.ID, identity.Metadata{identity.MetaUsername: "notch"})
	require.NoError(t, err)
	assert.Equal(t, "notch", user.Metadata.Username())
	assert.Equal(t, "Notch", user.Metadata[identity.MetaName])

	_, err = provider.UpdateMetadata(ctx, "missing", identity.Metadata{})
	assert.ErrorIs(t, err, identity.ErrRejected)
}

/*
TestProvider_SignOut revokes the access token and every refresh token.
*/
func TestProvider_SignOut(t *testing.T) {
	ctx := context.Background()
	provider := newTestProvider(t)

	session, err := provider.SignUp(ctx, "herobrine@example.com", "nether", nil)
	require.NoError(t, err)

	require.NoError(t, provider.SignOut(ctx, session.AccessToken))

	_, err = provider.GetUser(ctx, session.AccessToken)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)

	_, err = provider.RefreshSession(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)
}
