// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package local implements [identity.Provider] on our own infrastructure.

Accounts live in PostgreSQL with bcrypt password hashes. Access tokens are
RS256 JWTs signed by [sec.TokenService]; refresh tokens are random strings
stored hashed in Redis and rotated on every use.

Sign-up opens a session immediately: this backend has no email confirmation step.
*/
package local

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/tradehub/internal/platform/identity"
	"github.com/taibuivan/tradehub/internal/platform/sec"
)

// TokenSigner mints and verifies access tokens.
type TokenSigner interface {
	GenerateAccessToken(accountID, email string, timeToLive time.Duration) (string, time.Time, error)
	VerifyToken(tokenString string) (*sec.AccessClaims, error)
}

// Provider is the self-hosted identity collaborator.
type Provider struct {
	accounts AccountRepository
	tokens   TokenRepository
	signer   TokenSigner
}

// NewProvider constructs a new [Provider] with necessary dependencies.
func NewProvider(accounts AccountRepository, tokens TokenRepository, signer TokenSigner) *Provider {
	return &Provider{
		accounts: accounts,
		tokens:   tokens,
		signer:   signer,
	}
}

var _ identity.Provider = (*Provider)(nil)

// # Registration & Sign-in

/*
SignUp creates an account and opens its first session.

Returns:
  - *identity.Session: Always active for this backend
  - error: identity.ErrRejected for a registered email, or storage errors
*/
func (provider *Provider) SignUp(ctx context.Context, email, password string, metadata identity.Metadata) (*identity.Session, error) {
	hashedPassword, err := sec.HashPassword(password)
	if errors.Is(err, sec.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: password too long", identity.ErrRejected)
	}
	if err != nil {
		return nil, fmt.Errorf("local_provider_hash_failed: %w", err)
	}

	if metadata == nil {
		metadata = identity.Metadata{}
	}

	// v7 ids keep the accounts primary key append-only.
	accountID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("local_provider_id_failed: %w", err)
	}

	account := &Account{
		ID:           accountID.String(),
		Email:        strings.TrimSpace(email),
		PasswordHash: hashedPassword,
		Metadata:     metadata.Clone(),
	}

	if err := provider.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, errEmailTaken) {
			return nil, fmt.Errorf("%w: email already registered", identity.ErrRejected)
		}
		return nil, fmt.Errorf("local_provider_signup_failed: %w", err)
	}

	return provider.openSession(ctx, account)
}

/*
SignInWithPassword verifies credentials and opens a session.

Description: An unknown email and a wrong password produce the same error to
prevent account enumeration.
*/
func (provider *Provider) SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error) {
	account, err := provider.accounts.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, errAccountNotFound) {
			sec.DiscardPasswordCheck(password)
			return nil, identity.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("local_provider_signin_failed: %w", err)
	}

	if !sec.CheckPasswordHash(password, account.PasswordHash) {
		return nil, identity.ErrInvalidCredentials
	}

	return provider.openSession(ctx, account)
}

// # Token Verification

// GetUser verifies an access token and loads the account behind it.
func (provider *Provider) GetUser(ctx context.Context, accessToken string) (*identity.User, error) {
	claims, err := provider.signer.VerifyToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", identity.ErrInvalidToken, err)
	}

	revoked, err := provider.tokens.IsAccessRevoked(ctx, sec.HashToken(accessToken))
	if err != nil {
		return nil, fmt.Errorf("local_provider_revocation_check_failed: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", identity.ErrInvalidToken)
	}

	account, err := provider.accounts.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, errAccountNotFound) {
			return nil, fmt.Errorf("%w: account gone", identity.ErrInvalidToken)
		}
		return nil, fmt.Errorf("local_provider_get_user_failed: %w", err)
	}

	return account.toUser(), nil
}

/*
RefreshSession rotates a refresh token.

Description: The presented token is consumed before the new pair is issued,
so replaying it fails with identity.ErrInvalidToken.
*/
func (provider *Provider) RefreshSession(ctx context.Context, refreshToken string) (*identity.Session, error) {
	accountID, err := provider.tokens.ConsumeRefresh(ctx, sec.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, errTokenNotFound) {
			return nil, identity.ErrInvalidToken
		}
		return nil, fmt.Errorf("local_provider_refresh_failed: %w", err)
	}

	account, err := provider.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, errAccountNotFound) {
			return nil, identity.ErrInvalidToken
		}
		return nil, fmt.Errorf("local_provider_refresh_failed: %w", err)
	}

	return provider.openSession(ctx, account)
}

// # Metadata & Sign-out

// UpdateMetadata merges patch into the account metadata.
func (provider *Provider) UpdateMetadata(ctx context.Context, userID string, patch identity.Metadata) (*identity.User, error) {
	account, err := provider.accounts.MergeMetadata(ctx, userID, patch)
	if err != nil {
		if errors.Is(err, errAccountNotFound) {
			return nil, fmt.Errorf("%w: unknown account", identity.ErrRejected)
		}
		return nil, fmt.Errorf("local_provider_update_metadata_failed: %w", err)
	}

	return account.toUser(), nil
}

/*
SignOut revokes the access token for the rest of its lifetime and drops every
refresh token of the account.
*/
func (provider *Provider) SignOut(ctx context.Context, accessToken string) error {
	claims, err := provider.signer.VerifyToken(accessToken)
	if err != nil {
		return fmt.Errorf("%w: %v", identity.ErrInvalidToken, err)
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if err := provider.tokens.RevokeAccess(ctx, sec.HashToken(accessToken), remaining); err != nil {
		return fmt.Errorf("local_provider_signout_failed: %w", err)
	}

	if err := provider.tokens.RevokeAllRefresh(ctx, claims.Subject); err != nil {
		return fmt.Errorf("local_provider_signout_failed: %w", err)
	}

	return nil
}

// openSession mints an access token and stores a fresh refresh token.
func (provider *Provider) openSession(ctx context.Context, account *Account) (*identity.Session, error) {
	accessToken, expiresAt, err := provider.signer.GenerateAccessToken(account.ID, account.Email, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("local_provider_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("local_provider_refresh_token_failed: %w", err)
	}

	if err := provider.tokens.StoreRefresh(ctx, sec.HashToken(refreshToken), account.ID, RefreshTokenTTL); err != nil {
		return nil, fmt.Errorf("local_provider_session_creation_failed: %w", err)
	}

	return &identity.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         account.toUser(),
	}, nil
}
