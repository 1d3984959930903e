// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package local

import (
	"context"
	"time"

	"github.com/taibuivan/tradehub/internal/platform/identity"
)

// # Account Data Access

// AccountRepository defines the data access contract for local accounts.
type AccountRepository interface {

	/*
		Create persists a brand-new account.

		Returns:
		  - error: errEmailTaken when the address is already registered (any case)
	*/
	Create(ctx context.Context, account *Account) error

	/*
		FindByEmail returns the account registered under email, compared case-insensitively.

		Returns:
		  - error: errAccountNotFound or database errors
	*/
	FindByEmail(ctx context.Context, email string) (*Account, error)

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - error: errAccountNotFound or database errors
	*/
	FindByID(ctx context.Context, id string) (*Account, error)

	/*
		MergeMetadata applies patch over the stored metadata in one statement and
		returns the updated account.

		Returns:
		  - error: errAccountNotFound or database errors
	*/
	MergeMetadata(ctx context.Context, id string, patch identity.Metadata) (*Account, error)
}

// # Volatile Token Data Access

// TokenRepository stores refresh tokens and access-token revocations.
// Only token hashes are ever stored.
type TokenRepository interface {

	// StoreRefresh records a refresh token hash for accountID.
	StoreRefresh(ctx context.Context, tokenHash, accountID string, ttl time.Duration) error

	/*
		ConsumeRefresh removes a refresh token hash and returns its account. A
		refresh token can be consumed once.

		Returns:
		  - error: errTokenNotFound if absent or already used
	*/
	ConsumeRefresh(ctx context.Context, tokenHash string) (string, error)

	// RevokeAllRefresh drops every live refresh token of accountID.
	RevokeAllRefresh(ctx context.Context, accountID string) error

	// RevokeAccess marks an access token hash as revoked for ttl.
	RevokeAccess(ctx context.Context, tokenHash string, ttl time.Duration) error

	// IsAccessRevoked reports whether an access token hash was revoked.
	IsAccessRevoked(ctx context.Context, tokenHash string) (bool, error)
}
