// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package local

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tradehub/internal/platform/dberr"
	"github.com/taibuivan/tradehub/internal/platform/identity"
)

// emailConstraint is the case-insensitive unique index on auth_accounts.email.
const emailConstraint = "auth_accounts_email_lower_key"

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

const accountColumns = `id, email, password_hash, metadata, created_at, updated_at`

/*
Create persists a new account into the auth_accounts table.

Parameters:
  - ctx: context.Context
  - account: *Account (Entity to persist)

Returns:
  - error: errEmailTaken or connectivity errors
*/
func (repository *PostgresAccountRepository) Create(ctx context.Context, account *Account) error {
	const query = `
		INSERT INTO auth_accounts (id, email, password_hash, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	metadata := account.Metadata
	if metadata == nil {
		metadata = identity.Metadata{}
	}

	_, err := repository.pool.Exec(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		metadata,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err, emailConstraint) {
			return errEmailTaken
		}
		return fmt.Errorf("postgres_account_repo_create_failed: %w", err)
	}

	return nil
}

// FindByEmail retrieves an account by its email address, ignoring case.
func (repository *PostgresAccountRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM auth_accounts WHERE lower(email) = lower($1)`

	account, err := scanAccount(repository.pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_find_by_email_failed: %w", err)
	}

	return account, nil
}

// FindByID retrieves an account by its primary key.
func (repository *PostgresAccountRepository) FindByID(ctx context.Context, id string) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM auth_accounts WHERE id = $1`

	account, err := scanAccount(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}

	return account, nil
}

/*
MergeMetadata shallow-merges patch into the stored jsonb metadata.

Description: The merge happens inside PostgreSQL (jsonb ||), so two concurrent
patches touching different keys never overwrite each other.
*/
func (repository *PostgresAccountRepository) MergeMetadata(ctx context.Context, id string, patch identity.Metadata) (*Account, error) {
	query := `
		UPDATE auth_accounts
		SET metadata = metadata || $2::jsonb, updated_at = now()
		WHERE id = $1
		RETURNING ` + accountColumns

	account, err := scanAccount(repository.pool.QueryRow(ctx, query, id, patch))
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_merge_metadata_failed: %w", err)
	}

	return account, nil
}

// scanAccount hydrates an [Account] and maps pgx.ErrNoRows to errAccountNotFound.
func scanAccount(row pgx.Row) (*Account, error) {
	account := &Account{}
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Metadata,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	return account, nil
}
