// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tradehub/internal/platform/dberr"
	"github.com/taibuivan/tradehub/internal/platform/sec"
)

// usernameConstraint is the unique index on lower(username).
const usernameConstraint = "profiles_username_lower_key"

const profileColumns = `id, name, username, interests, role, created_at, updated_at`

// PostgresProfileRepository implements [ProfileRepository] using pgx.
type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new PostgreSQL implementation of the ProfileRepository.
func NewProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

/*
Create inserts a sign-up profile.

Description: The role column is written from the server constant, never from
input. A repeated sign-up for the same identity refreshes the name only.
*/
func (repository *PostgresProfileRepository) Create(ctx context.Context, profile *Profile) (*Profile, error) {
	query := `
		INSERT INTO profiles (id, name, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, updated_at = now()
		RETURNING ` + profileColumns

	created, err := scanProfile(repository.pool.QueryRow(ctx, query, profile.ID, profile.Name, sec.RoleMember))
	if err != nil {
		return nil, fmt.Errorf("postgres_profile_repo_create_failed: %w", err)
	}

	return created, nil
}

// FindByID retrieves a profile by its identity ID.
func (repository *PostgresProfileRepository) FindByID(ctx context.Context, id string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	profile, err := scanProfile(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("postgres_profile_repo_find_by_id_failed: %w", err)
	}

	return profile, nil
}

// FindByUsername retrieves a profile by username, ignoring case.
func (repository *PostgresProfileRepository) FindByUsername(ctx context.Context, username string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE lower(username) = lower($1)`

	profile, err := scanProfile(repository.pool.QueryRow(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("postgres_profile_repo_find_by_username_failed: %w", err)
	}

	return profile, nil
}

/*
SetUsername upserts the username column.

Returns:
  - *Profile: Updated row
  - error: ErrUsernameTaken when another row holds the name in any case
*/
func (repository *PostgresProfileRepository) SetUsername(ctx context.Context, id, username string) (*Profile, error) {
	query := `
		INSERT INTO profiles (id, username, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username, updated_at = now()
		RETURNING ` + profileColumns

	profile, err := scanProfile(repository.pool.QueryRow(ctx, query, id, username, sec.RoleMember))
	if err != nil {
		if dberr.IsUniqueViolation(err, usernameConstraint) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("postgres_profile_repo_set_username_failed: %w", err)
	}

	return profile, nil
}

// SetInterests upserts the interests column.
func (repository *PostgresProfileRepository) SetInterests(ctx context.Context, id string, interests []string) (*Profile, error) {
	query := `
		INSERT INTO profiles (id, interests, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET interests = EXCLUDED.interests, updated_at = now()
		RETURNING ` + profileColumns

	profile, err := scanProfile(repository.pool.QueryRow(ctx, query, id, interests, sec.RoleMember))
	if err != nil {
		return nil, fmt.Errorf("postgres_profile_repo_set_interests_failed: %w", err)
	}

	return profile, nil
}

// scanProfile hydrates a [Profile] and maps pgx.ErrNoRows to ErrProfileNotFound.
func scanProfile(row pgx.Row) (*Profile, error) {
	profile := &Profile{}
	err := row.Scan(
		&profile.ID,
		&profile.Name,
		&profile.Username,
		&profile.Interests,
		&profile.Role,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return profile, nil
}
