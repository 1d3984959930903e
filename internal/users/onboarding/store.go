// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package onboarding

import (
	"context"
	"errors"
)

var (
	// ErrProfileNotFound is returned when no profile row exists.
	ErrProfileNotFound = errors.New("onboarding: profile not found")

	// ErrUsernameTaken is returned when the store's uniqueness constraint
	// rejects a username.
	ErrUsernameTaken = errors.New("onboarding: username taken")
)

// # Profile Data Access

// ProfileReader is the read side the gate needs.
type ProfileReader interface {
	FindByID(ctx context.Context, id string) (*Profile, error)
}

// ProfileRepository defines the data access contract for profiles.
type ProfileRepository interface {
	ProfileReader

	/*
		Create inserts the profile created at sign-up. Role is always member.
		Re-running it for an existing id only refreshes the name.
	*/
	Create(ctx context.Context, profile *Profile) (*Profile, error)

	/*
		FindByUsername returns the profile holding username, compared case-insensitively.

		Returns:
		  - error: ErrProfileNotFound or database errors
	*/
	FindByUsername(ctx context.Context, username string) (*Profile, error)

	/*
		SetUsername writes the username of profile id, creating the row if needed.

		Returns:
		  - error: ErrUsernameTaken when the unique constraint fires
	*/
	SetUsername(ctx context.Context, id, username string) (*Profile, error)

	// SetInterests writes the interests of profile id, creating the row if needed.
	SetInterests(ctx context.Context, id string, interests []string) (*Profile, error)
}
