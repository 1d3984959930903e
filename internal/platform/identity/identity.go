// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package identity defines the narrow contract the API consumes from the identity
collaborator: verifying credentials, verifying tokens, refreshing sessions and
maintaining the metadata bag attached to each identity.

Implementations:

  - gotrue: HTTP client for a hosted GoTrue-compatible auth service.
  - local: self-hosted accounts in PostgreSQL with RS256 tokens and Redis refresh tokens.
  - identitytest: in-memory fake for tests.

The collaborator is always injected. Nothing in the API holds it as a package-level value.
*/
package identity

import (
	"context"
	"errors"
	"time"
)

// # Errors

var (
	// ErrInvalidToken means the provider rejected an access or refresh token
	// (malformed, expired, revoked or unknown).
	ErrInvalidToken = errors.New("identity: invalid token")

	// ErrInvalidCredentials means an email/password pair did not verify.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")

	// ErrRejected means the provider refused a sign-up or update request
	// (duplicate email, weak password).
	ErrRejected = errors.New("identity: request rejected")
)

// # Domain Entities

// User is an identity as the provider reports it.
type User struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Metadata Metadata `json:"user_metadata"`
}

// Session is an access/refresh token pair bound to one identity.
//
// AccessToken is empty when the provider created the account but withholds a
// session until the email address is confirmed.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user"`
}

// Active reports whether the session carries an access token.
func (s *Session) Active() bool {
	return s != nil && s.AccessToken != ""
}

// # Provider Contract

// Provider is the identity collaborator.
type Provider interface {

	/*
		SignUp creates an identity.

		Returns:
		  - *Session: always carries User; AccessToken is empty while email confirmation is pending
		  - error: ErrRejected, or a transport failure
	*/
	SignUp(ctx context.Context, email, password string, metadata Metadata) (*Session, error)

	/*
		SignInWithPassword verifies credentials and opens a session.

		Returns:
		  - error: ErrInvalidCredentials, or a transport failure
	*/
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)

	/*
		GetUser verifies an access token and returns its identity.

		Returns:
		  - error: ErrInvalidToken, or a transport failure
	*/
	GetUser(ctx context.Context, accessToken string) (*User, error)

	/*
		RefreshSession exchanges a refresh token for a new session.

		Returns:
		  - error: ErrInvalidToken, or a transport failure
	*/
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)

	/*
		UpdateMetadata merges patch into the identity's metadata using the
		privileged channel.
	*/
	UpdateMetadata(ctx context.Context, userID string, patch Metadata) (*User, error)

	// SignOut revokes the session behind accessToken.
	SignOut(ctx context.Context, accessToken string) error
}
