// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"time"
)

// ErrNoBinding means no refresh token is known for an access token.
var ErrNoBinding = errors.New("session: no refresh binding")

// # Refresh Binding Data Access

// RefreshStore remembers which refresh token renews which access token, so
// the cookie only ever carries the access token.
type RefreshStore interface {

	/*
		Bind associates refreshToken with accessToken for ttl.

		Parameters:
		  - ctx: context.Context
		  - accessToken: string (the cookie value)
		  - refreshToken: string
		  - ttl: time.Duration
	*/
	Bind(ctx context.Context, accessToken, refreshToken string, ttl time.Duration) error

	/*
		Lookup returns the refresh token bound to accessToken.

		Returns:
		  - error: ErrNoBinding or connectivity errors
	*/
	Lookup(ctx context.Context, accessToken string) (string, error)

	// Unbind forgets the binding of accessToken. Unknown tokens are not an error.
	Unbind(ctx context.Context, accessToken string) error
}
