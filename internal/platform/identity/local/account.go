// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package local

import (
	"errors"
	"time"

	"github.com/taibuivan/tradehub/internal/platform/identity"
)

// # Token Lifetimes

const (
	// AccessTokenTTL is how long a minted access token stays valid.
	AccessTokenTTL = 1 * time.Hour

	// RefreshTokenTTL bounds a refresh token that is never used.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenLength is the byte length of the random refresh token.
	RefreshTokenLength = 32
)

// # Storage Errors

var (
	errAccountNotFound = errors.New("local: account not found")
	errEmailTaken      = errors.New("local: email already registered")
	errTokenNotFound   = errors.New("local: refresh token not found")
)

// Account is a self-hosted identity.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Metadata     identity.Metadata
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (a *Account) toUser() *identity.User {
	metadata := a.Metadata
	if metadata == nil {
		metadata = identity.Metadata{}
	}
	return &identity.User{ID: a.ID, Email: a.Email, Metadata: metadata.Clone()}
}
