// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package identitytest provides an in-memory [identity.Provider] for tests.

Tokens are opaque strings ("access-N", "refresh-N"); expiry is not modelled.
Failures are injected through the Err* fields.
*/
package identitytest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/tradehub/internal/platform/identity"
)

type account struct {
	user     *identity.User
	password string
}

// Provider is a fake identity collaborator.
type Provider struct {
	// RequireConfirmation makes SignUp withhold the session, as a hosted
	// service does while an email address is unconfirmed.
	RequireConfirmation bool

	// Injected failures, returned verbatim when set.
	ErrSignUp         error
	ErrSignIn         error
	ErrGetUser        error
	ErrRefresh        error
	ErrUpdateMetadata error
	ErrSignOut        error

	mu       sync.Mutex
	sequence int
	accounts map[string]*account // by user id
	access   map[string]string   // access token → user id
	refresh  map[string]string   // refresh token → user id
	calls    map[string]int
}

// New returns an empty fake.
func New() *Provider {
	return &Provider{
		accounts: map[string]*account{},
		access:   map[string]string{},
		refresh:  map[string]string{},
		calls:    map[string]int{},
	}
}

var _ identity.Provider = (*Provider)(nil)

// AddUser registers an identity and returns an active session for it.
func (p *Provider) AddUser(email, password string, metadata identity.Metadata) *identity.Session {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sequence++
	if metadata == nil {
		metadata = identity.Metadata{}
	}
	user := &identity.User{
		ID:       fmt.Sprintf("00000000-0000-7000-8000-%012d", p.sequence),
		Email:    email,
		Metadata: metadata.Clone(),
	}
	p.accounts[user.ID] = &account{user: user, password: password}

	return p.openSessionLocked(user.ID)
}

// Calls reports how many times method was invoked.
func (p *Provider) Calls(method string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[method]
}

// Metadata returns a copy of the stored metadata of userID.
func (p *Provider) Metadata(userID string) identity.Metadata {
	p.mu.Lock()
	defer p.mu.Unlock()
	if acc, ok := p.accounts[userID]; ok {
		return acc.user.Metadata.Clone()
	}
	return nil
}

// SignUp implements [identity.Provider].
func (p *Provider) SignUp(_ context.Context, email, password string, metadata identity.Metadata) (*identity.Session, error) {
	p.record("SignUp")
	if p.ErrSignUp != nil {
		return nil, p.ErrSignUp
	}

	p.mu.Lock()
	for _, acc := range p.accounts {
		if strings.EqualFold(acc.user.Email, email) {
			p.mu.Unlock()
			return nil, identity.ErrRejected
		}
	}
	p.mu.Unlock()

	session := p.AddUser(email, password, metadata)
	if p.RequireConfirmation {
		p.mu.Lock()
		delete(p.access, session.AccessToken)
		delete(p.refresh, session.RefreshToken)
		p.mu.Unlock()
		return &identity.Session{User: session.User}, nil
	}

	return session, nil
}

// SignInWithPassword implements [identity.Provider].
func (p *Provider) SignInWithPassword(_ context.Context, email, password string) (*identity.Session, error) {
	p.record("SignInWithPassword")
	if p.ErrSignIn != nil {
		return nil, p.ErrSignIn
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, acc := range p.accounts {
		if strings.EqualFold(acc.user.Email, email) && acc.password == password {
			return p.openSessionLocked(acc.user.ID), nil
		}
	}
	return nil, identity.ErrInvalidCredentials
}

// GetUser implements [identity.Provider].
func (p *Provider) GetUser(_ context.Context, accessToken string) (*identity.User, error) {
	p.record("GetUser")
	if p.ErrGetUser != nil {
		return nil, p.ErrGetUser
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	userID, ok := p.access[accessToken]
	if !ok {
		return nil, identity.ErrInvalidToken
	}
	return p.copyUserLocked(userID), nil
}

// RefreshSession implements [identity.Provider]. Refresh tokens rotate.
func (p *Provider) RefreshSession(_ context.Context, refreshToken string) (*identity.Session, error) {
	p.record("RefreshSession")
	if p.ErrRefresh != nil {
		return nil, p.ErrRefresh
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	userID, ok := p.refresh[refreshToken]
	if !ok {
		return nil, identity.ErrInvalidToken
	}
	delete(p.refresh, refreshToken)
	return p.openSessionLocked(userID), nil
}

// UpdateMetadata implements [identity.Provider].
func (p *Provider) UpdateMetadata(_ context.Context, userID string, patch identity.Metadata) (*identity.User, error) {
	p.record("UpdateMetadata")
	if p.ErrUpdateMetadata != nil {
		return nil, p.ErrUpdateMetadata
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	acc, ok := p.accounts[userID]
	if !ok {
		return nil, identity.ErrRejected
	}
	acc.user.Metadata = acc.user.Metadata.Merge(patch)
	return p.copyUserLocked(userID), nil
}

// SignOut implements [identity.Provider].
func (p *Provider) SignOut(_ context.Context, accessToken string) error {
	p.record("SignOut")
	if p.ErrSignOut != nil {
		return p.ErrSignOut
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.access[accessToken]; !ok {
		return identity.ErrInvalidToken
	}
	delete(p.access, accessToken)
	return nil
}

func (p *Provider) record(method string) {
	p.mu.Lock()
	p.calls[method]++
	p.mu.Unlock()
}

func (p *Provider) openSessionLocked(userID string) *identity.Session {
	p.sequence++
	accessToken := fmt.Sprintf("access-%d", p.sequence)
	refreshToken := fmt.Sprintf("refresh-%d", p.sequence)
	p.access[accessToken] = userID
	p.refresh[refreshToken] = userID

	return &identity.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(time.Hour),
		User:         p.copyUserLocked(userID),
	}
}

func (p *Provider) copyUserLocked(userID string) *identity.User {
	acc := p.accounts[userID]
	return &identity.User{
		ID:       acc.user.ID,
		Email:    acc.user.Email,
		Metadata: acc.user.Metadata.Clone(),
	}
}
