// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the public entry points of a member's session:
sign-up, sign-in and sign-out.

Credentials are verified by the identity collaborator; this package only
validates input, creates the profile row at sign-up and hands sessions to the
cookie issuer.

Architecture:

  - Service: Orchestrates the identity provider, the profile store and the mirror.
  - Handler: Origin-gated JSON routes that issue and clear the session cookie.
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/taibuivan/tradehub/internal/platform/apperr"
	"github.com/taibuivan/tradehub/internal/platform/constants"
	"github.com/taibuivan/tradehub/internal/platform/ctxutil"
	"github.com/taibuivan/tradehub/internal/platform/identity"
	"github.com/taibuivan/tradehub/internal/platform/validate"
	"github.com/taibuivan/tradehub/internal/users/onboarding"
)

// # Contracts & Types

// ProfileStore is the slice of the profile repository the auth flows need.
type ProfileStore interface {
	Create(ctx context.Context, profile *onboarding.Profile) (*onboarding.Profile, error)
	FindByID(ctx context.Context, id string) (*onboarding.Profile, error)
}

// Reconciler repairs the metadata mirror after sign-in.
type Reconciler interface {
	Reconcile(ctx context.Context, user *identity.User, profile *onboarding.Profile)
}

// Service implements the session entry use cases.
type Service struct {
	provider   identity.Provider
	profiles   ProfileStore
	reconciler Reconciler
	sanitizer  *bluemonday.Policy
}

// NewService constructs a new [Service].
func NewService(provider identity.Provider, profiles ProfileStore, reconciler Reconciler) *Service {
	return &Service{
		provider:   provider,
		profiles:   profiles,
		reconciler: reconciler,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

// # Registration Flow

// SignUpInput holds the data required to enroll a new member.
type SignUpInput struct {
	Email    string
	Password string
	Name     string
}

// SignUpResult is the outcome of a sign-up. Session.AccessToken is empty while
// the identity service waits for email confirmation.
type SignUpResult struct {
	Session *identity.Session
	Profile *onboarding.Profile
}

/*
SignUp validates the input, creates the identity and its profile row.

Description: The display name is stripped of markup before it reaches the
identity metadata or the profile. The profile role is always member.

Returns:
  - *SignUpResult: Session (possibly inactive) and the created profile
  - error: ValidationError, Upstream or Internal
*/
func (service *Service) SignUp(ctx context.Context, input SignUpInput) (*SignUpResult, error) {
	email := strings.TrimSpace(input.Email)
	name := strings.TrimSpace(service.sanitizer.Sanitize(input.Name))

	validator := &validate.Validator{}
	validator.Required(constants.FieldEmail, email).
		Required(constants.FieldPassword, input.Password).
		Required(constants.FieldName, name)

	if !validator.HasErrors() {
		validator.Email(constants.FieldEmail, email).
			MinLen(constants.FieldPassword, input.Password, PasswordMinLen).
			MaxLen(constants.FieldName, name, NameMaxLen)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	session, err := service.provider.SignUp(ctx, email, input.Password, identity.Metadata{identity.MetaName: name})
	if err != nil {
		if errors.Is(err, identity.ErrRejected) {
			return nil, apperr.ValidationError(MsgSignUpRejected)
		}
		return nil, apperr.Upstream(fmt.Errorf("auth_service_signup_failed: %w", err))
	}

	if session == nil || session.User == nil || session.User.ID == "" {
		return nil, apperr.Upstream(errors.New("auth_service_signup_no_identity"))
	}

	profile, err := service.profiles.Create(ctx, &onboarding.Profile{ID: session.User.ID, Name: name})
	if err != nil {
		// The identity exists without a profile; onboarding writes create the row later.
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "signup_profile_create_failed",
			slog.String("user_id", session.User.ID),
			slog.String("error", err.Error()),
		)
		return nil, apperr.Internal(fmt.Errorf("auth_service_profile_create_failed: %w", err))
	}

	return &SignUpResult{Session: session, Profile: profile}, nil
}

// # Authentication Flow

// SignInInput holds the credentials of a password sign-in.
type SignInInput struct {
	Email    string
	Password string
}

// SignInResult is the outcome of a sign-in. Profile is nil when the member has
// no profile row yet.
type SignInResult struct {
	Session *identity.Session
	Profile *onboarding.Profile
}

/*
SignIn verifies credentials through the identity collaborator.

Description: Every credential failure yields the same 401. After a successful
grant the profile is loaded, if any, and the metadata mirror is reconciled
against it.

Returns:
  - *SignInResult: Active session and optional profile
  - error: ValidationError, Unauthorized, Upstream or Internal
*/
func (service *Service) SignIn(ctx context.Context, input SignInInput) (*SignInResult, error) {
	email := strings.TrimSpace(input.Email)

	validator := &validate.Validator{}
	validator.Required(constants.FieldEmail, email).
		Required(constants.FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	session, err := service.provider.SignInWithPassword(ctx, email, input.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return nil, apperr.Unauthorized(MsgInvalidCredentials)
		}
		return nil, apperr.Upstream(fmt.Errorf("auth_service_signin_failed: %w", err))
	}

	if !session.Active() || session.User == nil {
		return nil, apperr.Unauthorized(MsgInvalidCredentials)
	}

	profile, err := service.profiles.FindByID(ctx, session.User.ID)
	switch {
	case errors.Is(err, onboarding.ErrProfileNotFound):
		profile = nil
	case err != nil:
		return nil, apperr.Internal(fmt.Errorf("auth_service_profile_lookup_failed: %w", err))
	default:
		service.reconciler.Reconcile(ctx, session.User, profile)
	}

	return &SignInResult{Session: session, Profile: profile}, nil
}

/*
SignOut revokes the session behind accessToken.

Description: Best effort. An already-invalid token is not an error, and a
provider failure is logged only, so the cookie is always cleared.
*/
func (service *Service) SignOut(ctx context.Context, accessToken string) {
	if accessToken == "" {
		return
	}

	err := service.provider.SignOut(ctx, accessToken)
	if err != nil && !errors.Is(err, identity.ErrInvalidToken) {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "signout_revoke_failed", slog.String("error", err.Error()))
	}
}
