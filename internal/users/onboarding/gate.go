// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package onboarding

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/taibuivan/tradehub/internal/platform/apperr"
	"github.com/taibuivan/tradehub/internal/platform/ctxutil"
	"github.com/taibuivan/tradehub/internal/platform/identity"
	"github.com/taibuivan/tradehub/internal/platform/respond"
)

// # Page Paths

const (
	PathHome      = "/"
	PathSignIn    = "/signin"
	PathUsername  = "/onboarding/username"
	PathInterests = "/onboarding/interests"
	PathDashboard = "/dashboard"
)

// stateFrom returns the state the gate decided on, falling back to metadata.
func stateFrom(request *http.Request) State {
	if state, ok := ctxutil.GetOnboardingState(request.Context()); ok {
		return State(state)
	}
	return StateOf(ctxutil.GetAuthUser(request.Context()))
}

// IdentityResolver resolves the identity behind a page request.
type IdentityResolver interface {
	Authenticate(request *http.Request) (*identity.User, error)
}

// Gate redirects page navigation to the onboarding step a member is on.
// It never writes anything.
type Gate struct {
	resolver IdentityResolver
	profiles ProfileReader
}

// NewGate constructs a [Gate]. profiles may be nil, in which case the
// decision relies on identity metadata alone.
func NewGate(resolver IdentityResolver, profiles ProfileReader) *Gate {
	return &Gate{resolver: resolver, profiles: profiles}
}

/*
Decide returns where a member in state must go when requesting path, or ""
to let the request through.

  - anonymous: every protected page goes to sign-in.
  - needs_username: everything goes to the username step.
  - needs_interests: the username step stays reachable; everything else goes to the interests step.
  - complete: onboarding steps go home; other pages pass.
*/
func Decide(state State, path string) string {
	switch state {
	case StateNeedsUsername:
		if path == PathUsername {
			return ""
		}
		return PathUsername
	case StateNeedsInterests:
		if path == PathUsername || path == PathInterests {
			return ""
		}
		return PathInterests
	case StateComplete:
		if path == PathUsername || path == PathInterests {
			return PathHome
		}
		return ""
	default:
		return PathSignIn
	}
}

// Middleware applies [Decide] to the pages it guards and hands the identity
// to the page handler.
func (gate *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		user, state, err := gate.resolve(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		if target := Decide(state, request.URL.Path); target != "" {
			respond.SeeOther(writer, request, target)
			return
		}

		ctx := ctxutil.WithAuthUser(request.Context(), user)
		ctx = ctxutil.WithOnboardingState(ctx, string(state))
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// resolve reads the identity and its state. An authentication failure is the
// anonymous state, not an error; provider and store outages are errors.
func (gate *Gate) resolve(request *http.Request) (*identity.User, State, error) {
	user, err := gate.resolver.Authenticate(request)
	if err != nil {
		if appErr := apperr.As(err); appErr != nil && appErr.HTTPStatus == http.StatusUnauthorized {
			return nil, StateAnonymous, nil
		}
		return nil, "", err
	}

	state := StateOf(user)
	if state == StateComplete || gate.profiles == nil {
		return user, state, nil
	}

	// The metadata mirror can lag behind the profile; trust whichever is further.
	profile, err := gate.profiles.FindByID(request.Context(), user.ID)
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return user, state, nil
	case err != nil:
		return nil, "", apperr.Internal(fmt.Errorf("onboarding_gate_profile_failed: %w", err))
	}

	return user, furthest(state, profile.State()), nil
}
