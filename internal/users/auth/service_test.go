// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tradehub/internal/platform/apperr"
	"github.com/taibuivan/tradehub/internal/platform/identity"
	"github.com/taibuivan/tradehub/internal/platform/identity/identitytest"
	"github.com/taibuivan/tradehub/internal/platform/sec"
	"github.com/taibuivan/tradehub/internal/users/auth"
	"github.com/taibuivan/tradehub/internal/users/onboarding"
	"github.com/taibuivan/tradehub/pkg/pointer"
)

// memoryProfiles is an in-memory [auth.ProfileStore].
type memoryProfiles struct {
	mu         sync.Mutex
	rows       map[string]*onboarding.Profile
	failCreate error
	failFind   error
}

func newMemoryProfiles() *memoryProfiles {
	return &memoryProfiles{rows: map[string]*onboarding.Profile{}}
}

func (m *memoryProfiles) Create(_ context.Context, profile *onboarding.Profile) (*onboarding.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return nil, m.failCreate
	}
	row := *profile
	row.Role = sec.RoleMember
	m.rows[row.ID] = &row
	created := row
	return &created, nil
}

func (m *memoryProfiles) FindByID(_ context.Context, id string) (*onboarding.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFind != nil {
		return nil, m.failFind
	}
	row, ok := m.rows[id]
	if !ok {
		return nil, onboarding.ErrProfileNotFound
	}
	found := *row
	return &found, nil
}

func (m *memoryProfiles) put(profile *onboarding.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[profile.ID] = profile
}

func newService(provider *identitytest.Provider, profiles *memoryProfiles) *auth.Service {
	return auth.NewService(provider, profiles, onboarding.NewMirror(nil, provider, nil))
}

/*
TestService_SignUp_Validation verifies input is checked before the provider is called.
*/
func TestService_SignUp_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input auth.SignUpInput
		field string
	}{
		{"missing email", auth.SignUpInput{Password: "secret1", Name: "Steve"}, "email"},
		{"bad email", auth.SignUpInput{Email: "steve", Password: "secret1", Name: "Steve"}, "email"},
		{"short password", auth.SignUpInput{Email: "steve@example.com", Password: "12345", Name: "Steve"}, "password"},
		{"missing name", auth.SignUpInput{Email: "steve@example.com", Password: "secret1"}, "name"},
		{"markup only name", auth.SignUpInput{Email: "steve@example.com", Password: "secret1", Name: "<b></b>"}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := identitytest.New()
			service := newService(provider, newMemoryProfiles())

			_, err := service.SignUp(context.Background(), tt.input)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
			require.NotEmpty(t, appErr.Details)
			assert.Equal(t, tt.field, appErr.Details[0].Field)
			assert.Zero(t, provider.Calls("SignUp"))
		})
	}
}

/*
TestService_SignUp verifies the identity, its metadata and the profile row.
*/
func TestService_SignUp(t *testing.T) {
	provider := identitytest.New()
	profiles := newMemoryProfiles()
	service := newService(provider, profiles)

	result, err := service.SignUp(context.Background(), auth.SignUpInput{
		Email:    " steve@example.com ",
		Password: "secret1",
		Name:     `<script>alert(1)</script>Steve`,
	})
	require.NoError(t, err)

	assert.True(t, result.Session.Active())
	assert.Equal(t, "steve@example.com", result.Session.User.Email)
	assert.Equal(t, "Steve", provider.Metadata(result.Session.User.ID)[identity.MetaName])

	assert.Equal(t, result.Session.User.ID, result.Profile.ID)
	assert.Equal(t, "Steve", result.Profile.Name)
	assert.Equal(t, sec.RoleMember, result.Profile.Role)
	assert.Nil(t, result.Profile.Username)
}

/*
TestService_SignUp_Failures verifies provider and store failures are mapped.
*/
func TestService_SignUp_Failures(t *testing.T) {
	input := auth.SignUpInput{Email: "steve@example.com", Password: "secret1", Name: "Steve"}

	t.Run("duplicate email", func(t *testing.T) {
		provider := identitytest.New()
		provider.AddUser("steve@example.com", "other", nil)
		service := newService(provider, newMemoryProfiles())

		_, err := service.SignUp(context.Background(), input)

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
		assert.Equal(t, auth.MsgSignUpRejected, appErr.Message)
	})

	t.Run("provider unreachable", func(t *testing.T) {
		provider := identitytest.New()
		provider.ErrSignUp = errors.New("dial tcp: connection refused")
		service := newService(provider, newMemoryProfiles())

		_, err := service.SignUp(context.Background(), input)

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "UPSTREAM_ERROR", appErr.Code)
		assert.NotContains(t, appErr.Message, "dial tcp")
	})

	t.Run("profile store down", func(t *testing.T) {
		profiles := newMemoryProfiles()
		profiles.failCreate = errors.New("connection refused")
		service := newService(identitytest.New(), profiles)

		_, err := service.SignUp(context.Background(), input)

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	})
}

/*
TestService_SignIn verifies credential failures share one 401 and a profile
reconciles the mirror.
*/
func TestService_SignIn(t *testing.T) {
	provider := identitytest.New()
	profiles := newMemoryProfiles()
	service := newService(provider, profiles)

	existing := provider.AddUser("steve@example.com", "secret1", nil)
	profiles.put(&onboarding.Profile{
		ID:        existing.User.ID,
		Name:      "Steve",
		Username:  pointer.To("steve"),
		Interests: []string{"Redstone"},
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.SignIn(context.Background(), auth.SignInInput{Email: "steve@example.com", Password: "nope"})

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusUnauthorized, appErr.HTTPStatus)
		assert.Equal(t, auth.MsgInvalidCredentials, appErr.Message)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := service.SignIn(context.Background(), auth.SignInInput{Email: "alex@example.com", Password: "secret1"})

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, auth.MsgInvalidCredentials, appErr.Message)
	})

	t.Run("missing password", func(t *testing.T) {
		_, err := service.SignIn(context.Background(), auth.SignInInput{Email: "steve@example.com"})

		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	})

	t.Run("success reconciles metadata", func(t *testing.T) {
		result, err := service.SignIn(context.Background(), auth.SignInInput{Email: "steve@example.com", Password: "secret1"})
		require.NoError(t, err)

		assert.True(t, result.Session.Active())
		require.NotNil(t, result.Profile)
		assert.Equal(t, "steve", provider.Metadata(existing.User.ID).Username())
		assert.Equal(t, []string{"Redstone"}, provider.Metadata(existing.User.ID).Interests())
		assert.Equal(t, onboarding.StateComplete, onboarding.StateOf(result.Session.User))
	})

	t.Run("no profile row", func(t *testing.T) {
		provider.AddUser("alex@example.com", "secret1", nil)

		result, err := service.SignIn(context.Background(), auth.SignInInput{Email: "alex@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Nil(t, result.Profile)
	})
}

/*
TestService_SignOut verifies sign-out never fails the request.
*/
func TestService_SignOut(t *testing.T) {
	provider := identitytest.New()
	service := newService(provider, newMemoryProfiles())
	current := provider.AddUser("steve@example.com", "secret1", nil)

	service.SignOut(context.Background(), "")
	assert.Zero(t, provider.Calls("SignOut"))

	service.SignOut(context.Background(), current.AccessToken)
	_, err := provider.GetUser(context.Background(), current.AccessToken)
	assert.ErrorIs(t, err, identity.ErrInvalidToken)

	provider.ErrSignOut = errors.New("identity service down")
	service.SignOut(context.Background(), "access-99")
	assert.Equal(t, 2, provider.Calls("SignOut"))
}
