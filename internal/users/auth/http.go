// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tradehub/internal/platform/identity"
	"github.com/taibuivan/tradehub/internal/platform/metrics"
	"github.com/taibuivan/tradehub/internal/platform/middleware"
	requestutil "github.com/taibuivan/tradehub/internal/platform/request"
	"github.com/taibuivan/tradehub/internal/platform/respond"
	"github.com/taibuivan/tradehub/internal/users/onboarding"
	"github.com/taibuivan/tradehub/internal/users/session"
)

// # Definitions & Constructors

// Handler implements the sign-up, sign-in and sign-out endpoints.
type Handler struct {
	authService *Service
	issuer      *session.Issuer
	origin      middleware.OriginPolicy
	collector   *metrics.Collector
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, issuer *session.Issuer, origin middleware.OriginPolicy, collector *metrics.Collector) *Handler {
	return &Handler{
		authService: service,
		issuer:      issuer,
		origin:      origin,
		collector:   collector,
	}
}

// RegisterRoutes attaches the public session routes to router. They live at
// the root, so each path answers OPTIONS explicitly.
//
// # Endpoints
//   - POST /signup  : Creates an identity and its profile.
//   - POST /signin  : Opens a session and sets the cookie.
//   - POST /signout : Revokes the session and clears the cookie.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.OriginGate(handler.origin, handler.collector))

		for _, path := range []string{"/signup", "/signin", "/signout"} {
			r.Options(path, middleware.Preflight)
		}

		r.Post("/signup", handler.signUp)
		r.Post("/signin", handler.signIn)
		r.Post("/signout", handler.signOut)
	})
}

// # Request Payloads

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signUpResponse struct {
	User    *identity.User      `json:"user"`
	Profile *onboarding.Profile `json:"profile"`
}

type signInResponse struct {
	Session *identity.Session   `json:"session"`
	Profile *onboarding.Profile `json:"profile,omitempty"`
}

/*
SignUp creates a new member.

POST /signup

Request:
  - Body: signUpRequest (Email, Password, Name)

Response:
  - 201: {user, profile}, plus a 7-day cookie when the session is active
  - 400: Invalid JSON, validation failure or rejected by the identity service
  - 403: Origin not allowed
*/
func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {
	var input signUpRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.SignUp(request.Context(), SignUpInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.issuer.Issue(request.Context(), writer, result.Session, session.KindSignUp)

	respond.Created(writer, signUpResponse{User: result.Session.User, Profile: result.Profile})
}

/*
SignIn authenticates a member with email and password.

POST /signin

Request:
  - Body: signInRequest (Email, Password)

Response:
  - 200: {session, profile?} plus a 30-day cookie
  - 400: Invalid JSON or missing fields
  - 401: Invalid credentials
  - 403: Origin not allowed
*/
func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	var input signInRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.SignIn(request.Context(), SignInInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.issuer.Issue(request.Context(), writer, result.Session, session.KindSignIn)

	respond.OK(writer, signInResponse{Session: result.Session, Profile: result.Profile})
}

/*
SignOut ends the caller's session, if any.

POST /signout

Response:
  - 204: Cookie cleared
  - 403: Origin not allowed
*/
func (handler *Handler) signOut(writer http.ResponseWriter, request *http.Request) {
	accessToken := session.PresentedToken(request)

	handler.authService.SignOut(request.Context(), accessToken)
	handler.issuer.Clear(request.Context(), writer, accessToken)

	respond.NoContent(writer)
}
