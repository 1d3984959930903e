// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package onboarding

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tradehub/internal/platform/metrics"
	"github.com/taibuivan/tradehub/internal/platform/middleware"
	requestutil "github.com/taibuivan/tradehub/internal/platform/request"
	"github.com/taibuivan/tradehub/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the onboarding endpoints and pages.
type Handler struct {
	mirror        *Mirror
	gate          *Gate
	authenticator middleware.RequestAuthenticator
	origin        middleware.OriginPolicy
	collector     *metrics.Collector
}

// NewHandler constructs a new [Handler]. The authenticator must accept the
// session cookie as well as bearer tokens.
func NewHandler(mirror *Mirror, gate *Gate, authenticator middleware.RequestAuthenticator, origin middleware.OriginPolicy, collector *metrics.Collector) *Handler {
	return &Handler{
		mirror:        mirror,
		gate:          gate,
		authenticator: authenticator,
		origin:        origin,
		collector:     collector,
	}
}

// Routes returns a [chi.Router] for the onboarding steps, mounted at /onboarding.
//
// # Endpoints
//   - GET  /username  : username step page (gated)
//   - GET  /interests : interests step page (gated)
//   - POST /username  : claims a username
//   - POST /interests : stores interests
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Origin first, then auth, then input
	router.Use(middleware.OriginGate(handler.origin, handler.collector))

	router.With(handler.gate.Middleware).Get("/username", handler.page(StepUsername))
	router.With(handler.gate.Middleware).Get("/interests", handler.page(StepInterests))

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(handler.authenticator))
		r.Post("/username", handler.submitUsername)
		r.Post("/interests", handler.submitInterests)
	})

	return router
}

// PageRoutes registers the gated application pages outside /onboarding.
//
// # Endpoints
//   - GET /          : home
//   - GET /signin    : sign-in form
//   - GET /dashboard : dashboard (gated)
func (handler *Handler) PageRoutes(router chi.Router) {
	router.Get(PathHome, handler.public(StepHome))
	router.Get(PathSignIn, handler.public(StepSignIn))
	router.With(handler.gate.Middleware).Get(PathDashboard, handler.page(StepDashboard))
}

// # Request Payloads

type usernameRequest struct {
	Username string `json:"username"`
}

type interestsRequest struct {
	Interests []string `json:"interests"`
}

type profileResponse struct {
	Profile *Profile `json:"profile"`
}

/*
SubmitUsername claims a username for the caller.

POST /onboarding/username

Response:
  - 200: {profile}
  - 400: Invalid JSON or length outside 3..20
  - 401: Unauthenticated
  - 409: Username already taken
*/
func (handler *Handler) submitUsername(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input usernameRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.mirror.SetUsername(request.Context(), user, input.Username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profileResponse{Profile: profile})
}

/*
SubmitInterests stores the caller's interests.

POST /onboarding/interests

Response:
  - 200: {profile}
  - 400: Invalid JSON, empty list, or no known interests
  - 401: Unauthenticated
*/
func (handler *Handler) submitInterests(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input interestsRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.mirror.SetInterests(request.Context(), user, input.Interests)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profileResponse{Profile: profile})
}

// # Pages
//
// Rendering is out of scope; pages answer with the step descriptor a client
// renders.

// Step names a page of the flow.
type Step string

const (
	StepHome      Step = "home"
	StepSignIn    Step = "signin"
	StepUsername  Step = "username"
	StepInterests Step = "interests"
	StepDashboard Step = "dashboard"
)

type pageView struct {
	Step       Step     `json:"step"`
	State      State    `json:"state,omitempty"`
	Vocabulary []string `json:"vocabulary,omitempty"`
}

func (handler *Handler) page(step Step) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		view := pageView{Step: step, State: stateFrom(request)}
		if step == StepInterests {
			view.Vocabulary = Vocabulary
		}
		respond.OK(writer, view)
	}
}

func (handler *Handler) public(step Step) http.HandlerFunc {
	return func(writer http.ResponseWriter, _ *http.Request) {
		respond.OK(writer, pageView{Step: step})
	}
}
