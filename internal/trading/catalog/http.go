// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tradehub/internal/platform/apperr"
	"github.com/taibuivan/tradehub/internal/platform/constants"
	"github.com/taibuivan/tradehub/internal/platform/metrics"
	"github.com/taibuivan/tradehub/internal/platform/middleware"
	requestutil "github.com/taibuivan/tradehub/internal/platform/request"
	"github.com/taibuivan/tradehub/internal/platform/respond"
	"github.com/taibuivan/tradehub/pkg/pagination"
)

// MsgInvalidLimit is the client message for a bad limit parameter.
const MsgInvalidLimit = "Invalid limit parameter. Must be a positive integer."

// # Definitions & Constructors

// Handler implements the catalogue endpoints.
type Handler struct {
	service       *Service
	authenticator middleware.RequestAuthenticator
	origin        middleware.OriginPolicy
	collector     *metrics.Collector
}

// NewHandler constructs a new [Handler]. The authenticator must be bearer-only.
func NewHandler(service *Service, authenticator middleware.RequestAuthenticator, origin middleware.OriginPolicy, collector *metrics.Collector) *Handler {
	return &Handler{
		service:       service,
		authenticator: authenticator,
		origin:        origin,
		collector:     collector,
	}
}

// Routes returns a [chi.Router] for the catalogue, mounted at /v1.
//
// # Endpoints
//   - GET /servers           : servers the caller can see
//   - GET /store             : stores the caller owns
//   - GET /{serverId}/stores : active stores of one server
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.OriginGate(handler.origin, handler.collector))
	router.Use(middleware.Authenticate(handler.authenticator))

	router.Get("/servers", handler.listServers)
	router.Get("/store", handler.listOwnStores)
	router.Get("/{"+constants.FieldServerID+"}/stores", handler.listServerStores)

	return router
}

/*
ListServers returns the servers the caller holds a permission on.

GET /v1/servers?limit=

Response:
  - 200: {items, limit}
  - 400: Invalid limit
  - 401: Unauthenticated
*/
func (handler *Handler) listServers(writer http.ResponseWriter, request *http.Request) {
	user, limit, ok := handler.caller(writer, request)
	if !ok {
		return
	}

	servers, err := handler.service.ListServers(request.Context(), user, limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Items(writer, servers, limit)
}

/*
ListOwnStores returns the caller's stores.

GET /v1/store?limit=
*/
func (handler *Handler) listOwnStores(writer http.ResponseWriter, request *http.Request) {
	user, limit, ok := handler.caller(writer, request)
	if !ok {
		return
	}

	stores, err := handler.service.ListOwnStores(request.Context(), user, limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Items(writer, stores, limit)
}

/*
ListServerStores returns the active stores of a server the caller may read.

GET /v1/{serverId}/stores?limit=

Response:
  - 200: {items, limit}
  - 400: Invalid limit or server id
  - 401: Unauthenticated
  - 403: User does not have correct permissions
*/
func (handler *Handler) listServerStores(writer http.ResponseWriter, request *http.Request) {
	user, limit, ok := handler.caller(writer, request)
	if !ok {
		return
	}

	serverID := requestutil.Param(request, constants.FieldServerID)

	stores, err := handler.service.ListServerStores(request.Context(), user, serverID, limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Items(writer, stores, limit)
}

// caller resolves the identity and the limit shared by every list route.
func (handler *Handler) caller(writer http.ResponseWriter, request *http.Request) (string, int, bool) {
	user, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return "", 0, false
	}

	limit, err := pagination.LimitFromRequest(request)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidLimit) {
			err = apperr.ValidationError(MsgInvalidLimit, apperr.FieldError{Field: constants.FieldLimit, Message: err.Error()})
		}
		respond.Error(writer, request, err)
		return "", 0, false
	}

	return user.ID, limit, true
}
