// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package gotrue implements [identity.Provider] against a hosted GoTrue-compatible
auth service (the /auth/v1 REST surface).

Keys:

  - public key: sent as the 'apikey' header on every call.
  - service key: privileged; used only for metadata writes through the admin endpoint.

Every call is wrapped in an OpenTelemetry span. No call is retried.
*/
package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/taibuivan/tradehub/internal/platform/identity"
)

const (
	tracerName = "tradehub/identity/gotrue"

	// maxErrorBody bounds how much of an error response is kept for logs.
	maxErrorBody = 2048
)

// Client talks to the auth service over HTTP.
type Client struct {
	baseURL    string
	publicKey  string
	serviceKey string
	httpClient *http.Client
	tracer     trace.Tracer
}

// Option customises a [Client].
type Option func(*Client)

// WithHTTPClient replaces the default transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New builds a client for the auth service at baseURL.
func New(baseURL, publicKey, serviceKey string, opts ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/auth/v1",
		publicKey:  publicKey,
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		tracer:     otel.Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

var _ identity.Provider = (*Client)(nil)

// # Wire Payloads

type userPayload struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	UserMetadata identity.Metadata `json:"user_metadata"`
}

type sessionPayload struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	User         *userPayload `json:"user"`
}

func (u *userPayload) toUser() *identity.User {
	if u == nil {
		return nil
	}
	metadata := u.UserMetadata
	if metadata == nil {
		metadata = identity.Metadata{}
	}
	return &identity.User{ID: u.ID, Email: u.Email, Metadata: metadata}
}

func (s *sessionPayload) toSession() *identity.Session {
	session := &identity.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		User:         s.User.toUser(),
	}

	switch {
	case s.ExpiresAt > 0:
		session.ExpiresAt = time.Unix(s.ExpiresAt, 0)
	case s.ExpiresIn > 0:
		session.ExpiresAt = time.Now().Add(time.Duration(s.ExpiresIn) * time.Second)
	}

	return session
}

// # Provider Operations

// SignUp implements [identity.Provider].
func (c *Client) SignUp(ctx context.Context, email, password string, metadata identity.Metadata) (*identity.Session, error) {
	ctx, span := c.startSpan(ctx, "gotrue.SignUp")
	defer span.End()

	body := map[string]any{"email": email, "password": password, "data": metadata}

	raw, status, err := c.do(ctx, http.MethodPost, "/signup", c.publicKey, body)
	if err != nil {
		return nil, c.fail(span, err)
	}
	if status >= 400 && status < 500 {
		return nil, c.fail(span, fmt.Errorf("%w: signup status %d: %s", identity.ErrRejected, status, raw))
	}
	if status >= 500 {
		return nil, c.fail(span, fmt.Errorf("gotrue_signup_failed: status %d", status))
	}

	// With email confirmation enabled the service answers with a bare user.
	var payload sessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, c.fail(span, fmt.Errorf("gotrue_signup_decode_failed: %w", err))
	}
	if payload.User == nil {
		var user userPayload
		if err := json.Unmarshal(raw, &user); err != nil {
			return nil, c.fail(span, fmt.Errorf("gotrue_signup_decode_failed: %w", err))
		}
		return &identity.Session{User: user.toUser()}, nil
	}

	return payload.toSession(), nil
}

// SignInWithPassword implements [identity.Provider].
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error) {
	ctx, span := c.startSpan(ctx, "gotrue.SignInWithPassword")
	defer span.End()

	body := map[string]string{"email": email, "password": password}

	raw, status, err := c.do(ctx, http.MethodPost, "/token?grant_type=password", c.publicKey, body)
	if err != nil {
		return nil, c.fail(span, err)
	}
	if status >= 400 && status < 500 {
		return nil, c.fail(span, identity.ErrInvalidCredentials)
	}
	if status >= 500 {
		return nil, c.fail(span, fmt.Errorf("gotrue_signin_failed: status %d", status))
	}

	return c.decodeSession(span, raw)
}

// GetUser implements [identity.Provider].
func (c *Client) GetUser(ctx context.Context, accessToken string) (*identity.User, error) {
	ctx, span := c.startSpan(ctx, "gotrue.GetUser")
	defer span.End()

	raw, status, err := c.do(ctx, http.MethodGet, "/user", accessToken, nil)
	if err != nil {
		return nil, c.fail(span, err)
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusNotFound {
		return nil, c.fail(span, identity.ErrInvalidToken)
	}
	if status != http.StatusOK {
		return nil, c.fail(span, fmt.Errorf("gotrue_get_user_failed: status %d", status))
	}

	var user userPayload
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, c.fail(span, fmt.Errorf("gotrue_get_user_decode_failed: %w", err))
	}

	return user.toUser(), nil
}

// RefreshSession implements [identity.Provider].
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*identity.Session, error) {
	ctx, span := c.startSpan(ctx, "gotrue.RefreshSession")
	defer span.End()

	body := map[string]string{"refresh_token": refreshToken}

	raw, status, err := c.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", c.publicKey, body)
	if err != nil {
		return nil, c.fail(span, err)
	}
	if status >= 400 && status < 500 {
		return nil, c.fail(span, identity.ErrInvalidToken)
	}
	if status >= 500 {
		return nil, c.fail(span, fmt.Errorf("gotrue_refresh_failed: status %d", status))
	}

	return c.decodeSession(span, raw)
}

// UpdateMetadata implements [identity.Provider] through the admin endpoint.
func (c *Client) UpdateMetadata(ctx context.Context, userID string, patch identity.Metadata) (*identity.User, error) {
	ctx, span := c.startSpan(ctx, "gotrue.UpdateMetadata")
	defer span.End()
	span.SetAttributes(attribute.String("identity.user_id", userID))

	body := map[string]any{"user_metadata": patch}

	raw, status, err := c.do(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(userID), c.serviceKey, body)
	if err != nil {
		return nil, c.fail(span, err)
	}
	if status >= 400 && status < 500 {
		return nil, c.fail(span, fmt.Errorf("%w: metadata status %d: %s", identity.ErrRejected, status, raw))
	}
	if status >= 500 {
		return nil, c.fail(span, fmt.Errorf("gotrue_update_metadata_failed: status %d", status))
	}

	var user userPayload
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, c.fail(span, fmt.Errorf("gotrue_update_metadata_decode_failed: %w", err))
	}

	return user.toUser(), nil
}

// SignOut implements [identity.Provider]. An already invalid token counts as signed out.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	ctx, span := c.startSpan(ctx, "gotrue.SignOut")
	defer span.End()

	_, status, err := c.do(ctx, http.MethodPost, "/logout", accessToken, nil)
	if err != nil {
		return c.fail(span, err)
	}
	if status >= 500 {
		return c.fail(span, fmt.Errorf("gotrue_signout_failed: status %d", status))
	}

	return nil
}

// # Transport

// do sends one request and returns the (bounded) body and status.
// bearer is sent as the Authorization token; the public key always goes in 'apikey'.
func (c *Client) do(ctx context.Context, method, path, bearer string, body any) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("gotrue_encode_failed: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("gotrue_request_build_failed: %w", err)
	}

	request.Header.Set("apikey", c.publicKey)
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		request.Header.Set("Authorization", "Bearer "+bearer)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, 0, fmt.Errorf("gotrue_transport_failed: %w", err)
	}
	defer response.Body.Close()

	limit := int64(1 << 20)
	if response.StatusCode >= 400 {
		limit = maxErrorBody
	}

	raw, err := io.ReadAll(io.LimitReader(response.Body, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("gotrue_read_failed: %w", err)
	}

	return raw, response.StatusCode, nil
}

func (c *Client) decodeSession(span trace.Span, raw []byte) (*identity.Session, error) {
	var payload sessionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, c.fail(span, fmt.Errorf("gotrue_session_decode_failed: %w", err))
	}
	if payload.AccessToken == "" {
		return nil, c.fail(span, errors.New("gotrue_session_missing_access_token"))
	}
	return payload.toSession(), nil
}

func (c *Client) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("peer.service", "gotrue")),
	)
}

// fail records err on the span. Token and credential rejections are expected
// outcomes and do not mark the span as failed.
func (c *Client) fail(span trace.Span, err error) error {
	span.RecordError(err)
	if !errors.Is(err, identity.ErrInvalidToken) && !errors.Is(err, identity.ErrInvalidCredentials) {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
