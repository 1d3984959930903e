// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Headers: Names of the HTTP headers the middleware chain reads and writes.
  - Redis Prefixes: Key namespaces for volatile session data.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "tradehub-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the 'iss' claim of tokens minted by the local identity backend.
	AuthIssuer = "tradehub.local"

	// APIKeyQueryParam is the query fallback for the internal API key header.
	APIKeyQueryParam = "key"
)

// # HTTP Headers

const (
	HeaderXRequestID     = "X-Request-ID"
	HeaderXRealIP        = "X-Real-IP"
	HeaderXForwardedFor  = "X-Forwarded-For"
	HeaderOrigin         = "Origin"
	HeaderAuthorization  = "Authorization"
	HeaderXAPIKey        = "X-API-Key"
	HeaderVary           = "Vary"
	HeaderCookie         = "Cookie"
	HeaderAllowOrigin    = "Access-Control-Allow-Origin"
	HeaderAllowMethods   = "Access-Control-Allow-Methods"
	HeaderAllowHeaders   = "Access-Control-Allow-Headers"
	HeaderAllowCreds     = "Access-Control-Allow-Credentials"
	HeaderExposeHeaders  = "Access-Control-Expose-Headers"
	HeaderMaxAge         = "Access-Control-Max-Age"
	HeaderRetryAfter     = "Retry-After"
	HeaderContentType    = "Content-Type"
	BearerPrefix         = "Bearer "
	DefaultAllowHeaders  = "Accept, Content-Type, Authorization, X-Request-ID"
	DefaultExposeHeaders = "X-Request-ID"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldItems   = "items"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Request Field Identifiers

const (
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldName      = "name"
	FieldUsername  = "username"
	FieldInterests = "interests"
	FieldServerID  = "serverId"
	FieldLimit     = "limit"
)

// # Redis Prefixes (Key Taxonomy)

const (
	// RedisPrefixSessionRefresh maps a hashed access token to its refresh token.
	RedisPrefixSessionRefresh = "session:refresh:"

	// RedisPrefixIdentityRefresh maps a hashed refresh token to a local account id.
	RedisPrefixIdentityRefresh = "identity:refresh:"

	// RedisPrefixIdentityUserTokens is the per-account set of live refresh token hashes.
	RedisPrefixIdentityUserTokens = "identity:user_tokens:"

	// RedisPrefixIdentityRevoked marks signed-out access tokens until they expire.
	RedisPrefixIdentityRevoked = "identity:revoked:"
)
