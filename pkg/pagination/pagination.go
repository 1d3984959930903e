// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared limit handling for API list endpoints.
//
// # Overview
//
// List endpoints accept a single "limit" query parameter. A missing value
// falls back to [DefaultLimit], an oversized one is clamped to [MaxLimit], and
// anything that is not a positive integer is rejected.
package pagination

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the number of items returned if not specified.
	DefaultLimit = 10
	// MaxLimit is the upper bound for items per request to prevent system abuse.
	MaxLimit = 100
	// LimitParam is the query parameter carrying the limit.
	LimitParam = "limit"
)

// ErrInvalidLimit is returned for a limit that is not a positive integer.
var ErrInvalidLimit = errors.New("pagination: limit must be a positive integer")

// ParseLimit interprets a raw "limit" value.
//
// # Rules
//   - "" → [DefaultLimit]
//   - non-integer, zero or negative → [ErrInvalidLimit]
//   - above [MaxLimit] → [MaxLimit]
func ParseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, ErrInvalidLimit
	}

	return min(limit, MaxLimit), nil
}

// LimitFromRequest parses the "limit" query parameter of r.
func LimitFromRequest(r *http.Request) (int, error) {
	return ParseLimit(r.URL.Query().Get(LimitParam))
}
