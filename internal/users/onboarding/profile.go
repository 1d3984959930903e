// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package onboarding walks a new member from sign-up to a complete profile.

Steps: username, then interests. The profile row is the source of truth;
identity metadata mirrors it so the navigation gate can decide without a
database round trip.

Components:

  - Mirror: validated profile writes, mirrored into identity metadata.
  - Gate: redirects page navigation to the step the member is on.
  - Handler: onboarding API and page routes.
*/
package onboarding

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/tradehub/internal/platform/identity"
	"github.com/taibuivan/tradehub/internal/platform/sec"
	"github.com/taibuivan/tradehub/pkg/pointer"
	"github.com/taibuivan/tradehub/pkg/slice"
)

// # Username Rules

const (
	UsernameMinLen = 3
	UsernameMaxLen = 20
)

// Vocabulary is the fixed set of interests a member can pick from.
var Vocabulary = []string{
	"Redstone",
	"Building",
	"PvP",
	"Farming",
	"Trading",
	"Rare Items",
	"Hardcore",
	"Creative",
}

// Profile is one member's public record. ID equals the identity ID.
type Profile struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Username  *string      `json:"username"`
	Interests []string     `json:"interests"`
	Role      sec.UserRole `json:"role"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// State derives the onboarding state of the profile.
func (p *Profile) State() State {
	if p == nil {
		return StateNeedsUsername
	}
	return stateFromFields(pointer.Val(p.Username), p.Interests)
}

// NormalizeUsername puts a raw username into canonical form: NFC, trimmed.
func NormalizeUsername(raw string) string {
	return strings.TrimSpace(norm.NFC.String(raw))
}

// FilterInterests keeps the tags that belong to [Vocabulary], in input order,
// without duplicates. Matching is exact.
func FilterInterests(raw []string) []string {
	return slice.Unique(slice.Filter(raw, func(tag string) bool {
		return slices.Contains(Vocabulary, tag)
	}))
}

// # Onboarding State

// State is the position of a member in the onboarding flow. It is always
// derived and never stored.
type State string

const (
	StateAnonymous      State = "anonymous"
	StateNeedsUsername  State = "needs_username"
	StateNeedsInterests State = "needs_interests"
	StateComplete       State = "complete"
)

var stateRank = map[State]int{
	StateAnonymous:      0,
	StateNeedsUsername:  1,
	StateNeedsInterests: 2,
	StateComplete:       3,
}

// StateOf derives the state from the identity metadata mirror.
func StateOf(user *identity.User) State {
	if user == nil {
		return StateAnonymous
	}
	return stateFromFields(user.Metadata.Username(), user.Metadata.Interests())
}

// furthest returns whichever state is later in the flow.
func furthest(a, b State) State {
	if stateRank[b] > stateRank[a] {
		return b
	}
	return a
}

func stateFromFields(username string, interests []string) State {
	switch {
	case strings.TrimSpace(username) == "":
		return StateNeedsUsername
	case len(interests) == 0:
		return StateNeedsInterests
	default:
		return StateComplete
	}
}
