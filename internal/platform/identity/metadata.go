// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

// Metadata keys mirrored from the profile.
const (
	MetaName      = "name"
	MetaUsername  = "username"
	MetaInterests = "interests"
)

// Metadata is the mutable bag attached to an identity. It is a cache of
// profile fields and must never be trusted for authorization.
type Metadata map[string]any

// Username returns the mirrored username, or "" when absent.
func (m Metadata) Username() string {
	username, _ := m[MetaUsername].(string)
	return username
}

// Interests returns the mirrored interests. JSON decoding yields []any, Go
// callers may have stored []string; both are accepted.
func (m Metadata) Interests() []string {
	switch raw := m[MetaInterests].(type) {
	case []string:
		return raw
	case []any:
		interests := make([]string, 0, len(raw))
		for _, item := range raw {
			if tag, ok := item.(string); ok {
				interests = append(interests, tag)
			}
		}
		return interests
	default:
		return nil
	}
}

// Clone returns a shallow copy so callers can patch without aliasing.
func (m Metadata) Clone() Metadata {
	clone := make(Metadata, len(m))
	for key, value := range m {
		clone[key] = value
	}
	return clone
}

// Merge returns m with every key of patch applied over it.
func (m Metadata) Merge(patch Metadata) Metadata {
	merged := m.Clone()
	for key, value := range patch {
		merged[key] = value
	}
	return merged
}
