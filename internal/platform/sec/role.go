// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level stored on a profile.
//
// It is assigned by the server and never accepted from a client payload or
// read from identity metadata.
type UserRole string

const (
	// RoleMember is the role every profile is created with.
	RoleMember UserRole = "member"

	// RoleAdmin is granted out of band.
	RoleAdmin UserRole = "admin"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleMember, RoleAdmin:
		return true
	default:
		return false
	}
}
