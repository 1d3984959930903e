// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Credential Rules

const (
	// PasswordMinLen is enforced before the identity service sees the password.
	PasswordMinLen = 6

	// NameMaxLen bounds the display name after sanitising.
	NameMaxLen = 50
)

// # Client Messages

const (
	// MsgInvalidCredentials is the single message for every failed sign-in.
	MsgInvalidCredentials = "Invalid credentials"

	// MsgSignUpRejected hides why the identity service refused a sign-up.
	MsgSignUpRejected = "Unable to create account with the provided details"
)
