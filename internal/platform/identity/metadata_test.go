// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tradehub/internal/platform/identity"
)

/*
TestMetadata_InterestsFromJSON verifies that interests decoded from a provider
payload are readable as strings.
*/
func TestMetadata_InterestsFromJSON(t *testing.T) {
	var user identity.User
	payload := `{"id":"u1","email":"a@b.c","user_metadata":{"username":"alex","interests":["Trading","PvP",3]}}`
	require.NoError(t, json.Unmarshal([]byte(payload), &user))

	assert.Equal(t, "alex", user.Metadata.Username())
	assert.Equal(t, []string{"Trading", "PvP"}, user.Metadata.Interests())
}

/*
TestMetadata_Empty verifies the zero value reads as "nothing set".
*/
func TestMetadata_Empty(t *testing.T) {
	var metadata identity.Metadata

	assert.Empty(t, metadata.Username())
	assert.Nil(t, metadata.Interests())
}

/*
TestMetadata_MergeDoesNotAlias verifies Merge leaves the receiver untouched.
*/
func TestMetadata_MergeDoesNotAlias(t *testing.T) {
	original := identity.Metadata{"name": "Alex"}
	merged := original.Merge(identity.Metadata{"username": "alex"})

	assert.Equal(t, "alex", merged.Username())
	assert.Equal(t, "Alex", merged["name"])
	assert.Empty(t, original.Username())
}

/*
TestSession_Active covers sessions withheld pending email confirmation.
*/
func TestSession_Active(t *testing.T) {
	var missing *identity.Session
	assert.False(t, missing.Active())
	assert.False(t, (&identity.Session{User: &identity.User{ID: "u1"}}).Active())
	assert.True(t, (&identity.Session{AccessToken: "a.b.c"}).Active())
}
