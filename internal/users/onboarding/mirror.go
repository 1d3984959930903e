// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/taibuivan/tradehub/internal/platform/apperr"
	"github.com/taibuivan/tradehub/internal/platform/constants"
	"github.com/taibuivan/tradehub/internal/platform/ctxutil"
	"github.com/taibuivan/tradehub/internal/platform/identity"
	"github.com/taibuivan/tradehub/internal/platform/metrics"
	"github.com/taibuivan/tradehub/internal/platform/validate"
	"github.com/taibuivan/tradehub/pkg/pointer"
)

// MsgUsernameTaken is the single message for both duplicate-username paths.
const MsgUsernameTaken = "Username already taken"

// MsgNoValidInterests is returned when filtering leaves nothing.
const MsgNoValidInterests = "no valid interests provided"

// MetadataWriter is the privileged metadata channel of the identity provider.
type MetadataWriter interface {
	UpdateMetadata(ctx context.Context, userID string, patch identity.Metadata) (*identity.User, error)
}

// Mirror writes onboarding fields to the profile and mirrors them into
// identity metadata.
//
// # Consistency
//
// The profile write is authoritative. The metadata write follows it and may
// fail on its own; the profile is never rolled back. [Mirror.Reconcile]
// repairs divergence.
type Mirror struct {
	profiles   ProfileRepository
	identities MetadataWriter
	collector  *metrics.Collector
}

// NewMirror constructs a new [Mirror].
func NewMirror(profiles ProfileRepository, identities MetadataWriter, collector *metrics.Collector) *Mirror {
	return &Mirror{
		profiles:   profiles,
		identities: identities,
		collector:  collector,
	}
}

/*
SetUsername claims a username for user.

Description: The username is NFC-normalised and trimmed, then must be 3 to 20
characters. Uniqueness is case-insensitive. A pre-check catches most
duplicates; the store constraint catches the rest, and both produce the same
Conflict. Resubmitting one's own username succeeds.

Returns:
  - *Profile: Updated profile
  - error: ValidationError, Conflict or Internal
*/
func (mirror *Mirror) SetUsername(ctx context.Context, user *identity.User, raw string) (*Profile, error) {
	username := NormalizeUsername(raw)

	validator := &validate.Validator{}
	validator.Required(constants.FieldUsername, username)
	if !validator.HasErrors() {
		validator.LenBetween(constants.FieldUsername, username, UsernameMinLen, UsernameMaxLen)
	}
	if err := validator.Err(); err != nil {
		mirror.collector.RecordOnboardingWrite(constants.FieldUsername, "invalid")
		return nil, err
	}

	// 1. Pre-check
	existing, err := mirror.profiles.FindByUsername(ctx, username)
	switch {
	case err == nil && existing.ID != user.ID:
		mirror.collector.RecordOnboardingWrite(constants.FieldUsername, "conflict")
		return nil, apperr.Conflict(MsgUsernameTaken)
	case err != nil && !errors.Is(err, ErrProfileNotFound):
		return nil, apperr.Internal(fmt.Errorf("onboarding_username_precheck_failed: %w", err))
	}

	// 2. Authoritative write; the constraint decides races the pre-check missed
	profile, err := mirror.profiles.SetUsername(ctx, user.ID, username)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			mirror.collector.RecordOnboardingWrite(constants.FieldUsername, "conflict")
			return nil, apperr.Conflict(MsgUsernameTaken)
		}
		return nil, apperr.Internal(fmt.Errorf("onboarding_username_write_failed: %w", err))
	}

	mirror.collector.RecordOnboardingWrite(constants.FieldUsername, "ok")

	// 3. Mirror
	mirror.mirror(ctx, user, constants.FieldUsername, identity.Metadata{identity.MetaUsername: username})

	return profile, nil
}

/*
SetInterests stores the interests of user.

Description: The list must be non-empty. It is filtered to [Vocabulary]; if
nothing survives, the request fails even though the raw list was not empty.

Returns:
  - *Profile: Updated profile
  - error: ValidationError or Internal
*/
func (mirror *Mirror) SetInterests(ctx context.Context, user *identity.User, raw []string) (*Profile, error) {
	validator := &validate.Validator{}
	if err := validator.NotEmptyList(constants.FieldInterests, len(raw)).Err(); err != nil {
		mirror.collector.RecordOnboardingWrite(constants.FieldInterests, "invalid")
		return nil, err
	}

	interests := FilterInterests(raw)
	if len(interests) == 0 {
		mirror.collector.RecordOnboardingWrite(constants.FieldInterests, "invalid")
		return nil, validate.FieldFailure(MsgNoValidInterests, constants.FieldInterests, "None of the values are known interests")
	}

	profile, err := mirror.profiles.SetInterests(ctx, user.ID, interests)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("onboarding_interests_write_failed: %w", err))
	}

	mirror.collector.RecordOnboardingWrite(constants.FieldInterests, "ok")
	mirror.mirror(ctx, user, constants.FieldInterests, identity.Metadata{identity.MetaInterests: interests})

	return profile, nil
}

/*
Reconcile copies profile fields into metadata where the two disagree.

Description: Idempotent. Nothing is written when metadata already matches.
Fields the profile does not have yet are left alone.
*/
func (mirror *Mirror) Reconcile(ctx context.Context, user *identity.User, profile *Profile) {
	if user == nil || profile == nil {
		return
	}

	patch := identity.Metadata{}

	if username := pointer.Val(profile.Username); username != "" && username != user.Metadata.Username() {
		patch[identity.MetaUsername] = username
	}

	if len(profile.Interests) > 0 && !slices.Equal(profile.Interests, user.Metadata.Interests()) {
		patch[identity.MetaInterests] = profile.Interests
	}

	if len(patch) == 0 {
		return
	}

	mirror.mirror(ctx, user, "reconcile", patch)
}

// mirror pushes patch to the identity provider. Failures are logged and
// counted only.
func (mirror *Mirror) mirror(ctx context.Context, user *identity.User, field string, patch identity.Metadata) {
	updated, err := mirror.identities.UpdateMetadata(ctx, user.ID, patch)
	if err != nil {
		mirror.collector.RecordMirrorFailure(field)
		ctxutil.GetLogger(ctx).WarnContext(ctx, "metadata_mirror_failed",
			slog.String("user_id", user.ID),
			slog.String("field", field),
			slog.String("error", err.Error()),
		)
		return
	}

	if updated != nil {
		user.Metadata = updated.Metadata
	}
}
