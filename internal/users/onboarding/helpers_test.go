// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package onboarding_test

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/tradehub/internal/platform/sec"
	"github.com/taibuivan/tradehub/internal/users/onboarding"
	"github.com/taibuivan/tradehub/pkg/pointer"
)

// memoryProfiles is an in-memory [onboarding.ProfileRepository].
//
// blindPrecheck makes FindByUsername miss, so SetUsername alone decides a
// duplicate the way the unique index does under a race.
type memoryProfiles struct {
	mu            sync.Mutex
	rows          map[string]*onboarding.Profile
	blindPrecheck bool
	failFind      error
	failWrite     error
}

func newMemoryProfiles() *memoryProfiles {
	return &memoryProfiles{rows: map[string]*onboarding.Profile{}}
}

func (m *memoryProfiles) Create(_ context.Context, profile *onboarding.Profile) (*onboarding.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite != nil {
		return nil, m.failWrite
	}
	row := m.rowLocked(profile.ID)
	row.Name = profile.Name
	return copyProfile(row), nil
}

func (m *memoryProfiles) FindByID(_ context.Context, id string) (*onboarding.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFind != nil {
		return nil, m.failFind
	}
	row, ok := m.rows[id]
	if !ok {
		return nil, onboarding.ErrProfileNotFound
	}
	return copyProfile(row), nil
}

func (m *memoryProfiles) FindByUsername(_ context.Context, username string) (*onboarding.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFind != nil {
		return nil, m.failFind
	}
	if m.blindPrecheck {
		return nil, onboarding.ErrProfileNotFound
	}
	if row := m.holderLocked(username); row != nil {
		return copyProfile(row), nil
	}
	return nil, onboarding.ErrProfileNotFound
}

func (m *memoryProfiles) SetUsername(_ context.Context, id, username string) (*onboarding.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite != nil {
		return nil, m.failWrite
	}
	if holder := m.holderLocked(username); holder != nil && holder.ID != id {
		return nil, onboarding.ErrUsernameTaken
	}
	row := m.rowLocked(id)
	row.Username = pointer.To(username)
	return copyProfile(row), nil
}

func (m *memoryProfiles) SetInterests(_ context.Context, id string, interests []string) (*onboarding.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite != nil {
		return nil, m.failWrite
	}
	row := m.rowLocked(id)
	row.Interests = slices.Clone(interests)
	return copyProfile(row), nil
}

func (m *memoryProfiles) put(profile *onboarding.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[profile.ID] = copyProfile(profile)
}

func (m *memoryProfiles) get(id string) *onboarding.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[id]; ok {
		return copyProfile(row)
	}
	return nil
}

func (m *memoryProfiles) rowLocked(id string) *onboarding.Profile {
	row, ok := m.rows[id]
	if !ok {
		now := time.Now()
		row = &onboarding.Profile{ID: id, Role: sec.RoleMember, CreatedAt: now, UpdatedAt: now}
		m.rows[id] = row
	}
	return row
}

func (m *memoryProfiles) holderLocked(username string) *onboarding.Profile {
	for _, row := range m.rows {
		if row.Username != nil && strings.EqualFold(*row.Username, username) {
			return row
		}
	}
	return nil
}

func copyProfile(profile *onboarding.Profile) *onboarding.Profile {
	clone := *profile
	clone.Interests = slices.Clone(profile.Interests)
	if profile.Username != nil {
		clone.Username = pointer.To(*profile.Username)
	}
	return &clone
}
