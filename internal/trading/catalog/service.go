// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"

	"github.com/taibuivan/tradehub/internal/platform/apperr"
	"github.com/taibuivan/tradehub/internal/platform/constants"
	"github.com/taibuivan/tradehub/internal/platform/validate"
)

// Service implements the catalogue use cases. The caller is always the
// authenticated identity.
type Service struct {
	repo Repository
}

// NewService constructs a new [Service].
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListServers returns the servers userID has a permission row on.
func (service *Service) ListServers(ctx context.Context, userID string, limit int) ([]*Server, error) {
	return service.repo.ListServersForUser(ctx, userID, limit)
}

// ListOwnStores returns the stores userID owns.
func (service *Service) ListOwnStores(ctx context.Context, userID string, limit int) ([]*Store, error) {
	return service.repo.ListStoresByOwner(ctx, userID, limit)
}

/*
ListServerStores returns the active stores of a server.

Description: serverID must be a UUID. The caller needs can_read on the server;
a missing permission row and can_read=false are both Forbidden.

Returns:
  - []*Store: Active stores, newest first
  - error: ValidationError, Forbidden or Internal
*/
func (service *Service) ListServerStores(ctx context.Context, userID, serverID string, limit int) ([]*Store, error) {
	if err := (&validate.Validator{}).UUID(constants.FieldServerID, serverID).Err(); err != nil {
		return nil, err
	}

	allowed, err := service.repo.CanRead(ctx, serverID, userID)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_permission_failed: %w", err)
	}
	if !allowed {
		return nil, apperr.Forbidden(MsgNoPermission)
	}

	return service.repo.ListActiveStores(ctx, serverID, limit)
}
