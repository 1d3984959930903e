// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import "context"

// # Catalogue Data Access

// Repository defines the read contract for servers, permissions and stores.
type Repository interface {
	// ListServersForUser returns the servers userID holds a permission row on.
	ListServersForUser(ctx context.Context, userID string, limit int) ([]*Server, error)

	// ListStoresByOwner returns the stores ownerID runs, on any server.
	ListStoresByOwner(ctx context.Context, ownerID string, limit int) ([]*Store, error)

	// CanRead reports whether userID holds read permission on serverID.
	// A missing permission row is false, not an error.
	CanRead(ctx context.Context, serverID, userID string) (bool, error)

	// ListActiveStores returns the active stores of serverID.
	ListActiveStores(ctx context.Context, serverID string, limit int) ([]*Store, error)
}
