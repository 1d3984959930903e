// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/tradehub/internal/platform/database/schema"
	"github.com/taibuivan/tradehub/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListServersForUser(ctx context.Context, userID string, limit int) ([]*Server, error) {
	server, permission := schema.TradingServer, schema.TradingPermission

	query := fmt.Sprintf(`
		SELECT s.%s, s.%s, s.%s, s.%s, s.%s
		FROM %s s
		JOIN %s p ON p.%s = s.%s
		WHERE p.%s = $1
		ORDER BY s.%s ASC
		LIMIT $2
	`,
		server.ID, server.DisplayName, server.OwnerID, server.MCVersion, server.CreatedAt,
		server.Table,
		permission.Table, permission.EntityID, server.ID,
		permission.UserID,
		server.DisplayName,
	)

	rows, err := repository.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "server", "list_servers_for_user")
	}
	defer rows.Close()

	servers := make([]*Server, 0)
	for rows.Next() {
		s := &Server{}
		if err := rows.Scan(&s.ID, &s.DisplayName, &s.OwnerID, &s.MCVersion, &s.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "server", "scan_server")
		}
		servers = append(servers, s)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "server", "iterate_servers")
	}

	return servers, nil
}

func (repository *PostgresRepository) ListStoresByOwner(ctx context.Context, ownerID string, limit int) ([]*Store, error) {
	store := schema.TradingUserStore

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC LIMIT $2`,
		strings.Join(store.Columns(), ", "), store.Table, store.OwnerID, store.CreatedAt)

	return repository.listStores(ctx, "list_stores_by_owner", query, ownerID, limit)
}

func (repository *PostgresRepository) CanRead(ctx context.Context, serverID, userID string) (bool, error) {
	permission := schema.TradingPermission

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		permission.CanRead, permission.Table, permission.EntityID, permission.UserID)

	var canRead bool
	err := repository.db.QueryRow(ctx, query, serverID, userID).Scan(&canRead)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, dberr.Wrap(err, "permission", "check_can_read")
	}

	return canRead, nil
}

func (repository *PostgresRepository) ListActiveStores(ctx context.Context, serverID string, limit int) ([]*Store, error) {
	store := schema.TradingUserStore

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2 ORDER BY %s DESC LIMIT $3`,
		strings.Join(store.Columns(), ", "), store.Table, store.ServerID, store.Status, store.CreatedAt)

	return repository.listStores(ctx, "list_active_stores", query, serverID, StoreStatusActive, limit)
}

func (repository *PostgresRepository) listStores(ctx context.Context, action, query string, args ...any) ([]*Store, error) {
	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "store", action)
	}
	defer rows.Close()

	stores := make([]*Store, 0)
	for rows.Next() {
		s := &Store{}
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.ServerID, &s.ServerName, &s.Description, &s.Status, &s.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "store", "scan_store")
		}
		stores = append(stores, s)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "store", action)
	}

	return stores, nil
}
