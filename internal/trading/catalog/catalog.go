// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog serves the read-only trading catalogue: the servers a member
can see and the player stores on them.

Every route is bearer-authenticated. Listing the stores of a server also
requires a read permission on that server.
*/
package catalog

import "time"

// StoreStatusActive marks a store that is open for trading.
const StoreStatusActive = "active"

// MsgNoPermission is returned when the caller may not read a server.
const MsgNoPermission = "User does not have correct permissions"

// Server is a game server registered on the hub.
type Server struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	OwnerID     string    `json:"owner_id"`
	MCVersion   string    `json:"mc_version"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store is a player-run shop on a server.
type Store struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	ServerID    string    `json:"server_id"`
	ServerName  string    `json:"server_name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
