// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema names the tables and columns the repositories query, so SQL is
assembled from one definition per table.
*/
package schema

// TradingServerTable represents the 'servers' table
type TradingServerTable struct {
	Table       string
	ID          string
	DisplayName string
	OwnerID     string
	MCVersion   string
	CreatedAt   string
}

// TradingServer is the schema definition for servers
var TradingServer = TradingServerTable{
	Table:       "servers",
	ID:          "id",
	DisplayName: "display_name",
	OwnerID:     "owner_id",
	MCVersion:   "mc_version",
	CreatedAt:   "created_at",
}

func (t TradingServerTable) Columns() []string {
	return []string{t.ID, t.DisplayName, t.OwnerID, t.MCVersion, t.CreatedAt}
}
