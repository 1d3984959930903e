// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// TradingUserStoreTable represents the 'user_stores' table
type TradingUserStoreTable struct {
	Table       string
	ID          string
	OwnerID     string
	ServerID    string
	ServerName  string
	Description string
	Status      string
	CreatedAt   string
}

// TradingUserStore is the schema definition for user_stores
var TradingUserStore = TradingUserStoreTable{
	Table:       "user_stores",
	ID:          "id",
	OwnerID:     "owner_id",
	ServerID:    "server_id",
	ServerName:  "server_name",
	Description: "description",
	Status:      "status",
	CreatedAt:   "created_at",
}

func (t TradingUserStoreTable) Columns() []string {
	return []string{t.ID, t.OwnerID, t.ServerID, t.ServerName, t.Description, t.Status, t.CreatedAt}
}
