// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// TradingPermissionTable represents the 'permissions' table
type TradingPermissionTable struct {
	Table     string
	EntityID  string
	UserID    string
	CanRead   string
	CreatedAt string
}

// TradingPermission is the schema definition for permissions.
// EntityID references a server.
var TradingPermission = TradingPermissionTable{
	Table:     "permissions",
	EntityID:  "entity_id",
	UserID:    "user_id",
	CanRead:   "can_read",
	CreatedAt: "created_at",
}

func (t TradingPermissionTable) Columns() []string {
	return []string{t.EntityID, t.UserID, t.CanRead, t.CreatedAt}
}
