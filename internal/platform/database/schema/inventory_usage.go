// Copyright (c) 2026 Vivi Sews. All rights reserved.

package schema

// InventoryUsageTable represents the 'usage_history' table
type InventoryUsageTable struct {
	Table       string
	ID          string
	FabricID    string
	UserID      string
	ProjectID   string
	YardsUsed   string
	ProjectName string
	Notes       string
	UsageDate   string
}

// InventoryUsage is the schema definition for usage_history
var InventoryUsage = InventoryUsageTable{
	Table:       "usage_history",
	ID:          "id",
	FabricID:    "fabric_id",
	UserID:      "user_id",
	ProjectID:   "project_id",
	YardsUsed:   "yards_used",
	ProjectName: "project_name",
	Notes:       "notes",
	UsageDate:   "usage_date",
}

func (t InventoryUsageTable) Columns() []string {
	return []string{t.ID, t.FabricID, t.UserID, t.ProjectID, t.YardsUsed, t.ProjectName, t.Notes, t.UsageDate}
}
