// Copyright (c) 2026 Vivi Sews. All rights reserved.

package schema

// InventoryFabricTable represents the 'fabrics' table
type InventoryFabricTable struct {
	Table        string
	ID           string
	UserID       string
	Name         string
	Type         string
	FiberContent string
	Weight       string
	Color        string
	Pattern      string
	Width        string
	TotalYards   string
	CostPerYard  string
	TotalCost    string
	Source       string
	Notes        string
	IsPinned     string
	ImageURL     string
	CreatedAt    string
	UpdatedAt    string
}

// InventoryFabric is the schema definition for fabrics
var InventoryFabric = InventoryFabricTable{
	Table:        "fabrics",
	ID:           "id",
	UserID:       "user_id",
	Name:         "name",
	Type:         "type",
	FiberContent: "fiber_content",
	Weight:       "weight",
	Color:        "color",
	Pattern:      "pattern",
	Width:        "width",
	TotalYards:   "total_yards",
	CostPerYard:  "cost_per_yard",
	TotalCost:    "total_cost",
	Source:       "source",
	Notes:        "notes",
	IsPinned:     "is_pinned",
	ImageURL:     "image_url",
	CreatedAt:    "created_at",
	UpdatedAt:    "updated_at",
}

// Columns returns all column names in scan order
func (t InventoryFabricTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.Name, t.Type, t.FiberContent, t.Weight, t.Color, t.Pattern,
		t.Width, t.TotalYards, t.CostPerYard, t.TotalCost, t.Source, t.Notes,
		t.IsPinned, t.ImageURL, t.CreatedAt, t.UpdatedAt,
	}
}
