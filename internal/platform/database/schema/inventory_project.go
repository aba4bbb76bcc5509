// Copyright (c) 2026 Vivi Sews. All rights reserved.

package schema

// InventoryProjectTable represents the 'projects' table
type InventoryProjectTable struct {
	Table       string
	ID          string
	UserID      string
	Name        string
	Description string
	Status      string
	ImageURL    string
	TargetDate  string
	Notes       string
	CreatedAt   string
	UpdatedAt   string
}

// InventoryProject is the schema definition for projects
var InventoryProject = InventoryProjectTable{
	Table:       "projects",
	ID:          "id",
	UserID:      "user_id",
	Name:        "name",
	Description: "description",
	Status:      "status",
	ImageURL:    "image_url",
	TargetDate:  "target_date",
	Notes:       "notes",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

func (t InventoryProjectTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.Name, t.Description, t.Status, t.ImageURL,
		t.TargetDate, t.Notes, t.CreatedAt, t.UpdatedAt,
	}
}
