// Copyright (c) 2026 Vivi Sews. All rights reserved.

package schema

// InventoryPatternTable represents the 'patterns' table
type InventoryPatternTable struct {
	Table              string
	ID                 string
	UserID             string
	Name               string
	Description        string
	Designer           string
	PatternNumber      string
	Category           string
	Difficulty         string
	SizeRange          string
	FabricRequirements string
	Notions            string
	Instructions       string
	PDFURL             string
	ThumbnailURL       string
	IsPinned           string
	Notes              string
	CreatedAt          string
	UpdatedAt          string
}

// InventoryPattern is the schema definition for patterns
var InventoryPattern = InventoryPatternTable{
	Table:              "patterns",
	ID:                 "id",
	UserID:             "user_id",
	Name:               "name",
	Description:        "description",
	Designer:           "designer",
	PatternNumber:      "pattern_number",
	Category:           "category",
	Difficulty:         "difficulty",
	SizeRange:          "size_range",
	FabricRequirements: "fabric_requirements",
	Notions:            "notions",
	Instructions:       "instructions",
	PDFURL:             "pdf_url",
	ThumbnailURL:       "thumbnail_url",
	IsPinned:           "is_pinned",
	Notes:              "notes",
	CreatedAt:          "created_at",
	UpdatedAt:          "updated_at",
}

// Columns returns all column names in scan order
func (t InventoryPatternTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.Name, t.Description, t.Designer, t.PatternNumber, t.Category,
		t.Difficulty, t.SizeRange, t.FabricRequirements, t.Notions, t.Instructions,
		t.PDFURL, t.ThumbnailURL, t.IsPinned, t.Notes, t.CreatedAt, t.UpdatedAt,
	}
}
