// Copyright (c) 2026 Vivi Sews. All rights reserved.

// Package pattern manages a user's sewing pattern library.
package pattern

import "time"

// Category values.
const (
	CategoryDresses     = "dresses"
	CategoryTops        = "tops"
	CategoryBottoms     = "bottoms"
	CategoryOuterwear   = "outerwear"
	CategoryAccessories = "accessories"
	CategoryHomeDecor   = "home-decor"
	CategoryBags        = "bags"
)

// Difficulty values.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
	DifficultyExpert       = "expert"
)

var (
	Categories = []string{
		CategoryDresses, CategoryTops, CategoryBottoms, CategoryOuterwear,
		CategoryAccessories, CategoryHomeDecor, CategoryBags,
	}
	Difficulties = []string{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyExpert}
)

// Pattern is one sewing pattern owned by a user.
type Pattern struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Name               string    `json:"name"`
	Description        *string   `json:"description"`
	Designer           *string   `json:"designer"`
	PatternNumber      *string   `json:"pattern_number"`
	Category           *string   `json:"category"`
	Difficulty         *string   `json:"difficulty"`
	SizeRange          *string   `json:"size_range"`
	FabricRequirements *string   `json:"fabric_requirements"`
	Notions            *string   `json:"notions"`
	Instructions       *string   `json:"instructions"`
	PDFURL             *string   `json:"pdf_url"`
	ThumbnailURL       *string   `json:"thumbnail_url"`
	IsPinned           bool      `json:"is_pinned"`
	Notes              *string   `json:"notes"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Input carries the writable fields. On update, nil keeps the stored value
// and an empty string clears an optional field.
type Input struct {
	Name               *string
	Description        *string
	Designer           *string
	PatternNumber      *string
	Category           *string
	Difficulty         *string
	SizeRange          *string
	FabricRequirements *string
	Notions            *string
	Instructions       *string
	PDFURL             *string
	ThumbnailURL       *string
	IsPinned           *bool
	Notes              *string
}

const (
	FieldName       = "name"
	FieldCategory   = "category"
	FieldDifficulty = "difficulty"

	MaxNameLength = 255
)

const (
	MsgCreated      = "Pattern created successfully"
	MsgUpdated      = "Pattern updated successfully"
	MsgDeleted      = "Pattern deleted successfully"
	MsgPinUpdated   = "Pattern pin status updated"
	MsgNameRequired = "Pattern name is required"
)
