// Copyright (c) 2026 Vivi Sews. All rights reserved.

/*
Package fabric manages a user's fabric stash and the record of yardage
consumed from it.

Every query is scoped by the owner's user id. A fabric belonging to someone
else is indistinguishable from one that does not exist.

# Usage Recording

Recording usage inserts an immutable usage row and lowers the fabric's
remaining yardage in one transaction. Remaining yardage never goes below
zero; the usage row keeps the amount the user asked for even when the
fabric could not cover it.
*/
package fabric

import (
	"math"
	"time"
)

// Fabric is one bolt or piece of fabric in a user's stash.
type Fabric struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Type         *string   `json:"type"`
	FiberContent *string   `json:"fiber_content"`
	Weight       *string   `json:"weight"`
	Color        *string   `json:"color"`
	Pattern      *string   `json:"pattern"`
	Width        *string   `json:"width"`
	TotalYards   float64   `json:"total_yards"` // remaining yardage on hand
	CostPerYard  *float64  `json:"cost_per_yard"`
	TotalCost    *float64  `json:"total_cost"`
	Source       *string   `json:"source"`
	Notes        *string   `json:"notes"`
	IsPinned     bool      `json:"is_pinned"`
	ImageURL     *string   `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UsageEntry records yardage taken from a fabric.
type UsageEntry struct {
	ID          string    `json:"id"`
	FabricID    string    `json:"fabric_id"`
	UserID      string    `json:"user_id"`
	ProjectID   *string   `json:"project_id"`
	YardsUsed   float64   `json:"yards_used"`
	ProjectName string    `json:"project_name"`
	Notes       *string   `json:"notes"`
	UsageDate   time.Time `json:"usage_date"`

	// FabricName is filled in by history queries.
	FabricName string `json:"fabric_name,omitempty"`
}

// UsageResult reports the fabric's yardage after a usage was recorded.
type UsageResult struct {
	YardsLeft     float64
	YardsDeducted float64
}

// yardScale is the decimal precision yardage is rounded to after arithmetic.
const yardScale = 1e6

// ClampRemaining returns the yardage left after using yardsUsed, floored at
// zero and rounded to yardScale so 3.3 - 1.1 reads back as 2.2.
func ClampRemaining(totalYards, yardsUsed float64) float64 {
	return max(0, math.Round((totalYards-yardsUsed)*yardScale)/yardScale)
}

// Deducted returns how much of yardsUsed the fabric could cover.
func Deducted(totalYards, yardsUsed float64) float64 {
	return max(0, min(totalYards, yardsUsed))
}

// # Inputs

// Input carries the writable fields of a fabric. On update, nil keeps the stored value.
type Input struct {
	Name         *string
	Type         *string
	FiberContent *string
	Weight       *string
	Color        *string
	Pattern      *string
	Width        *string
	TotalYards   *float64
	CostPerYard  *float64
	TotalCost    *float64
	Source       *string
	Notes        *string
	IsPinned     *bool
	ImageURL     *string
}

// UsageInput is one usage report.
type UsageInput struct {
	YardsUsed   float64
	ProjectName string
	Notes       *string
	ProjectID   *string
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldTotalYards  = "total_yards"
	FieldCostPerYard = "cost_per_yard"
	FieldTotalCost   = "total_cost"
	FieldYardsUsed   = "yards_used"
	FieldProjectName = "project_name"
	FieldProjectID   = "project_id"

	MaxNameLength = 255
)

// # Messages

const (
	MsgCreated       = "Fabric created successfully"
	MsgUpdated       = "Fabric updated successfully"
	MsgDeleted       = "Fabric deleted successfully"
	MsgPinUpdated    = "Fabric pin status updated"
	MsgUsageRecorded = "Usage recorded successfully"
	MsgRequired      = "Name and total yards are required"
	MsgUsageRequired = "Yards used and project name are required"
)
