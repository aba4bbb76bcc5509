// Copyright (c) 2026 Vivi Sews. All rights reserved.

// Package project manages a user's sewing projects.
package project

import "time"

// Status is the progress of a project.
type Status string

const (
	StatusPlanning   Status = "planning"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on-hold"
)

// Statuses lists every valid [Status].
var Statuses = []string{
	string(StatusPlanning), string(StatusInProgress), string(StatusCompleted), string(StatusOnHold),
}

// Project is one sewing project owned by a user.
type Project struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Status      Status     `json:"status"`
	ImageURL    *string    `json:"image_url"`
	TargetDate  *time.Time `json:"target_date"`
	Notes       *string    `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Input carries the writable fields. On update, nil keeps the stored value.
// TargetDate is a calendar date in YYYY-MM-DD form; an empty string clears it.
type Input struct {
	Name        *string
	Description *string
	Status      *string
	ImageURL    *string
	TargetDate  *string
	Notes       *string
}

const (
	FieldName       = "name"
	FieldStatus     = "status"
	FieldTargetDate = "target_date"

	MaxNameLength = 255
	DateLayout    = time.DateOnly
)

const (
	MsgCreated      = "Project created successfully"
	MsgUpdated      = "Project updated successfully"
	MsgDeleted      = "Project deleted successfully"
	MsgNameRequired = "Project name is required"
)
