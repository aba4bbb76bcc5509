// Copyright (c) 2026 Vivi Sews. All rights reserved.

package project

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/vivisews/vivisews/internal/platform/apperr"
	"github.com/vivisews/vivisews/internal/platform/validate"
	"github.com/vivisews/vivisews/pkg/pointer"
	"github.com/vivisews/vivisews/pkg/uuid"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

func (service *Service) List(context context.Context, userID string) ([]*Project, error) {
	return service.repo.List(context, userID)
}

func (service *Service) Get(context context.Context, userID, id string) (*Project, error) {
	return service.repo.Get(context, userID, id)
}

// Create adds a project. Status defaults to planning.
func (service *Service) Create(context context.Context, userID string, input Input) (*Project, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, apperr.ValidationError(MsgNameRequired)
	}

	project := &Project{ID: uuid.New(), UserID: userID, Status: StatusPlanning}
	if err := input.apply(project); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, project); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "project_created",
		slog.String("project_id", project.ID),
		slog.String("user_id", userID),
	)
	return project, nil
}

// Update applies a partial update. Fields left nil keep their stored values.
func (service *Service) Update(context context.Context, userID, id string, input Input) (*Project, error) {
	project, err := service.repo.Get(context, userID, id)
	if err != nil {
		return nil, err
	}

	if err := input.apply(project); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, project); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "project_updated", slog.String("project_id", id))
	return project, nil
}

func (service *Service) Delete(context context.Context, userID, id string) error {
	if err := service.repo.Delete(context, userID, id); err != nil {
		return err
	}

	service.logger.WarnContext(context, "project_deleted",
		slog.String("project_id", id),
		slog.String("user_id", userID),
	)
	return nil
}

// apply validates input and copies it onto project.
func (input Input) apply(project *Project) error {
	validator := &validate.Validator{}

	project.Name = strings.TrimSpace(pointer.Fallback(input.Name, project.Name))
	validator.Required(FieldName, project.Name).MaxLen(FieldName, project.Name, MaxNameLength)

	project.Status = Status(strings.TrimSpace(pointer.Fallback(input.Status, string(project.Status))))
	validator.OneOf(FieldStatus, string(project.Status), Statuses...)

	if input.TargetDate != nil {
		raw := strings.TrimSpace(*input.TargetDate)
		if raw == "" {
			project.TargetDate = nil
		} else if date, err := time.Parse(DateLayout, raw); err != nil {
			validator.Custom(FieldTargetDate, true, "Must be a date in YYYY-MM-DD format")
		} else {
			project.TargetDate = &date
		}
	}

	if input.Description != nil {
		project.Description = optional(*input.Description)
	}
	if input.ImageURL != nil {
		project.ImageURL = optional(*input.ImageURL)
	}
	if input.Notes != nil {
		project.Notes = optional(*input.Notes)
	}

	return validator.Err()
}

func optional(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
