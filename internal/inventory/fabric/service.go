// Copyright (c) 2026 Vivi Sews. All rights reserved.

package fabric

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vivisews/vivisews/internal/platform/apperr"
	"github.com/vivisews/vivisews/internal/platform/events"
	"github.com/vivisews/vivisews/internal/platform/metrics"
	"github.com/vivisews/vivisews/internal/platform/validate"
	"github.com/vivisews/vivisews/pkg/pointer"
	"github.com/vivisews/vivisews/pkg/uuid"
)

// Options configures a [Service]. Zero values fall back to defaults.
type Options struct {
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// Service implements fabric inventory operations for one owner at a time.
type Service struct {
	repo      Repository
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, options Options) *Service {
	service := &Service{
		repo:      repo,
		publisher: options.Publisher,
		metrics:   options.Metrics,
		logger:    options.Logger,
	}
	if service.publisher == nil {
		service.publisher = events.Nop{}
	}
	if service.logger == nil {
		service.logger = slog.Default()
	}
	return service
}

// List returns the owner's fabrics, pinned first and then newest first.
func (service *Service) List(context context.Context, userID string) ([]*Fabric, error) {
	return service.repo.List(context, userID)
}

func (service *Service) Get(context context.Context, userID, id string) (*Fabric, error) {
	return service.repo.Get(context, userID, id)
}

/*
Create adds a fabric to the owner's stash.

Parameters:
  - context: context.Context
  - userID: string (owner)
  - input: Input (name and total_yards are required)

Returns:
  - *Fabric: The stored fabric
  - error: ValidationError or storage errors
*/
func (service *Service) Create(context context.Context, userID string, input Input) (*Fabric, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" || input.TotalYards == nil {
		return nil, apperr.ValidationError(MsgRequired)
	}

	fabric := &Fabric{ID: uuid.New(), UserID: userID}
	input.apply(fabric)

	validator := &validate.Validator{}
	validator.Positive(FieldTotalYards, fabric.TotalYards)
	validateFields(validator, fabric)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, fabric); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "fabric_created",
		slog.String("fabric_id", fabric.ID),
		slog.String("user_id", userID),
	)
	return fabric, nil
}

/*
Update applies a partial update. Fields left nil keep their stored values.

Remaining yardage may be set to zero here, unlike on create.
*/
func (service *Service) Update(context context.Context, userID, id string, input Input) (*Fabric, error) {
	fabric, err := service.repo.Get(context, userID, id)
	if err != nil {
		return nil, err
	}

	input.apply(fabric)

	validator := &validate.Validator{}
	validator.Required(FieldName, fabric.Name)
	validator.NonNegative(FieldTotalYards, &fabric.TotalYards)
	validateFields(validator, fabric)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, fabric); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "fabric_updated", slog.String("fabric_id", id))
	return fabric, nil
}

func (service *Service) Delete(context context.Context, userID, id string) error {
	if err := service.repo.Delete(context, userID, id); err != nil {
		return err
	}

	service.logger.WarnContext(context, "fabric_deleted",
		slog.String("fabric_id", id),
		slog.String("user_id", userID),
	)
	return nil
}

// TogglePin flips the pinned flag and returns its new value.
func (service *Service) TogglePin(context context.Context, userID, id string) (bool, error) {
	return service.repo.TogglePin(context, userID, id)
}

// # Usage

/*
RecordUsage takes yardage from a fabric.

When the fabric holds less than requested, the remaining yardage becomes zero
without an error, and the usage row still stores the requested amount.

Parameters:
  - context: context.Context
  - userID: string
  - fabricID: string
  - input: UsageInput (yards_used > 0 and project_name are required)

Returns:
  - *UsageResult: Yardage left on the fabric
  - error: ValidationError, NotFound, or storage errors
*/
func (service *Service) RecordUsage(context context.Context, userID, fabricID string, input UsageInput) (*UsageResult, error) {
	projectName := strings.TrimSpace(input.ProjectName)
	if input.YardsUsed == 0 || projectName == "" {
		return nil, apperr.ValidationError(MsgUsageRequired)
	}

	validator := &validate.Validator{}
	validator.Positive(FieldYardsUsed, input.YardsUsed).MaxLen(FieldProjectName, projectName, MaxNameLength)
	if input.ProjectID != nil {
		validator.UUID(FieldProjectID, *input.ProjectID)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	entry := &UsageEntry{
		ID:          uuid.New(),
		FabricID:    fabricID,
		UserID:      userID,
		ProjectID:   input.ProjectID,
		YardsUsed:   input.YardsUsed,
		ProjectName: projectName,
		Notes:       input.Notes,
	}

	result, err := service.repo.RecordUsage(context, entry)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("fabric_service_record_usage_failed: %w", err)
	}

	service.metrics.ObserveYardsUsed(result.YardsDeducted)
	if result.YardsDeducted < input.YardsUsed {
		service.logger.InfoContext(context, "fabric_usage_clamped",
			slog.String("fabric_id", fabricID),
			slog.Float64("yards_used", input.YardsUsed),
			slog.Float64("yards_deducted", result.YardsDeducted),
		)
	}
	events.Emit(context, service.publisher, service.logger, events.Event{
		Type:   events.FabricUsed,
		UserID: userID,
		Data: map[string]any{
			"fabric_id":  fabricID,
			"yards_used": input.YardsUsed,
			"yards_left": result.YardsLeft,
		},
	})
	return result, nil
}

// UsageHistory lists the owner's usage records, newest first.
func (service *Service) UsageHistory(context context.Context, userID string) ([]*UsageEntry, error) {
	return service.repo.UsageHistory(context, userID)
}

// # Helpers

func (input Input) apply(fabric *Fabric) {
	fabric.Name = strings.TrimSpace(pointer.Fallback(input.Name, fabric.Name))
	fabric.TotalYards = pointer.Fallback(input.TotalYards, fabric.TotalYards)
	fabric.IsPinned = pointer.Fallback(input.IsPinned, fabric.IsPinned)
	if input.CostPerYard != nil {
		fabric.CostPerYard = input.CostPerYard
	}
	if input.TotalCost != nil {
		fabric.TotalCost = input.TotalCost
	}

	for target, value := range map[**string]*string{
		&fabric.Type:         input.Type,
		&fabric.FiberContent: input.FiberContent,
		&fabric.Weight:       input.Weight,
		&fabric.Color:        input.Color,
		&fabric.Pattern:      input.Pattern,
		&fabric.Width:        input.Width,
		&fabric.Source:       input.Source,
		&fabric.Notes:        input.Notes,
		&fabric.ImageURL:     input.ImageURL,
	} {
		if value != nil {
			*target = optional(*value)
		}
	}
}

// optional turns a blank string into NULL.
func optional(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

func validateFields(validator *validate.Validator, fabric *Fabric) {
	validator.MaxLen(FieldName, fabric.Name, MaxNameLength)
	validator.NonNegative(FieldCostPerYard, fabric.CostPerYard)
	validator.NonNegative(FieldTotalCost, fabric.TotalCost)
}
