// Copyright (c) 2026 Vivi Sews. All rights reserved.

package pattern

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vivisews/vivisews/internal/platform/apperr"
	"github.com/vivisews/vivisews/internal/platform/validate"
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

// List returns the owner's patterns, pinned first and then newest first.
func (service *Service) List(context context.Context, userID string) ([]*Pattern, error) {
	return service.repo.List(context, userID)
}

func (service *Service) Get(context context.Context, userID, id string) (*Pattern, error) {
	return service.repo.Get(context, userID, id)
}

func (service *Service) Create(context context.Context, userID string, input Input) (*Pattern, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, apperr.ValidationError(MsgNameRequired)
	}

	pattern := &Pattern{ID: uuid.New(), UserID: userID}
	if err := input.apply(pattern); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, pattern); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "pattern_created",
		slog.String("pattern_id", pattern.ID),
		slog.String("user_id", userID),
	)
	return pattern, nil
}

func (service *Service) Update(context context.Context, userID, id string, input Input) (*Pattern, error) {
	pattern, err := service.repo.Get(context, userID, id)
	if err != nil {
		return nil, err
	}

	if err := input.apply(pattern); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, pattern); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "pattern_updated", slog.String("pattern_id", id))
	return pattern, nil
}

func (service *Service) Delete(context context.Context, userID, id string) error {
	if err := service.repo.Delete(context, userID, id); err != nil {
		return err
	}

	service.logger.WarnContext(context, "pattern_deleted",
		slog.String("pattern_id", id),
		slog.String("user_id", userID),
	)
	return nil
}

func (service *Service) TogglePin(context context.Context, userID, id string) (bool, error) {
	return service.repo.TogglePin(context, userID, id)
}

// apply validates input and copies it onto pattern.
func (input Input) apply(pattern *Pattern) error {
	if input.Name != nil {
		pattern.Name = strings.TrimSpace(*input.Name)
	}
	if input.IsPinned != nil {
		pattern.IsPinned = *input.IsPinned
	}

	for target, value := range map[**string]*string{
		&pattern.Description:        input.Description,
		&pattern.Designer:           input.Designer,
		&pattern.PatternNumber:      input.PatternNumber,
		&pattern.Category:           input.Category,
		&pattern.Difficulty:         input.Difficulty,
		&pattern.SizeRange:          input.SizeRange,
		&pattern.FabricRequirements: input.FabricRequirements,
		&pattern.Notions:            input.Notions,
		&pattern.Instructions:       input.Instructions,
		&pattern.PDFURL:             input.PDFURL,
		&pattern.ThumbnailURL:       input.ThumbnailURL,
		&pattern.Notes:              input.Notes,
	} {
		if value != nil {
			*target = optional(*value)
		}
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, pattern.Name).MaxLen(FieldName, pattern.Name, MaxNameLength)
	if pattern.Category != nil {
		validator.OneOf(FieldCategory, *pattern.Category, Categories...)
	}
	if pattern.Difficulty != nil {
		validator.OneOf(FieldDifficulty, *pattern.Difficulty, Difficulties...)
	}
	return validator.Err()
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
