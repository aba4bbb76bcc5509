// Copyright (c) 2026 Vivi Sews. All rights reserved.

package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vivisews/vivisews/internal/platform/apperr"
	"github.com/vivisews/vivisews/internal/platform/events"
	"github.com/vivisews/vivisews/internal/platform/metrics"
	"github.com/vivisews/vivisews/internal/platform/sec"
	"github.com/vivisews/vivisews/internal/users/auth"
	"github.com/vivisews/vivisews/pkg/pagination"
	"github.com/vivisews/vivisews/pkg/uuid"
)

// Options configures a [Service]. Zero values fall back to defaults.
type Options struct {
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// Service implements the admin operations on accounts.
type Service struct {
	userRepository auth.UserRepository
	publisher      events.Publisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

// NewService constructs a new [Service].
func NewService(users auth.UserRepository, options Options) *Service {
	service := &Service{
		userRepository: users,
		publisher:      options.Publisher,
		metrics:        options.Metrics,
		logger:         options.Logger,
	}
	if service.publisher == nil {
		service.publisher = events.Nop{}
	}
	if service.logger == nil {
		service.logger = slog.Default()
	}
	return service
}

// # Caller Check

// requireAdmin re-reads the caller and refuses anyone who is not an active admin.
func (service *Service) requireAdmin(context context.Context, callerID string) error {
	caller, err := service.userRepository.FindByID(context, callerID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return apperr.Forbidden(MsgAdminRequired)
		}
		return fmt.Errorf("admin_service_load_caller_failed: %w", err)
	}
	if !caller.IsAdmin() || caller.Status != auth.StatusActive {
		return apperr.Forbidden(MsgAdminRequired)
	}
	return nil
}

// record logs, counts, and publishes one completed admin action.
func (service *Service) record(context context.Context, action, eventType, callerID, userID string) {
	service.metrics.ObserveTransition(action)
	service.logger.InfoContext(context, "admin_action",
		slog.String("action", action),
		slog.String("user_id", userID),
		slog.String("actor_id", callerID),
	)
	events.Emit(context, service.publisher, service.logger, events.Event{
		Type:    eventType,
		UserID:  userID,
		ActorID: callerID,
	})
}

// # Listing

// ListPending returns accounts awaiting approval, oldest first.
func (service *Service) ListPending(context context.Context, callerID string) ([]*auth.User, error) {
	if err := service.requireAdmin(context, callerID); err != nil {
		return nil, err
	}
	return service.userRepository.ListByStatus(context, auth.StatusPending)
}

/*
ListUsers returns one page of live accounts, newest first.

Parameters:
  - context: context.Context
  - callerID: string
  - params: pagination.Params

Returns:
  - []*auth.User: The page
  - pagination.Meta: Page metadata including the total count
  - error: Forbidden or storage errors
*/
func (service *Service) ListUsers(context context.Context, callerID string, params pagination.Params) ([]*auth.User, pagination.Meta, error) {
	if err := service.requireAdmin(context, callerID); err != nil {
		return nil, pagination.Meta{}, err
	}

	users, total, err := service.userRepository.List(context, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return users, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// # Approval

/*
Approve activates a pending account.

An account that is missing or not pending yields NotFound and nothing changes.
*/
func (service *Service) Approve(context context.Context, callerID, userID string) (*auth.User, error) {
	if err := service.requireAdmin(context, callerID); err != nil {
		return nil, err
	}

	user, err := service.userRepository.TransitionStatus(context, userID,
		[]auth.Status{auth.StatusPending}, auth.StatusActive)
	if err != nil {
		return nil, err
	}

	service.record(context, ActionApprove, events.AccountApproved, callerID, userID)
	return user, nil
}

// Reject hard-deletes a pending account. Any other account yields NotFound.
func (service *Service) Reject(context context.Context, callerID, userID string) error {
	if err := service.requireAdmin(context, callerID); err != nil {
		return err
	}

	if err := service.userRepository.DeletePending(context, userID); err != nil {
		return err
	}

	service.record(context, ActionReject, events.AccountRejected, callerID, userID)
	return nil
}

// # Moderation

/*
Suspend blocks an active account from logging in.

Suspending an already suspended account succeeds without change. A pending
account must be approved or rejected instead, and admins cannot suspend
themselves. The lockout counters are left alone.
*/
func (service *Service) Suspend(context context.Context, callerID, userID string) (*auth.User, error) {
	if err := service.requireAdmin(context, callerID); err != nil {
		return nil, err
	}
	if callerID == userID {
		return nil, apperr.Forbidden(MsgSelfSuspend)
	}
	return service.moderate(context, callerID, userID, auth.StatusSuspended, ActionSuspend, events.AccountSuspended)
}

// Activate lifts a suspension. Activating an active account succeeds without change.
func (service *Service) Activate(context context.Context, callerID, userID string) (*auth.User, error) {
	if err := service.requireAdmin(context, callerID); err != nil {
		return nil, err
	}
	return service.moderate(context, callerID, userID, auth.StatusActive, ActionActivate, events.AccountActivated)
}

func (service *Service) moderate(context context.Context, callerID, userID string, status auth.Status, action, eventType string) (*auth.User, error) {
	target, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	switch target.Status {
	case auth.StatusPending:
		return nil, apperr.Conflict(MsgPendingAccount)
	case status:
		return target, nil
	}

	// Guarded on the previous state so a concurrent approve or reject cannot be overwritten.
	user, err := service.userRepository.TransitionStatus(context, userID, []auth.Status{target.Status}, status)
	if err != nil {
		return nil, err
	}

	service.record(context, action, eventType, callerID, userID)
	return user, nil
}

// Unlock clears the failed attempt counter and any lock.
func (service *Service) Unlock(context context.Context, callerID, userID string) (*auth.User, error) {
	if err := service.requireAdmin(context, callerID); err != nil {
		return nil, err
	}

	user, err := service.userRepository.ResetLockout(context, userID)
	if err != nil {
		return nil, err
	}

	service.record(context, ActionUnlock, events.AccountUnlocked, callerID, userID)
	return user, nil
}

// DeleteUser soft-deletes an account. Admins cannot delete themselves.
func (service *Service) DeleteUser(context context.Context, callerID, userID string) error {
	if err := service.requireAdmin(context, callerID); err != nil {
		return err
	}
	if callerID == userID {
		return apperr.Forbidden(MsgSelfDelete)
	}

	if err := service.userRepository.SoftDelete(context, userID); err != nil {
		return err
	}

	service.record(context, ActionDelete, events.AccountDeleted, callerID, userID)
	return nil
}

// # Account Creation

/*
CreateAdmin creates an active, verified admin account.

The same validation and uniqueness rules as signup apply, and the signup
policy is ignored.

Parameters:
  - context: context.Context
  - callerID: string
  - input: CreateAdminInput

Returns:
  - *auth.User: The new admin (without hash)
  - error: Forbidden, ValidationError, Conflict, or storage errors
*/
func (service *Service) CreateAdmin(context context.Context, callerID string, input CreateAdminInput) (*auth.User, error) {
	if err := service.requireAdmin(context, callerID); err != nil {
		return nil, err
	}

	email := auth.Normalize(input.Email)
	username := auth.Normalize(input.Username)

	if err := auth.ValidateCredentials(email, username, input.Password, true); err != nil {
		return nil, err
	}
	if err := auth.CheckAvailability(context, service.userRepository, email, username, ""); err != nil {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("admin_service_hash_failed: %w", err)
	}

	user := &auth.User{
		ID:              uuid.New(),
		Email:           email,
		Username:        username,
		PasswordHash:    hashedPassword,
		Role:            sec.RoleAdmin,
		Status:          auth.StatusActive,
		Language:        auth.LanguageEnglish,
		IsEmailVerified: true,
	}
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.record(context, ActionCreateAdmin, events.AdminCreated, callerID, user.ID)
	return user, nil
}
