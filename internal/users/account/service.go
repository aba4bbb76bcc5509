// Copyright (c) 2026 Vivi Sews. All rights reserved.

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vivisews/vivisews/internal/platform/apperr"
	"github.com/vivisews/vivisews/internal/platform/sec"
	"github.com/vivisews/vivisews/internal/platform/validate"
	"github.com/vivisews/vivisews/internal/users/auth"
)

// # Service Layer

// Options configures a [Service]. Zero values fall back to defaults.
type Options struct {
	// Lockout is shared with login, so wrong current passwords count too.
	Lockout auth.LockoutPolicy
	Logger  *slog.Logger

	// Now replaces time.Now in tests.
	Now func() time.Time
}

// Service orchestrates profile and credential changes.
type Service struct {
	userRepository auth.UserRepository
	lockout        auth.LockoutPolicy
	logger         *slog.Logger
	now            func() time.Time
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(users auth.UserRepository, options Options) *Service {
	service := &Service{
		userRepository: users,
		lockout:        options.Lockout,
		logger:         options.Logger,
		now:            options.Now,
	}
	if service.logger == nil {
		service.logger = slog.Default()
	}
	if service.now == nil {
		service.now = time.Now
	}
	return service
}

// # Access Control

/*
authorize loads the target account and checks the caller may modify it.

The owner always may. Anyone else must be an active admin according to the
database, not the token.

Returns:
  - *auth.User: The target account
  - bool: true when the caller is the owner
  - error: Forbidden, NotFound, or storage errors
*/
func (service *Service) authorize(context context.Context, actorID, targetID string) (*auth.User, bool, error) {
	if actorID != targetID {
		actor, err := service.userRepository.FindByID(context, actorID)
		if err != nil {
			if apperr.HasCode(err, apperr.CodeNotFound) {
				return nil, false, apperr.Forbidden(MsgNotAllowed)
			}
			return nil, false, fmt.Errorf("account_service_load_actor_failed: %w", err)
		}
		if !actor.IsAdmin() || actor.Status != auth.StatusActive {
			return nil, false, apperr.Forbidden(MsgNotAllowed)
		}
	}

	target, err := service.userRepository.FindByID(context, targetID)
	if err != nil {
		return nil, false, err
	}
	return target, actorID == targetID, nil
}

// # Profile Management

/*
GetProfile returns the caller's own account.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The account, re-read from storage
  - error: NotFound when the account no longer exists
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	return service.userRepository.FindByID(context, userID)
}

/*
UpdateProfile applies a partial set of changes to an account.

Changed email and username go through the signup rules and must stay unique
among other live accounts. A request that changes nothing is rejected.

Parameters:
  - context: context.Context
  - actorID: string (the authenticated caller)
  - targetID: string (the account being modified)
  - input: ProfileInput

Returns:
  - *auth.User: The updated account
  - error: ValidationError, Forbidden, NotFound, Conflict, or storage errors
*/
func (service *Service) UpdateProfile(context context.Context, actorID, targetID string, input ProfileInput) (*auth.User, error) {
	changes, err := normalizeProfile(input)
	if err != nil {
		return nil, err
	}

	target, _, err := service.authorize(context, actorID, targetID)
	if err != nil {
		return nil, err
	}

	email, username := "", ""
	if changes.Email != nil {
		email = *changes.Email
	}
	if changes.Username != nil {
		username = *changes.Username
	}

	if err := auth.CheckAvailability(context, service.userRepository, email, username, target.ID); err != nil {
		return nil, err
	}

	user, err := service.userRepository.UpdateProfile(context, target.ID, changes)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "account_profile_updated",
		slog.String("user_id", target.ID),
		slog.String("actor_id", actorID),
	)
	return user, nil
}

// normalizeProfile folds, validates, and drops blank fields.
func normalizeProfile(input ProfileInput) (auth.ProfileChanges, error) {
	changes := auth.ProfileChanges{}
	validator := &validate.Validator{}

	if input.Email != nil && strings.TrimSpace(*input.Email) != "" {
		email := auth.Normalize(*input.Email)
		validator.MaxLen(FieldEmail, email, auth.MaxEmailLength).Email(FieldEmail, email)
		changes.Email = &email
	}

	if input.Username != nil && strings.TrimSpace(*input.Username) != "" {
		username := auth.Normalize(*input.Username)
		validator.
			MinLen(FieldUsername, username, auth.MinUsernameLength).
			MaxLen(FieldUsername, username, auth.MaxUsernameLength).
			Username(FieldUsername, username)
		changes.Username = &username
	}

	if input.Language != nil && strings.TrimSpace(*input.Language) != "" {
		language := auth.Language(strings.ToLower(strings.TrimSpace(*input.Language)))
		validator.OneOf(FieldLanguage, string(language), string(auth.LanguageEnglish), string(auth.LanguageSpanish))
		changes.Language = &language
	}

	if err := validator.Err(); err != nil {
		return changes, err
	}
	if changes.Empty() {
		return changes, apperr.ValidationError(MsgNoUpdates)
	}
	return changes, nil
}

// # Credentials

/*
ChangePassword replaces an account's password.

The owner must present the current password. Wrong guesses count toward the
login lockout, and a locked account cannot change its password until the
lock expires. An admin changing someone else's password does not need it.

Tokens issued before the change stop verifying, including the caller's.

Parameters:
  - context: context.Context
  - actorID: string
  - targetID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - error: ValidationError, Unauthorized, Forbidden, Locked, NotFound, or storage errors
*/
func (service *Service) ChangePassword(context context.Context, actorID, targetID, currentPassword, newPassword string) error {
	if err := auth.ValidatePassword(FieldNewPassword, newPassword); err != nil {
		return err
	}

	target, isOwner, err := service.authorize(context, actorID, targetID)
	if err != nil {
		return err
	}

	if isOwner {
		if err := service.confirmCurrentPassword(context, target, currentPassword); err != nil {
			return err
		}
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("account_service_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, target.ID, hashedPassword, service.now()); err != nil {
		return err
	}

	service.logger.InfoContext(context, "account_password_changed",
		slog.String("user_id", target.ID),
		slog.String("actor_id", actorID),
	)
	return nil
}

// confirmCurrentPassword checks the owner's password under the login lockout.
func (service *Service) confirmCurrentPassword(context context.Context, user *auth.User, password string) error {
	now := service.now()
	if remaining := auth.LockRemaining(user, now); remaining > 0 {
		return auth.LockedError(remaining)
	}

	if auth.CheckPassword(user, password) {
		return nil
	}

	failure := service.lockout.RegisterFailure(user.FailedLoginAttempts, now)
	if err := service.userRepository.RecordLoginFailure(context, user.ID, failure.Attempts, failure.LockedUntil); err != nil {
		return fmt.Errorf("account_service_record_failure_failed: %w", err)
	}

	if failure.Locked() {
		service.logger.WarnContext(context, "account_locked",
			slog.String("user_id", user.ID),
			slog.Int("failed_attempts", failure.Attempts),
		)
		return auth.LockedError(failure.LockedUntil.Sub(now))
	}
	return apperr.Unauthorized(MsgWrongPassword).
		WithMeta("attemptsRemaining", service.lockout.Remaining(failure.Attempts))
}
