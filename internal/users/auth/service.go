// Copyright (c) 2026 Vivi Sews. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/vivisews/vivisews/internal/platform/apperr"
	"github.com/vivisews/vivisews/internal/platform/config"
	"github.com/vivisews/vivisews/internal/platform/events"
	"github.com/vivisews/vivisews/internal/platform/metrics"
	"github.com/vivisews/vivisews/internal/platform/sec"
	"github.com/vivisews/vivisews/internal/platform/validate"
	"github.com/vivisews/vivisews/pkg/uuid"
)

// # Contracts & Types

// TokenProvider issues and verifies signed access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
	VerifyToken(token string) (*sec.AuthClaims, error)
}

// Options configures a [Service]. Zero values fall back to defaults.
type Options struct {
	SignupPolicy config.SignupPolicy
	AllowSignups bool
	TokenTTL     time.Duration
	Lockout      LockoutPolicy

	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Logger    *slog.Logger

	// Now replaces time.Now in tests.
	Now func() time.Time
}

// Service implements the account state machine.
type Service struct {
	userRepository  UserRepository
	revocationStore RevocationStore
	tokenProvider   TokenProvider

	signupPolicy config.SignupPolicy
	allowSignups bool
	tokenTTL     time.Duration
	lockout      LockoutPolicy

	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(users UserRepository, revocations RevocationStore, tokens TokenProvider, options Options) *Service {
	service := &Service{
		userRepository:  users,
		revocationStore: revocations,
		tokenProvider:   tokens,
		signupPolicy:    options.SignupPolicy,
		allowSignups:    options.AllowSignups,
		tokenTTL:        options.TokenTTL,
		lockout:         options.Lockout.normalized(),
		publisher:       options.Publisher,
		metrics:         options.Metrics,
		logger:          options.Logger,
		now:             options.Now,
	}

	if !service.signupPolicy.Valid() {
		service.signupPolicy = config.SignupApproval
	}
	if service.tokenTTL <= 0 {
		service.tokenTTL = 24 * time.Hour
	}
	if service.publisher == nil {
		service.publisher = events.Nop{}
	}
	if service.logger == nil {
		service.logger = slog.Default()
	}
	if service.now == nil {
		service.now = time.Now
	}
	return service
}

// # Registration Flow

// RegisterInput holds the signup form.
type RegisterInput struct {
	Email           string
	Username        string
	Password        string
	ConfirmPassword *string
}

// RegisterResult is the created account and the message shown to the user.
type RegisterResult struct {
	User    *User
	Message string
}

// ValidateCredentials applies the signup rules to already normalized values.
// It is shared with profile updates and admin account creation.
func ValidateCredentials(email, username, password string, checkPassword bool) error {
	validator := &validate.Validator{}

	validator.Required(FieldEmail, email)
	if email != "" {
		validator.MaxLen(FieldEmail, email, MaxEmailLength).Email(FieldEmail, email)
	}

	validator.Required(FieldUsername, username)
	if username != "" {
		validator.
			MinLen(FieldUsername, username, MinUsernameLength).
			MaxLen(FieldUsername, username, MaxUsernameLength).
			Username(FieldUsername, username)
	}

	if checkPassword {
		passwordRule(validator, FieldPassword, password)
	}
	return validator.Err()
}

// ValidatePassword checks the password length rule for the given field.
func ValidatePassword(field, password string) error {
	validator := &validate.Validator{}
	passwordRule(validator, field, password)
	return validator.Err()
}

func passwordRule(validator *validate.Validator, field, password string) {
	validator.Custom(field, utf8.RuneCountInString(password) < MinPasswordLength,
		fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
}

/*
Register validates, hashes, and persists a brand new account.

The role and status depend on the signup policy: pending by default, an
active admin for the first account under first_admin, active under open.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *RegisterResult: Created account (without hash) and message
  - error: Forbidden, ValidationError, Conflict, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*RegisterResult, error) {
	if !service.allowSignups {
		return nil, apperr.Forbidden(MsgSignupsDisabled)
	}

	email := Normalize(input.Email)
	username := Normalize(input.Username)

	if err := ValidateCredentials(email, username, input.Password, true); err != nil {
		return nil, err
	}
	if input.ConfirmPassword != nil && *input.ConfirmPassword != input.Password {
		return nil, apperr.ValidationError(FieldConfirmPassword+": Passwords do not match",
			apperr.FieldError{Field: FieldConfirmPassword, Message: "Passwords do not match"})
	}

	if err := CheckAvailability(context, service.userRepository, email, username, ""); err != nil {
		return nil, err
	}

	role, status, verified, message, err := service.admission(context)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:              uuid.New(),
		Email:           email,
		Username:        username,
		PasswordHash:    hashedPassword,
		Role:            role,
		Status:          status,
		Language:        LanguageEnglish,
		IsEmailVerified: verified,
	}

	// A racing signup with the same identity trips the unique index and surfaces as Conflict.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.metrics.ObserveRegistration(string(status))
	events.Emit(context, service.publisher, service.logger, events.Event{
		Type:   events.AccountRegistered,
		UserID: user.ID,
		Data:   map[string]any{"status": status, "role": role},
	})

	return &RegisterResult{User: user, Message: message}, nil
}

// admission decides the role and status of a new signup.
func (service *Service) admission(context context.Context) (sec.UserRole, Status, bool, string, error) {
	switch service.signupPolicy {
	case config.SignupOpen:
		return sec.RoleUser, StatusActive, false, MsgCreatedActive, nil

	case config.SignupFirstAdmin:
		count, err := service.userRepository.Count(context)
		if err != nil {
			return "", "", false, "", err
		}
		if count == 0 {
			return sec.RoleAdmin, StatusActive, true, MsgCreatedAdmin, nil
		}
	}
	return sec.RoleUser, StatusPending, false, MsgCreatedPending, nil
}

// CheckAvailability returns Conflict when email or username belongs to a
// live account other than excludeID. Empty values are skipped.
func CheckAvailability(context context.Context, users UserRepository, email, username, excludeID string) error {
	if email != "" {
		taken, err := users.EmailTaken(context, email, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict(conflictMessage(excludeID, MsgEmailTaken))
		}
	}

	if username != "" {
		taken, err := users.UsernameTaken(context, username, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict(conflictMessage(excludeID, MsgUsernameTaken))
		}
	}
	return nil
}

// conflictMessage keeps signup from revealing which identifier matched.
func conflictMessage(excludeID, specific string) string {
	if excludeID == "" {
		return MsgIdentityTaken
	}
	return specific
}

// # Authentication Flow

// LoginInput holds the credentials of one attempt.
type LoginInput struct {
	Identifier string
	Password   string
}

// LoginResult is a successful authentication.
type LoginResult struct {
	Token string
	User  *User
}

/*
Login runs one authentication attempt against the stored account state.

Checks run in order: existence, active lock, suspension, pending approval,
then the password. Every counter change is persisted before returning, and
a token is issued only on success.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: Token and account on success
  - error: ValidationError, Unauthorized, Forbidden, Locked, or storage errors
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	identifier := Normalize(input.Identifier)
	if identifier == "" || input.Password == "" {
		return nil, apperr.ValidationError(MsgCredentialsRequired)
	}

	user, err := service.userRepository.FindByLogin(context, identifier)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			// Compare against a dummy hash so a missing account costs the same as a wrong password.
			sec.CheckPasswordHash(input.Password, dummyHash())
			service.metrics.ObserveLogin(metrics.ResultInvalid)
			return nil, apperr.Unauthorized(MsgInvalidCredentials)
		}
		service.metrics.ObserveLogin(metrics.ResultError)
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	now := service.now()

	if remaining := LockRemaining(user, now); remaining > 0 {
		service.metrics.ObserveLogin(metrics.ResultLocked)
		return nil, errStillLocked(remaining)
	}

	switch user.Status {
	case StatusSuspended:
		service.metrics.ObserveLogin(metrics.ResultBlocked)
		return nil, apperr.Forbidden(MsgSuspended)
	case StatusPending:
		service.metrics.ObserveLogin(metrics.ResultPending)
		return nil, apperr.Forbidden(MsgPending)
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, service.recordFailure(context, user, now)
	}

	if err := service.userRepository.RecordLoginSuccess(context, user.ID, now); err != nil {
		return nil, fmt.Errorf("auth_service_login_success_failed: %w", err)
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role), service.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLogin = &now

	service.metrics.ObserveLogin(metrics.ResultSuccess)
	return &LoginResult{Token: token, User: user}, nil
}

// recordFailure persists one more failed attempt and returns the error to show.
func (service *Service) recordFailure(context context.Context, user *User, now time.Time) error {
	failure := service.lockout.RegisterFailure(user.FailedLoginAttempts, now)

	if err := service.userRepository.RecordLoginFailure(context, user.ID, failure.Attempts, failure.LockedUntil); err != nil {
		return fmt.Errorf("auth_service_login_failure_failed: %w", err)
	}

	if failure.Locked() {
		service.metrics.ObserveLogin(metrics.ResultLocked)
		service.logger.WarnContext(context, "account_locked",
			slog.String("user_id", user.ID),
			slog.Int("failed_attempts", failure.Attempts),
		)
		events.Emit(context, service.publisher, service.logger, events.Event{
			Type:   events.AccountLocked,
			UserID: user.ID,
			Data:   map[string]any{"locked_until": failure.LockedUntil},
		})
		return errNewlyLocked(service.lockout.Duration)
	}

	service.metrics.ObserveLogin(metrics.ResultInvalid)
	return errWrongPassword(service.lockout.Remaining(failure.Attempts))
}

// dummyHash is computed once, at [sec.PasswordCost], for the missing-account path.
var dummyHash = sync.OnceValue(func() string {
	hash, _ := sec.HashPassword(uuid.New())
	return hash
})

// # Session Management

/*
Logout revokes the presented token until it would have expired.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims (already verified by the middleware)

Returns:
  - error: Revocation store failures
*/
func (service *Service) Logout(context context.Context, claims *sec.AuthClaims) error {
	if claims == nil || claims.ID == "" {
		return apperr.Unauthorized("Invalid or expired token")
	}

	ttl := time.Hour
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(service.now())
	}

	if err := service.revocationStore.Revoke(context, claims.ID, ttl); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

/*
VerifyToken checks the signature and expiry, then the revocation list, then
the stored account, so a suspension or deletion applies to tokens already issued.

Returns:
  - *sec.AuthClaims: Verified claims, with the role as currently stored
  - error: Unauthorized for rejected tokens, a missing account, or a token
    older than the last password change. Forbidden for an inactive account.
    Internal when a store is unreachable.
*/
func (service *Service) VerifyToken(context context.Context, token string) (*sec.AuthClaims, error) {
	claims, err := service.tokenProvider.VerifyToken(token)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token").WithCause(err)
	}

	if claims.ID == "" {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	revoked, err := service.revocationStore.IsRevoked(context, claims.ID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_revocation_check_failed: %w", err))
	}
	if revoked {
		return nil, apperr.Unauthorized("Token has been revoked")
	}

	user, err := service.userRepository.FindByID(context, claims.UserID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized(MsgAccountGone)
		}
		return nil, apperr.Internal(fmt.Errorf("auth_service_load_account_failed: %w", err))
	}

	switch user.Status {
	case StatusActive:
	case StatusSuspended:
		return nil, apperr.Forbidden(MsgSuspended)
	default:
		return nil, apperr.Forbidden(MsgPending)
	}

	if IssuedBeforePasswordChange(claims, user) {
		return nil, apperr.Unauthorized(MsgPasswordChanged)
	}

	claims.Role = string(user.Role)
	return claims, nil
}

// # Shared Helpers

// CheckPassword compares password to the account's hash.
func CheckPassword(user *User, password string) bool {
	return sec.CheckPasswordHash(password, user.PasswordHash)
}

// IssuedBeforePasswordChange reports whether the token predates the account's
// last password change. JWT times are whole seconds, so a token minted in the
// same second as the change is still accepted.
func IssuedBeforePasswordChange(claims *sec.AuthClaims, user *User) bool {
	if user.PasswordChangedAt == nil || claims.IssuedAt == nil {
		return false
	}
	return claims.IssuedAt.Time.Before(user.PasswordChangedAt.Truncate(time.Second))
}
