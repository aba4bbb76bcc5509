// Copyright (c) 2026 Vivi Sews. All rights reserved.

/*
Package auth implements account identity: signup, login with lockout, and
token revocation on logout.

# Architecture

  - user.go: the Account entity, its status and identifier normalization.
  - lockout.go: pure rules for failed-attempt counting and lock windows.
  - service.go: orchestrates the state machine over a [UserRepository].
  - store_postgres.go / store_redis.go: persistence and the revocation list.
  - http.go: the /api/auth public endpoints.

Account state always lives in PostgreSQL and is re-read on every call.
*/
package auth

import (
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/vivisews/vivisews/internal/platform/sec"
)

// # Domain Entities

// Status is the lifecycle state of an account.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Language is the UI language preference.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
)

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageSpanish
}

// User is a vivi.sews account.
type User struct {
	ID                  string       `json:"id"`
	Email               string       `json:"email"`
	Username            string       `json:"username"`
	PasswordHash        string       `json:"-"`
	Role                sec.UserRole `json:"role"`
	Status              Status       `json:"status"`
	Language            Language     `json:"language"`
	IsEmailVerified     bool         `json:"is_email_verified"`
	FailedLoginAttempts int          `json:"failed_login_attempts"`
	LockedUntil         *time.Time   `json:"locked_until,omitempty"`
	LastLogin           *time.Time   `json:"last_login,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
	PasswordChangedAt   *time.Time   `json:"-"`
}

// IsAdmin reports whether the account holds the admin role.
func (user *User) IsAdmin() bool {
	return user.Role == sec.RoleAdmin
}

// ProfileChanges carries the optional fields of a profile update. Nil means unchanged.
type ProfileChanges struct {
	Email    *string
	Username *string
	Language *Language
}

// Empty reports whether no field is set.
func (changes ProfileChanges) Empty() bool {
	return changes.Email == nil && changes.Username == nil && changes.Language == nil
}

// # Identifiers

var folder = cases.Fold()

// Normalize trims and Unicode case-folds an email, username, or login identifier.
// Stored emails and usernames are always in this form.
func Normalize(identifier string) string {
	return folder.String(strings.TrimSpace(identifier))
}
