// Copyright (c) 2026 Vivi Sews. All rights reserved.

package auth

import (
	"context"
	"time"
)

// # Repository Contracts

// UserRepository persists accounts. Deleted accounts are invisible to every method.
//
// Lookups return apperr.NotFound when no row matches; Create and
// UpdateProfile return apperr.Conflict when a unique index is violated.
type UserRepository interface {
	// FindByLogin matches a normalized identifier against email or username.
	FindByLogin(ctx context.Context, identifier string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)

	// EmailTaken and UsernameTaken ignore the row with excludeID (empty to check all).
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
	Count(ctx context.Context) (int, error)

	Create(ctx context.Context, user *User) error

	RecordLoginFailure(ctx context.Context, id string, attempts int, lockedUntil *time.Time) error
	RecordLoginSuccess(ctx context.Context, id string, at time.Time) error
	ResetLockout(ctx context.Context, id string) (*User, error)

	UpdateProfile(ctx context.Context, id string, changes ProfileChanges) (*User, error)
	// UpdatePassword replaces the hash. Tokens issued before changedAt stop verifying.
	UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error

	// TransitionStatus moves an account from one of from to status and
	// returns it. NotFound when the account is missing or in another state.
	TransitionStatus(ctx context.Context, id string, from []Status, status Status) (*User, error)

	// DeletePending hard-deletes an account that is still pending.
	DeletePending(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error

	ListByStatus(ctx context.Context, status Status) ([]*User, error)
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
}

// RevocationStore remembers revoked token IDs until the token would have expired.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
