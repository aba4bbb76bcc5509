// Copyright (c) 2026 Vivi Sews. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vivisews/vivisews/internal/platform/apperr"
	"github.com/vivisews/vivisews/internal/platform/database/schema"
	"github.com/vivisews/vivisews/internal/platform/dberr"
	"github.com/vivisews/vivisews/pkg/slice"
)

// # User Repository

// userColumns is the projection shared by every query returning a [User].
var userColumns = schema.List(schema.UserAccount.Columns())

// PostgresUserRepository implements [UserRepository] on the users table.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
		&user.Language,
		&user.IsEmailVerified,
		&user.FailedLoginAttempts,
		&user.LockedUntil,
		&user.LastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.PasswordChangedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func collectUsers(rows pgx.Rows) ([]*User, error) {
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// wrapUserError maps unique violations to the message registration shows.
func wrapUserError(err error, action string) error {
	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict(MsgIdentityTaken).WithCause(err)
	}
	return dberr.Wrap(err, "User", action)
}

/*
FindByLogin resolves an email or username in one query.

Parameters:
  - context: context.Context
  - identifier: string (already normalized)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByLogin(context context.Context, identifier string) (*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE (email = $1 OR username = $1) AND deleted_at IS NULL
		LIMIT 1`

	user, err := scanUser(repository.pool.QueryRow(context, query, identifier))
	if err != nil {
		return nil, wrapUserError(err, "user_find_by_login")
	}
	return user, nil
}

// FindByID retrieves a live account by its ID.
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, wrapUserError(err, "user_find_by_id")
	}
	return user, nil
}

// EmailTaken reports whether a live account other than excludeID uses email.
func (repository *PostgresUserRepository) EmailTaken(context context.Context, email, excludeID string) (bool, error) {
	return repository.exists(context, "email", email, excludeID)
}

// UsernameTaken reports whether a live account other than excludeID uses username.
func (repository *PostgresUserRepository) UsernameTaken(context context.Context, username, excludeID string) (bool, error) {
	return repository.exists(context, "username", username, excludeID)
}

func (repository *PostgresUserRepository) exists(context context.Context, column, value, excludeID string) (bool, error) {
	// column is one of two constants above, never caller input.
	query := fmt.Sprintf(`SELECT EXISTS (
		SELECT 1 FROM users
		WHERE %s = $1 AND deleted_at IS NULL AND ($2 = '' OR id::text <> $2)
	)`, column)

	var exists bool
	if err := repository.pool.QueryRow(context, query, value, excludeID).Scan(&exists); err != nil {
		return false, wrapUserError(err, "user_exists_"+column)
	}
	return exists, nil
}

// Count returns the number of live accounts.
func (repository *PostgresUserRepository) Count(context context.Context) (int, error) {
	var count int
	err := repository.pool.QueryRow(context, `SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`).Scan(&count)
	if err != nil {
		return 0, wrapUserError(err, "user_count")
	}
	return count, nil
}

/*
Create persists a new account.

Timestamps are set by the database and written back into user.
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users (id, email, username, password_hash, role, status, language, is_email_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := repository.pool.QueryRow(context, query,
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.Language,
		user.IsEmailVerified,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return wrapUserError(err, "user_create")
	}
	return nil
}

// # Login Bookkeeping

// RecordLoginFailure stores the new failure count and, when set, the lock expiry.
func (repository *PostgresUserRepository) RecordLoginFailure(context context.Context, id string, attempts int, lockedUntil *time.Time) error {
	const query = `
		UPDATE users
		SET failed_login_attempts = $2, locked_until = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return repository.execOne(context, "user_record_login_failure", query, id, attempts, lockedUntil)
}

// RecordLoginSuccess clears the counter and lock and stamps last_login.
func (repository *PostgresUserRepository) RecordLoginSuccess(context context.Context, id string, at time.Time) error {
	const query = `
		UPDATE users
		SET failed_login_attempts = 0, locked_until = NULL, last_login = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return repository.execOne(context, "user_record_login_success", query, id, at)
}

// ResetLockout clears the counter and lock without touching last_login.
func (repository *PostgresUserRepository) ResetLockout(context context.Context, id string) (*User, error) {
	query := `
		UPDATE users
		SET failed_login_attempts = 0, locked_until = NULL, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + userColumns

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, wrapUserError(err, "user_reset_lockout")
	}
	return user, nil
}

// # Profile & Credentials

/*
UpdateProfile applies the non-nil fields of changes.

Returns:
  - *User: The updated account
  - error: apperr.NotFound, apperr.Conflict, or database errors
*/
func (repository *PostgresUserRepository) UpdateProfile(context context.Context, id string, changes ProfileChanges) (*User, error) {
	assignments := []string{}
	arguments := []any{id}

	add := func(column string, value any) {
		arguments = append(arguments, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(arguments)))
	}

	if changes.Email != nil {
		add("email", *changes.Email)
	}
	if changes.Username != nil {
		add("username", *changes.Username)
	}
	if changes.Language != nil {
		add("language", *changes.Language)
	}

	if len(assignments) == 0 {
		return repository.FindByID(context, id)
	}

	query := `UPDATE users SET ` + strings.Join(assignments, ", ") + `, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + userColumns

	user, err := scanUser(repository.pool.QueryRow(context, query, arguments...))
	if err != nil {
		return nil, wrapUserError(err, "user_update_profile")
	}
	return user, nil
}

// UpdatePassword replaces the stored hash and records when it changed.
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, id, passwordHash string, changedAt time.Time) error {
	const query = `
		UPDATE users
		SET password_hash = $2, password_changed_at = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`
	return repository.execOne(context, "user_update_password", query, id, passwordHash, changedAt)
}

// # Lifecycle

// TransitionStatus performs a compare-and-set on the status column.
func (repository *PostgresUserRepository) TransitionStatus(context context.Context, id string, from []Status, status Status) (*User, error) {
	allowed := slice.Map(from, func(value Status) string { return string(value) })

	query := `
		UPDATE users
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL AND status = ANY($3)
		RETURNING ` + userColumns

	user, err := scanUser(repository.pool.QueryRow(context, query, id, status, allowed))
	if err != nil {
		return nil, wrapUserError(err, "user_transition_status")
	}
	return user, nil
}

// DeletePending removes a pending account permanently.
func (repository *PostgresUserRepository) DeletePending(context context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1 AND status = 'pending' AND deleted_at IS NULL`
	return repository.execOne(context, "user_delete_pending", query, id)
}

// SoftDelete hides an account from every query.
func (repository *PostgresUserRepository) SoftDelete(context context.Context, id string) error {
	const query = `UPDATE users SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	return repository.execOne(context, "user_soft_delete", query, id)
}

// # Listing

// ListByStatus returns live accounts in status, oldest first.
func (repository *PostgresUserRepository) ListByStatus(context context.Context, status Status) ([]*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE status = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC, id ASC`

	rows, err := repository.pool.Query(context, query, status)
	if err != nil {
		return nil, wrapUserError(err, "user_list_by_status")
	}

	users, err := collectUsers(rows)
	if err != nil {
		return nil, wrapUserError(err, "user_list_by_status_scan")
	}
	return users, nil
}

// List returns one page of live accounts, newest first, and the total count.
func (repository *PostgresUserRepository) List(context context.Context, limit, offset int) ([]*User, int, error) {
	total, err := repository.Count(context)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + `
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, wrapUserError(err, "user_list")
	}

	users, err := collectUsers(rows)
	if err != nil {
		return nil, 0, wrapUserError(err, "user_list_scan")
	}
	return users, total, nil
}

// execOne runs a statement that must affect exactly one live account.
func (repository *PostgresUserRepository) execOne(context context.Context, action, query string, arguments ...any) error {
	tag, err := repository.pool.Exec(context, query, arguments...)
	if err != nil {
		return wrapUserError(err, action)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}
