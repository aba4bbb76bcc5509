// Copyright (c) 2026 Vivi Sews. All rights reserved.

package schema

// UserAccountTable represents the 'users' table
type UserAccountTable struct {
	Table               string
	ID                  string
	Email               string
	Username            string
	PasswordHash        string
	Role                string
	Status              string
	Language            string
	IsEmailVerified     string
	FailedLoginAttempts string
	LockedUntil         string
	LastLogin           string
	CreatedAt           string
	UpdatedAt           string
	PasswordChangedAt   string
	DeletedAt           string
}

// UserAccount is the schema definition for users
var UserAccount = UserAccountTable{
	Table:               "users",
	ID:                  "id",
	Email:               "email",
	Username:            "username",
	PasswordHash:        "password_hash",
	Role:                "role",
	Status:              "status",
	Language:            "language",
	IsEmailVerified:     "is_email_verified",
	FailedLoginAttempts: "failed_login_attempts",
	LockedUntil:         "locked_until",
	LastLogin:           "last_login",
	CreatedAt:           "created_at",
	UpdatedAt:           "updated_at",
	PasswordChangedAt:   "password_changed_at",
	DeletedAt:           "deleted_at",
}

// Columns returns the projection of a live account, in scan order.
// DeletedAt is left out; every query filters on it instead.
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Username, t.PasswordHash, t.Role, t.Status, t.Language,
		t.IsEmailVerified, t.FailedLoginAttempts, t.LockedUntil, t.LastLogin,
		t.CreatedAt, t.UpdatedAt, t.PasswordChangedAt,
	}
}
