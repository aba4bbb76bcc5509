// Copyright (c) 2026 Vivi Sews. All rights reserved.

/*
Package account handles changes an account makes to itself: profile fields
(email, username, language) and the password.

An admin may make the same changes to another account. Every call re-reads
the caller from the database, so a demoted or suspended admin loses that
power immediately even if their token still says otherwise.

# Architecture

  - Domain: This package depends on the auth package for the User entity,
    its repository, and the credential rules.
*/
package account

// # Field Identifiers

const (
	FieldEmail           = "email"
	FieldUsername        = "username"
	FieldLanguage        = "language"
	FieldCurrentPassword = "currentPassword"
	FieldNewPassword     = "newPassword"
)

// # Messages

const (
	MsgProfileUpdated  = "Profile updated successfully"
	MsgPasswordChanged = "Password changed successfully"
	MsgNoUpdates       = "No valid updates provided"
	MsgWrongPassword   = "Current password is incorrect"
	MsgNotAllowed      = "You can only modify your own account"
)

// ProfileInput carries the optional profile fields. Nil or blank means unchanged.
type ProfileInput struct {
	Email    *string
	Username *string
	Language *string
}
