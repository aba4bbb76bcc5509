// Copyright (c) 2026 Vivi Sews. All rights reserved.

package auth

import "time"

// # Lockout Defaults

const (
	// DefaultMaxLoginAttempts is the number of consecutive failures that locks an account.
	DefaultMaxLoginAttempts = 5

	// DefaultLockoutDuration is how long a locked account refuses logins.
	DefaultLockoutDuration = 15 * time.Minute
)

// # Credential Rules

const (
	MinPasswordLength = 6
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MaxEmailLength    = 255
)

// # Field Identifiers

const (
	FieldEmail           = "email"
	FieldUsername        = "username"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldLogin           = "emailOrUsername"
	FieldLanguage        = "language"
	FieldCurrentPassword = "currentPassword"
	FieldNewPassword     = "newPassword"
)

// # Messages

const (
	MsgCredentialsRequired = "Email/username and password are required"
	MsgInvalidCredentials  = "Invalid credentials"
	MsgSuspended           = "Account has been suspended"
	MsgPending             = "Account is pending approval"
	MsgAccountGone         = "Account no longer exists"
	MsgPasswordChanged     = "Password has changed, please sign in again"
	MsgLoginSuccessful     = "Login successful"
	MsgSignupsDisabled     = "Signups are currently disabled"
	MsgIdentityTaken       = "Email or username already exists"
	MsgEmailTaken          = "Email address is already in use"
	MsgUsernameTaken       = "Username is already taken"

	MsgCreatedAdmin   = "Admin account created successfully! You can now log in."
	MsgCreatedActive  = "Account created successfully! You can now log in."
	MsgCreatedPending = "Account created successfully! Please wait for admin approval."
)
