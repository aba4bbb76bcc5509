// Copyright (c) 2026 Vivi Sews. All rights reserved.

/*
Package admin implements the approval gate and account moderation.

Every operation re-reads the caller from the database and requires an active
admin, on top of the role check done by the router. A token minted before a
demotion or suspension therefore stops working here immediately.

# State Changes

  - approve:  pending   -> active
  - reject:   pending   -> (hard delete)
  - suspend:  active    -> suspended
  - activate: suspended -> active
  - delete:   any       -> soft deleted
*/
package admin

// # Actions
//
// Action names label the transitions metric and the admin log lines.
const (
	ActionApprove     = "approve"
	ActionReject      = "reject"
	ActionSuspend     = "suspend"
	ActionActivate    = "activate"
	ActionUnlock      = "unlock"
	ActionDelete      = "delete"
	ActionCreateAdmin = "create_admin"
)

// # Messages

const (
	MsgAdminRequired  = "Admin access required"
	MsgApproved       = "User approved successfully"
	MsgRejected       = "User rejected and removed"
	MsgSuspended      = "User suspended successfully"
	MsgActivated      = "User activated successfully"
	MsgUnlocked       = "User unlocked successfully"
	MsgDeleted        = "User deleted successfully"
	MsgAdminCreated   = "Admin account created successfully"
	MsgSelfSuspend    = "You cannot suspend your own account"
	MsgSelfDelete     = "You cannot delete your own account"
	MsgPendingAccount = "Account is pending approval; approve or reject it instead"
)

// CreateAdminInput holds the fields of a new admin account.
type CreateAdminInput struct {
	Email    string
	Username string
	Password string
}
