// Copyright (c) 2026 Vivi Sews. All rights reserved.

package auth

import (
	"fmt"
	"math"
	"time"

	"github.com/vivisews/vivisews/internal/platform/apperr"
)

// LockoutPolicy limits consecutive failed logins.
//
// The failure counter is only reset by a successful login or an admin
// unlock. An expired lock lets the next attempt through, but a failure at
// that point continues from the stored count and locks again at once.
type LockoutPolicy struct {
	MaxAttempts int
	Duration    time.Duration
}

// DefaultLockoutPolicy returns 5 attempts and a 15 minute lock.
func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{MaxAttempts: DefaultMaxLoginAttempts, Duration: DefaultLockoutDuration}
}

// normalized fills zero fields with the defaults.
func (policy LockoutPolicy) normalized() LockoutPolicy {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultMaxLoginAttempts
	}
	if policy.Duration <= 0 {
		policy.Duration = DefaultLockoutDuration
	}
	return policy
}

// LockRemaining returns how long the account stays locked at now, or zero.
func LockRemaining(user *User, now time.Time) time.Duration {
	if user.LockedUntil == nil || !user.LockedUntil.After(now) {
		return 0
	}
	return user.LockedUntil.Sub(now)
}

// Failure is the outcome of one more failed password check.
type Failure struct {
	Attempts    int
	LockedUntil *time.Time
}

// Locked reports whether this failure locked the account.
func (failure Failure) Locked() bool {
	return failure.LockedUntil != nil
}

// RegisterFailure computes the new counter from the stored one.
func (policy LockoutPolicy) RegisterFailure(previousAttempts int, now time.Time) Failure {
	policy = policy.normalized()

	attempts := max(previousAttempts, 0) + 1
	failure := Failure{Attempts: attempts}
	if attempts >= policy.MaxAttempts {
		until := now.Add(policy.Duration)
		failure.LockedUntil = &until
	}
	return failure
}

// Remaining returns the failures left before a lock.
func (policy LockoutPolicy) Remaining(attempts int) int {
	return max(policy.normalized().MaxAttempts-attempts, 0)
}

// ceilMinutes rounds a positive duration up to whole minutes.
func ceilMinutes(duration time.Duration) int {
	return int(math.Ceil(duration.Minutes()))
}

// # Errors

// errStillLocked is returned while a lock is in force.
func errStillLocked(remaining time.Duration) *apperr.AppError {
	minutes := ceilMinutes(remaining)
	return apperr.Locked(
		fmt.Sprintf("Account is temporarily locked. Please try again in %d minutes.", minutes),
		remaining,
	).WithMeta("retryAfterMinutes", minutes)
}

// LockedError is the 423 shown while an account stays locked for remaining.
func LockedError(remaining time.Duration) *apperr.AppError {
	return errStillLocked(remaining)
}

// errNewlyLocked is returned by the failure that triggers the lock.
func errNewlyLocked(duration time.Duration) *apperr.AppError {
	minutes := ceilMinutes(duration)
	return apperr.Locked(
		fmt.Sprintf("Too many failed login attempts. Account locked for %d minutes.", minutes),
		duration,
	).WithMeta("retryAfterMinutes", minutes)
}

// errWrongPassword reports the attempts left before a lock.
func errWrongPassword(remaining int) *apperr.AppError {
	noun := "attempts"
	if remaining == 1 {
		noun = "attempt"
	}
	return apperr.Unauthorized(
		fmt.Sprintf("Invalid password. %d %s remaining before account lockout.", remaining, noun),
	).WithMeta("attemptsRemaining", remaining)
}
