// Copyright (c) 2026 Vivi Sews. All rights reserved.

// Package authtest provides in-memory account stores for tests of the
// packages built on top of auth.
package authtest

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/vivisews/vivisews/internal/platform/apperr"
	"github.com/vivisews/vivisews/internal/platform/sec"
	"github.com/vivisews/vivisews/internal/users/auth"
	"github.com/vivisews/vivisews/pkg/uuid"
)

// Users is an in-memory [auth.UserRepository] with the same visibility and
// uniqueness rules as the PostgreSQL one.
type Users struct {
	mu      sync.Mutex
	rows    map[string]*auth.User
	deleted map[string]bool
	clock   time.Time

	// FailNext, when set, is returned by the next call and then cleared.
	FailNext error
}

// NewUsers creates an empty repository.
func NewUsers() *Users {
	return &Users{
		rows:    map[string]*auth.User{},
		deleted: map[string]bool{},
		clock:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Seed inserts an account directly, hashing password. It returns the stored copy.
func (users *Users) Seed(email, username, password string, role sec.UserRole, status auth.Status) *auth.User {
	hash, err := sec.HashPassword(password)
	if err != nil {
		panic(err)
	}

	user := &auth.User{
		ID:           uuid.New(),
		Email:        auth.Normalize(email),
		Username:     auth.Normalize(username),
		PasswordHash: hash,
		Role:         role,
		Status:       status,
		Language:     auth.LanguageEnglish,
	}
	if err := users.Create(context.Background(), user); err != nil {
		panic(err)
	}
	return clone(user)
}

// Get returns a copy of the row with id, including soft-deleted rows.
func (users *Users) Get(id string) (*auth.User, bool) {
	users.mu.Lock()
	defer users.mu.Unlock()
	user, ok := users.rows[id]
	if !ok {
		return nil, false
	}
	return clone(user), true
}

// IsDeleted reports whether id was soft-deleted.
func (users *Users) IsDeleted(id string) bool {
	users.mu.Lock()
	defer users.mu.Unlock()
	return users.deleted[id]
}

func clone(user *auth.User) *auth.User {
	copied := *user
	return &copied
}

func (users *Users) failure() error {
	err := users.FailNext
	users.FailNext = nil
	return err
}

func (users *Users) tick() time.Time {
	users.clock = users.clock.Add(time.Second)
	return users.clock
}

func (users *Users) live(id string) (*auth.User, error) {
	user, ok := users.rows[id]
	if !ok || users.deleted[id] {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

// FindByLogin implements [auth.UserRepository].
func (users *Users) FindByLogin(_ context.Context, identifier string) (*auth.User, error) {
	users.mu.Lock()
	defer users.mu.Unlock()
	if err := users.failure(); err != nil {
		return nil, err
	}
	for id, user := range users.rows {
		if !users.deleted[id] && (user.Email == identifier || user.Username == identifier) {
			return clone(user), nil
		}
	}
	return nil, apperr.NotFound("User")
}

// FindByID implements [auth.UserRepository].
func (users *Users) FindByID(_ context.Context, id string) (*auth.User, error) {
	users.mu.Lock()
	defer users.mu.Unlock()
	if err := users.failure(); err != nil {
		return nil, err
	}
	user, err := users.live(id)
	if err != nil {
		return nil, err
	}
	return clone(user), nil
}

func (users *Users) taken(match func(*auth.User) bool, excludeID string) bool {
	for id, user := range users.rows {
		if !users.deleted[id] && id != excludeID && match(user) {
			return true
		}
	}
	return false
}

// EmailTaken implements [auth.UserRepository].
func (users *Users) EmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	users.mu.Lock()
	defer users.mu.Unlock()
	return users.taken(func(user *auth.User) bool { return user.Email == email }, excludeID), users.failure()
}

// UsernameTaken implements [auth.UserRepository].
func (users *Users) UsernameTaken(_ context.Context, username, excludeID string) (bool, error) {
	users.mu.Lock()
	defer users.mu.Unlock()
	return users.taken(func(user *auth.User) bool { return user.Username == username }, excludeID), users.failure()
}

// Count implements [auth.UserRepository].
func (users *Users) Count(_ context.Context) (int, error) {
	users.mu.Lock()
	defer users.mu.Unlock()
	count := 0
	for id := range users.rows {
		if !users.deleted[id] {
			count++
		}
	}
	return count, users.failure()
}

// Create implements [auth.UserRepository].
func (users *Users) Create(_ context.Context, user *auth.User) error {
	users.mu.Lock()
	defer users.mu.Unlock()
	if err := users.failure(); err != nil {
		return err
	}

	conflict := users.taken(func(existing *auth.User) bool {
		return existing.Email == user.Email || existing.Username == user.Username
	}, "")
	if conflict {
		return apperr.Conflict(auth.MsgIdentityTaken)
	}

	now := users.tick()
	user.CreatedAt, user.UpdatedAt = now, now
	users.rows[user.ID] = clone(user)
	return nil
}

func (users *Users) mutate(id string, apply func(*auth.User)) (*auth.User, error) {
	users.mu.Lock()
	defer users.mu.Unlock()
	if err := users.failure(); err != nil {
		return nil, err
	}
	user, err := users.live(id)
	if err != nil {
		return nil, err
	}
	apply(user)
	user.UpdatedAt = users.tick()
	return clone(user), nil
}

// RecordLoginFailure implements [auth.UserRepository].
func (users *Users) RecordLoginFailure(_ context.Context, id string, attempts int, lockedUntil *time.Time) error {
	_, err := users.mutate(id, func(user *auth.User) {
		user.FailedLoginAttempts = attempts
		user.LockedUntil = lockedUntil
	})
	return err
}

// RecordLoginSuccess implements [auth.UserRepository].
func (users *Users) RecordLoginSuccess(_ context.Context, id string, at time.Time) error {
	_, err := users.mutate(id, func(user *auth.User) {
		user.FailedLoginAttempts = 0
		user.LockedUntil = nil
		user.LastLogin = &at
	})
	return err
}

// ResetLockout implements [auth.UserRepository].
func (users *Users) ResetLockout(_ context.Context, id string) (*auth.User, error) {
	return users.mutate(id, func(user *auth.User) {
		user.FailedLoginAttempts = 0
		user.LockedUntil = nil
	})
}

// UpdateProfile implements [auth.UserRepository].
func (users *Users) UpdateProfile(ctx context.Context, id string, changes auth.ProfileChanges) (*auth.User, error) {
	users.mu.Lock()
	conflict := (changes.Email != nil && users.taken(func(user *auth.User) bool { return user.Email == *changes.Email }, id)) ||
		(changes.Username != nil && users.taken(func(user *auth.User) bool { return user.Username == *changes.Username }, id))
	users.mu.Unlock()
	if conflict {
		return nil, apperr.Conflict(auth.MsgIdentityTaken)
	}

	return users.mutate(id, func(user *auth.User) {
		if changes.Email != nil {
			user.Email = *changes.Email
		}
		if changes.Username != nil {
			user.Username = *changes.Username
		}
		if changes.Language != nil {
			user.Language = *changes.Language
		}
	})
}

// UpdatePassword implements [auth.UserRepository].
func (users *Users) UpdatePassword(_ context.Context, id, passwordHash string, changedAt time.Time) error {
	_, err := users.mutate(id, func(user *auth.User) {
		user.PasswordHash = passwordHash
		user.PasswordChangedAt = &changedAt
	})
	return err
}

// TransitionStatus implements [auth.UserRepository].
func (users *Users) TransitionStatus(_ context.Context, id string, from []auth.Status, status auth.Status) (*auth.User, error) {
	users.mu.Lock()
	defer users.mu.Unlock()
	if err := users.failure(); err != nil {
		return nil, err
	}
	user, err := users.live(id)
	if err != nil || !slices.Contains(from, user.Status) {
		return nil, apperr.NotFound("User")
	}
	user.Status = status
	user.UpdatedAt = users.tick()
	return clone(user), nil
}

// DeletePending implements [auth.UserRepository].
func (users *Users) DeletePending(_ context.Context, id string) error {
	users.mu.Lock()
	defer users.mu.Unlock()
	if err := users.failure(); err != nil {
		return err
	}
	user, err := users.live(id)
	if err != nil || user.Status != auth.StatusPending {
		return apperr.NotFound("User")
	}
	delete(users.rows, id)
	return nil
}

// SoftDelete implements [auth.UserRepository].
func (users *Users) SoftDelete(_ context.Context, id string) error {
	users.mu.Lock()
	defer users.mu.Unlock()
	if err := users.failure(); err != nil {
		return err
	}
	if _, err := users.live(id); err != nil {
		return err
	}
	users.deleted[id] = true
	return nil
}

func (users *Users) sorted(keep func(*auth.User) bool, newestFirst bool) []*auth.User {
	result := []*auth.User{}
	for id, user := range users.rows {
		if !users.deleted[id] && keep(user) {
			result = append(result, clone(user))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if newestFirst {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// ListByStatus implements [auth.UserRepository].
func (users *Users) ListByStatus(_ context.Context, status auth.Status) ([]*auth.User, error) {
	users.mu.Lock()
	defer users.mu.Unlock()
	return users.sorted(func(user *auth.User) bool { return user.Status == status }, false), users.failure()
}

// List implements [auth.UserRepository].
func (users *Users) List(_ context.Context, limit, offset int) ([]*auth.User, int, error) {
	users.mu.Lock()
	defer users.mu.Unlock()
	all := users.sorted(func(*auth.User) bool { return true }, true)
	if offset > len(all) {
		offset = len(all)
	}
	end := min(offset+limit, len(all))
	return all[offset:end], len(all), users.failure()
}

// Revocations is an in-memory [auth.RevocationStore].
type Revocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	Err     error
}

// NewRevocations creates an empty store.
func NewRevocations() *Revocations {
	return &Revocations{revoked: map[string]time.Duration{}}
}

// Revoke implements [auth.RevocationStore].
func (store *Revocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.Err != nil {
		return store.Err
	}
	if ttl > 0 {
		store.revoked[tokenID] = ttl
	}
	return nil
}

// IsRevoked implements [auth.RevocationStore].
func (store *Revocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.Err != nil {
		return false, store.Err
	}
	_, ok := store.revoked[tokenID]
	return ok, nil
}

// TTL returns the stored TTL for tokenID.
func (store *Revocations) TTL(tokenID string) (time.Duration, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	ttl, ok := store.revoked[tokenID]
	return ttl, ok
}

var (
	_ auth.UserRepository  = (*Users)(nil)
	_ auth.RevocationStore = (*Revocations)(nil)
)
