// Copyright (c) 2026 Vivi Sews. All rights reserved.

package admin_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivisews/vivisews/internal/platform/apperr"
	"github.com/vivisews/vivisews/internal/platform/events"
	"github.com/vivisews/vivisews/internal/platform/sec"
	"github.com/vivisews/vivisews/internal/users/admin"
	"github.com/vivisews/vivisews/internal/users/auth"
	"github.com/vivisews/vivisews/internal/users/authtest"
	"github.com/vivisews/vivisews/pkg/pagination"
)

const missingID = "0190f5a2-6f1c-7c3e-9a55-2f1d7c9b0e11"

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := []string{}
	for _, event := range r.events {
		types = append(types, event.Type)
	}
	return types
}

type fixture struct {
	service   *admin.Service
	users     *authtest.Users
	published *recorder
	admin     *auth.User
	pending   *auth.User
	active    *auth.User
}

func newFixture() *fixture {
	users := authtest.NewUsers()
	published := &recorder{}
	return &fixture{
		service:   admin.NewService(users, admin.Options{Publisher: published}),
		users:     users,
		published: published,
		admin:     users.Seed("admin@example.com", "admin", "adminpw", sec.RoleAdmin, auth.StatusActive),
		pending:   users.Seed("pat@example.com", "pat", "secret1", sec.RoleUser, auth.StatusPending),
		active:    users.Seed("ana@example.com", "ana", "secret2", sec.RoleUser, auth.StatusActive),
	}
}

func status(err error) int {
	if appError := apperr.As(err); appError != nil {
		return appError.HTTPStatus
	}
	return 0
}

func (f *fixture) statusOf(t *testing.T, id string) auth.Status {
	t.Helper()
	user, ok := f.users.Get(id)
	require.True(t, ok)
	return user.Status
}

func TestApprove(t *testing.T) {
	f := newFixture()

	user, err := f.service.Approve(context.Background(), f.admin.ID, f.pending.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.StatusActive, user.Status)
	assert.Equal(t, []string{events.AccountApproved}, f.published.types())
}

func TestApprove_NotPending(t *testing.T) {
	f := newFixture()
	_, err := f.service.Suspend(context.Background(), f.admin.ID, f.active.ID)
	require.NoError(t, err)

	_, err = f.service.Approve(context.Background(), f.admin.ID, f.active.ID)
	assert.Equal(t, http.StatusNotFound, status(err))
	assert.Equal(t, auth.StatusSuspended, f.statusOf(t, f.active.ID))

	_, err = f.service.Approve(context.Background(), f.admin.ID, missingID)
	assert.Equal(t, http.StatusNotFound, status(err))
}

func TestReject(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.service.Reject(context.Background(), f.admin.ID, f.pending.ID))
	_, ok := f.users.Get(f.pending.ID)
	assert.False(t, ok)

	err := f.service.Reject(context.Background(), f.admin.ID, f.active.ID)
	assert.Equal(t, http.StatusNotFound, status(err))
	assert.Equal(t, auth.StatusActive, f.statusOf(t, f.active.ID))
}

func TestSuspendAndActivate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, err := f.service.Suspend(ctx, f.admin.ID, f.active.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.StatusSuspended, user.Status)

	// Repeating is a no-op and does not publish again.
	user, err = f.service.Suspend(ctx, f.admin.ID, f.active.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.StatusSuspended, user.Status)

	user, err = f.service.Activate(ctx, f.admin.ID, f.active.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.StatusActive, user.Status)

	_, err = f.service.Activate(ctx, f.admin.ID, f.active.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{events.AccountSuspended, events.AccountActivated}, f.published.types())
}

func TestSuspend_Rejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.Suspend(ctx, f.admin.ID, f.admin.ID)
	assert.Equal(t, http.StatusForbidden, status(err))

	_, err = f.service.Suspend(ctx, f.admin.ID, f.pending.ID)
	assert.Equal(t, http.StatusConflict, status(err))
	assert.Equal(t, auth.StatusPending, f.statusOf(t, f.pending.ID))

	_, err = f.service.Activate(ctx, f.admin.ID, f.pending.ID)
	assert.Equal(t, http.StatusConflict, status(err))

	_, err = f.service.Suspend(ctx, f.admin.ID, missingID)
	assert.Equal(t, http.StatusNotFound, status(err))
}

func TestSuspend_KeepsLockoutCounters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	lockedUntil := time.Now().Add(time.Hour)
	require.NoError(t, f.users.RecordLoginFailure(ctx, f.active.ID, 5, &lockedUntil))

	_, err := f.service.Suspend(ctx, f.admin.ID, f.active.ID)
	require.NoError(t, err)

	stored, _ := f.users.Get(f.active.ID)
	assert.Equal(t, 5, stored.FailedLoginAttempts)
	assert.NotNil(t, stored.LockedUntil)
}

func TestUnlock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	lockedUntil := time.Now().Add(time.Hour)
	require.NoError(t, f.users.RecordLoginFailure(ctx, f.active.ID, 5, &lockedUntil))

	user, err := f.service.Unlock(ctx, f.admin.ID, f.active.ID)
	require.NoError(t, err)
	assert.Zero(t, user.FailedLoginAttempts)
	assert.Nil(t, user.LockedUntil)
	assert.Equal(t, []string{events.AccountUnlocked}, f.published.types())
}

func TestDeleteUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	err := f.service.DeleteUser(ctx, f.admin.ID, f.admin.ID)
	assert.Equal(t, http.StatusForbidden, status(err))
	assert.False(t, f.users.IsDeleted(f.admin.ID))

	require.NoError(t, f.service.DeleteUser(ctx, f.admin.ID, f.active.ID))
	assert.True(t, f.users.IsDeleted(f.active.ID))

	_, err = f.users.FindByID(ctx, f.active.ID)
	assert.Equal(t, http.StatusNotFound, status(err))

	err = f.service.DeleteUser(ctx, f.admin.ID, f.active.ID)
	assert.Equal(t, http.StatusNotFound, status(err))
}

func TestCallerMustBeActiveAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.ListPending(ctx, f.active.ID)
	assert.Equal(t, http.StatusForbidden, status(err))

	second := f.users.Seed("root@example.com", "root", "rootpw", sec.RoleAdmin, auth.StatusActive)
	_, err = f.service.Suspend(ctx, f.admin.ID, second.ID)
	require.NoError(t, err)

	_, err = f.service.Approve(ctx, second.ID, f.pending.ID)
	assert.Equal(t, http.StatusForbidden, status(err))
	assert.Equal(t, auth.StatusPending, f.statusOf(t, f.pending.ID))

	_, err = f.service.ListPending(ctx, missingID)
	assert.Equal(t, http.StatusForbidden, status(err))
}

func TestCallerLookupFailure(t *testing.T) {
	f := newFixture()
	f.users.FailNext = errors.New("connection reset")

	_, err := f.service.ListPending(context.Background(), f.admin.ID)
	require.Error(t, err)
	assert.ErrorContains(t, err, "admin_service_load_caller_failed")
}

func TestListing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.users.Seed("zed@example.com", "zed", "secret3", sec.RoleUser, auth.StatusPending)

	pending, err := f.service.ListPending(ctx, f.admin.ID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "pat", pending[0].Username)

	users, meta, err := f.service.ListUsers(ctx, f.admin.ID, pagination.Params{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, pagination.Meta{Page: 2, Limit: 3, Total: 4, TotalPages: 2}, meta)
}

func TestCreateAdmin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	user, err := f.service.CreateAdmin(ctx, f.admin.ID, admin.CreateAdminInput{
		Email: "Second@Example.com", Username: "Second", Password: "secret9",
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, user.Role)
	assert.Equal(t, auth.StatusActive, user.Status)
	assert.True(t, user.IsEmailVerified)
	assert.Equal(t, "second@example.com", user.Email)
	assert.Equal(t, []string{events.AdminCreated}, f.published.types())

	_, err = f.service.CreateAdmin(ctx, f.admin.ID, admin.CreateAdminInput{
		Email: "other@example.com", Username: "SECOND", Password: "secret9",
	})
	assert.Equal(t, http.StatusConflict, status(err))

	_, err = f.service.CreateAdmin(ctx, f.admin.ID, admin.CreateAdminInput{
		Email: "x@example.com", Username: "xx", Password: "123",
	})
	assert.Equal(t, http.StatusBadRequest, status(err))

	_, err = f.service.CreateAdmin(ctx, f.active.ID, admin.CreateAdminInput{
		Email: "y@example.com", Username: "yyy", Password: "secret9",
	})
	assert.Equal(t, http.StatusForbidden, status(err))
}
