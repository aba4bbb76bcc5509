// Copyright (c) 2026 Vivi Sews. All rights reserved.

package auth_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivisews/vivisews/internal/platform/apperr"
	"github.com/vivisews/vivisews/internal/platform/config"
	"github.com/vivisews/vivisews/internal/platform/sec"
	"github.com/vivisews/vivisews/internal/users/auth"
	"github.com/vivisews/vivisews/internal/users/authtest"
)

type fixture struct {
	service     *auth.Service
	users       *authtest.Users
	revocations *authtest.Revocations
	tokens      *sec.TokenService
	now         time.Time
}

func newFixture(t *testing.T, policy config.SignupPolicy) *fixture {
	t.Helper()

	tokens, err := sec.NewHMACTokenService("test-secret", "vivisews.app")
	require.NoError(t, err)

	f := &fixture{
		users:       authtest.NewUsers(),
		revocations: authtest.NewRevocations(),
		tokens:      tokens,
		now:         time.Now().UTC().Truncate(time.Second),
	}
	f.service = auth.NewService(f.users, f.revocations, tokens, auth.Options{
		SignupPolicy: policy,
		AllowSignups: true,
		TokenTTL:     time.Hour,
		Now:          func() time.Time { return f.now },
	})
	return f
}

func (f *fixture) login(identifier, password string) (*auth.LoginResult, error) {
	return f.service.Login(context.Background(), auth.LoginInput{Identifier: identifier, Password: password})
}

func status(err error) int {
	if appError := apperr.As(err); appError != nil {
		return appError.HTTPStatus
	}
	return 0
}

// # Registration

func TestRegister_Policies(t *testing.T) {
	register := func(f *fixture, email, username string) *auth.RegisterResult {
		result, err := f.service.Register(context.Background(), auth.RegisterInput{
			Email: email, Username: username, Password: "secret1",
		})
		require.NoError(t, err)
		return result
	}

	t.Run("approval", func(t *testing.T) {
		f := newFixture(t, config.SignupApproval)
		result := register(f, "first@example.com", "first")
		assert.Equal(t, auth.StatusPending, result.User.Status)
		assert.Equal(t, sec.RoleUser, result.User.Role)
		assert.Equal(t, auth.MsgCreatedPending, result.Message)
	})

	t.Run("first_admin", func(t *testing.T) {
		f := newFixture(t, config.SignupFirstAdmin)

		first := register(f, "owner@example.com", "owner")
		assert.Equal(t, auth.StatusActive, first.User.Status)
		assert.Equal(t, sec.RoleAdmin, first.User.Role)
		assert.True(t, first.User.IsEmailVerified)
		assert.Equal(t, auth.MsgCreatedAdmin, first.Message)

		second := register(f, "guest@example.com", "guest")
		assert.Equal(t, auth.StatusPending, second.User.Status)
		assert.Equal(t, sec.RoleUser, second.User.Role)
	})

	t.Run("open", func(t *testing.T) {
		f := newFixture(t, config.SignupOpen)
		result := register(f, "maker@example.com", "maker")
		assert.Equal(t, auth.StatusActive, result.User.Status)
		assert.Equal(t, auth.MsgCreatedActive, result.Message)
	})
}

func TestRegister_StoresFoldedIdentityAndHash(t *testing.T) {
	f := newFixture(t, config.SignupApproval)

	result, err := f.service.Register(context.Background(), auth.RegisterInput{
		Email: "  Jane.Doe@Example.COM ", Username: "JaneDoe", Password: "secret1",
	})
	require.NoError(t, err)

	stored, ok := f.users.Get(result.User.ID)
	require.True(t, ok)
	assert.Equal(t, "jane.doe@example.com", stored.Email)
	assert.Equal(t, "janedoe", stored.Username)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("secret1", stored.PasswordHash))
	assert.Equal(t, auth.LanguageEnglish, stored.Language)
}

func TestRegister_Rejections(t *testing.T) {
	mismatch := "different"
	match := "secret1"

	tests := []struct {
		name       string
		input      auth.RegisterInput
		wantStatus int
	}{
		{"missing_email", auth.RegisterInput{Username: "jane", Password: "secret1"}, http.StatusBadRequest},
		{"bad_email", auth.RegisterInput{Email: "not-an-email", Username: "jane", Password: "secret1"}, http.StatusBadRequest},
		{"short_username", auth.RegisterInput{Email: "j@example.com", Username: "jd", Password: "secret1"}, http.StatusBadRequest},
		{"username_chars", auth.RegisterInput{Email: "j@example.com", Username: "jane doe", Password: "secret1"}, http.StatusBadRequest},
		{"short_password", auth.RegisterInput{Email: "j@example.com", Username: "jane", Password: "12345"}, http.StatusBadRequest},
		{"confirm_mismatch", auth.RegisterInput{Email: "j@example.com", Username: "jane", Password: "secret1", ConfirmPassword: &mismatch}, http.StatusBadRequest},
		{"taken_email_case", auth.RegisterInput{Email: "TAKEN@example.com", Username: "fresh", Password: "secret1"}, http.StatusConflict},
		{"taken_username", auth.RegisterInput{Email: "fresh@example.com", Username: "Taken", Password: "secret1", ConfirmPassword: &match}, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, config.SignupApproval)
			f.users.Seed("taken@example.com", "taken", "secret1", sec.RoleUser, auth.StatusActive)

			_, err := f.service.Register(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.wantStatus, status(err))
			if tt.wantStatus == http.StatusConflict {
				assert.Equal(t, auth.MsgIdentityTaken, err.Error())
			}
		})
	}
}

func TestRegister_SignupsDisabled(t *testing.T) {
	service := auth.NewService(authtest.NewUsers(), authtest.NewRevocations(), nil, auth.Options{AllowSignups: false})

	_, err := service.Register(context.Background(), auth.RegisterInput{Email: "a@example.com", Username: "abc", Password: "secret1"})
	assert.Equal(t, http.StatusForbidden, status(err))
}

// # Login

func TestLogin_Success(t *testing.T) {
	f := newFixture(t, config.SignupApproval)
	seeded := f.users.Seed("jane@example.com", "jane", "secret1", sec.RoleUser, auth.StatusActive)
	require.NoError(t, f.users.RecordLoginFailure(context.Background(), seeded.ID, 3, nil))

	result, err := f.login("JANE@example.com", "secret1")
	require.NoError(t, err)

	claims, err := f.tokens.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, claims.UserID)
	assert.Equal(t, "jane", claims.Username)
	assert.Equal(t, "user", claims.Role)

	stored, _ := f.users.Get(seeded.ID)
	assert.Zero(t, stored.FailedLoginAttempts)
	assert.Nil(t, stored.LockedUntil)
	require.NotNil(t, stored.LastLogin)
	assert.Equal(t, f.now, *stored.LastLogin)
}

func TestLogin_ByUsername(t *testing.T) {
	f := newFixture(t, config.SignupApproval)
	f.users.Seed("jane@example.com", "jane", "secret1", sec.RoleUser, auth.StatusActive)

	_, err := f.login("Jane", "secret1")
	assert.NoError(t, err)
}

func TestLogin_UnknownAccount(t *testing.T) {
	f := newFixture(t, config.SignupApproval)

	_, err := f.login("ghost@example.com", "whatever")
	assert.Equal(t, http.StatusUnauthorized, status(err))
	assert.Equal(t, auth.MsgInvalidCredentials, err.Error())
}

func TestLogin_MissingFields(t *testing.T) {
	f := newFixture(t, config.SignupApproval)

	_, err := f.login("  ", "secret1")
	assert.Equal(t, http.StatusBadRequest, status(err))
	_, err = f.login("jane", "")
	assert.Equal(t, http.StatusBadRequest, status(err))
}

/*
TestLogin_LockoutSequence walks five wrong passwords from a clean account.
*/
func TestLogin_LockoutSequence(t *testing.T) {
	f := newFixture(t, config.SignupApproval)
	seeded := f.users.Seed("jane@example.com", "jane", "secret1", sec.RoleUser, auth.StatusActive)

	for attempt := 1; attempt <= 4; attempt++ {
		_, err := f.login("jane", "wrong")
		assert.Equal(t, http.StatusUnauthorized, status(err))

		remaining := 5 - attempt
		noun := "attempts"
		if remaining == 1 {
			noun = "attempt"
		}
		assert.Equal(t, fmt.Sprintf("Invalid password. %d %s remaining before account lockout.", remaining, noun), err.Error())
	}

	_, err := f.login("jane", "wrong")
	assert.Equal(t, http.StatusLocked, status(err))
	assert.Equal(t, "Too many failed login attempts. Account locked for 15 minutes.", err.Error())

	stored, _ := f.users.Get(seeded.ID)
	assert.Equal(t, 5, stored.FailedLoginAttempts)
	require.NotNil(t, stored.LockedUntil)
	assert.Equal(t, f.now.Add(15*time.Minute), *stored.LockedUntil)

	// The correct password does not get through while locked, and nothing changes.
	f.now = f.now.Add(10*time.Minute + 30*time.Second)
	_, err = f.login("jane", "secret1")
	assert.Equal(t, http.StatusLocked, status(err))
	assert.Equal(t, "Account is temporarily locked. Please try again in 5 minutes.", err.Error())
	assert.Equal(t, 5*time.Minute-30*time.Second, apperr.As(err).RetryAfter)

	unchanged, _ := f.users.Get(seeded.ID)
	assert.Equal(t, 5, unchanged.FailedLoginAttempts)
}

func TestLogin_AfterLockExpires(t *testing.T) {
	t.Run("failure_relocks_immediately", func(t *testing.T) {
		f := newFixture(t, config.SignupApproval)
		seeded := f.users.Seed("jane@example.com", "jane", "secret1", sec.RoleUser, auth.StatusActive)
		expired := f.now.Add(-time.Minute)
		require.NoError(t, f.users.RecordLoginFailure(context.Background(), seeded.ID, 5, &expired))

		_, err := f.login("jane", "wrong")
		assert.Equal(t, http.StatusLocked, status(err))

		stored, _ := f.users.Get(seeded.ID)
		assert.Equal(t, 6, stored.FailedLoginAttempts)
		assert.True(t, stored.LockedUntil.After(f.now))
	})

	t.Run("success_resets", func(t *testing.T) {
		f := newFixture(t, config.SignupApproval)
		seeded := f.users.Seed("jane@example.com", "jane", "secret1", sec.RoleUser, auth.StatusActive)
		expired := f.now.Add(-time.Minute)
		require.NoError(t, f.users.RecordLoginFailure(context.Background(), seeded.ID, 5, &expired))

		_, err := f.login("jane", "secret1")
		require.NoError(t, err)

		stored, _ := f.users.Get(seeded.ID)
		assert.Zero(t, stored.FailedLoginAttempts)
		assert.Nil(t, stored.LockedUntil)
	})
}

func TestLogin_StatusGates(t *testing.T) {
	tests := []struct {
		status  auth.Status
		message string
	}{
		{auth.StatusSuspended, auth.MsgSuspended},
		{auth.StatusPending, auth.MsgPending},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			f := newFixture(t, config.SignupApproval)
			seeded := f.users.Seed("jane@example.com", "jane", "secret1", sec.RoleUser, tt.status)

			for _, password := range []string{"secret1", "wrong"} {
				_, err := f.login("jane", password)
				assert.Equal(t, http.StatusForbidden, status(err))
				assert.Equal(t, tt.message, err.Error())
			}

			// The gate sits before the password check, so no attempts are counted.
			stored, _ := f.users.Get(seeded.ID)
			assert.Zero(t, stored.FailedLoginAttempts)
			assert.Nil(t, stored.LastLogin)
		})
	}
}

func TestLogin_StoreFailure(t *testing.T) {
	f := newFixture(t, config.SignupApproval)
	f.users.Seed("jane@example.com", "jane", "secret1", sec.RoleUser, auth.StatusActive)
	f.users.FailNext = errors.New("connection reset")

	_, err := f.login("jane", "secret1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "auth_service_login_lookup_failed")
}

// # Tokens

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t, config.SignupApproval)
	f.users.Seed("jane@example.com", "jane", "secret1", sec.RoleUser, auth.StatusActive)

	result, err := f.login("jane", "secret1")
	require.NoError(t, err)

	claims, err := f.service.VerifyToken(context.Background(), result.Token)
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(context.Background(), claims))

	ttl, ok := f.revocations.TTL(claims.ID)
	require.True(t, ok)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Hour+time.Minute)

	_, err = f.service.VerifyToken(context.Background(), result.Token)
	assert.Equal(t, http.StatusUnauthorized, status(err))
}

func TestVerifyToken_Failures(t *testing.T) {
	f := newFixture(t, config.SignupApproval)

	_, err := f.service.VerifyToken(context.Background(), "garbage")
	assert.Equal(t, http.StatusUnauthorized, status(err))

	token, err := f.tokens.GenerateAccessToken("u-1", "jane", "user", time.Hour)
	require.NoError(t, err)
	f.revocations.Err = errors.New("redis down")

	_, err = f.service.VerifyToken(context.Background(), token)
	assert.Equal(t, http.StatusInternalServerError, status(err))
}

func TestVerifyToken_FollowsAccountState(t *testing.T) {
	f := newFixture(t, config.SignupApproval)
	ctx := context.Background()
	seeded := f.users.Seed("jane@example.com", "jane", "secret1", sec.RoleUser, auth.StatusActive)

	result, err := f.login("jane", "secret1")
	require.NoError(t, err)

	claims, err := f.service.VerifyToken(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, claims.UserID)

	_, err = f.users.TransitionStatus(ctx, seeded.ID, []auth.Status{auth.StatusActive}, auth.StatusSuspended)
	require.NoError(t, err)

	_, err = f.service.VerifyToken(ctx, result.Token)
	assert.Equal(t, http.StatusForbidden, status(err))
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	_, err = f.users.TransitionStatus(ctx, seeded.ID, []auth.Status{auth.StatusSuspended}, auth.StatusActive)
	require.NoError(t, err)

	_, err = f.service.VerifyToken(ctx, result.Token)
	require.NoError(t, err, "reactivated account may use its token again")

	require.NoError(t, f.users.SoftDelete(ctx, seeded.ID))

	_, err = f.service.VerifyToken(ctx, result.Token)
	assert.Equal(t, http.StatusUnauthorized, status(err))
}

func TestVerifyToken_UsesStoredRole(t *testing.T) {
	f := newFixture(t, config.SignupApproval)
	seeded := f.users.Seed("jane@example.com", "jane", "secret1", sec.RoleUser, auth.StatusActive)

	token, err := f.tokens.GenerateAccessToken(seeded.ID, "jane", string(sec.RoleAdmin), time.Hour)
	require.NoError(t, err)

	claims, err := f.service.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, string(sec.RoleUser), claims.Role)
}

func TestVerifyToken_AccountLookupFailure(t *testing.T) {
	f := newFixture(t, config.SignupApproval)
	seeded := f.users.Seed("jane@example.com", "jane", "secret1", sec.RoleUser, auth.StatusActive)

	token, err := f.tokens.GenerateAccessToken(seeded.ID, "jane", "user", time.Hour)
	require.NoError(t, err)

	f.users.FailNext = errors.New("connection reset")
	_, err = f.service.VerifyToken(context.Background(), token)
	assert.Equal(t, http.StatusInternalServerError, status(err))
}

func TestVerifyToken_RejectsTokensOlderThanPasswordChange(t *testing.T) {
	tests := []struct {
		name       string
		changedAt  time.Duration
		wantStatus int
	}{
		{"changed_after_issue", time.Minute, http.StatusUnauthorized},
		{"changed_before_issue", -time.Minute, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, config.SignupApproval)
			ctx := context.Background()
			seeded := f.users.Seed("jane@example.com", "jane", "secret1", sec.RoleUser, auth.StatusActive)

			token, err := f.tokens.GenerateAccessToken(seeded.ID, "jane", string(sec.RoleUser), time.Hour)
			require.NoError(t, err)

			require.NoError(t, f.users.UpdatePassword(ctx, seeded.ID, seeded.PasswordHash, time.Now().Add(tt.changedAt)))

			_, err = f.service.VerifyToken(ctx, token)
			if tt.wantStatus == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantStatus, status(err))
			assert.Equal(t, auth.MsgPasswordChanged, err.Error())
		})
	}
}
