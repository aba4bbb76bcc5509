// Copyright (c) 2026 Vivi Sews. All rights reserved.

package admin_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivisews/vivisews/internal/platform/ctxutil"
	"github.com/vivisews/vivisews/internal/platform/sec"
	"github.com/vivisews/vivisews/internal/users/admin"
	"github.com/vivisews/vivisews/internal/users/auth"
)

func serve(t *testing.T, f *fixture, caller *auth.User, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	router := chi.NewRouter()
	router.Route("/api/auth", admin.NewHandler(f.service).RegisterRoutes)

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	claims := &sec.AuthClaims{UserID: caller.ID, Username: caller.Username, Role: string(caller.Role)}
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	decoded := map[string]any{}
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	}
	return recorder, decoded
}

func TestHTTP_ApprovalFlow(t *testing.T) {
	f := newFixture()

	recorder, body := serve(t, f, f.admin, http.MethodGet, "/api/auth/pending-users", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Len(t, body["pendingUsers"], 1)

	recorder, body = serve(t, f, f.admin, http.MethodPost, "/api/auth/approve-user/"+f.pending.ID, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, admin.MsgApproved, body["message"])
	assert.Equal(t, "active", body["user"].(map[string]any)["status"])

	recorder, _ = serve(t, f, f.admin, http.MethodPost, "/api/auth/approve-user/"+f.pending.ID, "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder, _ = serve(t, f, f.admin, http.MethodDelete, "/api/auth/reject-user/"+f.pending.ID, "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHTTP_RequiresAdminRole(t *testing.T) {
	f := newFixture()

	recorder, body := serve(t, f, f.active, http.MethodGet, "/api/auth/users", "")
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, admin.MsgAdminRequired, body["message"])
}

func TestHTTP_Users(t *testing.T) {
	f := newFixture()

	recorder, body := serve(t, f, f.admin, http.MethodGet, "/api/auth/users?limit=2", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Len(t, body["users"], 2)
	assert.EqualValues(t, 3, body["meta"].(map[string]any)["total"])

	recorder, body = serve(t, f, f.admin, http.MethodPost, "/api/auth/users",
		`{"email":"ops@example.com","username":"ops","password":"secret9"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "admin", body["user"].(map[string]any)["role"])
	assert.NotContains(t, body["user"], "password_hash")

	recorder, _ = serve(t, f, f.admin, http.MethodPost, "/api/auth/users/"+f.active.ID+"/suspend", "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder, _ = serve(t, f, f.admin, http.MethodPost, "/api/auth/users/"+f.pending.ID+"/activate", "")
	assert.Equal(t, http.StatusConflict, recorder.Code)

	recorder, _ = serve(t, f, f.admin, http.MethodPost, "/api/auth/users/"+f.active.ID+"/unlock", "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder, _ = serve(t, f, f.admin, http.MethodDelete, "/api/auth/users/"+f.admin.ID, "")
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder, body = serve(t, f, f.admin, http.MethodDelete, "/api/auth/users/"+f.active.ID, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, admin.MsgDeleted, body["message"])
}
