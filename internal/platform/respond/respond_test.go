// Copyright (c) 2026 Vivi Sews. All rights reserved.

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivisews/vivisews/internal/platform/apperr"
	"github.com/vivisews/vivisews/internal/platform/respond"
	"github.com/vivisews/vivisews/pkg/pagination"
)

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestOK_WritesPayloadWithoutEnvelope(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.OK(recorder, map[string]string{"token": "abc"})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))
	assert.Equal(t, "abc", decode(t, recorder)["token"])
}

func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Paginated(recorder, "users", []string{"a", "b"}, pagination.NewMeta(1, 2, 5))

	body := decode(t, recorder)
	assert.Len(t, body["users"], 2)
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(3), meta["total_pages"])
}

func TestError_AppError(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)

	respond.Error(recorder, request, apperr.Locked("Account is temporarily locked", 90*time.Second).WithMeta("retryAfterMinutes", 2))

	assert.Equal(t, http.StatusLocked, recorder.Code)
	assert.Equal(t, "90", recorder.Header().Get("Retry-After"))

	body := decode(t, recorder)
	assert.Equal(t, "Account is temporarily locked", body["message"])
	assert.Equal(t, apperr.CodeLocked, body["code"])
	assert.Equal(t, float64(2), body["meta"].(map[string]any)["retryAfterMinutes"])
}

/*
TestError_PlainErrorIsHidden ensures unexpected errors become a generic 500.
*/
func TestError_PlainErrorIsHidden(t *testing.T) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/api/fabrics", nil)

	respond.Error(recorder, request, errors.New("dial tcp 10.0.0.1:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	body := decode(t, recorder)
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, recorder.Body.String(), "10.0.0.1")
}
