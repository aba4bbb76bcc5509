// Copyright (c) 2026 Vivi Sews. All rights reserved.

package pattern_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivisews/vivisews/internal/inventory/pattern"
	"github.com/vivisews/vivisews/internal/platform/ctxutil"
	"github.com/vivisews/vivisews/internal/platform/sec"
)

func TestHTTP_PatternFlow(t *testing.T) {
	router := chi.NewRouter()
	router.Mount("/api/patterns", pattern.NewHandler(newService()).Routes())

	call := func(method, path, body string) (int, map[string]any) {
		request := httptest.NewRequest(method, path, strings.NewReader(body))
		claims := &sec.AuthClaims{UserID: owner, Role: string(sec.RoleUser)}
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		decoded := map[string]any{}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
		return recorder.Code, decoded
	}

	code, body := call(http.MethodPost, "/api/patterns", `{"name":"Cardigan","difficulty":"beginner"}`)
	require.Equal(t, http.StatusCreated, code)
	id := body["pattern"].(map[string]any)["id"].(string)

	code, body = call(http.MethodPatch, "/api/patterns/"+id+"/pin", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["is_pinned"])

	code, body = call(http.MethodPut, "/api/patterns/"+id, `{"difficulty":"wizard"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, body["details"])

	code, _ = call(http.MethodDelete, "/api/patterns/"+id, "")
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(http.MethodGet, "/api/patterns/"+id, "")
	assert.Equal(t, http.StatusNotFound, code)
}
