package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTokenValidator is a test implementation of TokenValidator for unit tests.
type testTokenValidator struct {
	validTokens map[string]uuid.UUID
}

func newTestTokenValidator() *testTokenValidator {
	return &testTokenValidator{
		validTokens: make(map[string]uuid.UUID),
	}
}

func (v *testTokenValidator) ValidateToken(tokenString string) (SessionIDGetter, error) {
	sessionID, ok := v.validTokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return testClaims(sessionID), nil
}

type testClaims uuid.UUID

func (c testClaims) GetSessionID() uuid.UUID {
	return uuid.UUID(c)
}

// serve routes through a ServeMux so PathValue is populated.
func serve(t *testing.T, validator TokenValidator, path, authHeader string) (*httptest.ResponseRecorder, uuid.UUID) {
	t.Helper()

	var seen uuid.UUID
	mux := http.NewServeMux()
	mux.Handle("GET /sessions/{id}", RequireSession(validator, "id")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetSessionID(r)
		require.NoError(t, err)
		seen = id
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w, seen
}

func TestRequireSession_ValidToken(t *testing.T) {
	v := newTestTokenValidator()
	sessionID := uuid.New()
	v.validTokens["good"] = sessionID

	w, seen := serve(t, v, "/sessions/"+sessionID.String(), "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sessionID, seen)
}

func TestRequireSession_CaseInsensitiveScheme(t *testing.T) {
	v := newTestTokenValidator()
	sessionID := uuid.New()
	v.validTokens["good"] = sessionID

	w, _ := serve(t, v, "/sessions/"+sessionID.String(), "bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireSession_Rejections(t *testing.T) {
	v := newTestTokenValidator()
	sessionID := uuid.New()
	v.validTokens["good"] = sessionID
	path := "/sessions/" + sessionID.String()

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantError  string
	}{
		{name: "missing header", path: path, wantStatus: http.StatusUnauthorized, wantError: "missing bearer token"},
		{name: "wrong scheme", path: path, header: "Basic good", wantStatus: http.StatusUnauthorized, wantError: "missing bearer token"},
		{name: "extra parts", path: path, header: "Bearer good extra", wantStatus: http.StatusUnauthorized, wantError: "missing bearer token"},
		{name: "unknown token", path: path, header: "Bearer bad", wantStatus: http.StatusUnauthorized, wantError: "invalid session token"},
		{name: "other session", path: "/sessions/" + uuid.New().String(), header: "Bearer good", wantStatus: http.StatusForbidden, wantError: "does not grant access"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, seen := serve(t, v, tt.path, tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, uuid.Nil, seen, "handler must not run")

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Contains(t, resp["error"], tt.wantError)
		})
	}
}

func TestGetSessionID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetSessionID(req)
	require.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := BearerToken(req)
	assert.False(t, ok)

	req.Header.Set("Authorization", "Bearer  abc ")
	token, ok := BearerToken(req)
	assert.True(t, ok)
	assert.Equal(t, "abc", token)
}
