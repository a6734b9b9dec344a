package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeValidator struct {
	userID uuid.UUID
	err    error
}

type fakeClaims struct {
	userID uuid.UUID
}

func (c *fakeClaims) GetUserID() uuid.UUID { return c.userID }

func (v *fakeValidator) ValidateToken(_ string) (UserIDGetter, error) {
	if v.err != nil {
		return nil, v.err
	}
	return &fakeClaims{userID: v.userID}, nil
}

func okHandler(t *testing.T, wantUser uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if wantUser != uuid.Nil {
			got, err := GetUserID(r)
			require.NoError(t, err)
			assert.Equal(t, wantUser, got)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddlewareNilValidatorPassesThrough(t *testing.T) {
	handler := AuthMiddleware(nil)(okHandler(t, uuid.Nil))

	req := httptest.NewRequest(http.MethodGet, "/assists", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	userID := uuid.New()
	handler := AuthMiddleware(&fakeValidator{userID: userID})(okHandler(t, userID))

	req := httptest.NewRequest(http.MethodGet, "/assists", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
		err    error
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic abc123"},
		{name: "empty token", header: "Bearer "},
		{name: "invalid token", header: "Bearer bad", err: fmt.Errorf("invalid")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AuthMiddleware(&fakeValidator{err: tt.err})(okHandler(t, uuid.Nil))

			req := httptest.NewRequest(http.MethodGet, "/assists", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddlewareCaseInsensitiveBearer(t *testing.T) {
	handler := AuthMiddleware(&fakeValidator{userID: uuid.New()})(okHandler(t, uuid.Nil))

	req := httptest.NewRequest(http.MethodGet, "/assists", nil)
	req.Header.Set("Authorization", "bearer some-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetUserIDMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/assists", nil)
	_, err := GetUserID(req)
	assert.Error(t, err)
}
