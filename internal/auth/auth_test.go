package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlipski/salesledger/internal/auth"
)

func TestService_LoginAndVerify(t *testing.T) {
	svc := auth.NewService(true, "test-secret", "api-token", time.Hour)

	token, err := svc.Login("api-token")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, svc.Verify(token))
}

func TestService_Login_BadCredentials(t *testing.T) {
	svc := auth.NewService(true, "test-secret", "api-token", time.Hour)

	_, err := svc.Login("wrong-token")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_Verify_WrongSecret(t *testing.T) {
	issuer := auth.NewService(true, "secret-a", "api-token", time.Hour)
	verifier := auth.NewService(true, "secret-b", "api-token", time.Hour)

	token, err := issuer.Login("api-token")
	require.NoError(t, err)

	assert.ErrorIs(t, verifier.Verify(token), auth.ErrInvalidToken)
}

func TestService_Verify_Expired(t *testing.T) {
	svc := auth.NewService(true, "test-secret", "api-token", -time.Minute)

	token, err := svc.Login("api-token")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Verify(token), auth.ErrInvalidToken)
}

func TestService_Middleware(t *testing.T) {
	svc := auth.NewService(true, "test-secret", "api-token", time.Hour)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := svc.Middleware(next)

	t.Run("valid token", func(t *testing.T) {
		token, err := svc.Login("api-token")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestService_Middleware_Disabled(t *testing.T) {
	svc := auth.NewService(false, "test-secret", "api-token", time.Hour)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := svc.Middleware(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
