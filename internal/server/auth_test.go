package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commission-assistant-backend/internal/models"
	"commission-assistant-backend/internal/types"
)

func TestSignupAndLogin(t *testing.T) {
	env := newTestEnv(t, &fakeCompleter{})

	rec := env.do(t, http.MethodPost, "/api/signup", "", types.SignupRequest{
		Name:     "Alice Martin",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var signup types.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signup))
	assert.NotEmpty(t, signup.Token)

	// The token authenticates.
	rec = env.do(t, http.MethodGet, "/api/user", signup.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "alice@example.com", me.Email)

	// Login with the right password issues a fresh token.
	rec = env.do(t, http.MethodPost, "/api/login", "", types.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// The wrong password is rejected.
	rec = env.do(t, http.MethodPost, "/api/login", "", types.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t, &fakeCompleter{})

	rec := env.do(t, http.MethodPost, "/api/signup", "", types.SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "short",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/signup", "", types.SignupRequest{
		Name:     "Alice",
		Email:    "not-an-email",
		Password: "long enough",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv(t, &fakeCompleter{})
	env.store.PutUser(models.User{Name: "Alice", Email: "alice@example.com"})

	rec := env.do(t, http.MethodPost, "/api/signup", "", types.SignupRequest{
		Name:     "Other Alice",
		Email:    "alice@example.com",
		Password: "long enough",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t, &fakeCompleter{})
	_, token := env.login(t, models.User{Name: "Alice", Email: "alice@example.com"})

	rec := env.do(t, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/user", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCurrentUserHidesPasswordHash(t *testing.T) {
	env := newTestEnv(t, &fakeCompleter{})
	_, token := env.login(t, models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "secret-hash"})

	rec := env.do(t, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret-hash")
}
