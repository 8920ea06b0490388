package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonathan/lernify/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/auth/register", "", validRegistration("Grace@Example.com"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decodeBody[types.LoginResponse](t, w)
	require.NotNil(t, resp.User)
	assert.Equal(t, "grace@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.Token)
	assert.NotContains(t, w.Body.String(), "password")

	claims, err := env.server.jwtService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	first := env.do(t, http.MethodPost, "/auth/register", "", validRegistration("dup@example.com"))
	require.Equal(t, http.StatusCreated, first.Code)

	second := env.do(t, http.MethodPost, "/auth/register", "", validRegistration("DUP@example.com"))
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, "email_exists", errorCode(t, second))
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *types.RegisterRequest)
		wantField string
	}{
		{"missing first name", func(r *types.RegisterRequest) { r.FirstName = "" }, "first_name"},
		{"digits in last name", func(r *types.RegisterRequest) { r.LastName = "L0velace" }, "last_name"},
		{"bad email", func(r *types.RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"short phone", func(r *types.RegisterRequest) { r.Phone = "12345" }, "phone"},
		{"short password", func(r *types.RegisterRequest) { r.Password = "abc" }, "password"},
		{"missing qualification", func(r *types.RegisterRequest) { r.Qualification = "" }, "qualification"},
	}

	env := newTestEnv(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegistration("valid@example.com")
			tt.mutate(&req)

			w := env.do(t, http.MethodPost, "/auth/register", "", req)
			require.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeBody[map[string]string](t, w)
			assert.Equal(t, "validation_error", body["code"])
			assert.Contains(t, body["error"], tt.wantField)
		})
	}
}

func TestRegister_MalformedBody(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", errorCode(t, w))
}

func TestRegister_OversizedBody(t *testing.T) {
	env := newTestEnv(t)

	payload := `{"first_name":"` + strings.Repeat("a", maxBodyBytes+1) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	reg := env.do(t, http.MethodPost, "/auth/register", "", validRegistration("login@example.com"))
	require.Equal(t, http.StatusCreated, reg.Code)

	t.Run("success", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/auth/login", "", types.LoginRequest{Email: "login@example.com", Password: testPassword})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		resp := decodeBody[types.LoginResponse](t, w)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "login@example.com", resp.User.Email)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		wrong := env.do(t, http.MethodPost, "/auth/login", "", types.LoginRequest{Email: "login@example.com", Password: "nope-nope"})
		unknown := env.do(t, http.MethodPost, "/auth/login", "", types.LoginRequest{Email: "ghost@example.com", Password: "nope-nope"})

		assert.Equal(t, http.StatusUnauthorized, wrong.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, wrong.Body.String(), unknown.Body.String())
		assert.Equal(t, "invalid_credentials", errorCode(t, wrong))
	})

	t.Run("missing password", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "login@example.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
