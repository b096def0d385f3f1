package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// login runs the full OTP round trip and returns a bearer token.
func login(t *testing.T, env *testEnv, email, name string) string {
	t.Helper()
	resp, _ := env.postJSON(t, "/api/auth/request-otp", map[string]any{"email": email}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, env.mailer.code)

	resp, body := env.postJSON(t, "/api/auth/verify-otp", map[string]any{
		"email": email, "otp": env.mailer.code, "name": name,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRequestOTPValidation(t *testing.T) {
	env := newTestEnv(t, nil)
	resp, body := env.postJSON(t, "/api/auth/request-otp", map[string]any{}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, body["error"], "email")
}

func TestVerifyOTPRejectsWrongCode(t *testing.T) {
	env := newTestEnv(t, nil)
	resp, _ := env.postJSON(t, "/api/auth/request-otp", map[string]any{"email": "a@example.com"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.postJSON(t, "/api/auth/verify-otp", map[string]any{
		"email": "a@example.com", "otp": "000000",
	}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid otp", body["error"])
}

func TestLoginAndMe(t *testing.T) {
	env := newTestEnv(t, nil)
	token := login(t, env, "dana@example.com", "Dana")

	req, err := http.NewRequest(http.MethodGet, env.ts.URL+"/api/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMeRequiresToken(t *testing.T) {
	env := newTestEnv(t, nil)

	var body map[string]any
	resp := env.getJSON(t, "/api/me", &body)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, env.ts.URL+"/api/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp2.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
}
