package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"community-hub/internal/app"
	"community-hub/internal/infra/memory"
	"community-hub/internal/profanity"
	"community-hub/internal/questions"
	"community-hub/internal/realtime"
)

type captureMailer struct {
	code string
}

func (m *captureMailer) SendOTP(_ context.Context, _, code string) error {
	m.code = code
	return nil
}

type testEnv struct {
	ts     *httptest.Server
	mailer *captureMailer
	game   *app.GameService
	posts  *app.PostService
}

func newTestEnv(t *testing.T, limiter RateLimiter) *testEnv {
	t.Helper()
	docs := app.NewDocuments(memory.NewStore())
	require.NoError(t, docs.SeedQuestions(context.Background(), questions.Pool()))

	hub := realtime.NewHub()
	mailer := &captureMailer{}
	auth := app.NewAuthService(docs, mailer, "test-secret", time.Hour)
	posts := app.NewPostService(docs, profanity.New())
	game := app.NewGameService(docs, hub)
	daily := app.NewQuestionService(docs)

	server := NewServer(auth, posts, game, daily, hub, UploadConfig{Dir: t.TempDir()})
	ts := httptest.NewServer(server.Routes(limiter))
	t.Cleanup(ts.Close)
	return &testEnv{ts: ts, mailer: mailer, game: game, posts: posts}
}

func (e *testEnv) postJSON(t *testing.T, path string, body any, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, e.ts.URL+path, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func (e *testEnv) getJSON(t *testing.T, path string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(e.ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	var body map[string]any
	resp := env.getJSON(t, "/api/health", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["ok"])
}

func TestRateLimitReturns429(t *testing.T) {
	env := newTestEnv(t, memory.NewLimiter(2, time.Minute))
	for i := 0; i < 2; i++ {
		var body map[string]any
		resp := env.getJSON(t, "/api/health", &body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	var body map[string]any
	resp := env.getJSON(t, "/api/health", &body)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}
