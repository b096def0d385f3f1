package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"community-hub/internal/domain"
)

func TestCreatePostRequiresAuth(t *testing.T) {
	env := newTestEnv(t, nil)
	resp, _ := env.postJSON(t, "/api/posts", map[string]any{"content": "hi"}, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateAndListPosts(t *testing.T) {
	env := newTestEnv(t, nil)
	token := login(t, env, "poster@example.com", "Poster")
	auth := map[string]string{"Authorization": "Bearer " + token}

	resp, body := env.postJSON(t, "/api/posts", map[string]any{"content": "first"}, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, body["ok"])

	resp, _ = env.postJSON(t, "/api/posts", map[string]any{"content": "that damn thing"}, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var feed []domain.Post
	listResp := env.getJSON(t, "/api/posts", &feed)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	require.Len(t, feed, 2)
	// newest first, profanity masked
	require.Equal(t, "that **** thing", feed[0].Content) // "damn" is on the block list
	require.Equal(t, "first", feed[1].Content)
	require.NotNil(t, feed[0].Images)
}

func TestListPostsEmptyFeedIsArray(t *testing.T) {
	env := newTestEnv(t, nil)
	var feed []domain.Post
	resp := env.getJSON(t, "/api/posts", &feed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, feed)
	require.Empty(t, feed)
}
