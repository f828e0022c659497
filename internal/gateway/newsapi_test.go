package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agerrors "polymarket-agent/internal/errors"
)

const newsPayload = `{
	"status": "ok",
	"totalResults": 2,
	"articles": [
		{
			"source": {"name": "Example Wire"},
			"title": "Rate cut looks likely",
			"url": "https://example.com/rates",
			"publishedAt": "2024-03-01T08:00:00Z"
		},
		{
			"source": {"name": "Example Wire"},
			"title": "Analysts split on timing",
			"url": "https://example.com/timing",
			"publishedAt": "2024-02-28T17:30:00Z"
		}
	]
}`

func newTestNews(t *testing.T, handler http.HandlerFunc) *NewsClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultNewsConfig("test-key")
	cfg.BaseURL = server.URL
	return NewNewsClient(cfg, zerolog.Nop())
}

func TestNewsClient_GetArticles(t *testing.T) {
	client := newTestNews(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "rate cut", r.URL.Query().Get("q"))
		assert.Equal(t, "publishedAt", r.URL.Query().Get("sortBy"))
		fmt.Fprint(w, newsPayload)
	})

	articles, err := client.GetArticles(context.Background(), "rate cut")
	require.NoError(t, err)

	require.Len(t, articles, 2)
	assert.Equal(t, "Rate cut looks likely", articles[0].Title)
	assert.Equal(t, "Example Wire", articles[0].Source)
	assert.Equal(t, "https://example.com/rates", articles[0].URL)
}

func TestNewsClient_MissingKey(t *testing.T) {
	cfg := DefaultNewsConfig("")
	client := NewNewsClient(cfg, zerolog.Nop())

	_, err := client.GetArticles(context.Background(), "anything")
	assert.ErrorIs(t, err, agerrors.ErrNotConfigured)
}

func TestNewsClient_ErrorStatus(t *testing.T) {
	client := newTestNews(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.GetArticles(context.Background(), "anything")
	assert.Error(t, err)
}

func TestNewsClient_APIErrorStatusField(t *testing.T) {
	client := newTestNews(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "error", "articles": []}`)
	})

	_, err := client.GetArticles(context.Background(), "anything")
	assert.Error(t, err)
}

func TestNewsClient_RetriesOnTransientFailure(t *testing.T) {
	calls := 0
	client := newTestNews(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, newsPayload)
	})

	articles, err := client.GetArticles(context.Background(), "rate cut")
	require.NoError(t, err)
	assert.Len(t, articles, 2)
	assert.Equal(t, 2, calls)
}
