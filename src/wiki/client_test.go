package wiki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(base string) *Client {
	return &Client{
		BaseUrl:    base,
		ApiToken:   "test-token",
		httpClient: &http.Client{Timeout: 2 * time.Second},
	}
}

func TestGetDocument(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/documents/doc-123", r.URL.Path)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			w.Write([]byte(`{"id":"doc-123","title":"Patch Notes","markdown":"# Intro\n\nhello"}`))
		}))
		defer srv.Close()

		doc, err := testClient(srv.URL).GetDocument(context.Background(), "doc-123")
		require.Nil(t, err)
		assert.Equal(t, "Patch Notes", doc.Title)
		assert.Contains(t, doc.Markdown, "# Intro")
	})

	t.Run("not found is not retried", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := testClient(srv.URL).GetDocument(context.Background(), "nope")
		assert.ErrorIs(t, err, NotFound)
		assert.Equal(t, 1, calls)
	})

	t.Run("server errors are retried", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{"id":"doc-1","title":"T","markdown":"body"}`))
		}))
		defer srv.Close()

		doc, err := testClient(srv.URL).GetDocument(context.Background(), "doc-1")
		require.Nil(t, err)
		assert.Equal(t, "body", doc.Markdown)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up eventually", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := testClient(srv.URL).GetDocument(context.Background(), "doc-1")
		assert.NotNil(t, err)
	})
}
