package httpclient

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("should default to a 30s timeout", func(t *testing.T) {
		assert.Equal(t, 30*time.Second, New().Timeout)
	})

	t.Run("should apply options in order", func(t *testing.T) {
		c := New(WithTimeout(time.Second), WithTimeout(5*time.Second))
		assert.Equal(t, 5*time.Second, c.Timeout)
	})

	t.Run("should not install a transport for an empty token", func(t *testing.T) {
		c := New(WithToken("example.com", ""))
		assert.Nil(t, c.Transport)
	})
}

func TestTokenTransport(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	serverURL, err := url.Parse(server.URL)
	require.NoError(t, err)

	t.Run("should authenticate requests to the API host", func(t *testing.T) {
		c := New(WithToken(serverURL.Host, "secret"))
		req, err := http.NewRequest(http.MethodGet, server.URL+"/api/v1/version", nil)
		require.NoError(t, err)

		resp, err := c.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "token secret", gotAuth)
		assert.Empty(t, req.Header.Get("Authorization"), "caller request must stay untouched")
	})

	t.Run("should not leak the token to other hosts", func(t *testing.T) {
		c := New(WithToken("other.example.com", "secret"))
		req, err := http.NewRequest(http.MethodGet, server.URL, nil)
		require.NoError(t, err)

		resp, err := c.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Empty(t, gotAuth)
	})
}
