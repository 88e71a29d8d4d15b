package helpers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	errs "github.com/Elieez/PricePilot/pkg/errors"
)

func TestFetchPageSetsBrowserHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		io.WriteString(w, "<html><body>ok</body></html>")
	}))
	defer server.Close()

	_, err := FetchPage(server.URL)
	require.NoError(t, err)

	assert.Contains(t, got.Get("User-Agent"), "Mozilla/5.0")
	assert.Contains(t, got.Get("Accept"), "text/html")
	assert.NotEmpty(t, got.Get("Accept-Language"))
	assert.NotEmpty(t, got.Get("Referer"))
}

func TestFetchPageBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, "<html><body>Skor på rea</body></html>")
	}))
	defer server.Close()

	reader, err := FetchPage(server.URL)
	require.NoError(t, err)

	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Skor på rea")
}

func TestFetchPageConvertsLegacyEncoding(t *testing.T) {
	latin1, err := charmap.ISO8859_1.NewEncoder().String("<html><body>Skor på rea</body></html>")
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		io.WriteString(w, latin1)
	}))
	defer server.Close()

	reader, err := FetchPage(server.URL)
	require.NoError(t, err)

	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "Skor på rea"), "body must be converted to UTF-8")
}

func TestFetchPageRateLimitedStatus(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, 430} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "60")
			w.WriteHeader(status)
		}))

		_, err := FetchPage(server.URL)
		require.Error(t, err)
		assert.True(t, errs.IsType(err, errs.ErrorTypeRateLimit), "status %d must map to a rate limit error", status)

		server.Close()
	}
}

func TestFetchPageUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := FetchPage(server.URL)
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeNetwork))
	assert.False(t, errs.IsType(err, errs.ErrorTypeRateLimit))
}

func TestFetchPageUnreachableHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := FetchPage(server.URL)
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeNetwork))
}
