package offline

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHandlerServesFromCacheWhenUpstreamIsDown(t *testing.T) {
	var posted string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			b, _ := io.ReadAll(r.Body)
			posted = string(b)
			w.WriteHeader(http.StatusCreated)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, "<h1>timer</h1>")
	}))

	store := newMemStore()
	w := newWorker(t, store, upstream.URL)
	proxy := httptest.NewServer(w.Handler())
	defer proxy.Close()

	resp, body := get(t, proxy.URL+"/index.html")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<h1>timer</h1>", body)
	assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))

	resp, err := http.Post(proxy.URL+"/api", "text/plain", strings.NewReader("hi"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "hi", posted)

	// let the background refresh land before going offline
	require.NoError(t, w.Close())
	upstream.Close()

	w = newWorker(t, store, upstream.URL)
	defer w.Close()
	offline := httptest.NewServer(w.Handler())
	defer offline.Close()

	resp, body = get(t, offline.URL+"/index.html")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<h1>timer</h1>", body)
	assert.Equal(t, "cache", resp.Header.Get(CacheHeader))

	resp, _ = get(t, offline.URL+"/never-seen")
	assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
}
