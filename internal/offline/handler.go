package offline

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"strconv"
)

// CacheHeader reports where a proxied response came from.
const CacheHeader = "X-Temporizador-Cache"

// Handler serves the upstream through the worker. GET requests go through
// Fetch; other methods are proxied untouched.
func (w *Worker) Handler() http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(w.opts.Upstream)
	proxy.Transport = w.opts.Client.Transport

	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			proxy.ServeHTTP(rw, r)
			return
		}

		target := w.opts.Upstream.ResolveReference(r.URL)

		res, err := w.Fetch(r.Context(), target)
		if err != nil {
			status := http.StatusBadGateway
			if errors.Is(err, ErrNotCached) {
				status = http.StatusGatewayTimeout
			}
			w.logger.Warn("fetch failed", "url", target.String(), "error", err)
			http.Error(rw, http.StatusText(status), status)
			return
		}

		h := rw.Header()
		for k, vs := range res.Entry.Header {
			for _, v := range vs {
				h.Add(k, v)
			}
		}
		h.Set(CacheHeader, res.Source.String())
		h.Set("Content-Length", strconv.Itoa(len(res.Entry.Body)))
		rw.WriteHeader(res.Entry.Status)
		if r.Method == http.MethodGet {
			rw.Write(res.Entry.Body)
		}
	})
}
