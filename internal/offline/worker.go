// Package offline is a stale-while-revalidate cache in front of an upstream
// web origin. Responses are stored per named cache; a request is answered by
// whichever of the cache and the network resolves first and every OK network
// response refreshes the cache in the background.
package offline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// ErrNotCached is returned when the network failed and the cache had no entry.
var ErrNotCached = errors.New("offline: no cached response")

// ErrClosed is returned by Fetch after Close.
var ErrClosed = errors.New("offline: worker closed")

const maxBodySize = 32 << 20

// Store persists encoded entries. *db.DB implements it.
type Store interface {
	PutCacheEntry(cacheName, url string, entry []byte) error
	PutCacheEntries(cacheName string, entries map[string][]byte) error
	MatchCacheEntry(cacheName, url string) ([]byte, bool, error)
	CacheNames() ([]string, error)
	DeleteCache(cacheName string) error
}

// Options configures a Worker.
type Options struct {
	CacheName string
	// Upstream is the origin. Its host is always allow-listed and receives
	// cache-bust parameters.
	Upstream *url.URL
	// Manifest is precached by Install. Relative entries resolve against
	// Upstream.
	Manifest     []string
	AllowedHosts []string
	Client       *http.Client
	Logger       *slog.Logger
	Now          func() time.Time
}

// Source tells where a Result came from.
type Source int

const (
	FromNetwork Source = iota
	FromCache
)

func (s Source) String() string {
	if s == FromCache {
		return "cache"
	}
	return "network"
}

// Result is a response served by Fetch.
type Result struct {
	Entry  *Entry
	Source Source
}

// Worker implements the install, activate and fetch lifecycle.
type Worker struct {
	store   Store
	opts    Options
	allowed map[string]bool
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// New returns a worker for opts.
func New(store Store, opts Options) (*Worker, error) {
	if opts.Upstream == nil || !opts.Upstream.IsAbs() {
		return nil, fmt.Errorf("offline: upstream must be an absolute URL")
	}
	if opts.CacheName == "" {
		return nil, fmt.Errorf("offline: cache name is required")
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	allowed := map[string]bool{opts.Upstream.Hostname(): true}
	for _, h := range opts.AllowedHosts {
		allowed[h] = true
	}

	return &Worker{
		store:   store,
		opts:    opts,
		allowed: allowed,
		logger:  logger.With("component", "offline", "cache", opts.CacheName),
	}, nil
}

// CacheName returns the current cache name.
func (w *Worker) CacheName() string {
	return w.opts.CacheName
}

// Install fetches every manifest URL and stores them together. Nothing is
// stored when any of them fails.
func (w *Worker) Install(ctx context.Context) error {
	entries := make(map[string][]byte, len(w.opts.Manifest))
	for _, ref := range w.opts.Manifest {
		u, err := w.opts.Upstream.Parse(ref)
		if err != nil {
			return fmt.Errorf("install %s: %w", ref, err)
		}
		e, err := w.get(ctx, u.String())
		if err != nil {
			return fmt.Errorf("install %s: %w", u, err)
		}
		if !e.OK() {
			return fmt.Errorf("install %s: status %d", u, e.Status)
		}
		data, err := EncodeEntry(e)
		if err != nil {
			return fmt.Errorf("encode %s: %w", u, err)
		}
		entries[cacheKey(u)] = data
	}

	if err := w.store.PutCacheEntries(w.opts.CacheName, entries); err != nil {
		return fmt.Errorf("failed to store manifest: %w", err)
	}
	w.logger.Info("installed", "entries", len(entries))
	return nil
}

// Activate deletes every cache other than the current one and returns the
// names it removed.
func (w *Worker) Activate(ctx context.Context) ([]string, error) {
	names, err := w.store.CacheNames()
	if err != nil {
		return nil, fmt.Errorf("failed to list caches: %w", err)
	}
	var deleted []string
	for _, name := range names {
		if name == w.opts.CacheName {
			continue
		}
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		if err := w.store.DeleteCache(name); err != nil {
			return deleted, fmt.Errorf("failed to delete cache %s: %w", name, err)
		}
		w.logger.Info("deleted old cache", "name", name)
		deleted = append(deleted, name)
	}
	return deleted, nil
}

// Allowed reports whether requests to u go through the cache.
func (w *Worker) Allowed(u *url.URL) bool {
	return w.allowed[u.Hostname()]
}

type networkResult struct {
	entry *Entry
	err   error
}

type cacheResult struct {
	entry *Entry
}

// Fetch answers a GET for the absolute URL u. For allow-listed hosts the cache
// and the network race: the first usable answer wins, a network failure falls
// back to the cache and a cache miss waits for the network.
func (w *Worker) Fetch(ctx context.Context, u *url.URL) (*Result, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrClosed
	}
	w.wg.Add(1)
	w.mu.Unlock()

	if !w.Allowed(u) {
		defer w.wg.Done()
		e, err := w.get(ctx, u.String())
		if err != nil {
			return nil, err
		}
		return &Result{Entry: e, Source: FromNetwork}, nil
	}

	key := cacheKey(u)
	fetchURL := w.fixedURL(u)

	netCh := make(chan networkResult, 1)
	cacheCh := make(chan cacheResult, 1)

	// The network leg outlives the request so the refresh can finish.
	go func() {
		defer w.wg.Done()
		e, err := w.get(context.WithoutCancel(ctx), fetchURL)
		netCh <- networkResult{entry: e, err: err}
		if err == nil && e.OK() {
			w.refresh(key, e)
		}
	}()
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		cacheCh <- cacheResult{entry: w.match(key)}
	}()

	select {
	case c := <-cacheCh:
		if c.entry != nil {
			return &Result{Entry: c.entry, Source: FromCache}, nil
		}
		select {
		case n := <-netCh:
			if n.err != nil {
				return nil, fmt.Errorf("%w: %v", ErrNotCached, n.err)
			}
			return &Result{Entry: n.entry, Source: FromNetwork}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	case n := <-netCh:
		if n.err == nil {
			return &Result{Entry: n.entry, Source: FromNetwork}, nil
		}
		w.logger.Debug("network failed, waiting for cache", "url", key, "error", n.err)
		select {
		case c := <-cacheCh:
			if c.entry != nil {
				return &Result{Entry: c.entry, Source: FromCache}, nil
			}
			return nil, fmt.Errorf("%w: %v", ErrNotCached, n.err)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Match returns the cached entry for u without touching the network.
func (w *Worker) Match(u *url.URL) (*Entry, error) {
	if e := w.match(cacheKey(u)); e != nil {
		return e, nil
	}
	return nil, ErrNotCached
}

// Close stops accepting fetches and waits for background refreshes.
func (w *Worker) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.wg.Wait()
	return nil
}

func (w *Worker) match(key string) *Entry {
	data, ok, err := w.store.MatchCacheEntry(w.opts.CacheName, key)
	if err != nil {
		w.logger.Warn("cache lookup failed", "url", key, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	e, err := DecodeEntry(data)
	if err != nil {
		w.logger.Warn("corrupt cache entry", "url", key, "error", err)
		return nil
	}
	return e
}

func (w *Worker) refresh(key string, e *Entry) {
	data, err := EncodeEntry(e)
	if err == nil {
		err = w.store.PutCacheEntry(w.opts.CacheName, key, data)
	}
	if err != nil {
		w.logger.Error("failed to update cache", "url", key, "error", err)
		return
	}
	w.logger.Debug("cache updated", "url", key, "status", e.Status)
}

// get performs a GET that bypasses HTTP caches and reads the whole body.
func (w *Worker) get(ctx context.Context, rawURL string) (*Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := w.opts.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	header := resp.Header.Clone()
	header.Del("Content-Length")
	return &Entry{
		Status:   resp.StatusCode,
		Header:   header,
		Body:     body,
		StoredAt: w.opts.Now(),
	}, nil
}

// fixedURL adds a cache-bust parameter and the upstream scheme to
// same-origin URLs.
func (w *Worker) fixedURL(u *url.URL) string {
	fixed := *u
	fixed.Fragment = ""
	if u.Hostname() == w.opts.Upstream.Hostname() {
		fixed.Scheme = w.opts.Upstream.Scheme
		q := fixed.RawQuery
		if q != "" {
			q += "&"
		}
		fixed.RawQuery = q + "cache-bust=" + strconv.FormatInt(w.opts.Now().UnixMilli(), 10)
	}
	return fixed.String()
}

func cacheKey(u *url.URL) string {
	k := *u
	k.Fragment = ""
	return k.String()
}
