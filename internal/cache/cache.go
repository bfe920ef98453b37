// Package cache is an offline cache layered under the HTTP client as
// a transport. Audio tracks are served cache-first: once a track has
// been fetched it plays from disk without touching the network.
// Catalog requests are network-first, falling back to the cached copy
// when the API is unreachable.
//
// The cache is versioned: files live under <dir>/<version>/ and
// opening a Transport removes every other version's directory along
// with its index rows.
package cache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hamidallah2/quran/internal/logging"
	"github.com/hamidallah2/quran/internal/store"
)

// Transport is an http.RoundTripper with offline caching.
type Transport struct {
	base    http.RoundTripper
	store   *store.Store
	dir     string // <root>/<version>
	version string
}

// Open creates the cache directory for version under root and drops
// stale version directories and their index rows.
func Open(base http.RoundTripper, st *store.Store, root, version string) (*Transport, error) {
	if base == nil {
		base = http.DefaultTransport
	}
	dir := filepath.Join(root, version)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read cache root: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() || e.Name() == version {
			continue
		}
		logging.Info("removing stale cache version", "version", e.Name())
		if err := os.RemoveAll(filepath.Join(root, e.Name())); err != nil {
			logging.Warn("stale cache removal failed", "version", e.Name(), "error", err)
		}
	}
	if n, err := st.CachePurgeExcept(version); err != nil {
		logging.Warn("cache index purge failed", "error", err)
	} else if n > 0 {
		logging.Info("purged stale cache index rows", "rows", n)
	}

	return &Transport{base: base, store: st, dir: dir, version: version}, nil
}

// Client wraps the transport in an http.Client. A zero timeout leaves
// the request bounded only by its context, which is what audio
// downloads want.
func (t *Transport) Client(timeout time.Duration) *http.Client {
	return &http.Client{Transport: t, Timeout: timeout}
}

// RoundTrip serves GET requests through the cache. Anything else goes
// straight to the base transport.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.base.RoundTrip(req)
	}
	if isAudio(req.URL.Path) {
		return t.cacheFirst(req)
	}
	return t.networkFirst(req)
}

func isAudio(path string) bool {
	return strings.HasSuffix(path, ".mp3")
}

func (t *Transport) cacheFirst(req *http.Request) (*http.Response, error) {
	if resp, ok := t.serveCached(req); ok {
		logging.Debug("cache hit", "url", req.URL.String())
		return resp, nil
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	// Write-through: the body is cached as the caller reads it and
	// indexed once it has been read to the end.
	resp.Body = t.writeThrough(req.URL.String(), resp.Body)
	return resp, nil
}

func (t *Transport) networkFirst(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err == nil && resp.StatusCode == http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, readErr
		}
		t.storeBytes(req.URL.String(), body)
		resp.Body = io.NopCloser(bytes.NewReader(body))
		resp.ContentLength = int64(len(body))
		return resp, nil
	}

	// Client errors stay visible; only transport failures and server
	// errors fall back to the cached copy.
	if err == nil && resp.StatusCode < http.StatusInternalServerError {
		return resp, nil
	}

	if cached, ok := t.serveCached(req); ok {
		if err != nil {
			logging.Warn("network failed, serving cached copy", "url", req.URL.String(), "error", err)
		} else {
			logging.Warn("server error, serving cached copy", "url", req.URL.String(), "status", resp.StatusCode)
			resp.Body.Close()
		}
		return cached, nil
	}
	return resp, err
}

// serveCached builds a synthetic 200 response from the cached file,
// or reports a miss. A missing file with a live index row counts as a
// miss.
func (t *Transport) serveCached(req *http.Request) (*http.Response, bool) {
	url := req.URL.String()
	entry, ok, err := t.store.CacheLookup(url)
	if err != nil {
		logging.Warn("cache lookup failed", "url", url, "error", err)
		return nil, false
	}
	if !ok || entry.Version != t.version {
		return nil, false
	}
	f, err := os.Open(entry.Path)
	if err != nil {
		logging.Warn("cached file missing", "url", url, "path", entry.Path)
		return nil, false
	}

	header := make(http.Header)
	header.Set("Content-Type", contentTypeFor(req.URL.Path))
	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          f,
		ContentLength: entry.Size,
		Request:       req,
	}, true
}

func contentTypeFor(path string) string {
	if isAudio(path) {
		return "audio/mpeg"
	}
	return "application/json"
}

func (t *Transport) storeBytes(url string, body []byte) {
	path := filepath.Join(t.dir, uuid.NewString())
	if err := os.WriteFile(path, body, 0644); err != nil {
		logging.Warn("cache write failed", "url", url, "error", err)
		return
	}
	t.index(url, path, int64(len(body)))
}

func (t *Transport) index(url, path string, size int64) {
	err := t.store.CachePut(store.CacheEntry{
		URL:       url,
		Path:      path,
		Version:   t.version,
		Size:      size,
		FetchedAt: time.Now(),
	})
	if err != nil {
		logging.Warn("cache index failed", "url", url, "error", err)
		os.Remove(path)
	}
}

func (t *Transport) writeThrough(url string, body io.ReadCloser) io.ReadCloser {
	f, err := os.CreateTemp(t.dir, ".partial-*")
	if err != nil {
		logging.Warn("cache temp file failed", "url", url, "error", err)
		return body
	}
	return &cachingBody{src: body, file: f, t: t, url: url}
}

// cachingBody tees a network body into a temp file. When the caller
// reads to EOF the file is renamed into the cache and indexed; a
// Close before EOF discards the partial file.
type cachingBody struct {
	src  io.ReadCloser
	file *os.File
	t    *Transport
	url  string
	size int64
	done bool
}

func (b *cachingBody) Read(p []byte) (int, error) {
	n, err := b.src.Read(p)
	if n > 0 && !b.done {
		if _, werr := b.file.Write(p[:n]); werr != nil {
			logging.Warn("cache tee write failed", "url", b.url, "error", werr)
			b.discard()
		} else {
			b.size += int64(n)
		}
	}
	if err == io.EOF && !b.done {
		b.finalize()
	}
	return n, err
}

func (b *cachingBody) Close() error {
	if !b.done {
		b.discard()
	}
	return b.src.Close()
}

func (b *cachingBody) finalize() {
	b.done = true
	tmp := b.file.Name()
	if err := b.file.Close(); err != nil {
		os.Remove(tmp)
		return
	}
	final := filepath.Join(b.t.dir, uuid.NewString())
	if err := os.Rename(tmp, final); err != nil {
		logging.Warn("cache finalize failed", "url", b.url, "error", err)
		os.Remove(tmp)
		return
	}
	b.t.index(b.url, final, b.size)
	logging.Debug("cached track", "url", b.url, "bytes", b.size)
}

func (b *cachingBody) discard() {
	b.done = true
	b.file.Close()
	os.Remove(b.file.Name())
}
