// Package download saves a resolved track to disk with progress
// feedback. Downloads are serialized: one at a time, ever.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/hamidallah2/quran/internal/logging"
)

// estimateSpan is the assumed track size used for the indeterminate
// progress estimate when the server sends no Content-Length.
const estimateSpan = 10 * 1024 * 1024

// Progress is one progress report during a download.
type Progress struct {
	Received      int64
	Total         int64 // -1 when unknown
	Percent       int   // exact, or estimated when Indeterminate
	Indeterminate bool
}

// Manager runs at most one download at a time.
type Manager struct {
	client *http.Client
	dir    string

	mu         sync.Mutex
	active     bool
	onProgress func(Progress)
}

// NewManager creates a Manager saving files into dir. The client's
// transport decides whether downloads hit the network or the offline
// cache.
func NewManager(client *http.Client, dir string) *Manager {
	if client == nil {
		client = http.DefaultClient
	}
	return &Manager{client: client, dir: dir}
}

// OnProgress registers the progress callback. Reports arrive on the
// download goroutine.
func (m *Manager) OnProgress(fn func(Progress)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onProgress = fn
}

// Active reports whether a download is in flight.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Filename composes the saved file name from display names.
func Filename(reciterName, surahName string) string {
	return fmt.Sprintf("%s_%s.mp3", reciterName, surahName)
}

// Start downloads url into the manager's directory as filename,
// blocking until done. A call while another download is active is a
// logged no-op, not an error. The active flag is reset on every exit
// path, success or failure.
func (m *Manager) Start(ctx context.Context, url, filename string) (string, error) {
	m.mu.Lock()
	if m.active {
		m.mu.Unlock()
		logging.Warn("download already in progress, ignoring", "url", url)
		return "", nil
	}
	m.active = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.active = false
		m.mu.Unlock()
	}()

	id := uuid.NewString()
	logging.Info("download started", "id", id, "url", url, "file", filename)

	path, err := m.run(ctx, url, filename)
	if err != nil {
		logging.Error("download failed", "id", id, "error", err)
		return "", err
	}
	logging.Info("download completed", "id", id, "path", path)
	return path, nil
}

func (m *Manager) run(ctx context.Context, url, filename string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("download request: %w", err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed: %s", resp.Status)
	}

	total := resp.ContentLength // -1 when the header is missing
	if total < 0 {
		logging.Warn("no content length, progress is estimated", "url", url)
	}

	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	tmp, err := os.CreateTemp(m.dir, ".quran-download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after the final rename

	var received int64
	buf := make([]byte, 64*1024)
	for {
		if ctx.Err() != nil {
			tmp.Close()
			return "", ctx.Err()
		}
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := tmp.Write(buf[:n]); writeErr != nil {
				tmp.Close()
				return "", fmt.Errorf("write chunk: %w", writeErr)
			}
			received += int64(n)
			m.report(received, total)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			tmp.Close()
			return "", fmt.Errorf("read body: %w", readErr)
		}
	}

	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	dest := filepath.Join(m.dir, filename)
	if err := os.Rename(tmpPath, dest); err != nil {
		return "", fmt.Errorf("finalize download: %w", err)
	}

	m.report(received, received) // settle the bar at 100%
	logging.Debug("download size", "bytes", humanize.Bytes(uint64(received)))
	return dest, nil
}

func (m *Manager) report(received, total int64) {
	m.mu.Lock()
	fn := m.onProgress
	m.mu.Unlock()
	if fn == nil {
		return
	}

	p := Progress{Received: received, Total: total}
	if total > 0 {
		p.Percent = int(float64(received) / float64(total) * 100)
	} else {
		// Estimate against a typical track size, capped shy of done.
		p.Indeterminate = true
		p.Percent = int(float64(received) / float64(estimateSpan) * 100)
		if p.Percent > 99 {
			p.Percent = 99
		}
	}
	fn(p)
}
