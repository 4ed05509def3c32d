package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Result reports the outcome of one Fetch.
type Result struct {
	// Changed is false when the server answered 304 Not Modified and the
	// local copy was kept.
	Changed bool
	// Path is the local data file.
	Path string
}

// Fetcher downloads a tracked source into a destination file, using the
// stored validators for conditional requests.
type Fetcher struct {
	state  *StateDB
	logger *slog.Logger
	client *http.Client
}

// New creates a Fetcher over the given state database.
func New(state *StateDB, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		state:  state,
		logger: logger,
		client: &http.Client{Timeout: 10 * time.Minute},
	}
}

// Fetch downloads the tracked source id into dest. When the stored ETag or
// Last-Modified still matches, the server answers 304 and the local copy
// is left untouched. Transient failures are retried with backoff.
func (f *Fetcher) Fetch(ctx context.Context, id, dest string) (*Result, error) {
	src, err := f.state.Get(id)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, retry, err := f.fetchOnce(ctx, src, dest)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}

	if uerr := f.state.UpdateCheck(id, 0, lastErr.Error()); uerr != nil {
		f.logger.Error("persist fetch failure", "source", id, "error", uerr)
	}
	return nil, fmt.Errorf("fetch %s failed: %w", id, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, src *Source, dest string) (*Result, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	// Conditional request when the local copy exists and validators are known.
	if _, statErr := os.Stat(dest); statErr == nil {
		if src.ETag != nil {
			req.Header.Set("If-None-Match", *src.ETag)
		}
		if src.LastModified != nil {
			req.Header.Set("If-Modified-Since", *src.LastModified)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		f.logger.Info("source unchanged, keeping cached copy", "source", src.ID)
		if err := f.state.UpdateCheck(src.ID, resp.StatusCode, ""); err != nil {
			f.logger.Error("persist check", "source", src.ID, "error", err)
		}
		return &Result{Changed: false, Path: dest}, false, nil

	case http.StatusOK:
		if err := writeAtomic(dest, resp.Body); err != nil {
			return nil, true, err
		}
		if err := f.state.SetValidators(src.ID, resp.Header.Get("Etag"), resp.Header.Get("Last-Modified")); err != nil {
			f.logger.Error("persist validators", "source", src.ID, "error", err)
		}
		if err := f.state.UpdateCheck(src.ID, resp.StatusCode, ""); err != nil {
			f.logger.Error("persist check", "source", src.ID, "error", err)
		}
		f.logger.Info("source downloaded", "source", src.ID, "dest", dest)
		return &Result{Changed: true, Path: dest}, false, nil

	default:
		retry := resp.StatusCode >= 500
		return nil, retry, fmt.Errorf("HTTP %d for %s", resp.StatusCode, src.URL)
	}
}

// Check performs a HEAD request against the tracked source URL and
// persists the status, without downloading anything. On network error the
// recorded status is 0.
func (f *Fetcher) Check(ctx context.Context, id string) (int, error) {
	src, err := f.state.Get(id)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, src.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	status := 0
	errMsg := ""
	resp, err := f.client.Do(req)
	if err != nil {
		errMsg = err.Error()
	} else {
		resp.Body.Close()
		status = resp.StatusCode
	}

	if uerr := f.state.UpdateCheck(id, status, errMsg); uerr != nil {
		f.logger.Error("persist check", "source", id, "error", uerr)
	}

	if err != nil {
		return 0, fmt.Errorf("HEAD %s: %w", src.URL, err)
	}
	return status, nil
}

// Watch re-checks the source every interval until ctx is cancelled, so a
// moved or vanished source shows up in the logs before a fetch fails.
func (f *Fetcher) Watch(ctx context.Context, id string, interval time.Duration) {
	check := func() {
		status, err := f.Check(ctx, id)
		switch {
		case err != nil:
			f.logger.Warn("source unreachable", "source", id, "error", err)
		case status >= 400:
			f.logger.Warn("source unreachable", "source", id, "status", status)
		default:
			f.logger.Info("source reachable", "source", id, "status", status)
		}
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

// writeAtomic streams body to dest via a temp file and rename, so a
// half-written download never replaces a good dataset.
func writeAtomic(dest string, body io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", dest, err)
	}
	return nil
}
