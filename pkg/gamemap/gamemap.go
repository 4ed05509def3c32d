// Package gamemap holds the optional mapping from store app ids to game
// name aliases, used to cross-reference review titles against an external
// catalog. Pure lookup table, fetched once per session.
package gamemap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Game is one appid/name pair from the mapping payload. An appid may map
// to several alias names across payload entries.
type Game struct {
	AppID int    `json:"appid"`
	Name  string `json:"name"`
}

type payload struct {
	CreatedAt    string `json:"created_at"`
	TotalMatches int    `json:"total_matches"`
	Games        []Game `json:"games"`
}

// Mapping is the in-memory appid -> aliases table. Safe for concurrent
// use; replaced wholesale by Fetch.
type Mapping struct {
	mu      sync.RWMutex
	byApp   map[int][]string
	fetched bool
	client  *http.Client
}

// New returns an empty mapping.
func New() *Mapping {
	return &Mapping{
		byApp:  make(map[int][]string),
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch downloads the mapping JSON from url and replaces the table.
// A second call in the same session is a no-op once a non-empty mapping
// is loaded.
func (m *Mapping) Fetch(ctx context.Context, url string) error {
	m.mu.RLock()
	done := m.fetched && len(m.byApp) > 0
	m.mu.RUnlock()
	if done {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch game mapping: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch game mapping: HTTP %d", resp.StatusCode)
	}

	var p payload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return fmt.Errorf("decode game mapping: %w", err)
	}

	byApp := make(map[int][]string, len(p.Games))
	for _, g := range p.Games {
		byApp[g.AppID] = append(byApp[g.AppID], g.Name)
	}

	m.mu.Lock()
	m.byApp = byApp
	m.fetched = true
	m.mu.Unlock()
	return nil
}

// Replace swaps in a prebuilt table (tests, offline snapshots).
func (m *Mapping) Replace(games []Game) {
	byApp := make(map[int][]string, len(games))
	for _, g := range games {
		byApp[g.AppID] = append(byApp[g.AppID], g.Name)
	}
	m.mu.Lock()
	m.byApp = byApp
	m.fetched = true
	m.mu.Unlock()
}

// Names returns the alias names for an appid.
func (m *Mapping) Names(appid int) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byApp[appid]
}

// AppIDByTitle finds the appid whose alias equals the title, compared
// case-insensitively after trimming. Returns false when no alias matches.
func (m *Mapping) AppIDByTitle(title string) (int, bool) {
	want := strings.ToLower(strings.TrimSpace(title))
	if want == "" {
		return 0, false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for appid, names := range m.byApp {
		for _, n := range names {
			if strings.ToLower(strings.TrimSpace(n)) == want {
				return appid, true
			}
		}
	}
	return 0, false
}

// Len returns the number of distinct appids.
func (m *Mapping) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byApp)
}

// Clear empties the table so the next Fetch downloads again.
func (m *Mapping) Clear() {
	m.mu.Lock()
	m.byApp = make(map[int][]string)
	m.fetched = false
	m.mu.Unlock()
}
