package catalog

import (
	"fmt"
	"sync"
)

// Catalog is the shared, read-mostly handle to the normalized record set.
// The records are replaced wholesale on (re)load, never updated in place;
// a version counter keys the memoized derived views so they are always
// consistent with the current data. Safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	records []Record
	version uint64
	dir     string

	memo       derivedViews
	filterMemo filterMemo
}

// derivedViews caches the per-dataset aggregates, valid for one version.
type derivedViews struct {
	version  uint64
	valid    bool
	sections []string
	titles   []string
	authors  []string
	minYear  int
	maxYear  int
}

// filterMemo remembers the last filter result. Interactive re-filtering
// tends to repeat the same criteria (pagination over an unchanged filter),
// so a single-entry cache is enough.
type filterMemo struct {
	version uint64
	key     string
	result  []Record
	valid   bool
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// Load reads the dataset directory and replaces the catalog contents.
func Load(dir string) (*Catalog, error) {
	c := New()
	if err := c.LoadDir(dir); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadDir loads a dataset directory (manifest + data file) into the
// catalog, replacing any previous records. The directory is remembered
// for Reload.
func (c *Catalog) LoadDir(dir string) error {
	records, err := LoadDataset(dir)
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", dir, err)
	}
	c.mu.Lock()
	c.dir = dir
	c.mu.Unlock()
	c.Replace(records)
	return nil
}

// Reload re-reads the last loaded dataset directory (hot reload).
func (c *Catalog) Reload() error {
	c.mu.RLock()
	dir := c.dir
	c.mu.RUnlock()
	if dir == "" {
		return fmt.Errorf("catalog has no dataset directory to reload")
	}
	return c.LoadDir(dir)
}

// Replace swaps in a new record set wholesale and invalidates every
// memoized view.
func (c *Catalog) Replace(records []Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = records
	c.version++
	c.memo = derivedViews{}
	c.filterMemo = filterMemo{}
}

// Records returns the current record set. The slice is shared and must be
// treated as read-only; it is never mutated, only replaced.
func (c *Catalog) Records() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.records
}

// Version returns the monotonically increasing dataset version.
func (c *Catalog) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Filter returns the records matching the criteria, memoizing the last
// (version, criteria) pair.
func (c *Catalog) Filter(criteria Criteria) []Record {
	key := criteriaKey(criteria)

	c.mu.RLock()
	if c.filterMemo.valid && c.filterMemo.version == c.version && c.filterMemo.key == key {
		result := c.filterMemo.result
		c.mu.RUnlock()
		return result
	}
	records := c.records
	version := c.version
	c.mu.RUnlock()

	result := Filter(records, criteria)

	c.mu.Lock()
	if c.version == version {
		c.filterMemo = filterMemo{version: version, key: key, result: result, valid: true}
	}
	c.mu.Unlock()
	return result
}

// Sections returns the distinct section labels, Turkish-collated.
func (c *Catalog) Sections() []string { return c.views().sections }

// Titles returns the distinct titles, Turkish-collated.
func (c *Catalog) Titles() []string { return c.views().titles }

// Authors returns the distinct author names, Turkish-collated.
func (c *Catalog) Authors() []string { return c.views().authors }

// YearBounds returns the min/max parsed release years of the dataset.
func (c *Catalog) YearBounds() (min, max int) {
	v := c.views()
	return v.minYear, v.maxYear
}

func (c *Catalog) views() derivedViews {
	c.mu.RLock()
	if c.memo.valid && c.memo.version == c.version {
		v := c.memo
		c.mu.RUnlock()
		return v
	}
	records := c.records
	version := c.version
	c.mu.RUnlock()

	v := derivedViews{
		version:  version,
		valid:    true,
		sections: UniqueSections(records),
		titles:   UniqueTitles(records),
		authors:  UniqueAuthors(records),
	}
	v.minYear, v.maxYear = YearBounds(records)

	c.mu.Lock()
	if c.version == version {
		c.memo = v
	}
	c.mu.Unlock()
	return v
}

// criteriaKey is a cheap fingerprint for the memo. Criteria contains a
// slice, so it cannot be compared with ==.
func criteriaKey(c Criteria) string {
	return fmt.Sprintf("%q|%q|%q|%v|%v|%t|%t", c.Sections, c.Title, c.Author, c.YearRange, c.ScoreRange, c.ScoreRangeSet, c.ExcludeReviews)
}
