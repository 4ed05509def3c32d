package catalog

import (
	"sort"
	"time"
)

// DefaultMinYear is the fallback lower year bound when no record has a
// parseable year (the magazine's first publication year).
const DefaultMinYear = 2007

// YearBounds returns the min and max parsed release years. When no record
// has a parseable year it falls back to (DefaultMinYear, current year).
func YearBounds(records []Record) (min, max int) {
	found := false
	for _, r := range records {
		y, ok := r.YearInt()
		if !ok {
			continue
		}
		if !found || y < min {
			min = y
		}
		if !found || y > max {
			max = y
		}
		found = true
	}
	if !found {
		return DefaultMinYear, time.Now().Year()
	}
	return min, max
}

// UniqueSections returns the distinct non-empty section labels, sorted with
// Turkish collation.
func UniqueSections(records []Record) []string {
	return uniqueField(records, func(r Record) []string {
		if r.Section == "" {
			return nil
		}
		return []string{r.Section}
	})
}

// UniqueTitles returns the distinct non-empty titles, Turkish-collated.
func UniqueTitles(records []Record) []string {
	return uniqueField(records, func(r Record) []string {
		if r.Title == "" {
			return nil
		}
		return []string{r.Title}
	})
}

// UniqueAuthors returns every distinct author name, Turkish-collated.
func UniqueAuthors(records []Record) []string {
	return uniqueField(records, func(r Record) []string { return r.Authors })
}

func uniqueField(records []Record, values func(Record) []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range records {
		for _, v := range values(r) {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	sortTurkish(out)
	return out
}

// YearGroup is one partition of GroupByYear.
type YearGroup struct {
	Year  string   `json:"year"`
	Items []Record `json:"items"`
}

// GroupByYear partitions records by their exact year string, ordered by
// year descending under numeric comparison. Records whose year does not
// parse are grouped under their raw year string and sort last. The union
// of all groups is exactly the input.
func GroupByYear(records []Record) []YearGroup {
	index := make(map[string]int)
	var groups []YearGroup
	for _, r := range records {
		y := r.Period.Year
		i, ok := index[y]
		if !ok {
			i = len(groups)
			index[y] = i
			groups = append(groups, YearGroup{Year: y})
		}
		groups[i].Items = append(groups[i].Items, r)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		yi, oki := parseYear(groups[i].Year)
		yj, okj := parseYear(groups[j].Year)
		if oki != okj {
			return oki // parseable years before unparseable
		}
		return yi > yj
	})
	return groups
}

// DedupeByIssue keeps the first-seen record per issue id, preserving
// encounter order. All records with an unparsed id share InvalidID and
// therefore collapse to the first of them.
func DedupeByIssue(records []Record) []Record {
	seen := make(map[int]bool, len(records))
	var out []Record
	for _, r := range records {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out
}

// AuthorCount is one entry of TopAuthors.
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// TopAuthors counts article occurrences per author: a record with N authors
// contributes one to each of the N counters. With reviewsOnly the count is
// restricted to the review section. Sorted by count descending; ties keep
// first-encountered order. limit <= 0 means the default of 10.
func TopAuthors(records []Record, limit int, reviewsOnly bool) []AuthorCount {
	if limit <= 0 {
		limit = 10
	}

	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		if reviewsOnly && r.Section != SectionReview {
			continue
		}
		for _, a := range r.Authors {
			if _, ok := counts[a]; !ok {
				order = append(order, a)
			}
			counts[a]++
		}
	}

	stats := make([]AuthorCount, 0, len(order))
	for _, a := range order {
		stats = append(stats, AuthorCount{Author: a, Count: counts[a]})
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Count > stats[j].Count })

	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

// AverageScore is the arithmetic mean of the raw first-available score
// across records that have any score. Records without a score are excluded
// from the denominator entirely; ok is false when no record has a score.
func AverageScore(records []Record) (avg float64, ok bool) {
	var sum float64
	var n int
	for _, r := range records {
		s, has := DisplayScore(r)
		if !has {
			continue
		}
		sum += s
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// LatestIssue returns the highest valid issue id, or 0 when none exists.
func LatestIssue(records []Record) int {
	latest := 0
	for _, r := range records {
		if r.ID > latest {
			latest = r.ID
		}
	}
	return latest
}
