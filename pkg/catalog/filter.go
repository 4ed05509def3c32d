package catalog

import "strings"

// Criteria is one filter configuration. The zero value matches everything:
// an empty YearRange or ScoreRange applies no bound, empty strings and an
// empty section set apply no text filter.
type Criteria struct {
	// Sections is OR-matched by exact label; empty means no section filter.
	Sections []string
	// Title and Author are substring-matched after NormalizeForComparison.
	// An author filter matches when any of a record's authors matches.
	Title  string
	Author string
	// YearRange is inclusive. Records whose year did not parse pass through
	// unfiltered by year. An inverted range matches nothing.
	YearRange [2]int
	// ExcludeReviews drops records whose section equals the review label
	// under normalized comparison.
	ExcludeReviews bool
	// ScoreRange is inclusive on the normalized 0–10 scale and only
	// consulted when ScoreRangeSet is true. At the full default bounds
	// records without a score still pass; once narrowed, records without
	// a score are excluded (they cannot be confirmed to be in range).
	// The flag keeps a deliberate [0,0] range distinct from "no filter".
	ScoreRange    [2]float64
	ScoreRangeSet bool
}

// scoreFilterActive reports whether the score range is narrower than the
// full scale. An unset range never filters.
func (c Criteria) scoreFilterActive() bool {
	if !c.ScoreRangeSet {
		return false
	}
	return c.ScoreRange != [2]float64{ScoreScaleMin, ScoreScaleMax}
}

func (c Criteria) yearFilterActive() bool {
	return c.YearRange != [2]int{}
}

// Active reports whether any filter deviates from "match everything",
// given the dataset's actual year bounds.
func (c Criteria) Active(dataMinYear, dataMaxYear int) bool {
	if len(c.Sections) > 0 || strings.TrimSpace(c.Title) != "" || strings.TrimSpace(c.Author) != "" {
		return true
	}
	if c.ExcludeReviews || c.scoreFilterActive() {
		return true
	}
	return c.yearFilterActive() && c.YearRange != [2]int{dataMinYear, dataMaxYear}
}

// Filter applies the criteria to records and returns the matching subset in
// input order. Pure: the input is never mutated.
func Filter(records []Record, c Criteria) []Record {
	title := NormalizeForComparison(strings.TrimSpace(c.Title))
	author := NormalizeForComparison(strings.TrimSpace(c.Author))

	var out []Record
	for _, r := range records {
		if !matches(r, c, title, author, true) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterByIssue returns the records of a single issue with the global
// filters applied, minus the year filter: inside one issue the year is a
// property of the issue itself, not a browsing axis.
func FilterByIssue(records []Record, c Criteria, id int) []Record {
	if id < 1 {
		return nil
	}
	title := NormalizeForComparison(strings.TrimSpace(c.Title))
	author := NormalizeForComparison(strings.TrimSpace(c.Author))

	var out []Record
	for _, r := range records {
		if r.ID != id {
			continue
		}
		if !matches(r, c, title, author, false) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matches(r Record, c Criteria, title, author string, byYear bool) bool {
	if c.ExcludeReviews && equalsNormalized(r.Section, SectionReview) {
		return false
	}

	if len(c.Sections) > 0 && !containsString(c.Sections, r.Section) {
		return false
	}

	if title != "" && !containsNormalized(r.Title, title) {
		return false
	}

	if author != "" && !anyAuthorMatches(r.Authors, author) {
		return false
	}

	// Year filtering fails open: an unparseable year passes.
	if byYear && c.yearFilterActive() {
		if y, ok := r.YearInt(); ok && (y < c.YearRange[0] || y > c.YearRange[1]) {
			return false
		}
	}

	if c.scoreFilterActive() {
		s, ok := NormalizedScore(r)
		if !ok {
			return false
		}
		if s < c.ScoreRange[0] || s > c.ScoreRange[1] {
			return false
		}
	}

	return true
}

func anyAuthorMatches(authors []string, normalizedNeedle string) bool {
	for _, a := range authors {
		if containsNormalized(a, normalizedNeedle) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
