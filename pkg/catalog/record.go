// Package catalog holds the normalized in-memory model of a magazine's
// article index and the pure filter/aggregation functions over it.
package catalog

// Column labels as they appear in the published spreadsheet export.
const (
	ColDate     = "Tarih"
	ColIssue    = "Sayı"
	ColSection  = "Bölüm"
	ColContent  = "İçerik"
	ColAuthor   = "Yazar"
	ColScore100 = "Puan (100'lük)"
	ColScore10  = "Puan (10'luk)"
	ColScore5   = "Puan (5'lik)"
)

// SectionReview is the section label marking scored game reviews.
const SectionReview = "İnceleme"

// noValue is the sentinel the spreadsheet uses for "no value".
const noValue = "-"

// authorDelimiter separates co-authors inside the author column.
const authorDelimiter = " - "

// score10Sentinels are non-numeric tokens that appear in the 10-point score
// column and must be treated as "no score".
var score10Sentinels = map[string]bool{
	"Co-op": true,
	"EE":    true,
	"FUO":   true,
	"Upd.":  true,
	"-":     true,
	"":      true,
}

// InvalidID marks a record whose issue number could not be parsed.
// Numeric consumers (latest issue, issue lookup) must skip ids < 1.
const InvalidID = -1

// RawRow is one spreadsheet row keyed by column label, values as found in
// the source. Any field may be absent, blank, or the "-" sentinel.
type RawRow map[string]string

// ReleasePeriod is the publication period of an issue. An issue may span
// several months ("Şubat-Mart"), so Months is a sequence. Both fields are
// empty when the date column was missing or malformed; Months is never
// empty when Year is set.
type ReleasePeriod struct {
	Year   string   `json:"year,omitempty"`
	Months []string `json:"months,omitempty"`
}

// Record is one normalized article entry. Records are immutable after
// normalization; every derived view works on copies or shared read-only
// slices.
type Record struct {
	ID      int           `json:"id"`
	Period  ReleasePeriod `json:"release_period"`
	Section string        `json:"section"`
	Title   string        `json:"title"`
	// Authors is nil when the author column was blank or "-".
	Authors []string `json:"authors,omitempty"`
	// At most one of the three score fields is expected per well-formed
	// row. All three are parsed independently; consumers resolve multiple
	// populated fields with the fixed 100 > 10 > 5 priority.
	ScoreIn100 *float64 `json:"score_in_100,omitempty"`
	ScoreIn10  *float64 `json:"score_in_10,omitempty"`
	ScoreIn5   *float64 `json:"score_in_5,omitempty"`
}

// YearInt returns the parsed release year and whether it parsed.
func (r Record) YearInt() (int, bool) {
	return parseYear(r.Period.Year)
}
