package catalog

import (
	"reflect"
	"testing"
	"time"
)

func TestYearBounds(t *testing.T) {
	min, max := YearBounds(testRecords())
	if min != 2008 || max != 2015 {
		t.Errorf("YearBounds = (%d, %d), want (2008, 2015)", min, max)
	}
}

func TestYearBounds_Fallback(t *testing.T) {
	records := []Record{{ID: 1}, {ID: 2, Period: ReleasePeriod{Year: "bad"}}}
	min, max := YearBounds(records)
	if min != DefaultMinYear || max != time.Now().Year() {
		t.Errorf("YearBounds fallback = (%d, %d), want (%d, current year)", min, max, DefaultMinYear)
	}
}

func TestUniqueSections_TurkishCollation(t *testing.T) {
	got := UniqueSections(testRecords())
	want := []string{"Donanım", "İnceleme", "Söyleşi"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UniqueSections = %v, want %v", got, want)
	}
}

func TestUniqueAuthors(t *testing.T) {
	got := UniqueAuthors(testRecords())
	want := []string{"Ahmet Yılmaz", "Ayşe Kaya", "Mehmet Demir"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UniqueAuthors = %v, want %v", got, want)
	}
}

func TestUniqueTitles_Empty(t *testing.T) {
	if got := UniqueTitles(nil); len(got) != 0 {
		t.Errorf("UniqueTitles(nil) = %v, want empty", got)
	}
}

func TestGroupByYear(t *testing.T) {
	records := testRecords()
	groups := GroupByYear(records)

	// Descending numeric order, unparseable year last.
	wantYears := []string{"2015", "2012", "2008", ""}
	if len(groups) != len(wantYears) {
		t.Fatalf("groups = %d, want %d", len(groups), len(wantYears))
	}
	for i, g := range groups {
		if g.Year != wantYears[i] {
			t.Errorf("group %d year = %q, want %q", i, g.Year, wantYears[i])
		}
	}

	// Union of all groups is exactly the input.
	total := 0
	for _, g := range groups {
		total += len(g.Items)
	}
	if total != len(records) {
		t.Errorf("groups hold %d records, want %d", total, len(records))
	}
}

func TestDedupeByIssue(t *testing.T) {
	records := testRecords()
	got := DedupeByIssue(records)

	if len(got) > len(records) {
		t.Fatalf("dedupe grew the input: %d > %d", len(got), len(records))
	}
	seen := make(map[int]int)
	for _, r := range got {
		seen[r.ID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("id %d appears %d times after dedupe", id, n)
		}
	}
	// First-seen record wins: issue 45 keeps the İnceleme article.
	for _, r := range got {
		if r.ID == 45 && r.Section != "İnceleme" {
			t.Errorf("issue 45 kept %q, want the first-seen record", r.Title)
		}
	}
}

func TestTopAuthors(t *testing.T) {
	records := []Record{
		{Authors: []string{"A"}}, {Authors: []string{"A"}}, {Authors: []string{"A", "B"}},
		{Authors: []string{"B"}}, {Authors: []string{"B"}},
		{Authors: []string{"C"}},
	}
	got := TopAuthors(records, 2, false)
	// A and B both have 3; tie keeps first-encountered order; C never beats a tie.
	want := []AuthorCount{{Author: "A", Count: 3}, {Author: "B", Count: 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopAuthors = %v, want %v", got, want)
	}
}

func TestTopAuthors_ReviewsOnly(t *testing.T) {
	got := TopAuthors(testRecords(), 10, true)
	// Only İnceleme records with authors count: Ahmet (2), Ayşe (1).
	want := []AuthorCount{{Author: "Ahmet Yılmaz", Count: 2}, {Author: "Ayşe Kaya", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopAuthors(reviewsOnly) = %v, want %v", got, want)
	}
}

func TestTopAuthors_DefaultLimit(t *testing.T) {
	var records []Record
	for i := 0; i < 15; i++ {
		records = append(records, Record{Authors: []string{string(rune('A' + i))}})
	}
	if got := TopAuthors(records, 0, false); len(got) != 10 {
		t.Errorf("default limit = %d, want 10", len(got))
	}
}

func TestAverageScore(t *testing.T) {
	// Mean of first-available raw scores; the scoreless record is excluded
	// from the denominator entirely.
	records := []Record{
		{ScoreIn10: fp(8)},
		{},
		{ScoreIn5: fp(4)},
	}
	avg, ok := AverageScore(records)
	if !ok || avg != 6 {
		t.Errorf("AverageScore = (%g, %t), want (6, true)", avg, ok)
	}
}

func TestAverageScore_NoScores(t *testing.T) {
	if _, ok := AverageScore([]Record{{}, {}}); ok {
		t.Error("AverageScore reported a value for scoreless records")
	}
	if _, ok := AverageScore(nil); ok {
		t.Error("AverageScore reported a value for empty input")
	}
}

func TestLatestIssue(t *testing.T) {
	if got := LatestIssue(testRecords()); got != 60 {
		t.Errorf("LatestIssue = %d, want 60", got)
	}
	if got := LatestIssue(nil); got != 0 {
		t.Errorf("LatestIssue(nil) = %d, want 0", got)
	}
}
