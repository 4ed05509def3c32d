package catalog

import (
	"strconv"
	"strings"
)

// Normalize converts raw spreadsheet rows into canonical records. It is a
// pure function: no row is ever dropped and no parse failure is an error.
// A field that cannot be parsed is simply left absent on the output record,
// except the issue number, which becomes InvalidID.
func Normalize(rows []RawRow) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, normalizeRow(row))
	}
	return records
}

func normalizeRow(row RawRow) Record {
	rec := Record{
		ID:      parseIssueID(row[ColIssue]),
		Section: row[ColSection],
		Title:   row[ColContent],
		Period:  parsePeriod(row[ColDate]),
	}

	if a := row[ColAuthor]; a != "" && a != noValue {
		rec.Authors = splitAuthors(a)
	}

	// The three score columns are parsed independently, not
	// short-circuited: a malformed source row may populate more than one,
	// which consumers resolve by fixed priority.
	if v := row[ColScore100]; v != "" && v != noValue {
		rec.ScoreIn100 = parseScore(v)
	}
	if v := row[ColScore10]; !score10Sentinels[v] {
		rec.ScoreIn10 = parseScore(strings.TrimSuffix(v, "+"))
	}
	if v := row[ColScore5]; v != "" && v != noValue {
		rec.ScoreIn5 = parseScore(v)
	}

	return rec
}

// parsePeriod splits "2012/02-03" into year "2012" and months ["02" "03"].
// A date without the year/months separator is treated as unparseable and
// yields an empty period: the record still exists, year-bounded views just
// never see it.
func parsePeriod(date string) ReleasePeriod {
	year, monthGroup, ok := strings.Cut(date, "/")
	if !ok || year == "" || monthGroup == "" {
		return ReleasePeriod{}
	}
	return ReleasePeriod{
		Year:   year,
		Months: strings.Split(monthGroup, "-"),
	}
}

func splitAuthors(s string) []string {
	parts := strings.Split(s, authorDelimiter)
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			authors = append(authors, name)
		}
	}
	if len(authors) == 0 {
		return nil
	}
	return authors
}

func parseIssueID(s string) int {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id < 1 {
		return InvalidID
	}
	return id
}

// parseScore converts a decimal-comma spreadsheet number ("8,5") to a
// float. Returns nil when the value does not parse.
func parseScore(s string) *float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseYear(s string) (int, bool) {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return y, true
}
