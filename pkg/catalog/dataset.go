package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// recordsCacheFile is the gob cache of normalized records, written next to
// the CSV after a successful load and preferred when it is at least as new.
const recordsCacheFile = "records.gob"

// defaultColumns is the canonical column order assumed for headerless CSVs.
var defaultColumns = []string{
	ColIssue, ColDate, ColSection, ColContent, ColAuthor,
	ColScore100, ColScore10, ColScore5,
}

// LoadDataset reads a dataset directory (manifest.yaml + CSV export) and
// returns the normalized records. A fresh records.gob cache short-circuits
// the CSV parse; a stale or unreadable cache falls back to the CSV and is
// rewritten best-effort.
func LoadDataset(dir string) ([]Record, error) {
	manifest, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return nil, err
	}

	dataPath := filepath.Join(dir, manifest.DataFile)
	cachePath := filepath.Join(dir, recordsCacheFile)

	if cacheFresh(cachePath, dataPath) {
		records, err := LoadRecordsGob(cachePath)
		if err == nil {
			return records, nil
		}
		slog.Warn("records cache unreadable, reparsing CSV", "dataset", manifest.ID, "error", err)
	}

	f, err := os.Open(dataPath)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	rows, err := ReadRows(f, manifest.Format)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", manifest.ID, err)
	}
	records := Normalize(rows)

	if err := SaveRecordsGob(records, cachePath); err != nil {
		slog.Warn("write records cache", "dataset", manifest.ID, "error", err)
	}
	return records, nil
}

// cacheFresh reports whether the gob cache exists and is at least as new as
// the data file.
func cacheFresh(cachePath, dataPath string) bool {
	ci, err := os.Stat(cachePath)
	if err != nil {
		return false
	}
	di, err := os.Stat(dataPath)
	if err != nil {
		return false
	}
	return !ci.ModTime().Before(di.ModTime())
}

// ReadRows parses a CSV export into column-label-keyed rows. Non-UTF-8
// encodings declared in the format (Turkish exports are often
// windows-1254) are transcoded. Ragged rows are tolerated: missing cells
// are simply absent from the map.
func ReadRows(r io.Reader, format FormatSpec) ([]RawRow, error) {
	if enc := format.Encoding; enc != "" && !isUTF8(enc) {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return nil, fmt.Errorf("unsupported encoding %q: %w", enc, err)
		}
		r = transform.NewReader(r, e.NewDecoder())
	}

	cr := csv.NewReader(r)
	if format.Delimiter != "" {
		cr.Comma = []rune(format.Delimiter)[0]
	}
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	columns := defaultColumns
	if format.HasHeader {
		header, err := cr.Read()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		columns = make([]string, len(header))
		for i, h := range header {
			columns[i] = strings.TrimSpace(h)
		}
	}

	var rows []RawRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		row := make(RawRow, len(columns))
		for i, col := range columns {
			if col == "" || i >= len(record) {
				continue
			}
			row[col] = strings.TrimSpace(record[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
