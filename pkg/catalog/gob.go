package catalog

import (
	"encoding/gob"
	"fmt"
	"os"
)

// LoadRecordsGob deserializes normalized records from a gob cache file.
func LoadRecordsGob(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gob file: %w", err)
	}
	defer f.Close()

	var records []Record
	if err := gob.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode gob: %w", err)
	}
	return records, nil
}

// SaveRecordsGob serializes normalized records to a gob file at path.
func SaveRecordsGob(records []Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gob file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(records); err != nil {
		return fmt.Errorf("encode gob: %w", err)
	}
	return nil
}
