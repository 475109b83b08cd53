// Package importlog records one audit row per chart-of-accounts import in
// logs/import-log.csv.
package importlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Status values for Entry.Status.
const (
	StatusImported = "imported"
	StatusDryRun   = "dry_run"
	StatusFailed   = "failed"
)

// Entry is one row in the import log.
type Entry struct {
	Timestamp time.Time
	Entity    string
	File      string
	Status    string
	Inserted  int
	Updated   int
	Total     int
	Rejected  int
	Error     string
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,entity,file,status,inserted,updated,total,rejected,error"

const (
	numFields    = 9
	logDir       = "logs"
	logFile      = "logs/import-log.csv"
	colTimestamp = 0
	colEntity    = 1
	colFile      = 2
	colStatus    = 3
	colInserted  = 4
	colUpdated   = 5
	colTotal     = 6
	colRejected  = 7
	colError     = 8
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colEntity] = e.Entity
	row[colFile] = e.File
	row[colStatus] = e.Status
	row[colInserted] = strconv.Itoa(e.Inserted)
	row[colUpdated] = strconv.Itoa(e.Updated)
	row[colTotal] = strconv.Itoa(e.Total)
	row[colRejected] = strconv.Itoa(e.Rejected)
	row[colError] = e.Error
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	counts := make([]int, 4)
	for i, col := range []int{colInserted, colUpdated, colTotal, colRejected} {
		n, err := strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
		counts[i] = n
	}

	return Entry{
		Timestamp: ts,
		Entity:    record[colEntity],
		File:      record[colFile],
		Status:    record[colStatus],
		Inserted:  counts[0],
		Updated:   counts[1],
		Total:     counts[2],
		Rejected:  counts[3],
		Error:     record[colError],
	}, nil
}

// Append writes entries to <repoRoot>/logs/import-log.csv, creating the file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/import-log.csv.
// Returns nil if the file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(repoRoot, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

// Last returns the most recent entry for entity, if any.
func Last(repoRoot, entity string) (Entry, bool, error) {
	entries, err := Read(repoRoot)
	if err != nil {
		return Entry{}, false, err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Entity == entity {
			return entries[i], true, nil
		}
	}
	return Entry{}, false, nil
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
