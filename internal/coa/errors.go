package coa

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFormatUnrecognized means the sheet lacks an account code or name column.
	ErrFormatUnrecognized = errors.New("spreadsheet format not recognized")
	// ErrEmptySource means no data rows were found below the header.
	ErrEmptySource = errors.New("no data")
	// ErrNoValidRows means the schema was fine but every row was rejected.
	ErrNoValidRows = errors.New("no valid account rows")
	// ErrPersistence wraps failures of the ledger store.
	ErrPersistence = errors.New("persisting accounts")
	// ErrMissingEntity means no entity ID was supplied.
	ErrMissingEntity = errors.New("entity id is required")
)

// FormatError describes why a sheet was classified as unknown.
type FormatError struct {
	Missing     []string          // logical fields with no matching column
	Suggestions map[string]string // field -> closest header in the sheet
	Headers     []string
}

func (e *FormatError) Error() string {
	parts := make([]string, 0, len(e.Missing))
	for _, field := range e.Missing {
		if s, ok := e.Suggestions[field]; ok && s != "" {
			parts = append(parts, fmt.Sprintf("%s (closest column: %q)", field, s))
		} else {
			parts = append(parts, field)
		}
	}
	return fmt.Sprintf("%s: missing %s; check that the sheet has account code and account name columns",
		ErrFormatUnrecognized, strings.Join(parts, ", "))
}

func (e *FormatError) Unwrap() error { return ErrFormatUnrecognized }
