// Package sheet holds the decoded-spreadsheet model used by the importer:
// typed cells, header-keyed rows, header row detection and fuzzy column
// lookup.
package sheet

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind tags the value held by a Cell.
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
)

// Cell is a single spreadsheet value: a string, a number, or empty.
type Cell struct {
	Kind Kind
	Str  string
	Num  decimal.Decimal
}

// Empty returns an empty cell.
func Empty() Cell { return Cell{} }

// Text returns a string cell. Blank strings become empty cells.
func Text(s string) Cell {
	s = strings.TrimSpace(s)
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: KindString, Str: s}
}

// Number returns a numeric cell.
func Number(d decimal.Decimal) Cell {
	return Cell{Kind: KindNumber, Num: d}
}

// Cells converts decoded text cells into a row of Cells.
func Cells(values []string) []Cell {
	out := make([]Cell, len(values))
	for i, v := range values {
		out[i] = Text(v)
	}
	return out
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == KindEmpty
}

// String renders the cell as text.
func (c Cell) String() string {
	switch c.Kind {
	case KindString:
		return c.Str
	case KindNumber:
		return c.Num.String()
	default:
		return ""
	}
}

// Any returns the cell's value as nil, string or decimal.Decimal.
func (c Cell) Any() any {
	switch c.Kind {
	case KindString:
		return c.Str
	case KindNumber:
		return c.Num
	default:
		return nil
	}
}

// Column is one header/value pair of a RawRow.
type Column struct {
	Header string
	Value  Cell
}

// RawRow is a data row keyed by the raw header text, in spreadsheet column order.
type RawRow []Column

// NewRow zips headers and cells. Missing cells are empty; extra cells are dropped.
func NewRow(headers []string, cells []Cell) RawRow {
	row := make(RawRow, len(headers))
	for i, h := range headers {
		row[i].Header = h
		if i < len(cells) {
			row[i].Value = cells[i]
		}
	}
	return row
}

// Get returns the cell stored under the exact header.
func (r RawRow) Get(header string) (Cell, bool) {
	for _, c := range r {
		if c.Header == header {
			return c.Value, true
		}
	}
	return Cell{}, false
}

// Headers returns the row's headers in column order.
func (r RawRow) Headers() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Header
	}
	return out
}

// Blank reports whether every cell of the row is empty.
func (r RawRow) Blank() bool {
	for _, c := range r {
		if !c.Value.IsEmpty() {
			return false
		}
	}
	return true
}

// Rekey re-parses rows relative to the header row at headerIdx. Blank
// headers become "column_N", repeated headers get a "_N" suffix, and rows
// with no values are dropped.
func Rekey(rows [][]Cell, headerIdx int) []RawRow {
	if headerIdx < 0 || headerIdx >= len(rows) {
		return nil
	}

	headers := headerNames(rows[headerIdx])
	var out []RawRow
	for _, cells := range rows[headerIdx+1:] {
		row := NewRow(headers, cells)
		if row.Blank() {
			continue
		}
		out = append(out, row)
	}
	return out
}

func headerNames(cells []Cell) []string {
	seen := make(map[string]int, len(cells))
	headers := make([]string, len(cells))
	for i, c := range cells {
		h := c.String()
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			h = fmt.Sprintf("%s_%d", h, n+1)
		} else {
			seen[h] = 0
		}
		headers[i] = h
	}
	return headers
}
