package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/anggaran-dev/anggaran/internal/sheet"
)

// CSVDecoder decodes delimited text exports. The delimiter is sniffed from
// the first few kilobytes, a UTF-8 BOM is dropped, and input that is not
// valid UTF-8 is read as Windows-1252.
type CSVDecoder struct {
	// Comma forces a delimiter; zero means sniff.
	Comma rune
}

const sniffWindow = 4096

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Format returns the decoder name.
func (d *CSVDecoder) Format() string { return "csv" }

// Decode implements Decoder.
func (d *CSVDecoder) Decode(r io.Reader) ([][]sheet.Cell, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var src io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		src = transform.NewReader(src, charmap.Windows1252.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.Comma = d.Comma
	if cr.Comma == 0 {
		cr.Comma = sniffDelimiter(data)
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	rows := make([][]sheet.Cell, len(records))
	for i, rec := range records {
		rows[i] = sheet.Cells(rec)
	}
	return rows, nil
}

// sniffDelimiter picks the most frequent of ',', ';', '\t' and '|' outside
// quotes in the first kilobytes. Ties go to ','.
func sniffDelimiter(data []byte) rune {
	if len(data) > sniffWindow {
		data = data[:sniffWindow]
	}

	counts := map[byte]int{}
	inQuotes := false
	for _, b := range data {
		switch {
		case b == '"':
			inQuotes = !inQuotes
		case inQuotes:
		case b == ',' || b == ';' || b == '\t' || b == '|':
			counts[b]++
		}
	}

	best := byte(',')
	for _, c := range []byte{';', '\t', '|'} {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return rune(best)
}
