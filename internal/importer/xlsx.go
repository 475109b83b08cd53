package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/anggaran-dev/anggaran/internal/sheet"
)

// XLSXDecoder decodes Office Open XML workbooks.
type XLSXDecoder struct {
	// Sheet selects a worksheet by name; empty means the first sheet.
	Sheet string
}

// Format returns the decoder name.
func (d *XLSXDecoder) Format() string { return "xlsx" }

// Decode implements Decoder.
func (d *XLSXDecoder) Decode(r io.Reader) ([][]sheet.Cell, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	name := d.Sheet
	if name == "" {
		name = f.GetSheetName(0)
	}
	if name == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", name, err)
	}

	rows := make([][]sheet.Cell, len(records))
	for i, rec := range records {
		rows[i] = sheet.Cells(rec)
	}
	return rows, nil
}
