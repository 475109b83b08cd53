package importer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/extrame/xls"

	"github.com/anggaran-dev/anggaran/internal/sheet"
)

// XLSDecoder decodes legacy BIFF8 (.xls) workbooks, first sheet only.
type XLSDecoder struct{}

// Format returns the decoder name.
func (d *XLSDecoder) Format() string { return "xls" }

// Decode implements Decoder.
func (d *XLSDecoder) Decode(r io.Reader) (rows [][]sheet.Cell, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading workbook: %w", err)
	}

	// The xls reader panics on some malformed files.
	defer func() {
		if p := recover(); p != nil {
			rows, err = nil, fmt.Errorf("opening workbook: %v", p)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, fmt.Errorf("could not read first sheet")
	}

	for i := 0; i <= int(ws.MaxRow); i++ {
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		values := make([]string, row.LastCol())
		for c := range values {
			values[c] = row.Col(c)
		}
		rows = append(rows, sheet.Cells(values))
	}
	return rows, nil
}
