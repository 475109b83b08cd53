package coa

import (
	"github.com/schollz/closestmatch"

	"github.com/anggaran-dev/anggaran/internal/sheet"
)

// Format is the result of classifying an imported sheet.
type Format string

const (
	FormatStandard Format = "standard"
	FormatUnknown  Format = "unknown"
)

const (
	fieldCode = "account code"
	fieldName = "account name"
)

// Classify reports whether firstDataRow has both an account code and an
// account name column.
func Classify(firstDataRow sheet.RawRow) Format {
	return Diagnose(firstDataRow).Format
}

// Diagnosis is Classify plus the reason for an unknown result.
type Diagnosis struct {
	Format      Format
	Missing     []string
	Suggestions map[string]string
}

// Diagnose classifies firstDataRow and, for every missing field, suggests
// the header that most resembles it.
func Diagnose(firstDataRow sheet.RawRow) Diagnosis {
	d := Diagnosis{Format: FormatStandard}
	if _, ok := sheet.Resolve(firstDataRow, CodeAliases); !ok {
		d.Missing = append(d.Missing, fieldCode)
	}
	if _, ok := sheet.Resolve(firstDataRow, NameAliases); !ok {
		d.Missing = append(d.Missing, fieldName)
	}
	if len(d.Missing) == 0 {
		return d
	}

	d.Format = FormatUnknown
	d.Suggestions = suggest(firstDataRow.Headers(), d.Missing)
	return d
}

// Err returns the FormatError for an unknown diagnosis, nil otherwise.
func (d Diagnosis) Err(headers []string) error {
	if d.Format != FormatUnknown {
		return nil
	}
	return &FormatError{Missing: d.Missing, Suggestions: d.Suggestions, Headers: headers}
}

func suggest(headers, missing []string) map[string]string {
	byNorm := make(map[string]string, len(headers))
	var candidates []string
	for _, h := range headers {
		n := sheet.Normalize(h)
		if n == "" {
			continue
		}
		if _, dup := byNorm[n]; dup {
			continue
		}
		byNorm[n] = h
		candidates = append(candidates, n)
	}
	if len(candidates) == 0 {
		return nil
	}

	cm := closestmatch.New(candidates, []int{2, 3})
	out := make(map[string]string, len(missing))
	for _, field := range missing {
		if match := cm.Closest(field); match != "" {
			out[field] = byNorm[match]
		}
	}
	return out
}
