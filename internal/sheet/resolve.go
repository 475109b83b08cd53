package sheet

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Alias is an ordered list of acceptable header names for one logical
// field. Earlier entries win when several headers match.
type Alias []string

// partialKeywords are the only single-word aliases allowed to match a
// header by substring. Anything broader produces false positives on
// free-form headers.
var partialKeywords = map[string]bool{
	"kode":       true,
	"nama":       true,
	"currency":   true,
	"debit":      true,
	"credit":     true,
	"level":      true,
	"uraian":     true,
	"keterangan": true,
}

var separators = strings.NewReplacer(
	"_", " ",
	"-", " ",
	"/", " ",
	".", " ",
	":", " ",
	"#", " ",
	"(", " ",
	")", " ",
)

// Normalize folds a header or alias for comparison: NFKC, lower case,
// separators to spaces, whitespace collapsed.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(strings.TrimSpace(s))
	s = separators.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Resolve returns the value of the column that best matches aliases. Only
// non-empty cells are considered. The second result is false when no
// column matches.
func Resolve(row RawRow, aliases Alias) (Cell, bool) {
	_, c, ok := resolve(row, aliases)
	return c, ok
}

// ResolveHeader returns the raw header Resolve would read from.
func ResolveHeader(row RawRow, aliases Alias) (string, bool) {
	h, _, ok := resolve(row, aliases)
	return h, ok
}

// ResolveText is Resolve rendered as trimmed text, "" when absent.
func ResolveText(row RawRow, aliases Alias) string {
	c, ok := Resolve(row, aliases)
	if !ok {
		return ""
	}
	return strings.TrimSpace(c.String())
}

type candidate struct {
	header string
	norm   string
	value  Cell
}

func resolve(row RawRow, aliases Alias) (string, Cell, bool) {
	cols := make([]candidate, 0, len(row))
	for _, c := range row {
		if c.Value.IsEmpty() {
			continue
		}
		cols = append(cols, candidate{header: c.Header, norm: Normalize(c.Header), value: c.Value})
	}
	if len(cols) == 0 {
		return "", Cell{}, false
	}

	normAliases := make([]string, len(aliases))
	for i, a := range aliases {
		normAliases[i] = Normalize(a)
	}

	// Exact match, alias order first.
	for _, a := range normAliases {
		for _, c := range cols {
			if c.norm == a {
				return c.header, c.value, true
			}
		}
	}

	// Every significant word of a multi-word alias appears in the header.
	for _, a := range normAliases {
		words := significantWords(a)
		if len(words) < 2 {
			continue
		}
		for _, c := range cols {
			if containsAll(c.norm, words) {
				return c.header, c.value, true
			}
		}
	}

	// Allow-listed single keywords by substring.
	for _, a := range normAliases {
		if !partialKeywords[a] {
			continue
		}
		for _, c := range cols {
			if strings.Contains(c.norm, a) {
				return c.header, c.value, true
			}
		}
	}

	return "", Cell{}, false
}

func significantWords(s string) []string {
	var words []string
	for _, w := range strings.Fields(s) {
		if len(w) > 2 {
			words = append(words, w)
		}
	}
	return words
}

func containsAll(s string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(s, w) {
			return false
		}
	}
	return true
}
