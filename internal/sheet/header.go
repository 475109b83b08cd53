package sheet

import "strings"

// DefaultMaxScan is how many leading rows LocateHeader inspects.
const DefaultMaxScan = 20

// Keywords decides which row is the header: its text must contain one of
// Anchors and one of Fields.
type Keywords struct {
	Anchors []string
	Fields  []string
}

// EnglishKeywords match the English-labelled exports most accounting
// systems produce even when the surrounding sheet is Indonesian.
var EnglishKeywords = Keywords{
	Anchors: []string{"account"},
	Fields:  []string{"no", "name", "code"},
}

// IndonesianKeywords extend EnglishKeywords with Indonesian labels.
var IndonesianKeywords = Keywords{
	Anchors: []string{"account", "akun", "perkiraan", "rekening"},
	Fields:  []string{"no", "name", "code", "kode", "nama"},
}

// LocateHeader returns the index of the header row among the first maxScan
// rows using EnglishKeywords, or 0 when no row qualifies.
func LocateHeader(rows [][]Cell, maxScan int) int {
	return LocateHeaderWith(rows, maxScan, EnglishKeywords)
}

// LocateHeaderWith is LocateHeader with a caller-supplied keyword set.
func LocateHeaderWith(rows [][]Cell, maxScan int, kw Keywords) int {
	if maxScan <= 0 {
		maxScan = DefaultMaxScan
	}
	for i, row := range rows {
		if i >= maxScan {
			break
		}
		text := rowText(row)
		if containsAny(text, kw.Anchors) && containsAny(text, kw.Fields) {
			return i
		}
	}
	return 0
}

func rowText(row []Cell) string {
	parts := make([]string, 0, len(row))
	for _, c := range row {
		if s := c.String(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
