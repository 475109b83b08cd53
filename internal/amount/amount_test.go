package amount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"5.600.000,00", "5600000"},
		{"5,600,000.00", "5600000"},
		{"5.000.000", "5000000"},
		{"1,234,567", "1234567"},
		{"5000", "5000"},
		{"5,000", "5000"},
		{"5,5", "5.5"},
		{"12,50", "12.5"},
		{"12.50", "12.5"},
		{"5.000", "5000"},
		{"1.500", "1500"},
		{"Rp 5.000", "5000"},
		{"0.125", "125"},
		{"2.5", "2.5"},
		{"Rp 1.250.000,75", "1250000.75"},
		{"IDR 2,500.10", "2500.1"},
		{"-4.000,00", "-4000"},
		{"4.000,00-", "-4000"},
		{"(2,500.00)", "-2500"},
		{"  750  ", "750"},
		{"", "0"},
		{"   ", "0"},
		{"n/a", "0"},
		{"-", "0"},
		{"1-2", "0"},
	}
	for _, tt := range tests {
		got := ParseString(tt.input)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "input %q: got %s, want %s", tt.input, got, tt.want)
	}
}

func TestParse_RoundTripLocales(t *testing.T) {
	eu := Parse("5.600.000,00")
	us := Parse("5,600,000.00")
	assert.True(t, eu.Equal(us))
	assert.Equal(t, "5600000.00", eu.StringFixed(2))
}

func TestParse_NumericUnchanged(t *testing.T) {
	d := decimal.RequireFromString("123.45")
	assert.True(t, Parse(d).Equal(d))
	assert.True(t, Parse(&d).Equal(d))
	assert.True(t, Parse(42).Equal(decimal.NewFromInt(42)))
	assert.True(t, Parse(int64(-7)).Equal(decimal.NewFromInt(-7)))
	assert.True(t, Parse(2.5).Equal(decimal.RequireFromString("2.5")))
}

func TestParse_NilAndUnknown(t *testing.T) {
	var nilDecimal *decimal.Decimal
	assert.True(t, Parse(nil).IsZero())
	assert.True(t, Parse(nilDecimal).IsZero())
	assert.True(t, Parse(struct{}{}).IsZero())
	assert.True(t, Parse([]byte("10")).IsZero())
}

func TestParseString_LoneSeparatorSymmetry(t *testing.T) {
	for _, pair := range [][2]string{
		{"5.000", "5,000"},
		{"12.50", "12,50"},
		{"Rp 7.500", "IDR 7,500"},
	} {
		assert.True(t, ParseString(pair[0]).Equal(ParseString(pair[1])), "%q vs %q", pair[0], pair[1])
	}
}
