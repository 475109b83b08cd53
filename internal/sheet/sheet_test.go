package sheet

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(pairs ...string) RawRow {
	r := make(RawRow, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		r = append(r, Column{Header: pairs[i], Value: Text(pairs[i+1])})
	}
	return r
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Account_Code", "account code"},
		{"  Kode   Akun ", "kode akun"},
		{"Debit/Credit", "debit credit"},
		{"Account No.", "account no"},
		{"saldo-akhir", "saldo akhir"},
		{"ＡＣＣＯＵＮＴ", "account"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.input), "input %q", tt.input)
	}
}

func TestResolve_ExactMatch(t *testing.T) {
	r := row("Account No", "1-1100", "Account Name", "Kas")
	c, ok := Resolve(r, Alias{"account no", "account_code", "kode", "kode akun", "no"})
	require.True(t, ok)
	assert.Equal(t, "1-1100", c.String())
}

func TestResolve_AliasOrderWinsOnTie(t *testing.T) {
	r := row("Balance", "100", "Ending Balance", "200")
	c, ok := Resolve(r, Alias{"ending balance", "balance"})
	require.True(t, ok)
	assert.Equal(t, "200", c.String())

	c, ok = Resolve(r, Alias{"balance", "ending balance"})
	require.True(t, ok)
	assert.Equal(t, "100", c.String())
}

func TestResolve_SkipsEmptyCells(t *testing.T) {
	r := row("Kode", "", "Account Code", "4-1000")
	c, ok := Resolve(r, Alias{"kode", "account code"})
	require.True(t, ok)
	assert.Equal(t, "4-1000", c.String())
}

func TestResolve_MultiWordContainment(t *testing.T) {
	r := row("Ending Balance (IDR)", "5.000", "Beginning Balance", "1.000")
	h, ok := ResolveHeader(r, Alias{"ending balance"})
	require.True(t, ok)
	assert.Equal(t, "Ending Balance (IDR)", h)
}

func TestResolve_SingleWordNeedsAllowList(t *testing.T) {
	r := row("Account Name Long", "Kas")
	_, ok := Resolve(r, Alias{"name"})
	assert.False(t, ok, "non allow-listed single word must not partially match")

	r = row("Nama Perkiraan", "Kas")
	c, ok := Resolve(r, Alias{"nama"})
	require.True(t, ok)
	assert.Equal(t, "Kas", c.String())
}

func TestResolve_ShortWordsNotSignificant(t *testing.T) {
	// "account no" has only one significant word, so it cannot match by containment.
	r := row("Account Number Code", "1")
	_, ok := Resolve(r, Alias{"account no"})
	assert.False(t, ok)
}

func TestResolve_NoMatch(t *testing.T) {
	_, ok := Resolve(row("Foo", "1"), Alias{"bar"})
	assert.False(t, ok)
	_, ok = Resolve(nil, Alias{"bar"})
	assert.False(t, ok)
	assert.Equal(t, "", ResolveText(row("Foo", "1"), Alias{"bar"}))
}

func TestResolve_NumberCell(t *testing.T) {
	r := RawRow{{Header: "Saldo", Value: Number(decimal.NewFromInt(2500))}}
	c, ok := Resolve(r, Alias{"saldo"})
	require.True(t, ok)
	assert.Equal(t, KindNumber, c.Kind)
	assert.Equal(t, "2500", c.String())
}

func TestLocateHeader(t *testing.T) {
	rows := [][]Cell{
		Cells([]string{"PT Maju Jaya"}),
		Cells([]string{"Daftar Akun per 31 Desember"}),
		{},
		Cells([]string{"Account No", "Account Name", "Balance"}),
		Cells([]string{"1-1100", "Kas", "100"}),
	}
	assert.Equal(t, 3, LocateHeader(rows, 20))
}

func TestLocateHeader_DefaultsToZero(t *testing.T) {
	rows := [][]Cell{
		Cells([]string{"Kode", "Nama"}),
		Cells([]string{"1-1100", "Kas"}),
	}
	assert.Equal(t, 0, LocateHeader(rows, 20))
	assert.Equal(t, 0, LocateHeader(nil, 20))
}

func TestLocateHeader_RespectsMaxScan(t *testing.T) {
	rows := [][]Cell{
		Cells([]string{"title"}),
		Cells([]string{"subtitle"}),
		Cells([]string{"Account Code", "Account Name"}),
	}
	assert.Equal(t, 0, LocateHeader(rows, 2))
	assert.Equal(t, 2, LocateHeader(rows, 0), "non-positive maxScan uses the default")
}

func TestLocateHeaderWith_Indonesian(t *testing.T) {
	rows := [][]Cell{
		Cells([]string{"Laporan"}),
		Cells([]string{"Kode Akun", "Nama Akun", "Saldo"}),
	}
	assert.Equal(t, 0, LocateHeader(rows, 20))
	assert.Equal(t, 1, LocateHeaderWith(rows, 20, IndonesianKeywords))
}

func TestRekey(t *testing.T) {
	rows := [][]Cell{
		Cells([]string{"Report"}),
		Cells([]string{"Account No", "", "Balance", "Balance"}),
		Cells([]string{"1-1100", "x", "10", "20"}),
		Cells([]string{"", ""}),
		Cells([]string{"2-1000"}),
	}
	got := Rekey(rows, 1)
	require.Len(t, got, 2)

	assert.Equal(t, []string{"Account No", "column_2", "Balance", "Balance_1"}, got[0].Headers())
	c, ok := got[0].Get("Balance_1")
	require.True(t, ok)
	assert.Equal(t, "20", c.String())

	c, ok = got[1].Get("Balance")
	require.True(t, ok)
	assert.True(t, c.IsEmpty())
}

func TestRekey_OutOfRange(t *testing.T) {
	assert.Nil(t, Rekey(nil, 0))
	assert.Nil(t, Rekey([][]Cell{{}}, 3))
}

func TestCell(t *testing.T) {
	assert.True(t, Text("   ").IsEmpty())
	assert.Nil(t, Empty().Any())
	assert.Equal(t, "abc", Text(" abc ").Any())
	d := decimal.RequireFromString("1.5")
	assert.Equal(t, d, Number(d).Any())
}
