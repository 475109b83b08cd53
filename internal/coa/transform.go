package coa

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/anggaran-dev/anggaran/internal/amount"
	"github.com/anggaran-dev/anggaran/internal/id"
	"github.com/anggaran-dev/anggaran/internal/model"
	"github.com/anggaran-dev/anggaran/internal/sheet"
)

// skipKeywords mark spreadsheet summary rows rather than accounts.
var skipKeywords = []string{"total", "subtotal", "difference", "grand total", "sub total"}

// typeNames maps explicit type labels, English and Indonesian, to types.
var typeNames = map[string]model.AccountType{
	"ASSET":       model.AccountTypeAsset,
	"ASSETS":      model.AccountTypeAsset,
	"ASET":        model.AccountTypeAsset,
	"AKTIVA":      model.AccountTypeAsset,
	"HARTA":       model.AccountTypeAsset,
	"LIABILITY":   model.AccountTypeLiability,
	"LIABILITIES": model.AccountTypeLiability,
	"KEWAJIBAN":   model.AccountTypeLiability,
	"UTANG":       model.AccountTypeLiability,
	"HUTANG":      model.AccountTypeLiability,
	"EQUITY":      model.AccountTypeEquity,
	"EKUITAS":     model.AccountTypeEquity,
	"MODAL":       model.AccountTypeEquity,
	"REVENUE":     model.AccountTypeRevenue,
	"INCOME":      model.AccountTypeRevenue,
	"PENDAPATAN":  model.AccountTypeRevenue,
	"EXPENSE":     model.AccountTypeExpense,
	"EXPENSES":    model.AccountTypeExpense,
	"BEBAN":       model.AccountTypeExpense,
	"BIAYA":       model.AccountTypeExpense,
}

// Side is the normal-balance side signalled by a debit/credit column.
type Side int

const (
	SideNone Side = iota
	SideDebit
	SideCredit
)

// Transformer converts raw rows into Account candidates.
type Transformer struct {
	// NewID generates external IDs; id.NewExternalID when nil.
	NewID           func(entityID, code string) string
	DefaultCurrency string
}

// NewTransformer returns a Transformer with the default ID generator and currency.
func NewTransformer() *Transformer {
	return &Transformer{NewID: id.NewExternalID, DefaultCurrency: model.DefaultCurrency}
}

// Transform converts one row into an Account. It returns false for rows
// without an account code and for summary rows.
func (t *Transformer) Transform(row sheet.RawRow, entityID string) (model.Account, bool) {
	code := sheet.ResolveText(row, CodeAliases)
	name := sheet.ResolveText(row, NameAliases)
	if code == "" {
		return model.Account{}, false
	}
	if isSummary(code) || isSummary(name) {
		return model.Account{}, false
	}
	if name == "" {
		name = code
	}

	currency := strings.ToUpper(sheet.ResolveText(row, CurrencyAliases))
	if currency == "" {
		currency = t.currency()
	}

	level := model.DefaultLevel
	if c, ok := sheet.Resolve(row, LevelAliases); ok {
		if n := int(amount.Parse(c.Any()).IntPart()); n >= 1 {
			level = n
		}
	}

	return model.Account{
		EntityID:   entityID,
		Code:       code,
		Name:       name,
		Type:       InferType(code, sheet.ResolveText(row, TypeAliases), side(row)),
		Balance:    balance(row),
		Currency:   currency,
		Suspended:  suspended(sheet.ResolveText(row, SuspendedAliases)),
		SourceType: model.SourceTypeExcel,
		Level:      level,
		ExternalID: t.newID(entityID, code),
	}, true
}

// TransformAll transforms every row, dropping rejected ones.
func (t *Transformer) TransformAll(rows []sheet.RawRow, entityID string) []model.Account {
	var out []model.Account
	for _, r := range rows {
		if a, ok := t.Transform(r, entityID); ok {
			out = append(out, a)
		}
	}
	return out
}

// Preview returns at most n transformed accounts.
func (t *Transformer) Preview(rows []sheet.RawRow, entityID string, n int) []model.Account {
	var out []model.Account
	for _, r := range rows {
		if len(out) >= n {
			break
		}
		if a, ok := t.Transform(r, entityID); ok {
			out = append(out, a)
		}
	}
	return out
}

func (t *Transformer) newID(entityID, code string) string {
	if t.NewID == nil {
		return id.NewExternalID(entityID, code)
	}
	return t.NewID(entityID, code)
}

func (t *Transformer) currency() string {
	if t.DefaultCurrency == "" {
		return model.DefaultCurrency
	}
	return strings.ToUpper(t.DefaultCurrency)
}

// InferType picks the account type. A recognised explicit label wins.
// Otherwise the leading digit of the code decides (1..5). The debit/credit
// side only decides when the code has no such digit, so it never
// contradicts the code prefix.
func InferType(code, explicit string, s Side) model.AccountType {
	if at, ok := typeNames[strings.ToUpper(strings.TrimSpace(explicit))]; ok {
		return at
	}

	code = strings.TrimSpace(code)
	if code != "" {
		switch code[0] {
		case '1':
			return model.AccountTypeAsset
		case '2':
			return model.AccountTypeLiability
		case '3':
			return model.AccountTypeEquity
		case '4':
			return model.AccountTypeRevenue
		case '5':
			return model.AccountTypeExpense
		case '6', '7', '8', '9':
			// Other income and expense ranges.
			return bySide(s, model.AccountTypeExpense, model.AccountTypeRevenue)
		}
	}
	return bySide(s, model.AccountTypeAsset, model.AccountTypeLiability)
}

// bySide returns the first candidate whose normal balance is on side s,
// or the first candidate when the side is unknown or none matches.
func bySide(s Side, candidates ...model.AccountType) model.AccountType {
	if s != SideNone {
		for _, t := range candidates {
			if t.CreditSide() == (s == SideCredit) {
				return t
			}
		}
	}
	return candidates[0]
}

func side(row sheet.RawRow) Side {
	switch strings.ToUpper(sheet.ResolveText(row, SideAliases)) {
	case "D", "DR", "DB", "DEBIT", "DEBET":
		return SideDebit
	case "C", "CR", "K", "KR", "CREDIT", "KREDIT":
		return SideCredit
	}

	debit := resolveAmount(row, DebitAliases).Abs()
	credit := resolveAmount(row, CreditAliases).Abs()
	switch {
	case debit.GreaterThan(credit):
		return SideDebit
	case credit.GreaterThan(debit):
		return SideCredit
	default:
		return SideNone
	}
}

func balance(row sheet.RawRow) decimal.Decimal {
	return resolveAmount(row, BalanceAliases)
}

func resolveAmount(row sheet.RawRow, aliases sheet.Alias) decimal.Decimal {
	c, ok := sheet.Resolve(row, aliases)
	if !ok {
		return amount.Parse(nil)
	}
	return amount.Parse(c.Any())
}

func suspended(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "suspended":
		return true
	default:
		return false
	}
}

func isSummary(s string) bool {
	s = strings.ToLower(s)
	for _, kw := range skipKeywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
