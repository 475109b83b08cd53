package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// AccountTypes lists every account type in code-prefix order (1..5).
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	for _, at := range AccountTypes {
		if t == at {
			return true
		}
	}
	return false
}

// CreditSide reports whether accounts of this type carry a normal credit balance.
func (t AccountType) CreditSide() bool {
	return t == AccountTypeLiability || t == AccountTypeEquity || t == AccountTypeRevenue
}

const (
	DefaultCurrency = "IDR"
	SourceTypeExcel = "excel"
	DefaultLevel    = 1
)

// Account is one canonical chart-of-accounts record for an entity.
type Account struct {
	ID         int64           `json:"id,omitempty"` // 0 = not yet stored
	EntityID   string          `json:"entity_id"`
	Code       string          `json:"account_code"`
	Name       string          `json:"account_name"`
	Type       AccountType     `json:"account_type"`
	Balance    decimal.Decimal `json:"balance"`
	Currency   string          `json:"currency"`
	Suspended  bool            `json:"suspended"`
	SourceType string          `json:"source_type"`
	ParentID   *int64          `json:"parent_id"`
	Level      int             `json:"level"`
	ExternalID string          `json:"external_id"`
}

// BusinessKey identifies "the same account" across repeated imports.
type BusinessKey struct {
	EntityID string
	Code     string
}

// StorageKey is the conflict target used by ledger upserts.
type StorageKey struct {
	EntityID   string
	ExternalID string
}

// BusinessKey returns the (entity, code) pair of the account.
func (a Account) BusinessKey() BusinessKey {
	return BusinessKey{EntityID: a.EntityID, Code: strings.TrimSpace(a.Code)}
}

// StorageKey returns the (entity, external id) pair of the account.
func (a Account) StorageKey() StorageKey {
	return StorageKey{EntityID: a.EntityID, ExternalID: a.ExternalID}
}
