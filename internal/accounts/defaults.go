package accounts

import (
	"github.com/shopspring/decimal"

	"github.com/anggaran-dev/anggaran/internal/id"
	"github.com/anggaran-dev/anggaran/internal/model"
)

// StarterChart returns a minimal Indonesian chart of accounts for an
// entity, with zero balances and fresh external IDs.
func StarterChart(entityID string) []model.Account {
	starter := []struct {
		code, name string
		t          model.AccountType
	}{
		{"1-1100", "Kas & Bank", model.AccountTypeAsset},
		{"1-1200", "Piutang Usaha", model.AccountTypeAsset},
		{"1-1300", "Persediaan", model.AccountTypeAsset},
		{"1-2100", "Aset Tetap", model.AccountTypeAsset},
		{"2-1100", "Utang Usaha", model.AccountTypeLiability},
		{"2-1200", "Utang Pajak", model.AccountTypeLiability},
		{"3-1000", "Modal Disetor", model.AccountTypeEquity},
		{"3-2000", "Laba Ditahan", model.AccountTypeEquity},
		{"4-1000", "Pendapatan Usaha", model.AccountTypeRevenue},
		{"5-1000", "Beban Gaji", model.AccountTypeExpense},
		{"5-2000", "Beban Sewa", model.AccountTypeExpense},
	}

	chart := make([]model.Account, len(starter))
	for i, s := range starter {
		chart[i] = model.Account{
			ID:         int64(i + 1),
			EntityID:   entityID,
			Code:       s.code,
			Name:       s.name,
			Type:       s.t,
			Balance:    decimal.Zero,
			Currency:   model.DefaultCurrency,
			SourceType: model.SourceTypeExcel,
			Level:      model.DefaultLevel,
			ExternalID: id.NewExternalID(entityID, s.code),
		}
	}
	return chart
}
