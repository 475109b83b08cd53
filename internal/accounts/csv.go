package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/anggaran-dev/anggaran/internal/model"
)

const (
	numFields     = 12
	colID         = 0
	colEntity     = 1
	colCode       = 2
	colName       = 3
	colType       = 4
	colBalance    = 5
	colCurrency   = 6
	colSuspended  = 7
	colSourceType = 8
	colParent     = 9
	colLevel      = 10
	colExternalID = 11
)

// Header is the CSV header of chart-of-accounts.csv.
var Header = []string{
	"id", "entity_id", "account_code", "account_name", "account_type", "balance",
	"currency", "suspended", "source_type", "parent_id", "level", "external_id",
}

// ReadAccounts reads chart-of-accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes chart-of-accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colID] = strconv.FormatInt(acct.ID, 10)
	row[colEntity] = acct.EntityID
	row[colCode] = acct.Code
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	row[colBalance] = acct.Balance.String()
	row[colCurrency] = acct.Currency
	row[colSuspended] = strconv.FormatBool(acct.Suspended)
	row[colSourceType] = acct.SourceType
	if acct.ParentID != nil {
		row[colParent] = strconv.FormatInt(*acct.ParentID, 10)
	}
	row[colLevel] = strconv.Itoa(acct.Level)
	row[colExternalID] = acct.ExternalID
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	id, err := strconv.ParseInt(record[colID], 10, 64)
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing id %q: %w", record[colID], err)
	}

	balance, err := decimal.NewFromString(record[colBalance])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
	}

	suspended, err := strconv.ParseBool(record[colSuspended])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing suspended %q: %w", record[colSuspended], err)
	}

	var parentID *int64
	if record[colParent] != "" {
		p, err := strconv.ParseInt(record[colParent], 10, 64)
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing parent_id %q: %w", record[colParent], err)
		}
		parentID = &p
	}

	level, err := strconv.Atoi(record[colLevel])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing level %q: %w", record[colLevel], err)
	}

	accountType := model.AccountType(strings.ToUpper(record[colType]))
	if !accountType.Valid() {
		return model.Account{}, fmt.Errorf("unknown account_type %q", record[colType])
	}

	return model.Account{
		ID:         id,
		EntityID:   record[colEntity],
		Code:       record[colCode],
		Name:       record[colName],
		Type:       accountType,
		Balance:    balance,
		Currency:   record[colCurrency],
		Suspended:  suspended,
		SourceType: record[colSourceType],
		ParentID:   parentID,
		Level:      level,
		ExternalID: record[colExternalID],
	}, nil
}
