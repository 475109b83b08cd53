package coa

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/anggaran-dev/anggaran/internal/model"
)

// Rule names a chart check performed by Validate.
type Rule string

const (
	RuleDuplicateCode Rule = "duplicate_code"
	RuleTypeConflict  Rule = "type_conflict"
	RulePrecision     Rule = "precision"
	RuleCurrency      Rule = "currency"
	RuleUnknownParent Rule = "unknown_parent"
	RuleNameFromCode  Rule = "name_from_code"
)

const maxBalanceDecimals = 2

// Finding is a non-fatal problem in an imported chart. Findings never block
// an import; they are reported alongside the summary.
type Finding struct {
	Rule        Rule   `json:"rule"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s [%s]: %s", f.Rule, f.Code, f.Description)
}

// Validate checks a batch of transformed accounts.
func Validate(accts []model.Account) []Finding {
	var out []Finding

	// Codes repeated within one sheet resolve to the same ledger row.
	seen := make(map[model.BusinessKey]int, len(accts))
	ids := make(map[int64]bool, len(accts))
	for _, a := range accts {
		seen[a.BusinessKey()]++
		if a.ID != 0 {
			ids[a.ID] = true
		}
	}
	reported := make(map[model.BusinessKey]bool)

	hundred := decimal.NewFromInt(100)
	for _, a := range accts {
		k := a.BusinessKey()
		if n := seen[k]; n > 1 && !reported[k] {
			reported[k] = true
			out = append(out, Finding{
				Rule:        RuleDuplicateCode,
				Code:        k.Code,
				Description: fmt.Sprintf("code appears %d times in the sheet", n),
			})
		}

		if want, ok := prefixType(k.Code); ok && want != a.Type {
			out = append(out, Finding{
				Rule:        RuleTypeConflict,
				Code:        k.Code,
				Description: fmt.Sprintf("type %s does not match code prefix (%s)", a.Type, want),
			})
		}

		if scaled := a.Balance.Mul(hundred); !scaled.Equal(scaled.Floor()) {
			out = append(out, Finding{
				Rule:        RulePrecision,
				Code:        k.Code,
				Description: fmt.Sprintf("balance %s has more than %d decimal places", a.Balance, maxBalanceDecimals),
			})
		}

		if !validCurrency(a.Currency) {
			out = append(out, Finding{
				Rule:        RuleCurrency,
				Code:        k.Code,
				Description: fmt.Sprintf("currency %q is not a three-letter code", a.Currency),
			})
		}

		if a.ParentID != nil && !ids[*a.ParentID] {
			out = append(out, Finding{
				Rule:        RuleUnknownParent,
				Code:        k.Code,
				Description: fmt.Sprintf("parent %d is not in this chart", *a.ParentID),
			})
		}

		if strings.TrimSpace(a.Name) == k.Code {
			out = append(out, Finding{
				Rule:        RuleNameFromCode,
				Code:        k.Code,
				Description: "no account name; the code is used instead",
			})
		}
	}
	return out
}

// prefixType is the type implied by a leading 1-5 digit.
func prefixType(code string) (model.AccountType, bool) {
	if code == "" || code[0] < '1' || code[0] > '5' {
		return "", false
	}
	return InferType(code, "", SideNone), true
}

func validCurrency(c string) bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
