package coa

import "github.com/anggaran-dev/anggaran/internal/sheet"

// Header aliases per logical field, highest priority first.
var (
	// Bare "no", "code" and "number" come last: exports often carry a
	// row-number "No" column next to the real account code.
	CodeAliases = sheet.Alias{
		"account no", "account_code", "account number", "no akun", "kode perkiraan",
		"kode", "kode akun", "no", "code", "number",
	}
	NameAliases = sheet.Alias{
		"account name", "account_name", "nama akun", "nama perkiraan",
		"nama", "name", "uraian", "keterangan", "description",
	}
	TypeAliases = sheet.Alias{
		"account type", "account_type", "tipe akun", "jenis akun", "type", "tipe", "jenis",
	}
	// Specific balances must beat a generic "balance" column in the same sheet.
	BalanceAliases = sheet.Alias{
		"ending balance", "saldo akhir", "final balance", "balance", "saldo",
	}
	CurrencyAliases = sheet.Alias{
		"currency", "mata uang", "ccy", "curr",
	}
	SuspendedAliases = sheet.Alias{
		"suspended", "is suspended", "status",
	}
	LevelAliases = sheet.Alias{
		"level", "tingkat", "lvl",
	}
	SideAliases = sheet.Alias{
		"debit/credit", "d/c", "dk", "normal balance", "saldo normal", "posisi",
	}
	DebitAliases = sheet.Alias{
		"debit", "debet",
	}
	CreditAliases = sheet.Alias{
		"credit", "kredit",
	}
)
