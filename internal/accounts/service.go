package accounts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/anggaran-dev/anggaran/internal/model"
)

// RelPath is the ledger location inside a project directory.
var RelPath = filepath.Join("accounts", "chart-of-accounts.csv")

// Service provides in-memory lookup over a chart-of-accounts ledger.
type Service struct {
	accounts []model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	return &Service{accounts: accounts}
}

// Load reads accounts/chart-of-accounts.csv from a project root and returns a Service.
func Load(repoRoot string) (*Service, error) {
	path := filepath.Join(repoRoot, RelPath)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts.
func (s *Service) All() []model.Account {
	return s.accounts
}

// ByEntity returns the entity's accounts sorted by code.
func (s *Service) ByEntity(entityID string) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.EntityID == entityID {
			result = append(result, a)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Save writes the ledger to accounts/chart-of-accounts.csv, replacing the
// file atomically.
func (s *Service) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, filepath.Dir(RelPath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".chart-of-accounts-*.csv")
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteAccounts(tmp, s.accounts); err != nil {
		tmp.Close()
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing chart of accounts: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(repoRoot, RelPath)); err != nil {
		return fmt.Errorf("replacing chart of accounts: %w", err)
	}
	return nil
}
