package accounts

import (
	"context"
	"sync"

	"github.com/anggaran-dev/anggaran/internal/ledger"
	"github.com/anggaran-dev/anggaran/internal/model"
)

// Store is a ledger.Store backed by the project's chart-of-accounts.csv.
// Every call re-reads the file, so edits made by hand between imports are
// picked up.
type Store struct {
	mu   sync.Mutex
	root string
}

var _ ledger.Lister = (*Store)(nil)

// NewStore returns a Store for the project rooted at repoRoot.
func NewStore(repoRoot string) *Store {
	return &Store{root: repoRoot}
}

// FetchExisting implements ledger.Store.
func (s *Store) FetchExisting(ctx context.Context, entityIDs, codes []string) ([]model.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, err := Load(s.root)
	if err != nil {
		return nil, err
	}
	return ledger.Matching(svc.All(), entityIDs, codes), nil
}

// Upsert implements ledger.Store. The file is rewritten once per call.
func (s *Store) Upsert(ctx context.Context, records []model.Account) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, err := Load(s.root)
	if err != nil {
		return 0, err
	}
	rows, n := ledger.Apply(svc.All(), records)
	if err := NewService(rows).Save(s.root); err != nil {
		return 0, err
	}
	return n, nil
}

// List implements ledger.Lister.
func (s *Store) List(ctx context.Context, entityID string) ([]model.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	svc, err := Load(s.root)
	if err != nil {
		return nil, err
	}
	return svc.ByEntity(entityID), nil
}
