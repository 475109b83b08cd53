// Package ledger defines the persistence contract of the chart-of-accounts
// importer and an in-memory implementation of it.
package ledger

import (
	"context"
	"sort"
	"sync"

	"github.com/anggaran-dev/anggaran/internal/model"
)

// Store is the persistence collaborator of the import pipeline.
//
// Upsert must be idempotent on the storage key (entity_id, external_id):
// records with an unknown key are inserted, records with a known key
// overwrite the stored row. It reports how many records were written.
type Store interface {
	FetchExisting(ctx context.Context, entityIDs, codes []string) ([]model.Account, error)
	Upsert(ctx context.Context, records []model.Account) (int, error)
}

// Lister is a Store that can also enumerate an entity's chart of accounts.
type Lister interface {
	Store
	List(ctx context.Context, entityID string) ([]model.Account, error)
}

// Apply upserts records into rows by storage key and returns the new rows
// and the number of records written. New rows get IDs above the current
// maximum. rows is not modified.
func Apply(rows, records []model.Account) ([]model.Account, int) {
	out := make([]model.Account, len(rows), len(rows)+len(records))
	copy(out, rows)

	byKey := make(map[model.StorageKey]int, len(out))
	var maxID int64
	for i, a := range out {
		byKey[a.StorageKey()] = i
		if a.ID > maxID {
			maxID = a.ID
		}
	}

	for _, rec := range records {
		if i, ok := byKey[rec.StorageKey()]; ok {
			rec.ID = out[i].ID
			out[i] = rec
			continue
		}
		maxID++
		rec.ID = maxID
		byKey[rec.StorageKey()] = len(out)
		out = append(out, rec)
	}
	return out, len(records)
}

// Matching returns the rows whose entity and code are both in the given
// sets. Empty sets match nothing.
func Matching(rows []model.Account, entityIDs, codes []string) []model.Account {
	entities := toSet(entityIDs)
	codeSet := toSet(codes)

	var out []model.Account
	for _, a := range rows {
		k := a.BusinessKey()
		if entities[k.EntityID] && codeSet[k.Code] {
			out = append(out, a)
		}
	}
	return out
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// Memory is a Store kept in process memory.
type Memory struct {
	mu   sync.Mutex
	rows []model.Account
}

// NewMemory creates a Memory store seeded with accounts.
func NewMemory(seed ...model.Account) *Memory {
	rows, _ := Apply(nil, seed)
	return &Memory{rows: rows}
}

// FetchExisting implements Store.
func (m *Memory) FetchExisting(ctx context.Context, entityIDs, codes []string) ([]model.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return Matching(m.rows, entityIDs, codes), nil
}

// Upsert implements Store.
func (m *Memory) Upsert(ctx context.Context, records []model.Account) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int
	m.rows, n = Apply(m.rows, records)
	return n, nil
}

// All returns a copy of every stored account.
func (m *Memory) All() []model.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Account, len(m.rows))
	copy(out, m.rows)
	return out
}

// List implements Lister.
func (m *Memory) List(ctx context.Context, entityID string) ([]model.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Account
	for _, a := range m.rows {
		if a.EntityID == entityID {
			out = append(out, a)
		}
	}
	SortByCode(out)
	return out, nil
}

// SortByCode orders accounts by code, then external ID.
func SortByCode(accts []model.Account) {
	sort.Slice(accts, func(i, j int) bool {
		if accts[i].Code != accts[j].Code {
			return accts[i].Code < accts[j].Code
		}
		return accts[i].ExternalID < accts[j].ExternalID
	})
}
