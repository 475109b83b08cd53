// Package postgres is a ledger.Store on PostgreSQL using pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/anggaran-dev/anggaran/internal/ledger"
	"github.com/anggaran-dev/anggaran/internal/model"
)

// Schema creates the chart-of-accounts table. The unique storage key is
// what Upsert conflicts on.
const Schema = `
CREATE TABLE IF NOT EXISTS coa_accounts (
	id           BIGSERIAL PRIMARY KEY,
	entity_id    TEXT NOT NULL,
	account_code TEXT NOT NULL,
	account_name TEXT NOT NULL,
	account_type TEXT NOT NULL,
	balance      NUMERIC NOT NULL DEFAULT 0,
	currency     TEXT NOT NULL DEFAULT 'IDR',
	is_suspended BOOLEAN NOT NULL DEFAULT FALSE,
	source_type  TEXT NOT NULL DEFAULT 'excel',
	parent_id    BIGINT REFERENCES coa_accounts (id),
	level        INTEGER NOT NULL DEFAULT 1,
	external_id  TEXT NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (entity_id, external_id)
);
CREATE INDEX IF NOT EXISTS coa_accounts_business_key ON coa_accounts (entity_id, account_code);
`

const selectColumns = `id, entity_id, account_code, account_name, account_type, balance::text,
	currency, is_suspended, source_type, parent_id, level, external_id`

const upsertQuery = `
INSERT INTO coa_accounts (
	entity_id, account_code, account_name, account_type, balance,
	currency, is_suspended, source_type, parent_id, level, external_id
) VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8, $9, $10, $11)
ON CONFLICT (entity_id, external_id) DO UPDATE SET
	account_code = EXCLUDED.account_code,
	account_name = EXCLUDED.account_name,
	account_type = EXCLUDED.account_type,
	balance      = EXCLUDED.balance,
	currency     = EXCLUDED.currency,
	is_suspended = EXCLUDED.is_suspended,
	source_type  = EXCLUDED.source_type,
	parent_id    = EXCLUDED.parent_id,
	level        = EXCLUDED.level,
	updated_at   = now()`

// Store persists accounts in the coa_accounts table.
type Store struct {
	pool *pgxpool.Pool
}

var _ ledger.Lister = (*Store)(nil)

// New connects to dsn and verifies the connection.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// FetchExisting implements ledger.Store.
func (s *Store) FetchExisting(ctx context.Context, entityIDs, codes []string) ([]model.Account, error) {
	if len(entityIDs) == 0 || len(codes) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+selectColumns+` FROM coa_accounts
		 WHERE entity_id = ANY($1) AND account_code = ANY($2)
		 ORDER BY id`, entityIDs, codes)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	return collect(rows)
}

// List implements ledger.Lister.
func (s *Store) List(ctx context.Context, entityID string) ([]model.Account, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+selectColumns+` FROM coa_accounts
		 WHERE entity_id = $1
		 ORDER BY account_code, external_id`, entityID)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	return collect(rows)
}

// Upsert implements ledger.Store. The batch runs in one transaction, so a
// failure leaves no record written.
func (s *Store) Upsert(ctx context.Context, records []model.Account) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	batch := &pgx.Batch{}
	for _, a := range records {
		batch.Queue(upsertQuery,
			a.EntityID, a.Code, a.Name, string(a.Type), a.Balance.String(),
			a.Currency, a.Suspended, a.SourceType, a.ParentID, a.Level, a.ExternalID)
	}

	br := tx.SendBatch(ctx, batch)
	for i := range records {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return 0, fmt.Errorf("upserting record %d (%s): %w", i+1, records[i].Code, err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("closing batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return len(records), nil
}

func collect(rows pgx.Rows) ([]model.Account, error) {
	accts, err := pgx.CollectRows(rows, scanAccount)
	if err != nil {
		return nil, fmt.Errorf("scanning accounts: %w", err)
	}
	return accts, nil
}

func scanAccount(row pgx.CollectableRow) (model.Account, error) {
	var (
		a       model.Account
		typ     string
		balance string
	)
	err := row.Scan(&a.ID, &a.EntityID, &a.Code, &a.Name, &typ, &balance,
		&a.Currency, &a.Suspended, &a.SourceType, &a.ParentID, &a.Level, &a.ExternalID)
	if err != nil {
		return model.Account{}, err
	}
	a.Type = model.AccountType(typ)
	a.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing balance %q: %w", balance, err)
	}
	return a, nil
}
