package coa

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/anggaran-dev/anggaran/internal/ledger"
	"github.com/anggaran-dev/anggaran/internal/model"
	"github.com/anggaran-dev/anggaran/internal/reconcile"
	"github.com/anggaran-dev/anggaran/internal/sheet"
)

// DefaultPreviewSize is the number of accounts shown before an import.
const DefaultPreviewSize = 5

// Options tune header detection and previews.
type Options struct {
	MaxHeaderScan int
	Keywords      sheet.Keywords
	PreviewSize   int
}

// DefaultOptions returns the stock pipeline options.
func DefaultOptions() Options {
	return Options{
		MaxHeaderScan: sheet.DefaultMaxScan,
		Keywords:      sheet.EnglishKeywords,
		PreviewSize:   DefaultPreviewSize,
	}
}

// Pipeline runs a decoded sheet through header detection, classification,
// transformation and reconciliation, then persists the result.
type Pipeline struct {
	store       ledger.Store
	transformer *Transformer
	logger      *log.Logger
	opts        Options
}

// NewPipeline creates a Pipeline writing to store. A nil logger discards output.
func NewPipeline(store ledger.Store, transformer *Transformer, logger *log.Logger, opts Options) *Pipeline {
	if transformer == nil {
		transformer = NewTransformer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.MaxHeaderScan <= 0 {
		opts.MaxHeaderScan = sheet.DefaultMaxScan
	}
	if len(opts.Keywords.Anchors) == 0 {
		opts.Keywords = sheet.EnglishKeywords
	}
	if opts.PreviewSize <= 0 {
		opts.PreviewSize = DefaultPreviewSize
	}
	return &Pipeline{store: store, transformer: transformer, logger: logger, opts: opts}
}

// Prepared is a sheet that passed classification and transformation.
type Prepared struct {
	EntityID  string
	HeaderRow int
	Headers   []string
	Rows      []sheet.RawRow
	Accounts  []model.Account
	Rejected  int
	Findings  []Finding
}

// Codes returns the distinct account codes of the prepared accounts.
func (p *Prepared) Codes() []string {
	seen := make(map[string]bool, len(p.Accounts))
	var codes []string
	for _, a := range p.Accounts {
		k := a.BusinessKey()
		if seen[k.Code] {
			continue
		}
		seen[k.Code] = true
		codes = append(codes, k.Code)
	}
	return codes
}

// Summary reports the outcome of an import.
type Summary struct {
	EntityID      string          `json:"entity_id"`
	InsertedCount int             `json:"inserted_count"`
	UpdatedCount  int             `json:"updated_count"`
	TotalCount    int             `json:"total_count"`
	WrittenCount  int             `json:"written_count"`
	RejectedRows  int             `json:"rejected_rows"`
	Preview       []model.Account `json:"preview"`
	Findings      []Finding       `json:"findings,omitempty"`
}

// Prepare locates the header, classifies the sheet and transforms its rows.
// It performs no I/O.
func (p *Pipeline) Prepare(table [][]sheet.Cell, entityID string) (*Prepared, error) {
	if entityID == "" {
		return nil, ErrMissingEntity
	}
	if len(table) == 0 {
		return nil, ErrEmptySource
	}

	headerIdx := sheet.LocateHeaderWith(table, p.opts.MaxHeaderScan, p.opts.Keywords)
	rows := sheet.Rekey(table, headerIdx)
	if len(rows) == 0 {
		return nil, ErrEmptySource
	}
	headers := rows[0].Headers()
	p.logger.Debug("located header", "entity", entityID, "row", headerIdx, "headers", headers)

	diag := Diagnose(rows[0])
	if err := diag.Err(headers); err != nil {
		p.logger.Warn("unrecognized sheet format", "entity", entityID, "missing", diag.Missing)
		return nil, err
	}

	accounts := p.transformer.TransformAll(rows, entityID)
	if len(accounts) == 0 {
		return nil, ErrNoValidRows
	}

	findings := Validate(accounts)
	if len(findings) > 0 {
		p.logger.Warn("chart has findings", "entity", entityID, "count", len(findings), "first", findings[0].String())
	}

	return &Prepared{
		EntityID:  entityID,
		HeaderRow: headerIdx,
		Headers:   headers,
		Rows:      rows,
		Accounts:  accounts,
		Rejected:  len(rows) - len(accounts),
		Findings:  findings,
	}, nil
}

// Preview returns the first transformed accounts of a sheet.
func (p *Pipeline) Preview(table [][]sheet.Cell, entityID string) ([]model.Account, error) {
	prep, err := p.Prepare(table, entityID)
	if err != nil {
		return nil, err
	}
	return p.PreviewOf(prep), nil
}

// PreviewOf returns the first accounts of an already prepared sheet.
func (p *Pipeline) PreviewOf(prep *Prepared) []model.Account {
	n := min(p.opts.PreviewSize, len(prep.Accounts))
	return prep.Accounts[:n:n]
}

// Plan prepares the sheet and reconciles it against the stored ledger
// without writing anything.
func (p *Pipeline) Plan(ctx context.Context, table [][]sheet.Cell, entityID string) (*Prepared, reconcile.Result, error) {
	prep, err := p.Prepare(table, entityID)
	if err != nil {
		return nil, reconcile.Result{}, err
	}

	existing, err := p.store.FetchExisting(ctx, []string{entityID}, prep.Codes())
	if err != nil {
		return nil, reconcile.Result{}, fmt.Errorf("%w: fetching existing accounts: %w", ErrPersistence, err)
	}

	res := reconcile.Reconcile(prep.Accounts, existing)
	p.logger.Debug("reconciled", "entity", entityID, "existing", len(existing),
		"inserts", res.InsertedCount, "updates", res.UpdatedCount)
	return prep, res, nil
}

// Import runs the whole pipeline and persists the reconciled batch. On a
// store error the batch is reported as failed.
func (p *Pipeline) Import(ctx context.Context, table [][]sheet.Cell, entityID string) (*Summary, error) {
	prep, res, err := p.Plan(ctx, table, entityID)
	if err != nil {
		return nil, err
	}

	written, err := p.store.Upsert(ctx, res.Records)
	if err != nil {
		p.logger.Error("upsert failed", "entity", entityID, "records", len(res.Records), "err", err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	p.logger.Info("imported chart of accounts", "entity", entityID,
		"inserted", res.InsertedCount, "updated", res.UpdatedCount, "rejected", prep.Rejected)

	return &Summary{
		EntityID:      entityID,
		InsertedCount: res.InsertedCount,
		UpdatedCount:  res.UpdatedCount,
		TotalCount:    len(res.Records),
		WrittenCount:  written,
		RejectedRows:  prep.Rejected,
		Preview:       p.PreviewOf(prep),
		Findings:      prep.Findings,
	}, nil
}

// DryRun is Import without the final write.
func (p *Pipeline) DryRun(ctx context.Context, table [][]sheet.Cell, entityID string) (*Summary, error) {
	prep, res, err := p.Plan(ctx, table, entityID)
	if err != nil {
		return nil, err
	}
	return &Summary{
		EntityID:      entityID,
		InsertedCount: res.InsertedCount,
		UpdatedCount:  res.UpdatedCount,
		TotalCount:    len(res.Records),
		RejectedRows:  prep.Rejected,
		Preview:       p.PreviewOf(prep),
		Findings:      prep.Findings,
	}, nil
}
