package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/anggaran-dev/anggaran/internal/accounts"
	"github.com/anggaran-dev/anggaran/internal/coa"
	"github.com/anggaran-dev/anggaran/internal/config"
	"github.com/anggaran-dev/anggaran/internal/gitops"
	"github.com/anggaran-dev/anggaran/internal/importer"
	"github.com/anggaran-dev/anggaran/internal/importlog"
	"github.com/anggaran-dev/anggaran/internal/ledger"
	"github.com/anggaran-dev/anggaran/internal/sheet"
	"github.com/anggaran-dev/anggaran/internal/store/postgres"
)

// project is an opened anggaran project: its config, ledger store and the
// pipeline wired to them.
type project struct {
	root     string
	cfg      *config.Config
	store    ledger.Lister
	pipeline *coa.Pipeline
	registry *importer.Registry
	logger   *log.Logger
	close    func()
}

// errMemoryDriver rejects the memory driver for commands that exit after
// one run: their ledger would start empty and vanish on exit.
var errMemoryDriver = errors.New("storage driver \"memory\" only works with serve and watch")

// openProject loads the project under opts. longLived marks commands that
// keep running between imports; only those may use the memory driver.
func openProject(ctx context.Context, opts *rootOptions, longLived bool) (*project, error) {
	root, err := filepath.Abs(opts.project)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.LoadProject(root)
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Driver == config.DriverMemory && !longLived {
		return nil, errMemoryDriver
	}
	logger := opts.logger()

	p := &project{
		root:     root,
		cfg:      cfg,
		registry: importer.DefaultRegistry(),
		logger:   logger,
		close:    func() {},
	}

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pg, err := postgres.New(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		p.store = pg
		p.close = pg.Close
	case config.DriverMemory:
		p.store = ledger.NewMemory()
	default:
		p.store = accounts.NewStore(root)
	}
	logger.Debug("opened project", "root", root, "driver", cfg.Storage.Driver)

	transformer := coa.NewTransformer()
	if cfg.Import.DefaultCurrency != "" {
		transformer.DefaultCurrency = cfg.Import.DefaultCurrency
	}
	pipeOpts := coa.Options{
		MaxHeaderScan: cfg.Import.MaxHeaderScan,
		Keywords:      sheet.EnglishKeywords,
		PreviewSize:   cfg.Import.PreviewSize,
	}
	if cfg.Import.IndonesianKeywords {
		pipeOpts.Keywords = sheet.IndonesianKeywords
	}
	p.pipeline = coa.NewPipeline(p.store, transformer, logger, pipeOpts)

	return p, nil
}

// entity returns the flag value, falling back to the configured entity.
func (p *project) entity(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if p.cfg.Entity.ID != "" {
		return p.cfg.Entity.ID, nil
	}
	return "", fmt.Errorf("%w: pass --entity or set entity.id in %s", coa.ErrMissingEntity, config.FileName)
}

// importFile runs one spreadsheet through the pipeline and appends the
// import log. A real import then commits the ledger together with its log
// row when configured.
func (p *project) importFile(ctx context.Context, path, entity string, dryRun bool) (*coa.Summary, error) {
	entry := importlog.Entry{
		Timestamp: time.Now().UTC(),
		Entity:    entity,
		File:      filepath.Base(path),
		Status:    importlog.StatusImported,
	}

	sum, err := p.runImport(ctx, path, entity, dryRun)
	if err != nil {
		entry.Status = importlog.StatusFailed
		entry.Error = err.Error()
		p.appendLog(entry)
		return nil, err
	}

	entry.Inserted = sum.InsertedCount
	entry.Updated = sum.UpdatedCount
	entry.Total = sum.TotalCount
	entry.Rejected = sum.RejectedRows
	if dryRun {
		entry.Status = importlog.StatusDryRun
	}
	p.appendLog(entry)
	if !dryRun {
		p.commit(fmt.Sprintf("import: %s chart of accounts from %s", entity, entry.File))
	}
	return sum, nil
}

func (p *project) runImport(ctx context.Context, path, entity string, dryRun bool) (*coa.Summary, error) {
	table, err := p.registry.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	if dryRun {
		return p.pipeline.DryRun(ctx, table, entity)
	}
	return p.pipeline.Import(ctx, table, entity)
}

// commit records the file ledger and import log in git when auto-commit is
// on. Failures are logged, never returned: the import itself already
// succeeded.
func (p *project) commit(message string) {
	if !p.cfg.Git.AutoCommit || p.cfg.Storage.Driver != config.DriverFile || !gitops.IsRepo(p.root) {
		return
	}
	author := gitops.Author{Name: p.cfg.Git.AuthorName, Email: p.cfg.Git.AuthorEmail}
	hash, err := gitops.Commit(p.root, message, author, filepath.Dir(accounts.RelPath), "logs")
	if err != nil {
		if !errors.Is(err, gitops.ErrNothingToCommit) {
			p.logger.Warn("auto-commit failed", "err", err)
		}
		return
	}
	p.logger.Debug("committed ledger", "hash", hash)
}

func (p *project) appendLog(e importlog.Entry) {
	if err := importlog.Append(p.root, []importlog.Entry{e}); err != nil {
		p.logger.Warn("failed to write import log", "err", err)
	}
}
