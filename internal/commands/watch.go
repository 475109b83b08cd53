package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/anggaran-dev/anggaran/internal/importer"
)

func newWatchCommand(opts *rootOptions) *cobra.Command {
	var (
		entity   string
		schedule string
		once     bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Import spreadsheets dropped into import/ on a schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, err := openProject(ctx, opts, !once)
			if err != nil {
				return err
			}
			defer p.close()

			id, err := p.entity(entity)
			if err != nil {
				return err
			}

			if once {
				_, err := p.processInbox(ctx, id)
				return err
			}

			if schedule == "" {
				schedule = p.cfg.Import.Schedule
			}
			c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
			_, err = c.AddFunc(schedule, func() {
				if _, err := p.processInbox(ctx, id); err != nil {
					p.logger.Error("inbox run failed", "err", err)
				}
			})
			if err != nil {
				return fmt.Errorf("scheduling inbox watcher %q: %w", schedule, err)
			}

			c.Start()
			p.logger.Info("watching import inbox", "dir", p.root, "entity", id, "schedule", schedule)
			<-ctx.Done()
			<-c.Stop().Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&entity, "entity", "", "entity ID (default: entity.id from config)")
	cmd.Flags().StringVar(&schedule, "schedule", "", "cron schedule (default: import.schedule from config)")
	cmd.Flags().BoolVar(&once, "once", false, "process the inbox once and exit")
	return cmd
}

// processInbox imports every file waiting in import/. Imported files move
// to import/processed/; failed ones stay for the next run. It returns the
// number of files imported.
func (p *project) processInbox(ctx context.Context, entity string) (int, error) {
	files, err := importer.Scan(p.root, p.registry)
	if err != nil {
		return 0, err
	}

	var imported int
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		sum, err := p.importFile(ctx, f.Path, entity, false)
		if err != nil {
			p.logger.Error("import failed", "file", f.Name, "err", err)
			continue
		}
		if err := importer.MarkProcessed(p.root, f.Name); err != nil {
			return imported, err
		}
		imported++
		fmt.Printf("%s: %d inserted, %d updated\n", f.Name, sum.InsertedCount, sum.UpdatedCount)
	}
	p.logger.Debug("inbox run finished", "files", len(files), "imported", imported)
	return imported, nil
}
