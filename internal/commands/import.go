package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/anggaran-dev/anggaran/internal/coa"
	"github.com/anggaran-dev/anggaran/internal/importlog"
	"github.com/anggaran-dev/anggaran/internal/model"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var (
		entity string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a chart-of-accounts spreadsheet into the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts, args[0], entity, dryRun)
		},
	}

	cmd.Flags().StringVar(&entity, "entity", "", "entity ID (default: entity.id from config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "reconcile without writing the ledger")

	return cmd
}

func runImport(cmd *cobra.Command, opts *rootOptions, path, entityFlag string, dryRun bool) error {
	ctx := cmd.Context()
	p, err := openProject(ctx, opts, false)
	if err != nil {
		return err
	}
	defer p.close()

	entity, err := p.entity(entityFlag)
	if err != nil {
		return err
	}

	sum, err := p.importFile(ctx, path, entity, dryRun)
	if err != nil {
		return err
	}

	printSummary(sum, dryRun)
	return nil
}

func printSummary(sum *coa.Summary, dryRun bool) {
	verb := "Imported"
	if dryRun {
		verb = "Would import"
	}
	fmt.Printf("%s %d accounts for %s: %d inserted, %d updated", verb, sum.TotalCount, sum.EntityID, sum.InsertedCount, sum.UpdatedCount)
	if sum.RejectedRows > 0 {
		fmt.Printf(", %d rows skipped", sum.RejectedRows)
	}
	fmt.Println()
	printFindings(sum.Findings)
	if len(sum.Preview) > 0 {
		fmt.Println()
		printAccounts(sum.Preview)
	}
}

func printAccounts(accts []model.Account) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tTYPE\tBALANCE\tCURRENCY")
	for _, a := range accts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.Code, a.Name, a.Type, a.Balance.StringFixed(2), a.Currency)
	}
	tw.Flush()
}

func printFindings(findings []coa.Finding) {
	for _, f := range findings {
		fmt.Printf("warning: %s\n", f)
	}
}

// printLastImport reports the entity's most recent import run, if any.
func (p *project) printLastImport(entity string) {
	e, ok, err := importlog.Last(p.root, entity)
	if err != nil {
		p.logger.Warn("failed to read import log", "err", err)
		return
	}
	if !ok {
		return
	}
	fmt.Printf("\nLast import: %s %s (%s, %d inserted, %d updated)\n",
		e.Timestamp.Local().Format("2006-01-02 15:04"), e.File, e.Status, e.Inserted, e.Updated)
}
