package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPreviewCommand(opts *rootOptions) *cobra.Command {
	var entity string

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Show how a spreadsheet would be read, without touching the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer p.close()

			id, err := p.entity(entity)
			if err != nil {
				return err
			}

			table, err := p.registry.DecodeFile(args[0])
			if err != nil {
				return err
			}
			prep, err := p.pipeline.Prepare(table, id)
			if err != nil {
				return err
			}

			fmt.Printf("Header row: %d\n", prep.HeaderRow+1)
			fmt.Printf("Columns:    %s\n", strings.Join(prep.Headers, ", "))
			fmt.Printf("Rows:       %d valid, %d skipped\n", len(prep.Accounts), prep.Rejected)
			printFindings(prep.Findings)
			fmt.Println()
			printAccounts(p.pipeline.PreviewOf(prep))
			p.printLastImport(id)
			return nil
		},
	}

	cmd.Flags().StringVar(&entity, "entity", "", "entity ID (default: entity.id from config)")
	return cmd
}
