package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anggaran-dev/anggaran/internal/accounts"
	"github.com/anggaran-dev/anggaran/internal/model"
)

func newAccountsCommand(opts *rootOptions) *cobra.Command {
	var (
		entity  string
		acctTyp string
	)

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the ledger's chart of accounts",
		Args:  cobra.NoArgs,
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

			accts, err := p.store.List(cmd.Context(), id)
			if err != nil {
				return err
			}

			if acctTyp != "" {
				t := model.AccountType(strings.ToUpper(acctTyp))
				if !t.Valid() {
					return fmt.Errorf("unknown account type %q", acctTyp)
				}
				accts = accounts.NewService(accts).ByType(t)
			}

			if len(accts) == 0 {
				fmt.Printf("No accounts for %s\n", id)
			} else {
				printAccounts(accts)
			}
			p.printLastImport(id)
			return nil
		},
	}

	cmd.Flags().StringVar(&entity, "entity", "", "entity ID (default: entity.id from config)")
	cmd.Flags().StringVar(&acctTyp, "type", "", "only show accounts of this type")
	return cmd
}
