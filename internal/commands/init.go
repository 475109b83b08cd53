package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/anggaran-dev/anggaran/internal/accounts"
	"github.com/anggaran-dev/anggaran/internal/config"
	"github.com/anggaran-dev/anggaran/internal/gitops"
	"github.com/anggaran-dev/anggaran/internal/model"
)

func newInitCommand() *cobra.Command {
	var (
		entityID string
		name     string
		starter  bool
		noGit    bool
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new anggaran project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, entityID, name, starter, !noGit)
		},
	}

	cmd.Flags().StringVar(&entityID, "entity", "", "default entity ID (required)")
	_ = cmd.MarkFlagRequired("entity")
	cmd.Flags().StringVar(&name, "name", "", "entity display name")
	cmd.Flags().BoolVar(&starter, "starter", false, "seed the ledger with a starter chart of accounts")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not create a git repository")

	return cmd
}

func runInit(dir, entityID, name string, starter, useGit bool) error {
	if name == "" {
		name = entityID
	}

	// Create directory structure.
	dirs := []string{
		"accounts",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write anggaran.yaml.
	cfg := config.Default(entityID, name)
	cfg.Git.AutoCommit = useGit
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the ledger.
	var chart []model.Account
	if starter {
		chart = accounts.StarterChart(entityID)
	}
	if err := accounts.NewService(chart).Save(dir); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	// Secrets such as ANGGARAN_DATABASE_URL live in .env.
	gitignore := ".env\nimport/*.csv\nimport/*.xls\nimport/*.xlsx\nimport/processed/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !useGit {
		fmt.Printf("Initialized anggaran project at %s\n", dir)
		return nil
	}

	// Initialize git and create initial commit.
	if err := gitops.Init(dir); err != nil {
		return err
	}

	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.Commit(dir, "init: Initialize "+name, author)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Printf("Initialized anggaran project at %s (%s)\n", dir, hash)
	return nil
}
