package main

import (
	"os"

	"github.com/anggaran-dev/anggaran/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
