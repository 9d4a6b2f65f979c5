package main

import (
	"os"

	"github.com/profinance-crm/profinance/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
