package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/praxisops/praxis/internal/interfaces/cli/migrate"
	"github.com/praxisops/praxis/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "praxis",
		Short: "Praxis - MSP operations portal",
		Long:  `Praxis is a multi-tenant MSP operations portal built around a ticket lifecycle core.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
