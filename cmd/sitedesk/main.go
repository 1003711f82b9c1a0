package main

import (
	"os"

	"github.com/spf13/cobra"

	"sitedesk/internal/interfaces/cli/migrate"
	"sitedesk/internal/interfaces/cli/server"
)

// @title sitedesk API
// @version 1.0
// @description Multi-tenant field-service ticketing backend
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{
		Use:   "sitedesk",
		Short: "sitedesk - multi-tenant field-service ticketing",
		Long:  `sitedesk is the ticketing backend for field-service teams: per-site ticket numbering, recurring ticket generation and daily notification digests.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
