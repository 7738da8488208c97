package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// migrations and seeders register themselves from init().
	_ "github.com/shashiranjanraj/shopdesk/database/migrations"
	_ "github.com/shashiranjanraj/shopdesk/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "shopdesk",
	Short:         "Shopdesk point-of-sale and inventory manager",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Catalog and orders
	rootCmd.AddCommand(catalogImportCmd)
	rootCmd.AddCommand(catalogExportCmd)
	rootCmd.AddCommand(ordersExportCmd)
}
