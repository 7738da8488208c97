package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/pkg/cache"
	"github.com/shashiranjanraj/shopdesk/pkg/spreadsheet"
)

var exportFormat string

func init() {
	catalogExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "xlsx or csv (default: from the file extension)")
	ordersExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "xlsx or csv (default: from the file extension)")
}

// shopdesk catalog:import products.xlsx
var catalogImportCmd = &cobra.Command{
	Use:   "catalog:import <file.xlsx|file.csv>",
	Short: "Insert or update products from a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := spreadsheet.FormatFromFilename(args[0])
		if err != nil {
			return err
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		return withDB(func(db *gorm.DB) error {
			// The CLI runs without Redis; a running server's cache expires on its TTL.
			report, err := services.NewCatalogService(db, cache.Nop{}).Import(cmd.Context(), f, format)
			out := cmd.OutOrStdout()
			if report != nil {
				for _, row := range report.Rows {
					if row.Err != nil {
						fmt.Fprintf(out, "  row %d: %s (%v)\n", row.Row, row.Outcome, row.Err)
					}
				}
				fmt.Fprintln(out, report.Summary())
			}
			if errors.Is(err, services.ErrImportFailed) {
				fmt.Fprintln(out, "Nothing was saved.")
			}
			return err
		})
	},
}

// shopdesk catalog:export products.csv
var catalogExportCmd = &cobra.Command{
	Use:   "catalog:export <file>",
	Short: "Write every product to an xlsx or csv file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportTo(args[0], func(db *gorm.DB, w io.Writer, format spreadsheet.Format) error {
			return services.NewCatalogService(db, cache.Nop{}).Export(cmd.Context(), w, format)
		})
	},
}

// shopdesk orders:export orders.xlsx
var ordersExportCmd = &cobra.Command{
	Use:   "orders:export <file>",
	Short: "Write every order to an xlsx or csv file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportTo(args[0], func(db *gorm.DB, w io.Writer, format spreadsheet.Format) error {
			return services.NewOrderService(db).Export(cmd.Context(), w, format)
		})
	},
}

func exportTo(path string, write func(*gorm.DB, io.Writer, spreadsheet.Format) error) error {
	format := spreadsheet.Format(exportFormat)
	if format == "" {
		var err error
		if format, err = spreadsheet.FormatFromFilename(path); err != nil {
			return err
		}
	}
	if format != spreadsheet.XLSX && format != spreadsheet.CSV {
		return spreadsheet.ErrUnsupportedFormat
	}

	return withDB(func(db *gorm.DB) error {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := write(db, f, format); err != nil {
			f.Close()
			_ = os.Remove(path)
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return f.Close()
	})
}
