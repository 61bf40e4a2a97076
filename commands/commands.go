// Package commands adds the pricing CLI commands to the PocketBase root
// command.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/pocketbase/pocketbase"
	"github.com/spf13/cobra"

	"lkrpricing/collections"
	"lkrpricing/config"
	"lkrpricing/services"
)

// NewExportCommand writes the grouped items report to a file. The format
// follows the --out extension (.xlsx or .pdf).
func NewExportCommand(app *pocketbase.PocketBase, cfg *config.Config) *cobra.Command {
	var out, shopID, query string

	cmd := &cobra.Command{
		Use:          "export",
		Short:        "Exports the items-by-shop report to an .xlsx or .pdf file",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(out), "."))
			if ext != "xlsx" && ext != "pdf" {
				return fmt.Errorf("--out must end in .xlsx or .pdf, got %q", out)
			}

			if err := collections.Setup(app); err != nil {
				return err
			}

			page, err := services.ListCalculations(app, services.ListParams{
				Query:  query,
				ShopID: shopID,
				Sort:   "created_at",
				Order:  "desc",
			})
			if err != nil {
				return err
			}
			data := services.BuildExportData(cfg.ReportTitle, page.Items, time.Now())

			var body []byte
			if ext == "xlsx" {
				body, err = services.GenerateExcel(data)
			} else {
				body, err = services.GeneratePDF(data)
			}
			if err != nil {
				return fmt.Errorf("generate %s: %w", ext, err)
			}

			if err := os.WriteFile(out, body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString(
				"Exported %d items from %d shops to %s", data.TotalItems, len(data.Groups), out,
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (.xlsx or .pdf)")
	cmd.Flags().StringVar(&shopID, "shop", "", "only export calculations of this shop id")
	cmd.Flags().StringVar(&query, "q", "", "only export items or shops matching this text")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

// NewSeedCommand inserts sample shops and calculations into an empty
// database.
func NewSeedCommand(app *pocketbase.PocketBase, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:          "seed",
		Short:        "Inserts sample shops and calculations when none exist",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := collections.Setup(app); err != nil {
				return err
			}

			rate, err := services.CurrentRate(app, cfg.DefaultExchangeRate)
			if err != nil {
				return err
			}

			seeded, err := services.SeedSampleData(app, rate.Rate)
			if err != nil {
				return err
			}
			if !seeded {
				fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("Shops already exist, nothing seeded"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Sample data seeded at %s LKR/CNY", services.FormatRate(rate.Rate)))
			return nil
		},
	}
}
