package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	dataDir    string
	parquetDir string
	asOfDate   string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "churnpipe",
	Short: "Customer churn feature pipeline",
	Long: `churnpipe - churn feature engineering for a gas/electricity retailer.

Rebuilds the bronze/silver/gold feature tables from the raw CRM and
consumption extracts, runs data-quality gates between layers, and
serves the results over a REST API.

Usage:
  go run ./cmd/churnpipe [command]

Examples:
  go run ./cmd/churnpipe run --as-of 2025-01-01
  go run ./cmd/churnpipe api
  go run ./cmd/churnpipe scheduler
  go run ./cmd/churnpipe status`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "raw extract directory (overrides DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&parquetDir, "parquet-dir", "", "layer output directory (overrides PARQUET_DIR)")
	rootCmd.PersistentFlags().StringVar(&asOfDate, "as-of", "", "feature anchor date YYYY-MM-DD (overrides AS_OF_DATE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
