package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "terminal",
	Short: "IDX institutional scanner",
	Long: `IDX Terminal

Scores the Jakarta universe by combining technical setups with foreign
net-flow momentum, then writes the watchlist to Excel and Telegram.

Usage:
  go run ./cmd/terminal [command]

Examples:
  go run ./cmd/terminal scan --out reports/today.xlsx
  go run ./cmd/terminal flow fetch
  go run ./cmd/terminal universe build --workbook data/idx_stock_list.xlsx
  go run ./cmd/terminal api
  go run ./cmd/terminal schedule`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
