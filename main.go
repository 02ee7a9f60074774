package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "villa-pricing",
	Short: "Stay pricing and checkout service for the villa storefront",
	Long: `villa-pricing prices villa stays from the weekday price table and the
villa's discounts, and validates checkout totals before bookings are stored.

Examples:
  villa-pricing serve
  villa-pricing seed --file villas.yaml
  villa-pricing quote --file villas.yaml --check-in 2023-07-10 --check-out 2023-07-13`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
