package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"receiptscan/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "receiptscan",
	Short: "Receipt scanning service for Brazilian fiscal receipts",
	Long: `Receiptscan turns a photo of a Brazilian fiscal receipt into structured
data: merchant, date, amounts, payment method, CNPJ and the establishment's
city and line of business.

Images are normalized (receipt region isolated and enhanced), read with
Google Document AI, and enriched against the public CNPJ registry and the
IBGE CNAE table. Run "serve" for the HTTP API or "scan" for a one-shot
command-line scan.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Receiptscan CLI executed")

		fmt.Println("Welcome to Receiptscan!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
