package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pricewatch",
	Short: "A CLI for managing the PriceWatch services",
	Long:  `PriceWatch tracks secondhand card prices and turns raw sold listings into cleaned aggregates, trends and trade suggestions.`,
}

func main() {

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
