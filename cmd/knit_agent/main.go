// Package main provides the entry point for the knitting pattern analyzer.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "knit_agent",
	Short: "Knitting pattern tech editor",
	Long:  "Knit agent parses written knitting patterns, simulates stitch counts per size and reports rows where the math does not work out, plus formatting and terminology findings.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
