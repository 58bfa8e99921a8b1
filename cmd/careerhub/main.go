// Package main provides the careerhub CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "careerhub",
	Short:        "Career Hub calculators, trainers and wage insights",
	Long:         "Career Hub serves the pay calculators, quiz and flashcard trainers, and wage-report insights behind the staffing site's content section.",
	SilenceUsage: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
