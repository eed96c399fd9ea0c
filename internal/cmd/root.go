package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shoplens",
	Short: "ShopLens - E-Commerce Analytics",
	Long: `ShopLens turns a directory of raw e-commerce CSV exports into sales
dashboards, RFM customer segmentation, sales-vs-plan tracking and an
AI data analyst.

Run it as a server for the REST API, or use the CLI commands to print
reports, segment customers and chat with the analyst directly.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
