package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	outputFmt string
)

var rootCmd = &cobra.Command{
	Use:   "estimatorctl",
	Short: "CLI for the estimator server",
	Long: `estimatorctl is a CLI for interacting with the project cost estimator server.

It covers the project registry, estimate snapshots, labor rates, and
reference-data administration. Estimates themselves are created through
the estimation forms; this tool is for inspection and housekeeping.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServerURL(), "Estimator server URL")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format: table, json, yaml")

	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(snapshotsCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(healthCmd)
}

func defaultServerURL() string {
	if v := os.Getenv("ESTIMATOR_SERVER"); v != "" {
		return v
	}
	return "http://localhost:8080"
}
