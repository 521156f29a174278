package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed reference data on the server",
	Long: `Seed applies the server's reference dataset: labor rates, sampling
defaults, component lists, and the laboratory fee schedule. Seeding is
idempotent and never overwrites rows that already exist.`,
	RunE: runSeed,
}

type seedResponse struct {
	Message  string `json:"message"`
	Inserted struct {
		LaborRates       int `json:"labor_rates"`
		SamplingDefaults int `json:"sampling_defaults"`
		Components       int `json:"components"`
		Laboratories     int `json:"laboratories"`
		TurnTimes        int `json:"turn_times"`
		Categories       int `json:"categories"`
		Tests            int `json:"tests"`
		LabRates         int `json:"lab_rates"`
	} `json:"inserted"`
}

func runSeed(cmd *cobra.Command, args []string) error {
	client := newClient()

	var resp seedResponse
	if err := client.postJSON(apiBase+"/admin/seed", nil, &resp); err != nil {
		return fmt.Errorf("failed to seed reference data: %w", err)
	}

	if outputFmt == "json" || outputFmt == "yaml" {
		return printOutput(resp)
	}

	headers := []string{"Table", "Inserted"}
	rows := [][]string{
		{"Labor rates", fmt.Sprint(resp.Inserted.LaborRates)},
		{"Sampling defaults", fmt.Sprint(resp.Inserted.SamplingDefaults)},
		{"Components", fmt.Sprint(resp.Inserted.Components)},
		{"Laboratories", fmt.Sprint(resp.Inserted.Laboratories)},
		{"Turn times", fmt.Sprint(resp.Inserted.TurnTimes)},
		{"Categories", fmt.Sprint(resp.Inserted.Categories)},
		{"Tests", fmt.Sprint(resp.Inserted.Tests)},
		{"Lab rates", fmt.Sprint(resp.Inserted.LabRates)},
	}
	printTable(headers, rows)
	return nil
}
