package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Manage labor rates",
}

var ratesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List labor rates",
	RunE:  runRatesList,
}

var ratesSetCmd = &cobra.Command{
	Use:   "set <role> <hourly-rate>",
	Short: "Create or update the hourly rate for a role",
	Args:  cobra.ExactArgs(2),
	RunE:  runRatesSet,
}

func init() {
	ratesCmd.AddCommand(ratesListCmd)
	ratesCmd.AddCommand(ratesSetCmd)
}

type laborRateResponse struct {
	LaborRole  string  `json:"labor_role"`
	HourlyRate float64 `json:"hourly_rate"`
}

func runRatesList(cmd *cobra.Command, args []string) error {
	client := newClient()

	var rates []laborRateResponse
	if err := client.getJSON(apiBase+"/labor-rates", &rates); err != nil {
		return fmt.Errorf("failed to list labor rates: %w", err)
	}

	if outputFmt == "json" || outputFmt == "yaml" {
		return printOutput(rates)
	}

	headers := []string{"Role", "Hourly Rate"}
	rows := make([][]string, 0, len(rates))
	for _, rate := range rates {
		rows = append(rows, []string{rate.LaborRole, fmt.Sprintf("%.2f", rate.HourlyRate)})
	}
	printTable(headers, rows)
	return nil
}

func runRatesSet(cmd *cobra.Command, args []string) error {
	rate, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid hourly rate %q: %w", args[1], err)
	}

	client := newClient()

	var resp laborRateResponse
	body := map[string]any{"hourly_rate": rate}
	if err := client.putJSON(apiBase+"/labor-rates/"+url.PathEscape(args[0]), body, &resp); err != nil {
		return fmt.Errorf("failed to set labor rate: %w", err)
	}

	fmt.Printf("Set %q to %.2f/hr\n", resp.LaborRole, resp.HourlyRate)
	return nil
}
