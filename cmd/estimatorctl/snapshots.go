package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

var snapshotProjectName string

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "Inspect estimate snapshots",
}

var snapshotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, optionally scoped to a project",
	RunE:  runSnapshotsList,
}

var snapshotsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a snapshot by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotsGet,
}

var snapshotsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotsDelete,
}

func init() {
	snapshotsListCmd.Flags().StringVar(&snapshotProjectName, "project", "", "Project display name to scope the listing")

	snapshotsCmd.AddCommand(snapshotsListCmd)
	snapshotsCmd.AddCommand(snapshotsGetCmd)
	snapshotsCmd.AddCommand(snapshotsDeleteCmd)
}

type snapshotResponse struct {
	ID               string         `json:"id"`
	ProjectID        string         `json:"project_id"`
	ProjectName      string         `json:"project_name"`
	SnapshotName     string         `json:"snapshot_name,omitempty"`
	IsActive         bool           `json:"is_active"`
	HRSEstimatorData map[string]any `json:"hrs_estimator_data,omitempty"`
	LabFeesData      map[string]any `json:"lab_fees_data,omitempty"`
	LogisticsData    map[string]any `json:"logistics_data,omitempty"`
	CreatedAt        string         `json:"created_at"`
	UpdatedAt        string         `json:"updated_at"`
}

func runSnapshotsList(cmd *cobra.Command, args []string) error {
	client := newClient()

	path := apiBase + "/snapshots/global"
	if snapshotProjectName != "" {
		path = apiBase + "/projects/" + url.PathEscape(snapshotProjectName) + "/snapshots"
	}

	var snapshots []snapshotResponse
	if err := client.getJSON(path, &snapshots); err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	if outputFmt == "json" || outputFmt == "yaml" {
		return printOutput(snapshots)
	}

	headers := []string{"ID", "Project", "Name", "Active", "Updated"}
	rows := make([][]string, 0, len(snapshots))
	for _, s := range snapshots {
		active := ""
		if s.IsActive {
			active = "yes"
		}
		rows = append(rows, []string{
			s.ID,
			truncate(s.ProjectName, 40),
			truncate(s.SnapshotName, 30),
			active,
			s.UpdatedAt,
		})
	}
	printTable(headers, rows)
	return nil
}

func runSnapshotsGet(cmd *cobra.Command, args []string) error {
	client := newClient()

	var s snapshotResponse
	if err := client.getJSON(apiBase+"/snapshots/"+url.PathEscape(args[0]), &s); err != nil {
		return fmt.Errorf("failed to get snapshot: %w", err)
	}

	// Snapshots carry the full module blobs; table output would lose them.
	if outputFmt == "table" {
		outputFmt = "json"
	}
	return printOutput(s)
}

func runSnapshotsDelete(cmd *cobra.Command, args []string) error {
	client := newClient()

	var resp map[string]string
	if err := client.deleteJSON(apiBase+"/snapshots/"+url.PathEscape(args[0]), &resp); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	fmt.Printf("Deleted snapshot %s\n", resp["snapshot_id"])
	return nil
}
