package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

var projectStatusFilter string

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE:  runProjectsList,
}

var projectsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a project by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsGet,
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsCreate,
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project and all of its snapshots",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsDelete,
}

var projectsSummariesCmd = &cobra.Command{
	Use:   "summaries <id>",
	Short: "Show per-module estimate totals for a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsSummaries,
}

var (
	projectDescription string
	projectAddress     string
	projectTags        []string
)

func init() {
	projectsListCmd.Flags().StringVar(&projectStatusFilter, "status", "", "Filter by status: active, archived, completed")
	projectsCreateCmd.Flags().StringVar(&projectDescription, "description", "", "Project description")
	projectsCreateCmd.Flags().StringVar(&projectAddress, "address", "", "Site address")
	projectsCreateCmd.Flags().StringSliceVar(&projectTags, "tag", nil, "Tag to attach (repeatable)")

	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsGetCmd)
	projectsCmd.AddCommand(projectsCreateCmd)
	projectsCmd.AddCommand(projectsDeleteCmd)
	projectsCmd.AddCommand(projectsSummariesCmd)
}

type projectResponse struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	Address            string   `json:"address,omitempty"`
	Status             string   `json:"status"`
	Tags               []string `json:"tags,omitempty"`
	HRSEstimatorTotal  *float64 `json:"hrs_estimator_total"`
	LabFeesTotal       *float64 `json:"lab_fees_total"`
	LogisticsTotal     *float64 `json:"logistics_total"`
	GrandTotal         *float64 `json:"grand_total"`
	LatestEstimateDate *string  `json:"latest_estimate_date"`
	LatestSnapshotID   string   `json:"latest_snapshot_id,omitempty"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

type summaryResponse struct {
	ProjectID     string  `json:"project_id"`
	ProjectName   string  `json:"project_name"`
	ModuleName    string  `json:"module_name"`
	EstimateTotal *float64 `json:"estimate_total"`
	UpdatedAt     string  `json:"updated_at"`
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	client := newClient()

	path := apiBase + "/projects"
	if projectStatusFilter != "" {
		path += "?status=" + url.QueryEscape(projectStatusFilter)
	}

	var projects []projectResponse
	if err := client.getJSON(path, &projects); err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	if outputFmt == "json" || outputFmt == "yaml" {
		return printOutput(projects)
	}

	headers := []string{"ID", "Name", "Status", "HRS", "Lab", "Logistics", "Grand Total", "Updated"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			p.ID,
			truncate(p.Name, 40),
			p.Status,
			money(p.HRSEstimatorTotal),
			money(p.LabFeesTotal),
			money(p.LogisticsTotal),
			money(p.GrandTotal),
			p.UpdatedAt,
		})
	}
	printTable(headers, rows)
	return nil
}

func runProjectsGet(cmd *cobra.Command, args []string) error {
	client := newClient()

	var p projectResponse
	if err := client.getJSON(apiBase+"/projects/"+url.PathEscape(args[0]), &p); err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}

	if outputFmt == "json" || outputFmt == "yaml" {
		return printOutput(p)
	}

	headers := []string{"Field", "Value"}
	rows := [][]string{
		{"ID", p.ID},
		{"Name", p.Name},
		{"Description", truncate(p.Description, 60)},
		{"Address", p.Address},
		{"Status", p.Status},
		{"HRS Total", money(p.HRSEstimatorTotal)},
		{"Lab Fees Total", money(p.LabFeesTotal)},
		{"Logistics Total", money(p.LogisticsTotal)},
		{"Grand Total", money(p.GrandTotal)},
		{"Latest Snapshot", p.LatestSnapshotID},
		{"Created", p.CreatedAt},
		{"Updated", p.UpdatedAt},
	}
	printTable(headers, rows)
	return nil
}

func runProjectsCreate(cmd *cobra.Command, args []string) error {
	client := newClient()

	body := map[string]any{
		"name":        args[0],
		"description": projectDescription,
		"address":     projectAddress,
	}
	if len(projectTags) > 0 {
		body["tags"] = projectTags
	}

	var p projectResponse
	if err := client.postJSON(apiBase+"/projects", body, &p); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	if outputFmt == "json" || outputFmt == "yaml" {
		return printOutput(p)
	}

	fmt.Printf("Created project %q (%s)\n", p.Name, p.ID)
	return nil
}

func runProjectsDelete(cmd *cobra.Command, args []string) error {
	client := newClient()

	var resp map[string]string
	if err := client.deleteJSON(apiBase+"/projects/"+url.PathEscape(args[0]), &resp); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	fmt.Printf("Deleted project %s\n", resp["project_id"])
	return nil
}

func runProjectsSummaries(cmd *cobra.Command, args []string) error {
	client := newClient()

	var summaries []summaryResponse
	if err := client.getJSON(apiBase+"/projects/"+url.PathEscape(args[0])+"/summaries", &summaries); err != nil {
		return fmt.Errorf("failed to list summaries: %w", err)
	}

	if outputFmt == "json" || outputFmt == "yaml" {
		return printOutput(summaries)
	}

	headers := []string{"Module", "Estimate Total", "Updated"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.ModuleName,
			money(s.EstimateTotal),
			s.UpdatedAt,
		})
	}
	printTable(headers, rows)
	return nil
}
