package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgeline-ai/forgeline/internal/backend"
	"github.com/forgeline-ai/forgeline/internal/config"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List generated projects for the configured user",
	Args:  cobra.NoArgs,
	RunE:  runProjects,
}

var statusCmd = &cobra.Command{
	Use:   "status <project-id>",
	Short: "Show generation status for a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(statusCmd)
}

func runProjects(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.User.ID == "" {
		return fmt.Errorf("no user id configured; set user.id or FORGELINE_USER_ID")
	}

	client := backend.New(cfg.Backend.BaseURL, backend.WithTimeout(cfg.Backend.Timeout()))
	projects, err := client.UserProjects(cmd.Context(), cfg.User.ID)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	if len(projects) == 0 {
		fmt.Println("No projects found.")
		return nil
	}
	for _, p := range projects {
		printProject(p)
	}
	return nil
}

func printProject(p any) {
	obj, ok := p.(map[string]any)
	if !ok {
		fmt.Printf("- %v\n", p)
		return
	}
	id, _ := obj["project_id"].(string)
	if id == "" {
		id, _ = obj["id"].(string)
	}
	name, _ := obj["name"].(string)
	status, _ := obj["status"].(string)

	line := "- " + id
	if name != "" {
		line += "  " + name
	}
	if status != "" {
		line += "  (" + status + ")"
	}
	fmt.Println(line)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	client := backend.New(cfg.Backend.BaseURL, backend.WithTimeout(cfg.Backend.Timeout()))
	status, err := client.ProjectStatus(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch project status: %w", err)
	}

	out, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
