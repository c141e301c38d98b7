package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// projectsCmd lists the Jira projects and boards available to the user.
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List Jira projects you have access to",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.store.Close()

		projects, err := app.jira.FetchProjects(cmd.Context())
		if err != nil {
			return err
		}

		for _, project := range projects {
			fmt.Printf("%-12s %s\n", project.Key, project.Name)
		}
		return nil
	},
}

var boardsCmd = &cobra.Command{
	Use:   "boards <project-key>",
	Short: "List Agile boards for a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.store.Close()

		boards, err := app.jira.FetchBoardsForProject(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		for _, board := range boards {
			fmt.Printf("%-8d %-10s %s\n", board.ID, board.Type, board.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(boardsCmd)
}
