package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/standupbot/standup/internal/logging"
	"github.com/standupbot/standup/internal/report"
	"github.com/standupbot/standup/pkg/models"
)

// generateCmd runs the full report pipeline and prints the result.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a weekly standup report from Jira activity",
	Long: `Generate a weekly standup report.

The command queries Jira for tickets assigned to you in the given project
that were updated within the lookback window or sit in an active status,
enriches them with descriptions and recent comments, and asks the LLM to
summarize them into three sections: Last Week, This Week, and Blockers.

Ticket display names are kept consistent across runs, and the finished
report is appended to the local history.

Example:
  standup generate -p PROJ
  standup generate -p PROJ --board 42 --days 14 --format slack`,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectKey, err := cmd.Flags().GetString("project")
		if err != nil {
			return err
		}
		if projectKey == "" {
			return fmt.Errorf("project flag is required")
		}

		boardID, err := cmd.Flags().GetInt("board")
		if err != nil {
			return err
		}

		daysBack, err := cmd.Flags().GetInt("days")
		if err != nil {
			return err
		}

		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}

		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.store.Close()

		criteria := models.FetchCriteria{
			UserID:     app.cfg.User,
			ProjectKey: projectKey,
			BoardID:    boardID,
			DaysBack:   daysBack,
		}

		outcome, err := app.service.Run(cmd.Context(), criteria)
		if err != nil {
			return fmt.Errorf("failed to generate report: %v", err)
		}

		if !outcome.Generated {
			fmt.Println(outcome.Text)
			return nil
		}

		logging.Info("report saved", "report_id", outcome.Report.ID)

		switch format {
		case "slack":
			fmt.Println(report.FormatForSlack(outcome.Text))
		case "teams":
			fmt.Println(report.FormatForTeams(outcome.Text))
		case "html":
			fmt.Println(report.FormatAsHTML(outcome.Text))
		case "plain":
			fmt.Println(report.FormatAsPlainText(outcome.Text))
		default:
			fmt.Println(outcome.Text)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("project", "p", "", "Jira project key (e.g., 'PROJ')")
	generateCmd.Flags().Int("board", 0, "Jira Agile board id for report addressing")
	generateCmd.Flags().Int("days", 0, "Lookback window in days (default 7)")
	generateCmd.Flags().StringP("format", "f", "markdown", "Output format: markdown, slack, teams, html, or plain")
}
