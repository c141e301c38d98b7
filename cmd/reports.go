package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// reportsCmd manages the local report history.
var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Manage past standup reports",
	Long: `Manage the local history of generated reports.

Every generated report is kept; entries can be listed and deleted but never
edited.`,
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past reports, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}

		full, err := cmd.Flags().GetBool("full")
		if err != nil {
			return err
		}

		cfg, st, err := newStoreContext()
		if err != nil {
			return err
		}
		defer st.Close()

		reports, err := st.ListReports(cfg.User, limit)
		if err != nil {
			return err
		}

		if len(reports) == 0 {
			fmt.Println("No reports yet.")
			return nil
		}

		for _, rep := range reports {
			addr := rep.ProjectKey
			if rep.BoardName != "" {
				addr = fmt.Sprintf("%s / %s", rep.ProjectKey, rep.BoardName)
			}
			fmt.Printf("%s  %s  %s\n", rep.ID, rep.CreatedAt.Format("2006-01-02 15:04"), addr)
			if full {
				fmt.Println(rep.Text)
				fmt.Println()
			}
		}
		return nil
	},
}

var reportsDeleteCmd = &cobra.Command{
	Use:   "delete <report-id>",
	Short: "Delete one report from the history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, st, err := newStoreContext()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteReport(args[0], cfg.User); err != nil {
			return err
		}

		fmt.Println("Report deleted.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsDeleteCmd)
	reportsListCmd.Flags().Int("limit", 20, "Maximum number of reports to list")
	reportsListCmd.Flags().Bool("full", false, "Print full report bodies")
}
