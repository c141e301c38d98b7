package cmd

import (
	"github.com/spf13/cobra"

	"github.com/standupbot/standup/internal/logging"
	"github.com/standupbot/standup/internal/server"
)

// serveCmd runs the dashboard API server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard API server",
	Long: `Run the JSON API server backing the web dashboard.

Endpoints:
  POST   /api/generate      generate a report
  GET    /api/reports       list past reports
  DELETE /api/reports/:id   delete one report
  GET    /api/formatting    show formatting instructions
  PUT    /api/formatting    replace formatting instructions
  DELETE /api/formatting    revert to the default instructions
  GET    /api/me            show the authenticated Jira user
  GET    /api/projects      list Jira projects
  GET    /api/boards        list boards for a project`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := cmd.Flags().GetString("addr")
		if err != nil {
			return err
		}

		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.store.Close()

		logging.Info("starting api server", "addr", addr)

		srv := server.NewServer(app.service, app.jira, app.store, app.cfg.User)
		return srv.Run(addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Listen address")
}
