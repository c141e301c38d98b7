// Package cmd provides the command-line interface for the standup tool.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/standupbot/standup/internal/config"
	"github.com/standupbot/standup/internal/jira"
	"github.com/standupbot/standup/internal/llm"
	"github.com/standupbot/standup/internal/report"
	"github.com/standupbot/standup/internal/standup"
	"github.com/standupbot/standup/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "standup",
	Short: "Standup generates weekly standup reports from Jira activity",
	Long: `Standup pulls your recently-active Jira tickets, summarizes them with an
LLM into a structured weekly report, and keeps ticket naming consistent
across runs. Reports can be printed for Slack, Teams, or plain pasting,
and past reports are kept in a local history.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// appContext bundles the collaborator handles a command needs. Clients are
// constructed once per invocation and passed down explicitly.
type appContext struct {
	cfg     *config.Config
	jira    *jira.Client
	store   *store.Store
	service *standup.Service
}

// newAppContext wires the pipeline from configuration.
func newAppContext() (*appContext, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	jiraClient, err := jira.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	llmClient, err := llm.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	generator := report.NewGenerator(llmClient)
	service := standup.NewService(jiraClient, generator, st)

	return &appContext{
		cfg:     cfg,
		jira:    jiraClient,
		store:   st,
		service: service,
	}, nil
}

// newStoreContext opens only the local store, for commands that never talk
// to Jira or the LLM.
func newStoreContext() (*config.Config, *store.Store, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}

	return cfg, st, nil
}
