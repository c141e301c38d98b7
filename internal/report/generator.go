// Package report builds the LLM request for a standup report, parses the
// structured response, and renders the result for each delivery channel.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/standupbot/standup/internal/logging"
	"github.com/standupbot/standup/pkg/models"
)

// Completer is the LLM capability the generator needs: one system+user
// prompt pair in, the model's text out.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Result is one generation outcome: the report markdown with the naming
// block stripped, and the merged ticket-name map to persist.
type Result struct {
	Report      string
	TicketNames map[string]string
}

// Generator produces standup reports from fetched tickets.
type Generator struct {
	llm Completer
	now func() time.Time
}

// NewGenerator creates a Generator backed by the given LLM client.
func NewGenerator(llm Completer) *Generator {
	return &Generator{
		llm: llm,
		now: time.Now,
	}
}

var (
	// namesBlockRe matches the trailing fenced json block carrying newly
	// introduced ticket names.
	namesBlockRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

	// namesBlockStripRe removes every fenced json block from the displayed
	// report, whether or not its contents parsed.
	namesBlockStripRe = regexp.MustCompile("(?s)```json.*?```")
)

// Generate builds the LLM request from the tickets, existing names, and
// formatting instructions, invokes the model once, and splits the response
// into report text and the updated name map. The naming block is the only
// failure absorbed here: when it is missing or malformed the existing names
// pass through unchanged and the report is still returned.
func (g *Generator) Generate(ctx context.Context, tickets []models.Ticket, jiraBaseURL string, existingNames map[string]string, instructions string) (Result, error) {
	systemPrompt := instructions
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	userPrompt, err := buildUserPrompt(tickets, jiraBaseURL, existingNames, g.now())
	if err != nil {
		return Result{}, fmt.Errorf("failed to build prompt: %v", err)
	}

	response, err := g.llm.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return Result{}, err
	}

	names := extractTicketNames(response, existingNames)
	text := strings.TrimSpace(namesBlockStripRe.ReplaceAllString(response, ""))

	return Result{
		Report:      text,
		TicketNames: names,
	}, nil
}

// buildUserPrompt serializes the full ticket payload and existing name map
// verbatim. The model constructs ticket URLs itself from the supplied base
// URL; nothing here pre-summarizes or pre-links.
func buildUserPrompt(tickets []models.Ticket, jiraBaseURL string, existingNames map[string]string, today time.Time) (string, error) {
	if existingNames == nil {
		existingNames = map[string]string{}
	}

	namesJSON, err := json.MarshalIndent(existingNames, "", "  ")
	if err != nil {
		return "", err
	}

	ticketsJSON, err := json.MarshalIndent(tickets, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`Generate a weekly standup report from this Jira data.

Jira base URL for links: %s
Today's date: %s

Existing ticket names (use these for consistency if the ticket appears):
%s

Ticket data:
%s

After generating the report, also output a JSON block with any NEW ticket names you created, in this format:
`+"```json\n{\"PROJ-123\": \"Short ticket name\", \"PROJ-456\": \"Another name\"}\n```",
		jiraBaseURL,
		today.Format("Monday, January 2, 2006"),
		namesJSON,
		ticketsJSON), nil
}

// extractTicketNames merges the names from the response's fenced json block
// over the existing map. New entries win per key; untouched keys pass
// through verbatim. A missing or invalid block degrades to no new names.
func extractTicketNames(response string, existingNames map[string]string) map[string]string {
	merged := make(map[string]string, len(existingNames))
	for key, name := range existingNames {
		merged[key] = name
	}

	match := namesBlockRe.FindStringSubmatch(response)
	if match == nil {
		return merged
	}

	var newNames map[string]string
	if err := json.Unmarshal([]byte(match[1]), &newNames); err != nil {
		perr := &models.ParseError{Msg: "malformed ticket-name block", Err: err}
		logging.Warn("ignoring ticket-name block", "error", perr)
		return merged
	}

	for key, name := range newNames {
		merged[key] = name
	}
	return merged
}
