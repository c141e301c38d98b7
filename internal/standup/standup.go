// Package standup orchestrates the report pipeline: fetch qualifying
// tickets, load name continuity and formatting state, generate the report,
// and persist the results.
package standup

import (
	"context"

	"github.com/standupbot/standup/internal/logging"
	"github.com/standupbot/standup/internal/report"
	"github.com/standupbot/standup/pkg/models"
)

// NoTicketsMessage is returned when the fetch phase finds nothing to report.
// The generator is never invoked in that case.
const NoTicketsMessage = "No tickets found with activity in the specified time period."

// Tracker is the issue-tracker capability the pipeline consumes.
type Tracker interface {
	FetchTickets(ctx context.Context, criteria models.FetchCriteria) ([]models.Ticket, error)
	FetchBoardsForProject(ctx context.Context, projectKey string) ([]models.Board, error)
	BaseURL() string
}

// Generator produces the report text and updated ticket names.
type Generator interface {
	Generate(ctx context.Context, tickets []models.Ticket, jiraBaseURL string, existingNames map[string]string, instructions string) (report.Result, error)
}

// Storage is the persistence surface the pipeline reads and writes.
type Storage interface {
	GetTicketNames(userID string) (map[string]string, error)
	SaveTicketNames(userID string, names map[string]string) error
	GetFormatting(userID string) (string, error)
	AppendReport(userID, projectKey, boardName, text string) (models.Report, error)
}

// Service runs the standup pipeline. Collaborators are injected once at
// construction; each Run is otherwise stateless.
type Service struct {
	tracker   Tracker
	generator Generator
	storage   Storage
}

// NewService wires the pipeline's collaborators.
func NewService(tracker Tracker, generator Generator, storage Storage) *Service {
	return &Service{
		tracker:   tracker,
		generator: generator,
		storage:   storage,
	}
}

// Outcome is the result of one pipeline run.
type Outcome struct {
	// Text is the canonical markdown report, or NoTicketsMessage when
	// nothing qualified
	Text string

	// Generated reports whether the LLM was invoked and a report persisted
	Generated bool

	// Report is the persisted record, zero when Generated is false
	Report models.Report

	// Tickets are the fetched tickets the report was built from
	Tickets []models.Ticket
}

// Run executes one standup generation for the given criteria. Config, auth,
// and upstream failures propagate to the caller untouched; the caller
// decides per-channel presentation.
func (s *Service) Run(ctx context.Context, criteria models.FetchCriteria) (Outcome, error) {
	logging.Info("generating standup report",
		"user", criteria.UserID,
		"project", criteria.ProjectKey,
		"days_back", criteria.Days())

	tickets, err := s.tracker.FetchTickets(ctx, criteria)
	if err != nil {
		return Outcome{}, err
	}

	if len(tickets) == 0 {
		logging.Info("no qualifying tickets", "project", criteria.ProjectKey)
		return Outcome{Text: NoTicketsMessage}, nil
	}

	existingNames, err := s.storage.GetTicketNames(criteria.UserID)
	if err != nil {
		return Outcome{}, err
	}

	instructions, err := s.storage.GetFormatting(criteria.UserID)
	if err != nil {
		return Outcome{}, err
	}

	result, err := s.generator.Generate(ctx, tickets, s.tracker.BaseURL(), existingNames, instructions)
	if err != nil {
		return Outcome{}, err
	}

	if err := s.storage.SaveTicketNames(criteria.UserID, result.TicketNames); err != nil {
		return Outcome{}, err
	}

	boardName := s.resolveBoardName(ctx, criteria)

	saved, err := s.storage.AppendReport(criteria.UserID, criteria.ProjectKey, boardName, result.Report)
	if err != nil {
		return Outcome{}, err
	}

	logging.Info("standup report generated",
		"report_id", saved.ID,
		"tickets", len(tickets))

	return Outcome{
		Text:      result.Report,
		Generated: true,
		Report:    saved,
		Tickets:   tickets,
	}, nil
}

// resolveBoardName looks up the board name for report addressing. Failure to
// resolve is not fatal; the report is saved without a board name.
func (s *Service) resolveBoardName(ctx context.Context, criteria models.FetchCriteria) string {
	if criteria.BoardID == 0 {
		return ""
	}

	boards, err := s.tracker.FetchBoardsForProject(ctx, criteria.ProjectKey)
	if err != nil {
		logging.Warn("failed to resolve board name",
			"board_id", criteria.BoardID,
			"error", err)
		return ""
	}

	for _, board := range boards {
		if board.ID == criteria.BoardID {
			return board.Name
		}
	}
	return ""
}
