// Package jira provides functionality for interacting with the Jira API.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	jira "github.com/andygrunwald/go-jira"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/standupbot/standup/internal/config"
	"github.com/standupbot/standup/internal/logging"
	"github.com/standupbot/standup/pkg/models"
)

// activeStatuses are the workflow states that keep a ticket in the report
// even without recent activity. A "To Do" ticket is actionable before anyone
// has touched it.
var activeStatuses = map[string]bool{
	"In Progress": true,
	"To Do":       true,
}

// Client handles interactions with the Jira API.
type Client struct {
	api     *jira.Client
	agile   *jira.Client
	baseURL string
}

// NewClient creates a Jira client from configuration. API calls go through
// the Atlassian cloud gateway when a cloud id is configured; the Agile API is
// always served from the site base URL.
func NewClient(cfg *config.Config) (*Client, error) {
	if err := config.ValidateJiraConfig(cfg); err != nil {
		return nil, models.NewConfigError("jira not configured: %v (connect your Jira account)", err)
	}

	apiURL := cfg.Jira.BaseURL
	if cfg.Jira.CloudID != "" {
		apiURL = fmt.Sprintf("https://api.atlassian.com/ex/jira/%s", cfg.Jira.CloudID)
	}

	httpClient := newHTTPClient(cfg)

	logging.Info("jira configuration",
		"api_url", apiURL,
		"base_url", cfg.Jira.BaseURL,
		"token", logging.MaskSensitive(cfg.Jira.Token))

	api, err := jira.NewClient(httpClient, apiURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira client: %v", err)
	}

	agile, err := jira.NewClient(httpClient, cfg.Jira.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create jira agile client: %v", err)
	}

	return &Client{
		api:     api,
		agile:   agile,
		baseURL: cfg.Jira.BaseURL,
	}, nil
}

// newHTTPClient builds the authenticated transport: basic auth when a
// username is configured, OAuth bearer otherwise.
func newHTTPClient(cfg *config.Config) *http.Client {
	if cfg.Jira.Username != "" {
		tp := jira.BasicAuthTransport{
			Username: cfg.Jira.Username,
			Password: cfg.Jira.Token,
		}
		return tp.Client()
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.Jira.Token},
	)
	return oauth2.NewClient(context.Background(), ts)
}

// BaseURL returns the site URL used for constructing browse links.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchTickets returns the tickets that qualify for the report: assigned to
// the current user in the given project, updated within the lookback window
// or sitting in an active status. Each surviving ticket is enriched with its
// rendered description, due date, and the comments created on or after the
// cutoff. The whole batch fails if any detail fetch fails.
func (c *Client) FetchTickets(ctx context.Context, criteria models.FetchCriteria) ([]models.Ticket, error) {
	cutoff := lookbackCutoff(time.Now(), criteria.Days())

	jql := fmt.Sprintf("project = %q AND assignee = currentUser() AND updatedDate >= %q",
		criteria.ProjectKey, cutoff.Format("2006-01-02"))

	logging.Debug("searching jira tickets",
		"project", criteria.ProjectKey,
		"cutoff", cutoff.Format("2006-01-02"),
		"jql", jql)

	issues, resp, err := c.api.Issue.SearchWithContext(ctx, jql, &jira.SearchOptions{
		Fields:     []string{"key", "summary", "status", "assignee", "duedate", "updated"},
		MaxResults: 100,
	})
	if err != nil {
		if resp != nil {
			return nil, models.NewUpstreamError(
				fmt.Sprintf("jira search failed (status: %d)", resp.StatusCode), err)
		}
		return nil, models.NewUpstreamError("jira search failed", err)
	}

	candidates := filterCandidates(issues, cutoff)
	if len(candidates) == 0 {
		return []models.Ticket{}, nil
	}

	logging.Info("fetching ticket details",
		"candidates", len(candidates),
		"total_found", len(issues))

	// Fan out one detail fetch per ticket. All must succeed; the first
	// failure cancels nothing already in flight but fails the batch.
	tickets := make([]models.Ticket, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	for i, issue := range candidates {
		i, key := i, issue.Key
		g.Go(func() error {
			ticket, err := c.fetchTicketDetails(gctx, key, cutoff)
			if err != nil {
				return err
			}
			tickets[i] = ticket
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return tickets, nil
}

// filterCandidates applies the second selection phase: a ticket stays when it
// was updated within the lookback window or its status marks it active.
func filterCandidates(issues []jira.Issue, cutoff time.Time) []jira.Issue {
	var out []jira.Issue
	for _, issue := range issues {
		updated := time.Time(issue.Fields.Updated)
		isRecent := !updated.Before(cutoff)

		isActive := false
		if issue.Fields.Status != nil {
			isActive = activeStatuses[issue.Fields.Status.Name]
		}

		if isRecent || isActive {
			out = append(out, issue)
		}
	}
	return out
}

// lookbackCutoff computes the inclusion cutoff at date granularity.
func lookbackCutoff(now time.Time, daysBack int) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, -daysBack)
}

// issueDetail mirrors the fields requested from the v3 issue endpoint.
type issueDetail struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
		Status  *struct {
			Name string `json:"name"`
		} `json:"status"`
		Assignee *issueUser `json:"assignee"`
		DueDate  string     `json:"duedate"`
		Updated  string     `json:"updated"`
		Comment  *struct {
			Comments []issueComment `json:"comments"`
		} `json:"comment"`
	} `json:"fields"`
	RenderedFields *struct {
		Description string `json:"description"`
	} `json:"renderedFields"`
}

type issueUser struct {
	DisplayName string `json:"displayName"`
}

type issueComment struct {
	Author  *issueUser      `json:"author"`
	Body    json.RawMessage `json:"body"`
	Created string          `json:"created"`
}

// jiraTimeFormat is the timestamp layout used by the Jira REST API.
const jiraTimeFormat = "2006-01-02T15:04:05.000-0700"

// fetchTicketDetails fetches one ticket's rendered description, due date,
// and comments, dropping comments created before the cutoff.
func (c *Client) fetchTicketDetails(ctx context.Context, key string, cutoff time.Time) (models.Ticket, error) {
	endpoint := fmt.Sprintf(
		"rest/api/3/issue/%s?expand=renderedFields&fields=summary,status,assignee,description,duedate,updated,comment",
		key)

	req, err := c.api.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.Ticket{}, models.NewUpstreamError(fmt.Sprintf("fetch ticket %s", key), err)
	}

	var detail issueDetail
	if _, err := c.api.Do(req, &detail); err != nil {
		return models.Ticket{}, models.NewUpstreamError(fmt.Sprintf("fetch ticket %s", key), err)
	}

	ticket := models.Ticket{
		Key:      detail.Key,
		Summary:  detail.Fields.Summary,
		Status:   "Unknown",
		Comments: []models.Comment{},
	}
	if detail.Fields.Status != nil {
		ticket.Status = detail.Fields.Status.Name
	}
	if detail.Fields.Assignee != nil {
		ticket.Assignee = detail.Fields.Assignee.DisplayName
	}
	if detail.RenderedFields != nil {
		ticket.Description = detail.RenderedFields.Description
	}
	if detail.Fields.DueDate != "" {
		if due, err := time.ParseInLocation("2006-01-02", detail.Fields.DueDate, time.Local); err == nil {
			ticket.DueDate = &due
		}
	}
	if detail.Fields.Updated != "" {
		if updated, err := time.Parse(jiraTimeFormat, detail.Fields.Updated); err == nil {
			ticket.Updated = updated
		}
	}

	if detail.Fields.Comment != nil {
		ticket.Comments = filterComments(detail.Fields.Comment.Comments, cutoff)
	}

	return ticket, nil
}

// filterComments keeps only comments created on or after the cutoff and
// reduces their bodies to plain text.
func filterComments(comments []issueComment, cutoff time.Time) []models.Comment {
	out := []models.Comment{}
	for _, comment := range comments {
		created, err := time.Parse(jiraTimeFormat, comment.Created)
		if err != nil || created.Before(cutoff) {
			continue
		}

		author := "Unknown"
		if comment.Author != nil {
			author = comment.Author.DisplayName
		}

		out = append(out, models.Comment{
			Author:  author,
			Body:    extractBody(comment.Body),
			Created: created,
		})
	}
	return out
}

// FetchCurrentUser returns the authenticated user's profile.
func (c *Client) FetchCurrentUser(ctx context.Context) (models.UserProfile, error) {
	req, err := c.api.NewRequestWithContext(ctx, http.MethodGet, "rest/api/3/myself", nil)
	if err != nil {
		return models.UserProfile{}, models.NewUpstreamError("fetch current user", err)
	}

	var profile models.UserProfile
	if _, err := c.api.Do(req, &profile); err != nil {
		return models.UserProfile{}, models.NewUpstreamError("fetch current user", err)
	}

	return profile, nil
}

// FetchProjects returns all projects the user has access to.
func (c *Client) FetchProjects(ctx context.Context) ([]models.Project, error) {
	req, err := c.api.NewRequestWithContext(ctx, http.MethodGet, "rest/api/3/project", nil)
	if err != nil {
		return nil, models.NewUpstreamError("fetch projects", err)
	}

	var projects []models.Project
	if _, err := c.api.Do(req, &projects); err != nil {
		return nil, models.NewUpstreamError("fetch projects", err)
	}

	return projects, nil
}

// FetchBoardsForProject returns the Agile boards belonging to a project.
func (c *Client) FetchBoardsForProject(ctx context.Context, projectKey string) ([]models.Board, error) {
	list, resp, err := c.agile.Board.GetAllBoardsWithContext(ctx, &jira.BoardListOptions{
		ProjectKeyOrID: projectKey,
	})
	if err != nil {
		if resp != nil {
			return nil, models.NewUpstreamError(
				fmt.Sprintf("fetch boards for project %s (status: %d)", projectKey, resp.StatusCode), err)
		}
		return nil, models.NewUpstreamError(fmt.Sprintf("fetch boards for project %s", projectKey), err)
	}

	boards := make([]models.Board, 0, len(list.Values))
	for _, board := range list.Values {
		boards = append(boards, models.Board{
			ID:   board.ID,
			Name: board.Name,
			Type: board.Type,
		})
	}

	return boards, nil
}
