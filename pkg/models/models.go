// Package models defines data structures shared across the application.
package models

import (
	"time"
)

// Ticket represents a Jira ticket enriched with the details the report
// pipeline needs. Tickets are built fresh on every fetch and never persisted.
type Ticket struct {
	// Key is the full ticket identifier (e.g., "PROJ-123")
	Key string `json:"key"`

	// Summary is the ticket's summary field
	Summary string `json:"summary"`

	// Status is the workflow state name as reported by Jira. Status names
	// are provider-defined strings, not a fixed set.
	Status string `json:"status"`

	// Assignee is the assignee's display name, empty when unassigned
	Assignee string `json:"assignee,omitempty"`

	// Description is the rendered description text, empty when absent
	Description string `json:"description,omitempty"`

	// DueDate is the ticket's due date, nil when none is set
	DueDate *time.Time `json:"dueDate,omitempty"`

	// Updated is the timestamp of the last change to the ticket
	Updated time.Time `json:"updated"`

	// Comments holds the comments created within the lookback window,
	// oldest first
	Comments []Comment `json:"comments"`
}

// Comment represents a single ticket comment reduced to plain text.
type Comment struct {
	// Author is the comment author's display name
	Author string `json:"author"`

	// Body is the plain-text comment body extracted from ADF
	Body string `json:"body"`

	// Created is the timestamp the comment was posted
	Created time.Time `json:"created"`
}

// FetchCriteria describes one ticket-fetch request. It has no lifecycle of
// its own; a new value is built per request.
type FetchCriteria struct {
	// UserID identifies the requesting user
	UserID string

	// ProjectKey is the Jira project to query (e.g., "PROJ")
	ProjectKey string

	// BoardID optionally narrows the report addressing to an Agile board
	BoardID int

	// DaysBack is the size of the lookback window in days, 0 means the
	// default of 7
	DaysBack int
}

// DefaultDaysBack is the lookback window applied when FetchCriteria.DaysBack
// is zero.
const DefaultDaysBack = 7

// Days returns the effective lookback window size.
func (c FetchCriteria) Days() int {
	if c.DaysBack <= 0 {
		return DefaultDaysBack
	}
	return c.DaysBack
}

// Report is one generated standup report as persisted in the history.
type Report struct {
	// ID is the report's unique identifier
	ID string `json:"id"`

	// UserID is the owning user
	UserID string `json:"userId"`

	// ProjectKey is the project the report was generated for
	ProjectKey string `json:"projectKey"`

	// BoardName is the resolved board name, empty when no board was selected
	BoardName string `json:"boardName,omitempty"`

	// Text is the canonical markdown report body
	Text string `json:"report"`

	// CreatedAt is the generation timestamp
	CreatedAt time.Time `json:"createdAt"`
}

// Project represents a Jira project the user has access to.
type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Board represents a Jira Agile board belonging to a project.
type Board struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// UserProfile represents the authenticated Jira user.
type UserProfile struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"emailAddress"`
}
