package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standupbot/standup/internal/report"
	"github.com/standupbot/standup/internal/standup"
	"github.com/standupbot/standup/internal/store"
	"github.com/standupbot/standup/pkg/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeTracker struct {
	tickets  []models.Ticket
	projects []models.Project
	boards   []models.Board
	fetchErr error
}

func (f *fakeTracker) FetchTickets(ctx context.Context, criteria models.FetchCriteria) ([]models.Ticket, error) {
	return f.tickets, f.fetchErr
}

func (f *fakeTracker) FetchBoardsForProject(ctx context.Context, projectKey string) ([]models.Board, error) {
	return f.boards, nil
}

func (f *fakeTracker) FetchProjects(ctx context.Context) ([]models.Project, error) {
	return f.projects, nil
}

func (f *fakeTracker) FetchCurrentUser(ctx context.Context) (models.UserProfile, error) {
	return models.UserProfile{AccountID: "acc-1", DisplayName: "Dana"}, nil
}

func (f *fakeTracker) BaseURL() string {
	return "https://acme.atlassian.net"
}

type fakeGenerator struct {
	result report.Result
	err    error
}

func (f *fakeGenerator) Generate(ctx context.Context, tickets []models.Ticket, jiraBaseURL string, existingNames map[string]string, instructions string) (report.Result, error) {
	return f.result, f.err
}

func newTestServer(t *testing.T, tracker *fakeTracker, generator *fakeGenerator) (*Server, *store.Store) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "standup.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	service := standup.NewService(tracker, generator, st)
	return NewServer(service, tracker, st, "default"), st
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestGenerateEndpoint(t *testing.T) {
	tracker := &fakeTracker{
		tickets: []models.Ticket{{Key: "PROJ-1", Summary: "Login fix", Status: "In Progress"}},
	}
	generator := &fakeGenerator{
		result: report.Result{
			Report:      "## Last Week\n- fixed login",
			TicketNames: map[string]string{"PROJ-1": "Login Fix"},
		},
	}

	s, st := newTestServer(t, tracker, generator)

	w := doRequest(s, http.MethodPost, "/api/generate", `{"projectKey":"PROJ"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Report   string `json:"report"`
		ReportID string `json:"reportId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "## Last Week\n- fixed login", resp.Report)
	assert.NotEmpty(t, resp.ReportID)

	reports, err := st.ListReports("default", 10)
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestGenerateEndpointNoTickets(t *testing.T) {
	s, st := newTestServer(t, &fakeTracker{}, &fakeGenerator{})

	w := doRequest(s, http.MethodPost, "/api/generate", `{"projectKey":"PROJ"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Report   string `json:"report"`
		ReportID string `json:"reportId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, standup.NoTicketsMessage, resp.Report)
	assert.Empty(t, resp.ReportID)

	reports, err := st.ListReports("default", 10)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestGenerateEndpointRequiresProjectKey(t *testing.T) {
	s, _ := newTestServer(t, &fakeTracker{}, &fakeGenerator{})

	w := doRequest(s, http.MethodPost, "/api/generate", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "Config error",
			err:        models.NewConfigError("jira not configured"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Auth error",
			err:        models.NewAuthError("token expired"),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Upstream error",
			err:        models.NewUpstreamError("jira search failed", errors.New("boom")),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "Unclassified error",
			err:        errors.New("something else"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := &fakeTracker{fetchErr: tt.err}
			s, _ := newTestServer(t, tracker, &fakeGenerator{})

			w := doRequest(s, http.MethodPost, "/api/generate", `{"projectKey":"PROJ"}`)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestFormattingEndpoints(t *testing.T) {
	s, _ := newTestServer(t, &fakeTracker{}, &fakeGenerator{})

	w := doRequest(s, http.MethodGet, "/api/formatting", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Instructions string `json:"instructions"`
		Custom       bool   `json:"custom"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, report.DefaultSystemPrompt, resp.Instructions)
	assert.False(t, resp.Custom)

	w = doRequest(s, http.MethodPut, "/api/formatting", `{"instructions":"Keep it short."}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(s, http.MethodGet, "/api/formatting", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Keep it short.", resp.Instructions)
	assert.True(t, resp.Custom)

	w = doRequest(s, http.MethodDelete, "/api/formatting", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(s, http.MethodGet, "/api/formatting", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Custom)
}

func TestReportEndpoints(t *testing.T) {
	s, st := newTestServer(t, &fakeTracker{}, &fakeGenerator{})

	saved, err := st.AppendReport("default", "PROJ", "", "report text")
	require.NoError(t, err)

	w := doRequest(s, http.MethodGet, "/api/reports", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Reports []models.Report `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Reports, 1)
	assert.Equal(t, saved.ID, resp.Reports[0].ID)

	w = doRequest(s, http.MethodDelete, "/api/reports/"+saved.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(s, http.MethodDelete, "/api/reports/"+saved.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectAndBoardEndpoints(t *testing.T) {
	tracker := &fakeTracker{
		projects: []models.Project{{ID: "10001", Key: "PROJ", Name: "Project One"}},
		boards:   []models.Board{{ID: 42, Name: "PROJ board", Type: "scrum"}},
	}
	s, _ := newTestServer(t, tracker, &fakeGenerator{})

	w := doRequest(s, http.MethodGet, "/api/projects", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"PROJ"`)

	w = doRequest(s, http.MethodGet, "/api/boards", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(s, http.MethodGet, "/api/boards?projectKey=PROJ", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "PROJ board")
}

func TestMeEndpoint(t *testing.T) {
	s, _ := newTestServer(t, &fakeTracker{}, &fakeGenerator{})

	w := doRequest(s, http.MethodGet, "/api/me", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dana")
}
