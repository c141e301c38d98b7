// Package server exposes the standup pipeline over a JSON API for the web
// dashboard.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/standupbot/standup/internal/standup"
	"github.com/standupbot/standup/internal/store"
	"github.com/standupbot/standup/pkg/models"
)

// Tracker extends the pipeline's tracker capability with the project listing
// the dashboard needs.
type Tracker interface {
	standup.Tracker
	FetchProjects(ctx context.Context) ([]models.Project, error)
	FetchCurrentUser(ctx context.Context) (models.UserProfile, error)
}

// Server is the dashboard API server.
type Server struct {
	service *standup.Service
	tracker Tracker
	store   *store.Store
	user    string
	router  *gin.Engine
}

// NewServer creates the API server. The user id is the identity requests run
// as when they don't carry one themselves.
func NewServer(service *standup.Service, tracker Tracker, st *store.Store, user string) *Server {
	router := gin.Default()

	s := &Server{
		service: service,
		tracker: tracker,
		store:   st,
		user:    user,
		router:  router,
	}

	api := router.Group("/api")
	{
		api.POST("/generate", s.handleGenerate)
		api.GET("/reports", s.handleListReports)
		api.DELETE("/reports/:id", s.handleDeleteReport)
		api.GET("/formatting", s.handleGetFormatting)
		api.PUT("/formatting", s.handlePutFormatting)
		api.DELETE("/formatting", s.handleDeleteFormatting)
		api.GET("/me", s.handleMe)
		api.GET("/projects", s.handleListProjects)
		api.GET("/boards", s.handleListBoards)
	}

	return s
}

// Run starts the API server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

type generateRequest struct {
	UserID     string `json:"userId"`
	ProjectKey string `json:"projectKey" binding:"required"`
	BoardID    int    `json:"boardId"`
	DaysBack   int    `json:"daysBack"`
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "projectKey is required"})
		return
	}

	criteria := models.FetchCriteria{
		UserID:     s.userID(req.UserID),
		ProjectKey: req.ProjectKey,
		BoardID:    req.BoardID,
		DaysBack:   req.DaysBack,
	}

	outcome, err := s.service.Run(c.Request.Context(), criteria)
	if err != nil {
		s.renderError(c, err)
		return
	}

	if !outcome.Generated {
		c.JSON(http.StatusOK, gin.H{"report": outcome.Text})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report":     outcome.Text,
		"reportId":   outcome.Report.ID,
		"rawTickets": outcome.Tickets,
	})
}

func (s *Server) handleListReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	reports, err := s.store.ListReports(s.userID(c.Query("userId")), limit)
	if err != nil {
		s.renderError(c, err)
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (s *Server) handleDeleteReport(c *gin.Context) {
	if err := s.store.DeleteReport(c.Param("id"), s.userID(c.Query("userId"))); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetFormatting(c *gin.Context) {
	userID := s.userID(c.Query("userId"))

	instructions, err := s.store.GetFormatting(userID)
	if err != nil {
		s.renderError(c, err)
		return
	}

	custom, err := s.store.HasCustomFormatting(userID)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"instructions": instructions, "custom": custom})
}

type formattingRequest struct {
	UserID       string `json:"userId"`
	Instructions string `json:"instructions" binding:"required"`
}

func (s *Server) handlePutFormatting(c *gin.Context) {
	var req formattingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "instructions is required"})
		return
	}

	if err := s.store.SaveFormatting(s.userID(req.UserID), req.Instructions); err != nil {
		s.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteFormatting(c *gin.Context) {
	if err := s.store.DeleteFormatting(s.userID(c.Query("userId"))); err != nil {
		s.renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMe(c *gin.Context) {
	profile, err := s.tracker.FetchCurrentUser(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) handleListProjects(c *gin.Context) {
	projects, err := s.tracker.FetchProjects(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (s *Server) handleListBoards(c *gin.Context) {
	projectKey := c.Query("projectKey")
	if projectKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "projectKey is required"})
		return
	}

	boards, err := s.tracker.FetchBoardsForProject(c.Request.Context(), projectKey)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boards": boards})
}

func (s *Server) userID(requested string) string {
	if requested != "" {
		return requested
	}
	return s.user
}

// renderError maps the pipeline's error taxonomy onto HTTP statuses:
// configuration problems are the client's to fix, credential problems need a
// re-authorization flow, and upstream failures are surfaced with the
// provider's message.
func (s *Server) renderError(c *gin.Context, err error) {
	var configErr *models.ConfigError
	var authErr *models.AuthError
	var upstreamErr *models.UpstreamError

	switch {
	case errors.As(err, &configErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": configErr.Error()})
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": authErr.Error()})
	case errors.As(err, &upstreamErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": upstreamErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
