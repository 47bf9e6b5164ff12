// Package server exposes projects, tasks and reports over HTTP
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/tgienger/mustermeister/internal/config"
	"github.com/tgienger/mustermeister/internal/report"
	"github.com/tgienger/mustermeister/internal/services"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Server is the mustermeister web server
type Server struct {
	svc    *services.Service
	logger *slog.Logger
	router *gin.Engine
	now    func() time.Time

	archiveMaxAge time.Duration
}

// New creates a server with every route registered
func New(svc *services.Service, logger *slog.Logger, cfg *config.Config) *Server {
	router := gin.New()

	s := &Server{
		svc:           svc,
		logger:        logger,
		router:        router,
		now:           time.Now,
		archiveMaxAge: cfg.Archive.MaxAge,
	}

	router.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")))
	router.Use(
		Recovery(logger),
		RequestLogger(logger),
		RateLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.Burst),
	)

	router.GET("/health", s.handleHealth)

	authed := router.Group("/", RequireUser())
	{
		authed.GET("/reports/analysis", s.handleAnalysis)
		authed.POST("/reports/config", s.handleReportConfig)
	}

	api := router.Group("/api", RequireUser())
	{
		api.GET("/projects", s.handleListProjects)
		api.POST("/projects", s.handleCreateProject)
		api.GET("/projects/:id", s.handleGetProject)
		api.PUT("/projects/:id", s.handleUpdateProject)
		api.DELETE("/projects/:id", s.handleDeleteProject)
		api.GET("/projects/:id/progress", s.handleProjectProgress)
		api.POST("/projects/:id/reprioritize", s.handleReprioritize)
		api.GET("/projects/:id/tasks", s.handleListTasks)
		api.GET("/projects/:id/statuses", s.handleListStatuses)
		api.POST("/projects/:id/statuses", s.handleCreateStatus)
		api.PUT("/statuses/:id", s.handleRenameStatus)
		api.DELETE("/statuses/:id", s.handleDeleteStatus)

		api.POST("/tasks", s.handleCreateTask)
		api.POST("/tasks/bulk/reschedule", s.handleBulkReschedule)
		api.POST("/tasks/bulk/archive", s.handleBulkArchive)
		api.POST("/tasks/bulk/status", s.handleBulkStatus)
		api.GET("/tasks/archived", s.handleArchivedTasks)
		api.GET("/tasks/schedule", s.handleScheduleStats)
		api.GET("/tasks/:id", s.handleGetTask)
		api.PUT("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.POST("/tasks/:id/complete", s.handleMarkComplete)
		api.POST("/tasks/:id/incomplete", s.handleMarkIncomplete)
		api.POST("/tasks/:id/toggle", s.handleToggle)
		api.POST("/tasks/:id/archive", s.handleArchive)
		api.POST("/tasks/:id/comments", s.handleAddComment)
		api.PUT("/tasks/:id/status", s.handleSetTaskStatus)
		api.PUT("/tasks/:id/tags/:tag_id", s.handleTagTask)
		api.DELETE("/tasks/:id/tags/:tag_id", s.handleTagTask)

		api.PUT("/comments/:id", s.handleSetCommentStatus)

		api.GET("/kanban", s.handleKanban)

		api.GET("/tags", s.handleListTags)
		api.POST("/tags", s.handleCreateTag)
		api.DELETE("/tags/:id", s.handleDeleteTag)
		api.POST("/tag-groups", s.handleCreateTagGroup)
		api.DELETE("/tag-groups/:id", s.handleDeleteTagGroup)
	}

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

var templateFuncs = template.FuncMap{
	"percent": report.Percent,
	"has": func(stats report.Stats, stat report.Stat) bool {
		return stats.Has(stat)
	},
}
