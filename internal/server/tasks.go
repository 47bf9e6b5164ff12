package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tgienger/mustermeister/internal/models"
)

func (s *Server) handleCreateTask(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	t := &models.Task{ProjectID: req.ProjectID, Completed: req.Completed}
	req.apply(t)
	if err := s.svc.CreateTask(c.Request.Context(), actor(c), t); err != nil {
		s.respondError(c, err)
		return
	}
	s.respondTask(c, http.StatusCreated, t.ID)
}

func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	s.respondTask(c, http.StatusOK, id)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	t := &models.Task{ID: id}
	req.apply(t)
	if err := s.svc.UpdateTask(c.Request.Context(), actor(c), t); err != nil {
		s.respondError(c, err)
		return
	}
	s.respondTask(c, http.StatusOK, id)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := s.svc.DeleteTask(c.Request.Context(), actor(c), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMarkComplete(c *gin.Context) {
	s.lifecycle(c, s.svc.MarkComplete)
}

func (s *Server) handleMarkIncomplete(c *gin.Context) {
	s.lifecycle(c, s.svc.MarkIncomplete)
}

func (s *Server) handleToggle(c *gin.Context) {
	s.lifecycle(c, s.svc.ToggleCompletion)
}

func (s *Server) handleArchive(c *gin.Context) {
	s.lifecycle(c, s.svc.ArchiveTask)
}

type lifecycleFunc func(ctx context.Context, actor, taskID int64) (*models.Task, error)

// lifecycle runs a single-task transition and answers with the stored task
func (s *Server) lifecycle(c *gin.Context, fn lifecycleFunc) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if _, err := fn(c.Request.Context(), actor(c), id); err != nil {
		s.respondError(c, err)
		return
	}
	s.respondTask(c, http.StatusOK, id)
}

func (s *Server) respondTask(c *gin.Context, code int, id int64) {
	t, err := s.svc.Task(c.Request.Context(), actor(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(code, toTaskJSON(t))
}

func (s *Server) handleAddComment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	comment, err := s.svc.AddComment(c.Request.Context(), actor(c), id, req.Content)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCommentJSON(comment))
}

func (s *Server) handleSetCommentStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req commentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := s.svc.SetCommentStatus(c.Request.Context(), actor(c), id, req.Status); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

func (s *Server) handleSetTaskStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req taskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if _, err := s.svc.SetTaskStatus(c.Request.Context(), actor(c), id, req.StatusID); err != nil {
		s.respondError(c, err)
		return
	}
	s.respondTask(c, http.StatusOK, id)
}

func (s *Server) handleArchivedTasks(c *gin.Context) {
	ctx := c.Request.Context()
	tasks, err := s.svc.ArchivedTasks(ctx, actor(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	stats, err := s.svc.ArchiveStats(ctx, actor(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	out := make([]taskJSON, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskJSON(&tasks[i]))
	}
	c.JSON(http.StatusOK, gin.H{"tasks": out, "count": len(out), "stats": archiveStatsJSON{
		TotalArchived:     stats.TotalArchived,
		ArchivedThisMonth: stats.ArchivedThisMonth,
		TotalCompleted:    stats.TotalCompleted,
	}})
}

func (s *Server) handleScheduleStats(c *gin.Context) {
	stats, err := s.svc.ScheduleStats(c.Request.Context(), actor(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scheduleStatsJSON{
		TotalTasks:    stats.Total,
		OverdueTasks:  stats.Overdue,
		UpcomingTasks: stats.Upcoming,
	})
}
