package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tgienger/mustermeister/internal/models"
	"github.com/tgienger/mustermeister/internal/services"
)

type kanbanQuery struct {
	ProjectID         int64           `form:"project_id"`
	Priority          models.Priority `form:"priority"`
	UpdatedWithinDays int             `form:"updated_within_days"`
	ShowAllCompleted  bool            `form:"show_all_completed"`
}

type kanbanColumnJSON struct {
	Status string     `json:"status"`
	Name   string     `json:"name"`
	Count  int        `json:"count"`
	Tasks  []taskJSON `json:"tasks"`
}

// handleKanban answers with the board columns in catalog order
func (s *Server) handleKanban(c *gin.Context) {
	var q kanbanQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	columns, err := s.svc.Kanban(c.Request.Context(), actor(c), services.KanbanFilter{
		ProjectID:         q.ProjectID,
		Priority:          q.Priority,
		UpdatedWithinDays: q.UpdatedWithinDays,
		ShowAllCompleted:  q.ShowAllCompleted,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}

	out := make([]kanbanColumnJSON, len(columns))
	for i, col := range columns {
		tasks := make([]taskJSON, 0, len(col.Tasks))
		for j := range col.Tasks {
			tasks = append(tasks, toTaskJSON(&col.Tasks[j]))
		}
		out[i] = kanbanColumnJSON{
			Status: col.Status.String(),
			Name:   col.Status.Name(),
			Count:  len(tasks),
			Tasks:  tasks,
		}
	}
	c.JSON(http.StatusOK, gin.H{"columns": out})
}
