package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tgienger/mustermeister/internal/db"
	"github.com/tgienger/mustermeister/internal/models"
)

func (s *Server) handleListProjects(c *gin.Context) {
	ctx := c.Request.Context()
	projects, err := s.svc.SearchProjects(ctx, actor(c), c.Query("search"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	out := make([]projectJSON, 0, len(projects))
	for i := range projects {
		pj := toProjectJSON(&projects[i])
		progress, err := s.svc.ProjectProgress(ctx, actor(c), projects[i].ID)
		if err != nil {
			s.respondError(c, err)
			return
		}
		pj.Progress = toProgressJSON(progress)
		out = append(out, pj)
	}
	c.JSON(http.StatusOK, gin.H{"projects": out, "count": len(out)})
}

func (s *Server) handleCreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	p := &models.Project{}
	req.apply(p)
	if err := s.svc.CreateProject(c.Request.Context(), actor(c), p); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProjectJSON(p))
}

func (s *Server) handleGetProject(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	p, err := s.svc.Project(ctx, actor(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	progress, err := s.svc.ProjectProgress(ctx, actor(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	pj := toProjectJSON(p)
	pj.Progress = toProgressJSON(progress)
	c.JSON(http.StatusOK, pj)
}

func (s *Server) handleUpdateProject(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	p := &models.Project{ID: id}
	req.apply(p)
	res, err := s.svc.UpdateProject(c.Request.Context(), actor(c), p)
	if err != nil {
		s.respondError(c, err)
		return
	}

	body := gin.H{"project": toProjectJSON(res.Project), "rescheduled": res.Rescheduled}
	if res.RescheduleErr != nil {
		body["warning"] = "Project updated but tasks could not be rescheduled: " + res.RescheduleErr.Error()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleDeleteProject(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := s.svc.DeleteProject(c.Request.Context(), actor(c), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleProjectProgress(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	progress, err := s.svc.ProjectProgress(c.Request.Context(), actor(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProgressJSON(progress))
}

func (s *Server) handleReprioritize(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	updated, err := s.svc.ReprioritizeProjectTasks(c.Request.Context(), actor(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (s *Server) handleListTasks(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	f := db.TaskFilter{
		ProjectID:       id,
		Search:          c.Query("search"),
		ShowCompleted:   c.Query("completed") == "true" || c.Query("completed") == "all",
		OnlyCompleted:   c.Query("completed") == "only",
		IncludeArchived: c.Query("archived") == "true",
		Priority:        models.Priority(c.Query("priority")),
	}
	tasks, err := s.svc.Tasks(c.Request.Context(), actor(c), f)
	if err != nil {
		s.respondError(c, err)
		return
	}
	out := make([]taskJSON, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskJSON(&tasks[i]))
	}
	c.JSON(http.StatusOK, gin.H{"tasks": out, "count": len(out)})
}

func (s *Server) handleListStatuses(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	statuses, err := s.svc.Statuses(c.Request.Context(), actor(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	out := make([]*statusJSON, 0, len(statuses))
	for i := range statuses {
		out = append(out, toStatusJSON(&statuses[i]))
	}
	c.JSON(http.StatusOK, gin.H{"statuses": out})
}

func (s *Server) handleCreateStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	status, err := s.svc.CreateStatus(c.Request.Context(), actor(c), id, req.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toStatusJSON(status))
}

func (s *Server) handleRenameStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	status, err := s.svc.RenameStatus(c.Request.Context(), actor(c), id, req.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStatusJSON(status))
}

func (s *Server) handleDeleteStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := s.svc.DeleteStatus(c.Request.Context(), actor(c), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
