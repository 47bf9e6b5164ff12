package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleBulkReschedule(c *gin.Context) {
	var req bulkRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	n, err := s.svc.BulkReschedule(c.Request.Context(), actor(c), req.TaskIDs, req.DueDate)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// handleBulkArchive archives completed tasks finished before the given
// time, or older than the configured maximum age
func (s *Server) handleBulkArchive(c *gin.Context) {
	var req bulkArchiveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}
	before := s.now().Add(-s.archiveMaxAge)
	if req.Before != nil {
		before = *req.Before
	}
	n, err := s.svc.ArchiveCompletedTasks(c.Request.Context(), actor(c), before)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"archived": n, "before": before})
}

func (s *Server) handleBulkStatus(c *gin.Context) {
	var req bulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	n, err := s.svc.BulkUpdateStatus(c.Request.Context(), actor(c), req.TaskIDs, req.StatusID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}
