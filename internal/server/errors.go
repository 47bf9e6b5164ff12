package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tgienger/mustermeister/internal/models"
	"github.com/tgienger/mustermeister/internal/services"
)

// respondError maps service errors onto status codes
func (s *Server) respondError(c *gin.Context, err error) {
	var (
		verr    *models.ValidationError
		failure *services.Failure
		serr    *services.Error
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "messages": verr.Messages()})
	case errors.As(err, &serr):
		// bulk operations report a missing task as a failed batch
		s.logger.Warn("service error", "request_id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": serr.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &failure):
		c.JSON(http.StatusConflict, gin.H{"error": failure.Error(), "messages": failure.Reasons})
	case errors.Is(err, services.ErrUnresolvedComments):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.logger.Error("request failed", "request_id", c.GetString(requestIDKey), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// paramID parses the :id path parameter, answering 400 when it is not
// a number
func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}
