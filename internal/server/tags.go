package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleListTags(c *gin.Context) {
	ctx := c.Request.Context()
	tags, err := s.svc.Tags(ctx)
	if err != nil {
		s.respondError(c, err)
		return
	}
	groups, err := s.svc.TagGroups(ctx)
	if err != nil {
		s.respondError(c, err)
		return
	}

	tagsOut := make([]tagJSON, 0, len(tags))
	for i := range tags {
		tagsOut = append(tagsOut, toTagJSON(&tags[i]))
	}
	groupsOut := make([]tagGroupJSON, 0, len(groups))
	for _, g := range groups {
		groupsOut = append(groupsOut, tagGroupJSON{ID: g.ID, Name: g.Name})
	}
	c.JSON(http.StatusOK, gin.H{"tags": tagsOut, "groups": groupsOut})
}

func (s *Server) handleCreateTag(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	tag, err := s.svc.CreateTag(c.Request.Context(), req.Name, req.Color, req.TagGroupID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTagJSON(tag))
}

func (s *Server) handleDeleteTag(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := s.svc.DeleteTag(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCreateTagGroup(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	group, err := s.svc.CreateTagGroup(c.Request.Context(), req.Name)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tagGroupJSON{ID: group.ID, Name: group.Name})
}

func (s *Server) handleDeleteTagGroup(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := s.svc.DeleteTagGroup(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// handleTagTask puts the tag on the task for PUT and takes it off for
// DELETE
func (s *Server) handleTagTask(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	tagID, err := strconv.ParseInt(c.Param("tag_id"), 10, 64)
	if err != nil || tagID <= 0 {
		badRequest(c, "invalid tag id")
		return
	}
	on := c.Request.Method == http.MethodPut
	if err := s.svc.TagTask(c.Request.Context(), actor(c), id, tagID, on); err != nil {
		s.respondError(c, err)
		return
	}
	s.respondTask(c, http.StatusOK, id)
}
