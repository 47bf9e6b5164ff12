package server

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tgienger/mustermeister/internal/report"
)

// listQuery collects a parameter given either repeated or comma separated
func listQuery(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// handleAnalysis renders the report as HTML, JSON (format=json) or a PDF
// download (format=pdf). Without an explicit selection the user's last
// saved one is used.
func (s *Server) handleAnalysis(c *gin.Context) {
	ctx := c.Request.Context()
	userID := actor(c)
	store := s.svc.DB()

	saved, err := report.LoadConfig(ctx, store, userID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	projectIDs := saved.ProjectIDs
	if raw := listQuery(c.QueryArray("project_ids")); len(raw) > 0 {
		projectIDs = report.ParseIDs(raw)
	}
	stats := saved.Stats
	if raw := listQuery(c.QueryArray("stats")); len(raw) > 0 {
		stats = report.ParseStats(raw)
	}

	res, err := report.Generate(ctx, store, userID, projectIDs)
	if err != nil {
		s.respondError(c, err)
		return
	}
	sortKey := report.ParseSortKey(c.Query("sort_by"))
	dir := report.ParseDirection(c.Query("sort_direction"))
	res.Sort(sortKey, dir)

	switch c.Query("format") {
	case "json":
		c.JSON(http.StatusOK, gin.H{"report": res, "stats": stats})
	case "pdf":
		now := s.now()
		var buf bytes.Buffer
		if err := report.WritePDF(&buf, res, stats, now); err != nil {
			s.respondError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+report.Filename(now)+`"`)
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	default:
		projects, err := s.svc.Projects(ctx, userID)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.HTML(http.StatusOK, "analysis.html", gin.H{
			"Report":      res,
			"Stats":       stats,
			"AllStats":    report.AllStats,
			"Projects":    projects,
			"Selected":    selectedSet(res.ProjectIDs),
			"SortKeys":    report.SortKeys,
			"SortBy":      sortKey,
			"Direction":   dir,
			"GeneratedAt": s.now(),
		})
	}
}

func selectedSet(ids []int64) map[int64]bool {
	out := make(map[int64]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

// handleReportConfig remembers the submitted selection and sends the
// browser back to the analysis page
func (s *Server) handleReportConfig(c *gin.Context) {
	cfg := report.Config{
		ProjectIDs: report.ParseIDs(listQuery(c.PostFormArray("project_ids"))),
		Stats:      report.ParseStats(listQuery(c.PostFormArray("stats"))),
	}
	if err := report.SaveConfig(c.Request.Context(), s.svc.DB(), actor(c), cfg); err != nil {
		s.respondError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/reports/analysis")
}
