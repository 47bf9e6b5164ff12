// Package report computes task statistics across a user's projects and
// renders them. Archived tasks are excluded everywhere.
package report

import (
	"context"
	"fmt"

	"github.com/tgienger/mustermeister/internal/models"
)

// Summary holds the task counts of a set of tasks
type Summary struct {
	TotalTasks      int            `json:"total_tasks"`
	CompletedCount  int            `json:"completed_count"`
	IncompleteCount int            `json:"incomplete_count"`
	CompletionRatio float64        `json:"completion_ratio"`
	StatusBreakdown map[string]int `json:"status_breakdown"`
}

// SortedStatusBreakdown lists the breakdown with canonical statuses first
func (s Summary) SortedStatusBreakdown() []models.StatusCount {
	return models.SortedStatusBreakdown(s.StatusBreakdown)
}

// ProjectBreakdown is the summary of one project's tasks
type ProjectBreakdown struct {
	ProjectID int64        `json:"project_id"`
	Title     string       `json:"title"`
	Color     models.Color `json:"color,omitempty"`
	Summary
}

// ProjectsSummary counts projects by completion. A project is complete
// when it has tasks and all of them are done.
type ProjectsSummary struct {
	TotalProjects           int     `json:"total_projects"`
	CompleteProjectsCount   int     `json:"complete_projects_count"`
	IncompleteProjectsCount int     `json:"incomplete_projects_count"`
	ProjectCompletionRatio  float64 `json:"project_completion_ratio"`
}

// Result is everything a renderer needs
type Result struct {
	Summary           Summary            `json:"summary"`
	ProjectsSummary   ProjectsSummary    `json:"projects_summary"`
	ProjectsBreakdown []ProjectBreakdown `json:"projects_breakdown"`
	ProjectIDs        []int64            `json:"project_ids"`
}

// Source loads the records a report is computed from
type Source interface {
	ListProjects(ctx context.Context, userID int64, ids []int64) ([]models.Project, error)
	ListActiveTasksForProjects(ctx context.Context, projectIDs []int64) ([]models.Task, error)
}

// Generate builds the report for a user's projects. A non-empty
// projectIDs restricts it to those projects.
func Generate(ctx context.Context, src Source, userID int64, projectIDs []int64) (*Result, error) {
	projects, err := src.ListProjects(ctx, userID, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	ids := make([]int64, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	tasks, err := src.ListActiveTasksForProjects(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return Compute(projects, tasks), nil
}

// Compute derives the report from already loaded projects and tasks.
// Tasks outside the given projects and archived tasks are ignored. The
// breakdown follows the order of projects.
func Compute(projects []models.Project, tasks []models.Task) *Result {
	byProject := make(map[int64][]*models.Task, len(projects))
	for _, p := range projects {
		byProject[p.ID] = nil
	}

	var included []*models.Task
	for i := range tasks {
		t := &tasks[i]
		if t.Archived {
			continue
		}
		if _, ok := byProject[t.ProjectID]; !ok {
			continue
		}
		byProject[t.ProjectID] = append(byProject[t.ProjectID], t)
		included = append(included, t)
	}

	r := &Result{
		Summary:           summarize(included),
		ProjectsBreakdown: make([]ProjectBreakdown, 0, len(projects)),
		ProjectIDs:        make([]int64, 0, len(projects)),
	}
	for _, p := range projects {
		r.ProjectIDs = append(r.ProjectIDs, p.ID)
		r.ProjectsBreakdown = append(r.ProjectsBreakdown, ProjectBreakdown{
			ProjectID: p.ID,
			Title:     p.Title,
			Color:     p.Color,
			Summary:   summarize(byProject[p.ID]),
		})
	}
	r.ProjectsSummary = summarizeProjects(r.ProjectsBreakdown)
	return r
}

func summarize(tasks []*models.Task) Summary {
	s := Summary{TotalTasks: len(tasks), StatusBreakdown: make(map[string]int)}
	for _, t := range tasks {
		if t.Completed {
			s.CompletedCount++
		}
		if name := t.StatusName(); name != "" {
			s.StatusBreakdown[name]++
		}
	}
	s.IncompleteCount = s.TotalTasks - s.CompletedCount
	s.CompletionRatio = models.CompletionRatio(s.CompletedCount, s.TotalTasks)
	return s
}

func summarizeProjects(breakdown []ProjectBreakdown) ProjectsSummary {
	ps := ProjectsSummary{TotalProjects: len(breakdown)}
	for _, pb := range breakdown {
		if pb.TotalTasks > 0 && pb.CompletionRatio == 100 {
			ps.CompleteProjectsCount++
		}
	}
	ps.IncompleteProjectsCount = ps.TotalProjects - ps.CompleteProjectsCount
	ps.ProjectCompletionRatio = models.CompletionRatio(ps.CompleteProjectsCount, ps.TotalProjects)
	return ps
}
