package report

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tgienger/mustermeister/internal/db"
	"github.com/tgienger/mustermeister/internal/models"
)

func status(projectID int64, key models.StatusKey) *models.Status {
	return &models.Status{ProjectID: projectID, Name: key.Name()}
}

func task(projectID int64, key models.StatusKey, completed bool) models.Task {
	return models.Task{ProjectID: projectID, Completed: completed, Status: status(projectID, key)}
}

func TestComputeSingleProject(t *testing.T) {
	projects := []models.Project{{ID: 1, Title: "Garden"}}
	tasks := []models.Task{
		task(1, models.StatusComplete, true),
		task(1, models.StatusComplete, true),
		task(1, models.StatusInProgress, false),
	}

	r := Compute(projects, tasks)

	s := r.Summary
	if s.TotalTasks != 3 || s.CompletedCount != 2 || s.IncompleteCount != 1 {
		t.Errorf("summary counts = %+v", s)
	}
	if s.CompletionRatio != 66.7 {
		t.Errorf("completion ratio = %v, want 66.7", s.CompletionRatio)
	}
	if len(s.StatusBreakdown) != 2 || s.StatusBreakdown["Complete"] != 2 || s.StatusBreakdown["In Progress"] != 1 {
		t.Errorf("status breakdown = %v", s.StatusBreakdown)
	}
	if len(r.ProjectsBreakdown) != 1 || r.ProjectsBreakdown[0].CompletionRatio != 66.7 {
		t.Errorf("projects breakdown = %+v", r.ProjectsBreakdown)
	}
}

func TestComputeExcludesArchivedAndForeignTasks(t *testing.T) {
	projects := []models.Project{{ID: 1, Title: "Garden"}}
	archived := task(1, models.StatusComplete, true)
	archived.Archived = true
	tasks := []models.Task{
		task(1, models.StatusNotStarted, false),
		archived,
		task(2, models.StatusComplete, true),
	}

	r := Compute(projects, tasks)
	if r.Summary.TotalTasks != 1 || r.Summary.CompletedCount != 0 {
		t.Errorf("summary = %+v, want only the active task of project 1", r.Summary)
	}
}

func TestComputeProjectsSummary(t *testing.T) {
	projects := []models.Project{
		{ID: 1, Title: "Done"},
		{ID: 2, Title: "Half"},
		{ID: 3, Title: "Empty"},
	}
	tasks := []models.Task{
		task(1, models.StatusComplete, true),
		task(2, models.StatusComplete, true),
		task(2, models.StatusNotStarted, false),
	}

	ps := Compute(projects, tasks).ProjectsSummary
	want := ProjectsSummary{TotalProjects: 3, CompleteProjectsCount: 1, IncompleteProjectsCount: 2, ProjectCompletionRatio: 33.3}
	if ps != want {
		t.Errorf("projects summary = %+v, want %+v", ps, want)
	}
}

func TestComputeEmpty(t *testing.T) {
	r := Compute(nil, nil)
	if r.Summary.CompletionRatio != 0 || r.ProjectsSummary.ProjectCompletionRatio != 0 {
		t.Errorf("empty report ratios = %v, %v", r.Summary.CompletionRatio, r.ProjectsSummary.ProjectCompletionRatio)
	}
	if r.ProjectsBreakdown == nil {
		t.Error("breakdown should be an empty slice")
	}
}

func TestSort(t *testing.T) {
	base := func() *Result {
		return &Result{ProjectsBreakdown: []ProjectBreakdown{
			{Title: "beta", Summary: Summary{TotalTasks: 2, CompletionRatio: 50}},
			{Title: "Alpha", Summary: Summary{TotalTasks: 5, CompletionRatio: 20}},
			{Title: "gamma", Summary: Summary{TotalTasks: 2, CompletionRatio: 100}},
		}}
	}
	titles := func(r *Result) string {
		var out []string
		for _, pb := range r.ProjectsBreakdown {
			out = append(out, pb.Title)
		}
		return strings.Join(out, ",")
	}

	tests := []struct {
		key, dir string
		want     string
	}{
		{"total_tasks", "desc", "Alpha,beta,gamma"},
		{"total_tasks", "asc", "beta,gamma,Alpha"},
		{"completion_ratio", "desc", "gamma,beta,Alpha"},
		{"name", "asc", "Alpha,beta,gamma"},
		{"name", "desc", "gamma,beta,Alpha"},
		{"bogus", "sideways", "Alpha,beta,gamma"},
		{"", "", "Alpha,beta,gamma"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"_"+tt.dir, func(t *testing.T) {
			r := base()
			r.Sort(ParseSortKey(tt.key), ParseDirection(tt.dir))
			if got := titles(r); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseStats(t *testing.T) {
	tests := []struct {
		in   []string
		want int
	}{
		{nil, 3},
		{[]string{"bogus"}, 3},
		{[]string{"status_breakdown", "total_tasks"}, 2},
	}
	for _, tt := range tests {
		got := ParseStats(tt.in)
		if len(got) != tt.want {
			t.Errorf("ParseStats(%v) = %v", tt.in, got)
		}
	}
	if got := ParseStats([]string{"status_breakdown", "total_tasks"}); got[0] != StatTotalTasks {
		t.Errorf("selection not in display order: %v", got)
	}
}

func openDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestConfigRoundTrip(t *testing.T) {
	database := openDB(t)
	ctx := context.Background()

	cfg, err := LoadConfig(ctx, database, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.ProjectIDs) != 0 || len(cfg.Stats) != len(AllStats) {
		t.Errorf("fresh config = %+v", cfg)
	}

	want := Config{ProjectIDs: []int64{3, 7}, Stats: Stats{StatStatusBreakdown}}
	if err := SaveConfig(ctx, database, 1, want); err != nil {
		t.Fatal(err)
	}
	got, err := LoadConfig(ctx, database, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.ProjectIDs) != 2 || got.ProjectIDs[0] != 3 || got.ProjectIDs[1] != 7 {
		t.Errorf("project ids = %v", got.ProjectIDs)
	}
	if len(got.Stats) != 1 || got.Stats[0] != StatStatusBreakdown {
		t.Errorf("stats = %v", got.Stats)
	}

	other, err := LoadConfig(ctx, database, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(other.ProjectIDs) != 0 {
		t.Errorf("selection leaked to another user: %v", other.ProjectIDs)
	}
}

func TestGenerate(t *testing.T) {
	database := openDB(t)
	ctx := context.Background()
	user, err := database.CreateUser(ctx, "Ada", "ada@example.com")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now().UTC()

	var projectIDs []int64
	for _, title := range []string{"Garden", "Kitchen"} {
		p := &models.Project{UserID: user.ID, Title: title, LastActivityAt: now}
		if err := database.CreateProject(ctx, p); err != nil {
			t.Fatal(err)
		}
		projectIDs = append(projectIDs, p.ID)
		st, _, err := database.FindOrCreateStatus(ctx, p.ID, "Not Started")
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 2; i++ {
			task := &models.Task{ProjectID: p.ID, UserID: user.ID, StatusID: st.ID, Title: "t", CreatedAt: now, UpdatedAt: now}
			if i == 1 {
				task.Archived = true
				task.ArchivedAt = &now
			}
			if err := database.CreateTask(ctx, task); err != nil {
				t.Fatal(err)
			}
		}
	}

	all, err := Generate(ctx, database, user.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if all.Summary.TotalTasks != 2 || all.ProjectsSummary.TotalProjects != 2 {
		t.Errorf("all projects: tasks=%d projects=%d", all.Summary.TotalTasks, all.ProjectsSummary.TotalProjects)
	}
	if all.Summary.StatusBreakdown["Not Started"] != 2 {
		t.Errorf("status breakdown = %v", all.Summary.StatusBreakdown)
	}

	one, err := Generate(ctx, database, user.ID, projectIDs[:1])
	if err != nil {
		t.Fatal(err)
	}
	if one.Summary.TotalTasks != 1 || len(one.ProjectIDs) != 1 || one.ProjectIDs[0] != projectIDs[0] {
		t.Errorf("restricted report = %+v", one)
	}
}

func TestWritePDF(t *testing.T) {
	r := Compute([]models.Project{{ID: 1, Title: "Gärten"}}, []models.Task{task(1, models.StatusComplete, true)})
	var buf bytes.Buffer
	if err := WritePDF(&buf, r, AllStats, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestWriteText(t *testing.T) {
	r := Compute([]models.Project{{ID: 1, Title: "Garden"}}, []models.Task{
		task(1, models.StatusComplete, true),
		task(1, models.StatusInProgress, false),
	})
	var buf bytes.Buffer
	if err := WriteText(&buf, r, AllStats); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Garden", "50.0%", "In Progress"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFilename(t *testing.T) {
	got := Filename(time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC))
	if got != "mustermeister-report-20240301-0905.pdf" {
		t.Errorf("Filename = %q", got)
	}
}
