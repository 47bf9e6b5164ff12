package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tgienger/mustermeister/internal/config"
	"github.com/tgienger/mustermeister/internal/db"
	"github.com/tgienger/mustermeister/internal/models"
	"github.com/tgienger/mustermeister/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	srv   *Server
	db    *db.DB
	user  int64
	other int64
}

func newHarness(t *testing.T, mutate ...func(*config.Config)) *harness {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	ctx := context.Background()
	ada, err := database.CreateUser(ctx, "Ada", "ada@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	bob, err := database.CreateUser(ctx, "Bob", "bob@example.com")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := services.New(database,
		services.WithLogger(logger),
		services.WithClock(func() time.Time { return testNow }))

	cfg := config.Default()
	cfg.Server.RateLimit = 1000
	cfg.Server.Burst = 1000
	for _, fn := range mutate {
		fn(cfg)
	}

	srv := New(svc, logger, cfg)
	srv.now = func() time.Time { return testNow }
	return &harness{srv: srv, db: database, user: ada.ID, other: bob.ID}
}

func (h *harness) do(t *testing.T, user int64, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != 0 {
		req.Header.Set(UserHeader, strconv.FormatInt(user, 10))
	}
	w := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func (h *harness) createProject(t *testing.T, title string) projectJSON {
	t.Helper()
	w := h.do(t, h.user, http.MethodPost, "/api/projects", gin.H{"title": title, "color": "blue"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create project: %d %s", w.Code, w.Body.String())
	}
	return decode[projectJSON](t, w)
}

func (h *harness) createTask(t *testing.T, projectID int64, title string) taskJSON {
	t.Helper()
	w := h.do(t, h.user, http.MethodPost, "/api/tasks", gin.H{"project_id": projectID, "title": title})
	if w.Code != http.StatusCreated {
		t.Fatalf("create task: %d %s", w.Code, w.Body.String())
	}
	return decode[taskJSON](t, w)
}

func taskPath(id int64, suffix string) string {
	return "/api/tasks/" + strconv.FormatInt(id, 10) + suffix
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	w := h.do(t, 0, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing request id header")
	}
}

func TestRequireUser(t *testing.T) {
	h := newHarness(t)
	for _, header := range []string{"", "abc", "-3"} {
		req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
		if header != "" {
			req.Header.Set(UserHeader, header)
		}
		w := httptest.NewRecorder()
		h.srv.Handler().ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, w.Code)
		}
	}
}

func TestCreateProjectSeedsStatuses(t *testing.T) {
	h := newHarness(t)
	p := h.createProject(t, "Garden")

	w := h.do(t, h.user, http.MethodGet, "/api/projects/"+strconv.FormatInt(p.ID, 10)+"/statuses", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d %s", w.Code, w.Body.String())
	}
	got := decode[struct {
		Statuses []statusJSON `json:"statuses"`
	}](t, w)
	if len(got.Statuses) != len(models.DefaultStatuses()) {
		t.Fatalf("got %d statuses, want %d", len(got.Statuses), len(models.DefaultStatuses()))
	}
	if got.Statuses[0].Key != "not_started" {
		t.Errorf("first status = %q, want not_started", got.Statuses[0].Key)
	}
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	h := newHarness(t)
	p := h.createProject(t, "Garden")
	task := h.createTask(t, p.ID, "Plant tomatoes")

	if task.Priority != models.PriorityMedium {
		t.Errorf("priority = %q, want medium", task.Priority)
	}
	if task.Status == nil || task.Status.Key != "not_started" {
		t.Fatalf("status = %+v, want not_started", task.Status)
	}

	w := h.do(t, h.user, http.MethodPost, taskPath(task.ID, "/complete"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("complete: %d %s", w.Code, w.Body.String())
	}
	done := decode[taskJSON](t, w)
	if !done.Completed || done.CompletedAt == nil {
		t.Errorf("completed = %v at %v", done.Completed, done.CompletedAt)
	}
	if done.Status == nil || done.Status.Key != "complete" {
		t.Errorf("status = %+v, want complete", done.Status)
	}

	w = h.do(t, h.user, http.MethodPost, taskPath(task.ID, "/toggle"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle: %d %s", w.Code, w.Body.String())
	}
	undone := decode[taskJSON](t, w)
	if undone.Completed {
		t.Error("toggle left the task complete")
	}
	if undone.Status == nil || undone.Status.Key != "not_started" {
		t.Errorf("status = %+v, want not_started", undone.Status)
	}

	w = h.do(t, h.user, http.MethodGet, "/api/projects/"+strconv.FormatInt(p.ID, 10)+"/progress", nil)
	progress := decode[progressJSON](t, w)
	if progress.Total != 1 || progress.Completed != 0 || progress.State != models.ProjectNotStarted {
		t.Errorf("progress = %+v", progress)
	}
}

func TestErrorMapping(t *testing.T) {
	h := newHarness(t)
	p := h.createProject(t, "Garden")
	task := h.createTask(t, p.ID, "Weed")

	w := h.do(t, h.user, http.MethodPost, taskPath(task.ID, "/comments"), gin.H{"content": "which beds?"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add comment: %d %s", w.Code, w.Body.String())
	}
	comment := decode[commentJSON](t, w)

	tests := []struct {
		name   string
		user   int64
		method string
		path   string
		body   any
		want   int
	}{
		{"validation", h.user, http.MethodPost, "/api/tasks", gin.H{"project_id": p.ID}, http.StatusUnprocessableEntity},
		{"bad json", h.user, http.MethodPost, "/api/tasks", "nope", http.StatusBadRequest},
		{"bad id", h.user, http.MethodGet, "/api/tasks/abc", nil, http.StatusBadRequest},
		{"missing task", h.user, http.MethodGet, taskPath(9999, ""), nil, http.StatusNotFound},
		{"foreign task", h.other, http.MethodGet, taskPath(task.ID, ""), nil, http.StatusNotFound},
		{"foreign complete", h.other, http.MethodPost, taskPath(task.ID, "/complete"), nil, http.StatusNotFound},
		{"unresolved comments", h.user, http.MethodDelete, taskPath(task.ID, ""), nil, http.StatusConflict},
		{"bad comment status", h.user, http.MethodPut, "/api/comments/" + strconv.FormatInt(comment.ID, 10), gin.H{"status": "maybe"}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(t, tt.user, tt.method, tt.path, tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}

	w = h.do(t, h.user, http.MethodPut, "/api/comments/"+strconv.FormatInt(comment.ID, 10), gin.H{"status": "resolved"})
	if w.Code != http.StatusOK {
		t.Fatalf("resolve: %d %s", w.Code, w.Body.String())
	}
	w = h.do(t, h.user, http.MethodDelete, taskPath(task.ID, ""), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete after resolve: %d %s", w.Code, w.Body.String())
	}
}

func TestArchiveTwiceConflicts(t *testing.T) {
	h := newHarness(t)
	p := h.createProject(t, "Garden")
	task := h.createTask(t, p.ID, "Mulch")

	w := h.do(t, h.user, http.MethodPost, taskPath(task.ID, "/archive"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("archive: %d %s", w.Code, w.Body.String())
	}
	if got := decode[taskJSON](t, w); !got.Archived {
		t.Error("task not archived")
	}

	w = h.do(t, h.user, http.MethodPost, taskPath(task.ID, "/archive"), nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("second archive: %d, want 409", w.Code)
	}
	body := decode[struct {
		Messages []string `json:"messages"`
	}](t, w)
	if len(body.Messages) != 1 || body.Messages[0] != "Task is already archived" {
		t.Errorf("messages = %v", body.Messages)
	}
}

func TestBulkEndpoints(t *testing.T) {
	h := newHarness(t)
	p := h.createProject(t, "Garden")
	a := h.createTask(t, p.ID, "Rake")
	b := h.createTask(t, p.ID, "Water")

	due := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	w := h.do(t, h.user, http.MethodPost, "/api/tasks/bulk/reschedule", gin.H{"task_ids": []int64{a.ID, b.ID}, "due_date": due})
	if w.Code != http.StatusOK {
		t.Fatalf("reschedule: %d %s", w.Code, w.Body.String())
	}
	if got := decode[struct{ Updated int }](t, w); got.Updated != 2 {
		t.Errorf("rescheduled %d, want 2", got.Updated)
	}

	w = h.do(t, h.user, http.MethodPost, taskPath(a.ID, "/complete"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("complete: %d", w.Code)
	}

	// completed at testNow, so only a cutoff after it archives the task
	w = h.do(t, h.user, http.MethodPost, "/api/tasks/bulk/archive", gin.H{"before": testNow.Add(time.Hour)})
	if w.Code != http.StatusOK {
		t.Fatalf("archive: %d %s", w.Code, w.Body.String())
	}
	if got := decode[struct{ Archived int }](t, w); got.Archived != 1 {
		t.Errorf("archived %d, want 1", got.Archived)
	}

	w = h.do(t, h.user, http.MethodPost, "/api/tasks/bulk/archive", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("default archive: %d %s", w.Code, w.Body.String())
	}
	if got := decode[struct{ Archived int }](t, w); got.Archived != 0 {
		t.Errorf("default cutoff archived %d, want 0", got.Archived)
	}
}

func TestAnalysisFormats(t *testing.T) {
	h := newHarness(t)
	p := h.createProject(t, "Garden")
	h.createTask(t, p.ID, "Rake")
	done := h.createTask(t, p.ID, "Water")
	h.do(t, h.user, http.MethodPost, taskPath(done.ID, "/complete"), nil)

	w := h.do(t, h.user, http.MethodGet, "/reports/analysis?format=json", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("json: %d %s", w.Code, w.Body.String())
	}
	got := decode[struct {
		Report struct {
			Summary struct {
				TotalTasks      int     `json:"total_tasks"`
				CompletedCount  int     `json:"completed_count"`
				CompletionRatio float64 `json:"completion_ratio"`
			} `json:"summary"`
		} `json:"report"`
	}](t, w)
	if got.Report.Summary.TotalTasks != 2 || got.Report.Summary.CompletedCount != 1 || got.Report.Summary.CompletionRatio != 50 {
		t.Errorf("summary = %+v", got.Report.Summary)
	}

	w = h.do(t, h.user, http.MethodGet, "/reports/analysis?format=pdf", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("pdf: %d %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "mustermeister-report-20240301-1200.pdf") {
		t.Errorf("content disposition = %q", cd)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body is not a PDF")
	}

	w = h.do(t, h.user, http.MethodGet, "/reports/analysis", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("html: %d %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Garden") || !strings.Contains(w.Body.String(), "50.0%") {
		t.Errorf("html missing project or ratio:\n%s", w.Body.String())
	}
}

func TestReportConfigIsRemembered(t *testing.T) {
	h := newHarness(t)
	garden := h.createProject(t, "Garden")
	h.createProject(t, "Kitchen")

	form := url.Values{
		"project_ids": {strconv.FormatInt(garden.ID, 10)},
		"stats":       {"total_tasks"},
	}
	req := httptest.NewRequest(http.MethodPost, "/reports/config", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(UserHeader, strconv.FormatInt(h.user, 10))
	w := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("save: %d %s", w.Code, w.Body.String())
	}

	w = h.do(t, h.user, http.MethodGet, "/reports/analysis?format=json", nil)
	got := decode[struct {
		Report struct {
			ProjectIDs []int64 `json:"project_ids"`
		} `json:"report"`
		Stats []string `json:"stats"`
	}](t, w)
	if len(got.Report.ProjectIDs) != 1 || got.Report.ProjectIDs[0] != garden.ID {
		t.Errorf("project ids = %v, want [%d]", got.Report.ProjectIDs, garden.ID)
	}
	if len(got.Stats) != 1 || got.Stats[0] != "total_tasks" {
		t.Errorf("stats = %v", got.Stats)
	}

	// another user's selection is separate
	w = h.do(t, h.other, http.MethodGet, "/reports/analysis?format=json", nil)
	other := decode[struct {
		Stats []string `json:"stats"`
	}](t, w)
	if len(other.Stats) != 3 {
		t.Errorf("other user's stats = %v, want all", other.Stats)
	}
}

func TestRateLimiter(t *testing.T) {
	h := newHarness(t, func(c *config.Config) {
		c.Server.RateLimit = 0.001
		c.Server.Burst = 1
	})
	if w := h.do(t, 0, http.MethodGet, "/health", nil); w.Code != http.StatusOK {
		t.Fatalf("first request: %d", w.Code)
	}
	if w := h.do(t, 0, http.MethodGet, "/health", nil); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: %d, want 429", w.Code)
	}
}

func TestTagsAndStatusesOverHTTP(t *testing.T) {
	h := newHarness(t)
	p := h.createProject(t, "Garden")
	task := h.createTask(t, p.ID, "Prune")
	projectPath := "/api/projects/" + strconv.FormatInt(p.ID, 10)

	w := h.do(t, h.user, http.MethodPost, "/api/tags", gin.H{"name": "urgent"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create tag: %d %s", w.Code, w.Body.String())
	}
	tag := decode[tagJSON](t, w)
	tagPath := taskPath(task.ID, "/tags/"+strconv.FormatInt(tag.ID, 10))

	w = h.do(t, h.user, http.MethodPut, tagPath, nil)
	if got := decode[taskJSON](t, w); w.Code != http.StatusOK || len(got.Tags) != 1 {
		t.Fatalf("tag task: %d %s", w.Code, w.Body.String())
	}

	w = h.do(t, h.user, http.MethodPost, projectPath+"/statuses", gin.H{"name": "Blocked"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status: %d %s", w.Code, w.Body.String())
	}
	blocked := decode[statusJSON](t, w)
	statusPath := "/api/statuses/" + strconv.FormatInt(blocked.ID, 10)

	if w = h.do(t, h.other, http.MethodPut, statusPath, gin.H{"name": "Mine"}); w.Code != http.StatusNotFound {
		t.Errorf("rename by other user: %d", w.Code)
	}
	w = h.do(t, h.user, http.MethodPut, statusPath, gin.H{"name": "Waiting"})
	if got := decode[statusJSON](t, w); w.Code != http.StatusOK || got.Name != "Waiting" {
		t.Fatalf("rename status: %d %s", w.Code, w.Body.String())
	}

	w = h.do(t, h.user, http.MethodPut, taskPath(task.ID, "/status"), gin.H{"status_id": blocked.ID})
	if got := decode[taskJSON](t, w); w.Code != http.StatusOK || got.Status == nil || got.Status.Name != "Waiting" {
		t.Fatalf("set status: %d %s", w.Code, w.Body.String())
	}
	if w = h.do(t, h.user, http.MethodDelete, statusPath, nil); w.Code != http.StatusConflict {
		t.Errorf("delete used status: %d %s", w.Code, w.Body.String())
	}

	statuses := decode[struct {
		Statuses []statusJSON `json:"statuses"`
	}](t, h.do(t, h.user, http.MethodGet, projectPath+"/statuses", nil))
	var notStarted int64
	for _, s := range statuses.Statuses {
		if s.Name == models.StatusNotStarted.Name() {
			notStarted = s.ID
		}
	}
	if w = h.do(t, h.user, http.MethodDelete, "/api/statuses/"+strconv.FormatInt(notStarted, 10), nil); w.Code != http.StatusConflict {
		t.Errorf("delete default status: %d %s", w.Code, w.Body.String())
	}

	if w = h.do(t, h.user, http.MethodDelete, "/api/tags/"+strconv.FormatInt(tag.ID, 10), nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete tag: %d", w.Code)
	}
	if got := decode[taskJSON](t, h.do(t, h.user, http.MethodGet, taskPath(task.ID, ""), nil)); len(got.Tags) != 0 {
		t.Errorf("deleted tag still on task: %v", got.Tags)
	}
}

func TestProjectSearchAndArchivedTasks(t *testing.T) {
	h := newHarness(t)
	garden := h.createProject(t, "Garden")
	h.createProject(t, "Kitchen")
	task := h.createTask(t, garden.ID, "Compost")

	type list struct {
		Count int `json:"count"`
	}
	if got := decode[list](t, h.do(t, h.user, http.MethodGet, "/api/projects?search=gard", nil)); got.Count != 1 {
		t.Errorf("search found %d projects, want 1", got.Count)
	}
	if got := decode[list](t, h.do(t, h.user, http.MethodGet, "/api/projects", nil)); got.Count != 2 {
		t.Errorf("listed %d projects, want 2", got.Count)
	}

	if w := h.do(t, h.user, http.MethodPost, taskPath(task.ID, "/archive"), nil); w.Code != http.StatusOK {
		t.Fatalf("archive: %d %s", w.Code, w.Body.String())
	}
	archived := decode[struct {
		Count int              `json:"count"`
		Stats archiveStatsJSON `json:"stats"`
	}](t, h.do(t, h.user, http.MethodGet, "/api/tasks/archived", nil))
	if archived.Count != 1 {
		t.Errorf("archived lists %d tasks, want 1", archived.Count)
	}
	if want := (archiveStatsJSON{TotalArchived: 1, ArchivedThisMonth: 1}); archived.Stats != want {
		t.Errorf("archive stats = %+v, want %+v", archived.Stats, want)
	}
	if got := decode[list](t, h.do(t, h.other, http.MethodGet, "/api/tasks/archived", nil)); got.Count != 0 {
		t.Errorf("other user sees %d archived tasks", got.Count)
	}
}

func TestDuplicateNamesAnswer422(t *testing.T) {
	h := newHarness(t)
	p := h.createProject(t, "Garden")
	statusesPath := "/api/projects/" + strconv.FormatInt(p.ID, 10) + "/statuses"

	if w := h.do(t, h.user, http.MethodPost, statusesPath, gin.H{"name": "Blocked"}); w.Code != http.StatusCreated {
		t.Fatalf("create status: %d %s", w.Code, w.Body.String())
	}
	if w := h.do(t, h.user, http.MethodPost, "/api/tags", gin.H{"name": "urgent"}); w.Code != http.StatusCreated {
		t.Fatalf("create tag: %d %s", w.Code, w.Body.String())
	}
	if w := h.do(t, h.user, http.MethodPost, "/api/tag-groups", gin.H{"name": "Size"}); w.Code != http.StatusCreated {
		t.Fatalf("create tag group: %d %s", w.Code, w.Body.String())
	}

	tests := []struct {
		name string
		path string
		body any
	}{
		{"default status", statusesPath, gin.H{"name": "Complete"}},
		{"custom status", statusesPath, gin.H{"name": "Blocked"}},
		{"tag", "/api/tags", gin.H{"name": "urgent"}},
		{"tag group", "/api/tag-groups", gin.H{"name": "Size"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(t, h.user, http.MethodPost, tt.path, tt.body)
			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422 (%s)", w.Code, w.Body.String())
			}
			body := decode[struct {
				Messages []string `json:"messages"`
			}](t, w)
			if len(body.Messages) != 1 || body.Messages[0] != "name has already been taken" {
				t.Errorf("messages = %v", body.Messages)
			}
		})
	}
}

func TestBulkRescheduleUnknownTaskIsBadRequest(t *testing.T) {
	h := newHarness(t)
	p := h.createProject(t, "Garden")
	task := h.createTask(t, p.ID, "Rake")
	due := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		user int64
		ids  []int64
	}{
		{"missing task", h.user, []int64{task.ID, 999}},
		{"foreign task", h.other, []int64{task.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(t, tt.user, http.MethodPost, "/api/tasks/bulk/reschedule", gin.H{"task_ids": tt.ids, "due_date": due})
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (%s)", w.Code, w.Body.String())
			}
		})
	}
	if got := decode[taskJSON](t, h.do(t, h.user, http.MethodGet, taskPath(task.ID, ""), nil)); got.DueDate != nil {
		t.Errorf("due date changed to %v after a failed batch", got.DueDate)
	}
}

func TestKanbanBoard(t *testing.T) {
	h := newHarness(t)
	garden := h.createProject(t, "Garden")
	kitchen := h.createProject(t, "Kitchen")
	h.createTask(t, garden.ID, "Sow")
	done := h.createTask(t, garden.ID, "Harvest")
	h.createTask(t, kitchen.ID, "Knead")
	if w := h.do(t, h.user, http.MethodPost, taskPath(done.ID, "/complete"), nil); w.Code != http.StatusOK {
		t.Fatalf("complete: %d %s", w.Code, w.Body.String())
	}

	type board struct {
		Columns []kanbanColumnJSON `json:"columns"`
	}
	counts := func(b board) map[string]int {
		out := make(map[string]int)
		for _, col := range b.Columns {
			out[col.Status] = col.Count
		}
		return out
	}

	w := h.do(t, h.user, http.MethodGet, "/api/kanban", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("kanban: %d %s", w.Code, w.Body.String())
	}
	b := decode[board](t, w)
	if len(b.Columns) != len(models.DefaultStatuses())-1 {
		t.Fatalf("got %d columns", len(b.Columns))
	}
	if b.Columns[0].Name != "Not Started" || b.Columns[len(b.Columns)-1].Name != "Complete" {
		t.Errorf("column order: first %q last %q", b.Columns[0].Name, b.Columns[len(b.Columns)-1].Name)
	}
	if got := counts(b); got["not_started"] != 2 || got["complete"] != 1 {
		t.Errorf("counts = %v", got)
	}

	q := url.Values{"project_id": {strconv.FormatInt(kitchen.ID, 10)}}
	b = decode[board](t, h.do(t, h.user, http.MethodGet, "/api/kanban?"+q.Encode(), nil))
	if got := counts(b); got["not_started"] != 1 || got["complete"] != 0 {
		t.Errorf("kitchen counts = %v", got)
	}

	tests := []struct {
		name  string
		user  int64
		query string
		want  int
	}{
		{"bad days", h.user, "updated_within_days=soon", http.StatusBadRequest},
		{"bad priority", h.user, "priority=urgent", http.StatusUnprocessableEntity},
		{"foreign project", h.other, "project_id=" + strconv.FormatInt(garden.ID, 10), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := h.do(t, tt.user, http.MethodGet, "/api/kanban?"+tt.query, nil); w.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestScheduleStats(t *testing.T) {
	h := newHarness(t)
	p := h.createProject(t, "Garden")
	late := h.createTask(t, p.ID, "Rake")
	soon := h.createTask(t, p.ID, "Water")
	h.createTask(t, p.ID, "Someday")

	for _, tt := range []struct {
		id  int64
		due time.Time
	}{
		{late.ID, testNow.AddDate(0, 0, -2)},
		{soon.ID, testNow.AddDate(0, 0, 2)},
	} {
		w := h.do(t, h.user, http.MethodPost, "/api/tasks/bulk/reschedule", gin.H{"task_ids": []int64{tt.id}, "due_date": tt.due})
		if w.Code != http.StatusOK {
			t.Fatalf("reschedule: %d %s", w.Code, w.Body.String())
		}
	}

	w := h.do(t, h.user, http.MethodGet, "/api/tasks/schedule", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("schedule: %d %s", w.Code, w.Body.String())
	}
	want := scheduleStatsJSON{TotalTasks: 3, OverdueTasks: 1, UpcomingTasks: 1}
	if got := decode[scheduleStatsJSON](t, w); got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
}
