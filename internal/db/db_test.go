package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tgienger/mustermeister/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedProject(t *testing.T, db *DB) (*models.User, *models.Project) {
	t.Helper()
	ctx := context.Background()
	u, err := db.EnsureUser(ctx, "Ada", "ada@example.com")
	if err != nil {
		t.Fatal(err)
	}
	p := &models.Project{UserID: u.ID, Title: "Garden", LastActivityAt: time.Now().UTC()}
	if err := db.CreateProject(ctx, p); err != nil {
		t.Fatal(err)
	}
	return u, p
}

func TestOpenTwiceKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SetSetting(context.Background(), "last_project_id", "42"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	got, err := db.GetSetting(context.Background(), "last_project_id")
	if err != nil {
		t.Fatal(err)
	}
	if got != "42" {
		t.Errorf("setting = %q, want 42", got)
	}
}

func TestGetSettingMissing(t *testing.T) {
	db := openTestDB(t)
	got, err := db.GetSetting(context.Background(), "nope")
	if err != nil || got != "" {
		t.Errorf("GetSetting = %q, %v", got, err)
	}
}

func TestEnsureUser(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	a, err := db.EnsureUser(ctx, "Ada", "ada@example.com")
	if err != nil {
		t.Fatal(err)
	}
	b, err := db.EnsureUser(ctx, "Ada L.", "ADA@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != b.ID {
		t.Errorf("EnsureUser created a second user: %d vs %d", a.ID, b.ID)
	}
}

func TestFindOrCreateStatus(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, p := seedProject(t, db)

	first, created, err := db.FindOrCreateStatus(ctx, p.ID, "Blocked")
	if err != nil || !created {
		t.Fatalf("first call: created=%v err=%v", created, err)
	}
	second, created, err := db.FindOrCreateStatus(ctx, p.ID, "Blocked")
	if err != nil || created {
		t.Fatalf("second call: created=%v err=%v", created, err)
	}
	if first.ID != second.ID {
		t.Errorf("ids differ: %d vs %d", first.ID, second.ID)
	}
	if _, err := db.CreateStatus(ctx, p.ID, "Blocked"); err == nil {
		t.Error("duplicate status name accepted")
	}
}

func TestListStatusesOrder(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, p := seedProject(t, db)

	for _, name := range []string{"Waiting", "Complete", "Blocked", "Not Started", "In Progress"} {
		if _, err := db.CreateStatus(ctx, p.ID, name); err != nil {
			t.Fatal(err)
		}
	}
	statuses, err := db.ListStatuses(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Not Started", "In Progress", "Complete", "Blocked", "Waiting"}
	for i, s := range statuses {
		if s.Name != want[i] {
			t.Errorf("statuses[%d] = %q, want %q", i, s.Name, want[i])
		}
	}
}

func TestWithTxRollsBack(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, p := seedProject(t, db)

	boom := errors.New("boom")
	err := db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.CreateStatus(ctx, p.ID, "Doomed"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx err = %v", err)
	}
	if _, err := db.GetStatusByName(ctx, p.ID, "Doomed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("status survived rollback: %v", err)
	}
}

func TestTaskTagGroups(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	u, p := seedProject(t, db)
	status, _, err := db.FindOrCreateStatus(ctx, p.ID, "Not Started")
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now().UTC()
	task := &models.Task{ProjectID: p.ID, UserID: u.ID, StatusID: status.ID, Title: "Plant", CreatedAt: now, UpdatedAt: now}
	if err := db.CreateTask(ctx, task); err != nil {
		t.Fatal(err)
	}

	size, err := db.CreateTagGroup(ctx, "size")
	if err != nil {
		t.Fatal(err)
	}
	small, _ := db.CreateTag(ctx, "small", "#9ece6a", &size.ID)
	large, _ := db.CreateTag(ctx, "large", "#f7768e", &size.ID)
	urgent, _ := db.CreateTag(ctx, "urgent", "#ff9e64", nil)

	for _, tag := range []*models.Tag{small, urgent, large} {
		if err := db.AddTagToTask(ctx, task.ID, tag.ID); err != nil {
			t.Fatal(err)
		}
	}

	tags, err := db.GetTaskTags(ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	if len(names) != 2 || names[0] != "large" || names[1] != "urgent" {
		t.Errorf("tags = %v, want [large urgent]", names)
	}

	byName, err := db.GetTagByName(ctx, "URGENT")
	if err != nil || byName.ID != urgent.ID {
		t.Errorf("GetTagByName = %v, %v", byName, err)
	}
}

func TestListTasksFiltered(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	u, p := seedProject(t, db)
	status, _, _ := db.FindOrCreateStatus(ctx, p.ID, "Not Started")

	now := time.Now().UTC()
	add := func(title string, prio models.Priority, completed bool) {
		task := &models.Task{ProjectID: p.ID, UserID: u.ID, StatusID: status.ID, Title: title,
			Priority: prio, Completed: completed, CreatedAt: now, UpdatedAt: now}
		if completed {
			task.CompletedAt = &now
		}
		if err := db.CreateTask(ctx, task); err != nil {
			t.Fatal(err)
		}
	}
	add("water tomatoes", models.PriorityHigh, false)
	add("water roses", models.PriorityLow, true)
	add("buy soil", models.PriorityHigh, false)

	tests := []struct {
		name   string
		filter TaskFilter
		want   int
	}{
		{"open only", TaskFilter{ProjectID: p.ID}, 2},
		{"with completed", TaskFilter{ProjectID: p.ID, ShowCompleted: true}, 3},
		{"only completed", TaskFilter{ProjectID: p.ID, OnlyCompleted: true}, 1},
		{"search", TaskFilter{ProjectID: p.ID, Search: "water", ShowCompleted: true}, 2},
		{"priority", TaskFilter{ProjectID: p.ID, Priority: models.PriorityHigh}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := db.ListTasksFiltered(ctx, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if len(tasks) != tt.want {
				t.Errorf("got %d tasks, want %d", len(tasks), tt.want)
			}
		})
	}
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{1, "?"},
		{3, "?, ?, ?"},
	}
	for _, tt := range tests {
		if got := placeholders(tt.n); got != tt.want {
			t.Errorf("placeholders(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
