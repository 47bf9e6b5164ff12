package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgienger/mustermeister/internal/db"
	"github.com/tgienger/mustermeister/internal/models"
)

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Create, list and move tasks through their lifecycle",
	}
	cmd.AddCommand(
		newTaskListCmd(a),
		newTaskArchivedCmd(a),
		newTaskScheduleCmd(a),
		newTaskAddCmd(a),
		newTaskLifecycleCmd(a, "complete", "Mark a task complete", a.svcMarkComplete),
		newTaskLifecycleCmd(a, "incomplete", "Reopen a completed task", a.svcMarkIncomplete),
		newTaskLifecycleCmd(a, "toggle", "Flip a task between complete and incomplete", a.svcToggle),
		newTaskLifecycleCmd(a, "archive", "Archive a task permanently", a.svcArchive),
		newTaskStatusCmd(a),
		newTaskCommentCmd(a),
		newTaskDeleteCmd(a),
	)
	return cmd
}

func newTaskListCmd(a *app) *cobra.Command {
	var (
		completed, archived bool
		search, priority    string
	)
	cmd := &cobra.Command{
		Use:   "list <project-id>",
		Short: "List a project's tasks",
		Args:  cobra.ExactArgs(1),
		RunE: a.withApp(func(ctx context.Context, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			tasks, err := a.svc.Tasks(ctx, a.user.ID, db.TaskFilter{
				ProjectID:       id,
				Search:          search,
				ShowCompleted:   completed,
				IncludeArchived: archived,
				Priority:        models.Priority(priority),
			})
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(a.out, "No tasks.")
				return nil
			}

			rows := make([][]string, 0, len(tasks))
			for _, t := range tasks {
				done := ""
				switch {
				case t.Archived:
					done = "archived"
				case t.Completed:
					done = "✓"
				}
				tags := make([]string, len(t.Tags))
				for i, tag := range t.Tags {
					tags[i] = tag.Name
				}
				rows = append(rows, []string{
					strconv.FormatInt(t.ID, 10),
					t.Title,
					t.StatusName(),
					string(t.Priority),
					formatDate(t.DueDate),
					strings.Join(tags, ", "),
					done,
				})
			}
			return printTable(a.out, []string{"ID", "Task", "Status", "Priority", "Due", "Tags", "Done"}, rows)
		}),
	}
	cmd.Flags().BoolVarP(&completed, "completed", "c", false, "include completed tasks")
	cmd.Flags().BoolVar(&archived, "archived", false, "include archived tasks")
	cmd.Flags().StringVarP(&search, "search", "s", "", "match title or description")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "only tasks with this priority")
	return cmd
}

func newTaskArchivedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "archived",
		Short: "List archived tasks across all projects",
		Args:  cobra.NoArgs,
		RunE: a.withApp(func(ctx context.Context, _ []string) error {
			tasks, err := a.svc.ArchivedTasks(ctx, a.user.ID)
			if err != nil {
				return err
			}
			stats, err := a.svc.ArchiveStats(ctx, a.user.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s archived, %d this month, %d completed in total\n",
				plural(stats.TotalArchived, "task"), stats.ArchivedThisMonth, stats.TotalCompleted)
			if len(tasks) == 0 {
				return nil
			}
			rows := make([][]string, 0, len(tasks))
			for _, t := range tasks {
				rows = append(rows, []string{
					strconv.FormatInt(t.ID, 10),
					strconv.FormatInt(t.ProjectID, 10),
					t.Title,
					t.StatusName(),
					formatDate(t.ArchivedAt),
				})
			}
			return printTable(a.out, []string{"ID", "Project", "Task", "Status", "Archived"}, rows)
		}),
	}
}

func newTaskScheduleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Count overdue and upcoming tasks",
		Args:  cobra.NoArgs,
		RunE: a.withApp(func(ctx context.Context, _ []string) error {
			stats, err := a.svc.ScheduleStats(ctx, a.user.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s: %d overdue, %d upcoming\n", plural(stats.Total, "task"), stats.Overdue, stats.Upcoming)
			return nil
		}),
	}
}

func newTaskAddCmd(a *app) *cobra.Command {
	var description, notes, priority, due string
	cmd := &cobra.Command{
		Use:   "add <project-id> <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(2),
		RunE: a.withApp(func(ctx context.Context, args []string) error {
			projectID, err := parseID(args[0])
			if err != nil {
				return err
			}
			dueDate, err := parseDate(due)
			if err != nil {
				return err
			}
			t := &models.Task{
				ProjectID:   projectID,
				Title:       args[1],
				Description: description,
				Notes:       notes,
				Priority:    models.Priority(priority),
				DueDate:     dueDate,
			}
			if err := a.svc.CreateTask(ctx, a.user.ID, t); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created task %d: %s (%s)\n", t.ID, t.Title, t.Priority)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "free-form notes")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "high, medium, low or leisure (default from project)")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD")
	return cmd
}

type lifecycleFunc func(ctx context.Context, taskID int64) (*models.Task, error)

func (a *app) svcMarkComplete(ctx context.Context, id int64) (*models.Task, error) {
	return a.svc.MarkComplete(ctx, a.user.ID, id)
}

func (a *app) svcMarkIncomplete(ctx context.Context, id int64) (*models.Task, error) {
	return a.svc.MarkIncomplete(ctx, a.user.ID, id)
}

func (a *app) svcToggle(ctx context.Context, id int64) (*models.Task, error) {
	return a.svc.ToggleCompletion(ctx, a.user.ID, id)
}

func (a *app) svcArchive(ctx context.Context, id int64) (*models.Task, error) {
	return a.svc.ArchiveTask(ctx, a.user.ID, id)
}

func newTaskLifecycleCmd(a *app, use, short string, fn lifecycleFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <task-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: a.withApp(func(ctx context.Context, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := fn(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s: %s\n", t.Title, taskState(t))
			return nil
		}),
	}
}

func taskState(t *models.Task) string {
	switch {
	case t.Archived:
		return "archived"
	case t.Completed:
		return "complete (" + t.StatusName() + ")"
	}
	return "open (" + t.StatusName() + ")"
}

func newTaskStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <status-id> <task-id>...",
		Short: "Move tasks to a status of their project",
		Long: `Move tasks to a status of their project.

Moving to Complete or Closed completes the tasks, moving away reopens them.
Use "mustermeister statuses list" to find status ids.`,
		Args: cobra.MinimumNArgs(2),
		RunE: a.withApp(func(ctx context.Context, args []string) error {
			statusID, err := parseID(args[0])
			if err != nil {
				return err
			}
			ids, err := parseIDs(args[1:])
			if err != nil {
				return err
			}
			n, err := a.svc.BulkUpdateStatus(ctx, a.user.ID, ids, statusID)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated %s\n", plural(n, "task"))
			return nil
		}),
	}
}

func newTaskCommentCmd(a *app) *cobra.Command {
	var resolve, closeComment int64
	cmd := &cobra.Command{
		Use:   "comment <task-id> [text]",
		Short: "Comment on a task, or resolve or close an existing comment",
		Args:  cobra.RangeArgs(1, 2),
		RunE: a.withApp(func(ctx context.Context, args []string) error {
			switch {
			case resolve > 0:
				return a.setCommentStatus(ctx, resolve, models.CommentResolved)
			case closeComment > 0:
				return a.setCommentStatus(ctx, closeComment, models.CommentClosed)
			case len(args) < 2:
				return fmt.Errorf("comment text is required")
			}
			taskID, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.svc.AddComment(ctx, a.user.ID, taskID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added comment %d\n", c.ID)
			return nil
		}),
	}
	cmd.Flags().Int64Var(&resolve, "resolve", 0, "resolve the comment with this id")
	cmd.Flags().Int64Var(&closeComment, "close", 0, "close the comment with this id")
	cmd.MarkFlagsMutuallyExclusive("resolve", "close")
	return cmd
}

func (a *app) setCommentStatus(ctx context.Context, id int64, status models.CommentStatus) error {
	if err := a.svc.SetCommentStatus(ctx, a.user.ID, id, status); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Comment %d is %s\n", id, status)
	return nil
}

func newTaskDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task without open comments",
		Args:  cobra.ExactArgs(1),
		RunE: a.withApp(func(ctx context.Context, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.DeleteTask(ctx, a.user.ID, id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted task %d\n", id)
			return nil
		}),
	}
}
