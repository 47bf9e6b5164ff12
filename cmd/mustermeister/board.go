package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tgienger/mustermeister/internal/models"
	"github.com/tgienger/mustermeister/internal/services"
)

func newBoardCmd(a *app) *cobra.Command {
	var (
		filter   services.KanbanFilter
		priority string
	)
	cmd := &cobra.Command{
		Use:     "board",
		Aliases: []string{"kanban"},
		Short:   "Show open work grouped by status",
		Long: `Show non-archived tasks grouped by status, across every project or one.

Closed tasks are listed with Complete. Completed tasks older than a week are
hidden unless --all-completed is set. A negative --updated-within keeps tasks
that have not been touched for that many days.`,
		Args: cobra.NoArgs,
		RunE: a.withApp(func(ctx context.Context, _ []string) error {
			filter.Priority = models.Priority(priority)
			columns, err := a.svc.Kanban(ctx, a.user.ID, filter)
			if err != nil {
				return err
			}

			var rows [][]string
			for _, col := range columns {
				for _, t := range col.Tasks {
					rows = append(rows, []string{
						col.Status.Name(),
						strconv.FormatInt(t.ID, 10),
						strconv.FormatInt(t.ProjectID, 10),
						t.Title,
						string(t.Priority),
						formatDate(&t.UpdatedAt),
					})
				}
			}
			if len(rows) == 0 {
				fmt.Fprintln(a.out, "Nothing on the board.")
				return nil
			}
			return printTable(a.out, []string{"Status", "ID", "Project", "Task", "Priority", "Updated"}, rows)
		}),
	}
	cmd.Flags().Int64Var(&filter.ProjectID, "project", 0, "only this project")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "only tasks with this priority")
	cmd.Flags().IntVar(&filter.UpdatedWithinDays, "updated-within", 0, "only tasks updated in the last N days, or not for -N days")
	cmd.Flags().BoolVar(&filter.ShowAllCompleted, "all-completed", false, "include tasks completed more than a week ago")
	return cmd
}
