package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tgienger/mustermeister/internal/models"
	"github.com/tgienger/mustermeister/internal/ui/styles"
)

func newProjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "List and create projects",
	}
	cmd.AddCommand(newProjectListCmd(a), newProjectAddCmd(a), newProjectDueCmd(a))
	return cmd
}

func newProjectListCmd(a *app) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects with their progress",
		Args:  cobra.NoArgs,
		RunE: a.withApp(func(ctx context.Context, _ []string) error {
			projects, err := a.svc.SearchProjects(ctx, a.user.ID, search)
			if err != nil {
				return err
			}
			if len(projects) == 0 && search != "" {
				fmt.Fprintln(a.out, "No matching projects.")
				return nil
			}
			if len(projects) == 0 {
				fmt.Fprintln(a.out, "No projects yet. Create one with `mustermeister project add`.")
				return nil
			}

			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				progress, err := a.svc.ProjectProgress(ctx, a.user.ID, p.ID)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					strconv.FormatInt(p.ID, 10),
					p.Title,
					fmt.Sprintf("%d%%", progress.Percentage),
					styles.StateLabel(progress.State),
					fmt.Sprintf("%d/%d", progress.Completed, progress.Total),
					formatDate(p.DueDate),
				})
			}
			return printTable(a.out, []string{"ID", "Project", "Done", "State", "Tasks", "Due"}, rows)
		}),
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "match title or description")
	return cmd
}

func newProjectAddCmd(a *app) *cobra.Command {
	var description, color, priority, due string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a project with the default statuses",
		Args:  cobra.ExactArgs(1),
		RunE: a.withApp(func(ctx context.Context, args []string) error {
			dueDate, err := parseDate(due)
			if err != nil {
				return err
			}
			p := &models.Project{
				Title:           args[0],
				Description:     description,
				Color:           models.Color(color),
				DefaultPriority: models.Priority(priority),
				DueDate:         dueDate,
			}
			if err := a.svc.CreateProject(ctx, a.user.ID, p); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created project %d: %s\n", p.ID, p.Title)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "project description")
	cmd.Flags().StringVar(&color, "color", "", "one of red, orange, yellow, green, blue, purple, pink, gray")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "default priority for new tasks (high, medium, low, leisure)")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD")
	return cmd
}

func newProjectDueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "due <project-id> <YYYY-MM-DD|none>",
		Short: "Change a project's due date and move its open tasks along",
		Args:  cobra.ExactArgs(2),
		RunE: a.withApp(func(ctx context.Context, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			due, err := parseDate(args[1])
			if err != nil {
				return err
			}
			p, err := a.svc.Project(ctx, a.user.ID, id)
			if err != nil {
				return err
			}
			p.DueDate = due

			res, err := a.svc.UpdateProject(ctx, a.user.ID, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s is now due %s, rescheduled %s\n", p.Title, formatDate(due), plural(res.Rescheduled, "task"))
			if res.RescheduleErr != nil {
				fmt.Fprintf(a.out, "Warning: tasks were not rescheduled: %v\n", res.RescheduleErr)
			}
			return nil
		}),
	}
}
