package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newStatusesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "statuses",
		Aliases: []string{"status"},
		Short:   "Inspect and repair a project's workflow statuses",
	}
	cmd.AddCommand(
		newStatusesListCmd(a),
		newStatusesEnsureCmd(a),
		newStatusesAddCmd(a),
		newStatusesRenameCmd(a),
		newStatusesDeleteCmd(a),
	)
	return cmd
}

func newStatusesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project-id>",
		Short: "List statuses in workflow order",
		Args:  cobra.ExactArgs(1),
		RunE: a.withApp(func(ctx context.Context, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			statuses, err := a.svc.Statuses(ctx, a.user.ID, id)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				kind := "custom"
				if s.IsDefault() {
					kind = "default"
				}
				rows = append(rows, []string{strconv.FormatInt(s.ID, 10), s.Name, kind})
			}
			return printTable(a.out, []string{"ID", "Status", "Kind"}, rows)
		}),
	}
}

func newStatusesEnsureCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "ensure <project-id>",
		Short: "Create the default statuses a project is missing",
		Long: `Create the default statuses a project is missing.

Without --force nothing happens when the project already has statuses.`,
		Args: cobra.ExactArgs(1),
		RunE: a.withApp(func(ctx context.Context, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			n, err := a.svc.EnsureDefaultStatuses(ctx, a.user.ID, id, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created %s\n", plural(n, "status"))
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "add missing defaults even when other statuses exist")
	return cmd
}

func newStatusesAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <project-id> <name>",
		Short: "Add a custom status to a project",
		Args:  cobra.ExactArgs(2),
		RunE: a.withApp(func(ctx context.Context, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.svc.CreateStatus(ctx, a.user.ID, id, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created status %d: %s\n", s.ID, s.Name)
			return nil
		}),
	}
}

func newStatusesRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <status-id> <name>",
		Short: "Rename a custom status",
		Args:  cobra.ExactArgs(2),
		RunE: a.withApp(func(ctx context.Context, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.svc.RenameStatus(ctx, a.user.ID, id, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Renamed status %d to %s\n", s.ID, s.Name)
			return nil
		}),
	}
}

func newStatusesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <status-id>",
		Short: "Delete a custom status no task uses",
		Args:  cobra.ExactArgs(1),
		RunE: a.withApp(func(ctx context.Context, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.DeleteStatus(ctx, a.user.ID, id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted status %d\n", id)
			return nil
		}),
	}
}
