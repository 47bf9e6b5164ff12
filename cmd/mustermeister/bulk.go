package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newArchiveCmd(a *app) *cobra.Command {
	var before string
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive completed tasks that were finished long ago",
		Long: `Archive completed tasks that were finished long ago.

The cutoff is --before, or archive.max_age before now (about six months by
default).`,
		Args: cobra.NoArgs,
		RunE: a.withApp(func(ctx context.Context, _ []string) error {
			cutoff := time.Now().Add(-a.cfg.Archive.MaxAge)
			if before != "" {
				t, err := parseDate(before)
				if err != nil {
					return err
				}
				if t == nil {
					return errors.New("--before needs a date")
				}
				cutoff = *t
			}
			n, err := a.svc.ArchiveCompletedTasks(ctx, a.user.ID, cutoff)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Archived %s completed before %s\n", plural(n, "task"), formatDate(&cutoff))
			return nil
		}),
	}
	cmd.Flags().StringVar(&before, "before", "", "archive tasks completed before this date, YYYY-MM-DD")
	return cmd
}

func newRescheduleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reschedule <YYYY-MM-DD|none> <task-id>...",
		Short: "Set the due date of several tasks at once",
		Args:  cobra.MinimumNArgs(2),
		RunE: a.withApp(func(ctx context.Context, args []string) error {
			due, err := parseDate(args[0])
			if err != nil {
				return err
			}
			ids, err := parseIDs(args[1:])
			if err != nil {
				return err
			}
			n, err := a.svc.BulkReschedule(ctx, a.user.ID, ids, due)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Rescheduled %s to %s\n", plural(n, "task"), formatDate(due))
			return nil
		}),
	}
}

func newReprioritizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reprioritize <project-id>",
		Short: "Apply the project's default priority to all its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: a.withApp(func(ctx context.Context, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			n, err := a.svc.ReprioritizeProjectTasks(ctx, a.user.ID, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated %s\n", plural(n, "task"))
			return nil
		}),
	}
}
