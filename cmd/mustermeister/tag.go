package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgienger/mustermeister/internal/models"
)

func newTagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tag",
		Aliases: []string{"tags"},
		Short:   "Manage tags and tag groups",
	}
	group := &cobra.Command{
		Use:   "group",
		Short: "Manage groups of mutually exclusive tags",
	}
	group.AddCommand(newTagGroupAddCmd(a), newTagDeleteCmd(a, true))

	cmd.AddCommand(
		newTagListCmd(a),
		newTagAddCmd(a),
		newTagDeleteCmd(a, false),
		newTagTaskCmd(a, "set", "Put a tag on a task", true),
		newTagTaskCmd(a, "unset", "Take a tag off a task", false),
		group,
	)
	return cmd
}

func newTagListCmd(a *app) *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags with their groups",
		Args:  cobra.NoArgs,
		RunE: a.withApp(func(ctx context.Context, _ []string) error {
			groups, err := a.svc.TagGroups(ctx)
			if err != nil {
				return err
			}
			groupNames := make(map[int64]string, len(groups))
			for _, g := range groups {
				groupNames[g.ID] = g.Name
			}

			var tags []models.Tag
			if group == "" {
				tags, err = a.svc.Tags(ctx)
			} else {
				var groupID *int64
				if groupID, err = findGroup(groups, group); err != nil {
					return err
				}
				tags, err = a.svc.TagsInGroup(ctx, *groupID)
			}
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(tags))
			for _, t := range tags {
				group := "-"
				if t.TagGroupID != nil {
					group = groupNames[*t.TagGroupID]
				}
				rows = append(rows, []string{strconv.FormatInt(t.ID, 10), t.Name, t.Color, group})
			}
			return printTable(a.out, []string{"ID", "Tag", "Color", "Group"}, rows)
		}),
	}
	cmd.Flags().StringVarP(&group, "group", "g", "", "only tags of this group")
	return cmd
}

func findGroup(groups []models.TagGroup, name string) (*int64, error) {
	for _, g := range groups {
		if strings.EqualFold(g.Name, name) {
			return &g.ID, nil
		}
	}
	return nil, fmt.Errorf("unknown tag group %q, create it with `mustermeister tag group add`", name)
}

func newTagAddCmd(a *app) *cobra.Command {
	var group, color string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: a.withApp(func(ctx context.Context, args []string) error {
			var groupID *int64
			if group != "" {
				groups, err := a.svc.TagGroups(ctx)
				if err != nil {
					return err
				}
				if groupID, err = findGroup(groups, group); err != nil {
					return err
				}
			}
			t, err := a.svc.CreateTag(ctx, args[0], color, groupID)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created tag %d: %s\n", t.ID, t.Name)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&group, "group", "g", "", "tag group name")
	cmd.Flags().StringVar(&color, "color", "", "display color, e.g. #f7768e")
	return cmd
}

func newTagGroupAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag group",
		Args:  cobra.ExactArgs(1),
		RunE: a.withApp(func(ctx context.Context, args []string) error {
			g, err := a.svc.CreateTagGroup(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created tag group %d: %s\n", g.ID, g.Name)
			return nil
		}),
	}
}

func newTagDeleteCmd(a *app, group bool) *cobra.Command {
	short, what := "Delete a tag and take it off every task", "tag"
	if group {
		short, what = "Delete a tag group, keeping its tags", "tag group"
	}
	return &cobra.Command{
		Use:   "delete <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: a.withApp(func(ctx context.Context, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if group {
				err = a.svc.DeleteTagGroup(ctx, id)
			} else {
				err = a.svc.DeleteTag(ctx, id)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted %s %d\n", what, id)
			return nil
		}),
	}
}

func newTagTaskCmd(a *app, use, short string, on bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <task-id> <tag-id>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: a.withApp(func(ctx context.Context, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if err := a.svc.TagTask(ctx, a.user.ID, ids[0], ids[1], on); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "OK")
			return nil
		}),
	}
}
