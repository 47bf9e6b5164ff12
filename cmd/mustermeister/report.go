package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tgienger/mustermeister/internal/report"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		projectIDs []int64
		stats      []string
		sortBy     string
		direction  string
		pdfPath    string
		save       bool
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the analysis report or export it as PDF",
		Long: `Print the analysis report or export it as PDF.

Without --project or --stats the last saved selection is used; with --save
the given selection becomes the new default for the terminal UI and the
web report too.

Examples:
  mustermeister report
  mustermeister report --project 1,4 --stats total_tasks --save
  mustermeister report --sort completion_ratio --direction asc --pdf`,
		Args: cobra.NoArgs,
		RunE: a.withApp(func(ctx context.Context, _ []string) error {
			cfg, err := report.LoadConfig(ctx, a.db, a.user.ID)
			if err != nil {
				return err
			}
			if len(projectIDs) > 0 {
				cfg.ProjectIDs = projectIDs
			}
			if len(stats) > 0 {
				cfg.Stats = report.ParseStats(stats)
			}
			if save {
				if err := report.SaveConfig(ctx, a.db, a.user.ID, cfg); err != nil {
					return err
				}
			}

			res, err := report.Generate(ctx, a.db, a.user.ID, cfg.ProjectIDs)
			if err != nil {
				return err
			}
			res.Sort(report.ParseSortKey(sortBy), report.ParseDirection(direction))

			if pdfPath == "" {
				return report.WriteText(a.out, res, cfg.Stats)
			}
			now := time.Now()
			if pdfPath == "auto" {
				pdfPath = report.Filename(now)
			}
			f, err := os.Create(pdfPath)
			if err != nil {
				return err
			}
			if err := report.WritePDF(f, res, cfg.Stats, now); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Saved %s\n", pdfPath)
			return nil
		}),
	}
	cmd.Flags().Int64SliceVar(&projectIDs, "project", nil, "project ids to include (default all)")
	cmd.Flags().StringSliceVar(&stats, "stats", nil, "total_tasks, complete_incomplete, status_breakdown (default all)")
	cmd.Flags().StringVar(&sortBy, "sort", string(report.SortTotalTasks), "total_tasks, completion_ratio or name")
	cmd.Flags().StringVar(&direction, "direction", string(report.Desc), "asc or desc")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "write a PDF to this path instead of printing")
	cmd.Flags().Lookup("pdf").NoOptDefVal = "auto"
	cmd.Flags().BoolVar(&save, "save", false, "remember the project and stats selection")
	return cmd
}
