package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7"))
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// WriteText renders the report for a terminal
func WriteText(w io.Writer, r *Result, stats Stats) error {
	var b strings.Builder

	ps := r.ProjectsSummary
	b.WriteString(headingStyle.Render("Projects summary") + "\n")
	fmt.Fprintf(&b, "  Total projects: %d\n", ps.TotalProjects)
	fmt.Fprintf(&b, "  Complete projects: %d\n", ps.CompleteProjectsCount)
	fmt.Fprintf(&b, "  Incomplete projects: %d\n", ps.IncompleteProjectsCount)
	fmt.Fprintf(&b, "  Project completion ratio: %s\n\n", Percent(ps.ProjectCompletionRatio))

	b.WriteString(headingStyle.Render("Summary") + "\n")
	for _, line := range summaryLines(r.Summary, stats) {
		b.WriteString("  " + line + "\n")
	}
	if stats.Has(StatStatusBreakdown) {
		for _, sc := range r.Summary.SortedStatusBreakdown() {
			fmt.Fprintf(&b, "    %s: %d\n", sc.Name, sc.Count)
		}
	}
	b.WriteString("\n")

	if len(r.ProjectsBreakdown) > 0 {
		b.WriteString(headingStyle.Render("By project") + "\n")
		b.WriteString(breakdownTable(r.ProjectsBreakdown, stats).String() + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func breakdownTable(breakdown []ProjectBreakdown, stats Stats) *table.Table {
	headers := []string{"Project", "Total", "Completed", "Ratio"}
	if stats.Has(StatStatusBreakdown) {
		headers = append(headers, "Statuses")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle })
	for _, pb := range breakdown {
		row := []string{
			pb.Title,
			strconv.Itoa(pb.TotalTasks),
			strconv.Itoa(pb.CompletedCount),
			Percent(pb.CompletionRatio),
		}
		if stats.Has(StatStatusBreakdown) {
			parts := make([]string, 0, len(pb.StatusBreakdown))
			for _, sc := range pb.SortedStatusBreakdown() {
				parts = append(parts, fmt.Sprintf("%s %d", sc.Name, sc.Count))
			}
			row = append(row, strings.Join(parts, ", "))
		}
		t.Row(row...)
	}
	return t
}
