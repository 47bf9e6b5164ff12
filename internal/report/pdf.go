package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfLineHeight = 6.0
	pdfMargin     = 15.0
)

// Filename names an exported report after the time it was generated
func Filename(at time.Time) string {
	return "mustermeister-report-" + at.Format("20060102-1504") + ".pdf"
}

// WritePDF renders the report as a paginated A4 document
func WritePDF(w io.Writer, r *Result, stats Stats, generatedAt time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Analysis", true)
	pdf.SetCreator("mustermeister", true)
	pdf.SetCreationDate(generatedAt)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	heading := func(text string, size float64) {
		pdf.SetFont("Helvetica", "B", size)
		pdf.CellFormat(0, size*0.5, tr(text), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}
	line := func(text string) {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, pdfLineHeight, tr(text), "", 1, "L", false, 0, "")
	}

	pdf.AddPage()
	heading("Analysis", 18)
	line("Generated " + generatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(6)

	ps := r.ProjectsSummary
	heading("Projects summary", 14)
	line(fmt.Sprintf("Total projects: %d", ps.TotalProjects))
	line(fmt.Sprintf("Complete projects: %d", ps.CompleteProjectsCount))
	line(fmt.Sprintf("Incomplete projects: %d", ps.IncompleteProjectsCount))
	line("Project completion ratio: " + Percent(ps.ProjectCompletionRatio))
	pdf.Ln(6)

	heading("Summary", 14)
	for _, text := range summaryLines(r.Summary, stats) {
		line(text)
	}
	if stats.Has(StatStatusBreakdown) && len(r.Summary.StatusBreakdown) > 0 {
		pdf.Ln(2)
		heading("By status", 12)
		for _, sc := range r.Summary.SortedStatusBreakdown() {
			line(fmt.Sprintf("  %s: %d", sc.Name, sc.Count))
		}
	}
	pdf.Ln(8)

	heading("By project", 14)
	for _, pb := range r.ProjectsBreakdown {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, pdfLineHeight, tr(pb.Title), "", "L", false)
		line(fmt.Sprintf("  Total tasks: %d, Completed: %d, Completion ratio: %s",
			pb.TotalTasks, pb.CompletedCount, Percent(pb.CompletionRatio)))
		if stats.Has(StatStatusBreakdown) {
			for _, sc := range pb.SortedStatusBreakdown() {
				line(fmt.Sprintf("    %s: %d", sc.Name, sc.Count))
			}
		}
		pdf.Ln(4)
	}

	return pdf.Output(w)
}

// summaryLines are the overall numbers shown for the selected sections
func summaryLines(s Summary, stats Stats) []string {
	var lines []string
	if stats.Has(StatTotalTasks) {
		lines = append(lines, fmt.Sprintf("Total tasks: %d", s.TotalTasks))
	}
	if stats.Has(StatCompleteIncomplete) {
		lines = append(lines,
			fmt.Sprintf("Completed: %d", s.CompletedCount),
			fmt.Sprintf("Incomplete: %d", s.IncompleteCount),
			"Completion ratio: "+Percent(s.CompletionRatio),
		)
	}
	return lines
}

// Percent formats a ratio with one decimal, e.g. "66.7%"
func Percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}
