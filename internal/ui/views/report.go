package views

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/mustermeister/internal/report"
	"github.com/tgienger/mustermeister/internal/services"
	"github.com/tgienger/mustermeister/internal/ui/keys"
	"github.com/tgienger/mustermeister/internal/ui/styles"
)

// ReportView shows the analysis report for the user's saved selection
type ReportView struct {
	svc    *services.Service
	userID int64
	styles *styles.Styles
	keys   keys.KeyMap

	result  *report.Result
	stats   report.Stats
	sortBy  report.SortKey
	dir     report.Direction
	content viewport.Model

	width  int
	height int
	notice string
	alert  string

	// exportDir is where PDFs are written
	exportDir string
}

func NewReportView(svc *services.Service, userID int64) *ReportView {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	return &ReportView{
		svc:       svc,
		userID:    userID,
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
		sortBy:    report.SortTotalTasks,
		dir:       report.Desc,
		content:   viewport.New(0, 0),
		exportDir: dir,
	}
}

type reportLoadedMsg struct {
	result *report.Result
	stats  report.Stats
}

func (v *ReportView) Init() tea.Cmd {
	return v.load
}

func (v *ReportView) load() tea.Msg {
	ctx := context.Background()
	store := v.svc.DB()
	cfg, err := report.LoadConfig(ctx, store, v.userID)
	if err != nil {
		return errMsg{err}
	}
	res, err := report.Generate(ctx, store, v.userID, cfg.ProjectIDs)
	if err != nil {
		return errMsg{err}
	}
	return reportLoadedMsg{result: res, stats: cfg.Stats}
}

func (v *ReportView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.content.Width = styles.ContentWidth(msg.Width)
		v.content.Height = max(msg.Height-6, 3)
		v.render()
		return v, nil

	case reportLoadedMsg:
		v.result = msg.result
		v.stats = msg.stats
		v.result.Sort(v.sortBy, v.dir)
		v.render()
		return v, nil

	case errMsg:
		v.alert = errorText(msg.err)
		return v, nil

	case tea.KeyMsg:
		v.notice, v.alert = "", ""
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return BackToProjects{} }
		case key.Matches(msg, v.keys.SortBy):
			i := slices.Index(report.SortKeys, v.sortBy)
			v.sortBy = report.SortKeys[(i+1)%len(report.SortKeys)]
			v.resort()
			return v, nil
		case key.Matches(msg, v.keys.Direction):
			if v.dir == report.Desc {
				v.dir = report.Asc
			} else {
				v.dir = report.Desc
			}
			v.resort()
			return v, nil
		case key.Matches(msg, v.keys.ExportPDF):
			v.exportPDF()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.content, cmd = v.content.Update(msg)
	return v, cmd
}

func (v *ReportView) resort() {
	if v.result == nil {
		return
	}
	v.result.Sort(v.sortBy, v.dir)
	v.render()
}

func (v *ReportView) render() {
	if v.result == nil {
		return
	}
	var b strings.Builder
	if err := report.WriteText(&b, v.result, v.stats); err != nil {
		v.alert = err.Error()
		return
	}
	v.content.SetContent(b.String())
}

func (v *ReportView) exportPDF() {
	if v.result == nil {
		return
	}
	now := time.Now()
	path := filepath.Join(v.exportDir, report.Filename(now))
	f, err := os.Create(path)
	if err != nil {
		v.alert = err.Error()
		return
	}
	defer f.Close()
	if err := report.WritePDF(f, v.result, v.stats, now); err != nil {
		v.alert = err.Error()
		return
	}
	v.notice = "Saved " + path
}

func (v *ReportView) View() string {
	s := v.styles
	if v.result == nil && v.alert == "" {
		return s.TitleMuted.Render("Loading...")
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("Report") + "  " +
		s.TitleMuted.Render(fmt.Sprintf("sorted by %s, %s", v.sortBy, v.dir)) + "\n\n")
	b.WriteString(v.content.View() + "\n")
	switch {
	case v.alert != "":
		b.WriteString(s.Alert.Render(v.alert) + "\n")
	case v.notice != "":
		b.WriteString(s.Notice.Render(v.notice) + "\n")
	}
	k := s.HelpKey.Render
	b.WriteString(s.Help.Render(fmt.Sprintf("%s sort • %s order • %s pdf • %s back • %s quit",
		k("s"), k("o"), k("p"), k("esc"), k("q"))))
	return styles.CenterView(b.String(), v.width, v.height)
}
