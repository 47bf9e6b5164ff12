package views

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/tgienger/mustermeister/internal/models"
	"github.com/tgienger/mustermeister/internal/services"
	"github.com/tgienger/mustermeister/internal/ui/keys"
	"github.com/tgienger/mustermeister/internal/ui/styles"
)

// OpenBoard asks the app to show the kanban board
type OpenBoard struct{}

type boardLoadedMsg struct {
	columns []services.KanbanColumn
}

// KanbanView shows the user's open work as one column per status across
// every project
type KanbanView struct {
	svc    *services.Service
	userID int64
	styles *styles.Styles
	keys   keys.KeyMap

	filter  services.KanbanFilter
	columns []services.KanbanColumn
	col     int
	row     int
	loaded  bool

	width  int
	height int
	notice string
	alert  string
}

func NewKanbanView(svc *services.Service, userID int64) *KanbanView {
	return &KanbanView{
		svc:    svc,
		userID: userID,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

func (v *KanbanView) Init() tea.Cmd {
	return v.load
}

func (v *KanbanView) load() tea.Msg {
	columns, err := v.svc.Kanban(context.Background(), v.userID, v.filter)
	if err != nil {
		return errMsg{err}
	}
	return boardLoadedMsg{columns: columns}
}

func (v *KanbanView) selected() *models.Task {
	if v.col >= len(v.columns) || v.row >= len(v.columns[v.col].Tasks) {
		return nil
	}
	return &v.columns[v.col].Tasks[v.row]
}

func (v *KanbanView) clampCursor() {
	v.col = clamp(v.col, 0, max(len(v.columns)-1, 0))
	if len(v.columns) == 0 {
		v.row = 0
		return
	}
	v.row = clamp(v.row, 0, max(len(v.columns[v.col].Tasks)-1, 0))
}

func (v *KanbanView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case boardLoadedMsg:
		v.columns = msg.columns
		v.loaded = true
		v.clampCursor()
		return v, nil

	case errMsg:
		v.alert = errorText(msg.err)
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		v.notice, v.alert = "", ""
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return BackToProjects{} }
		case key.Matches(msg, v.keys.Left):
			v.col--
			v.clampCursor()
		case key.Matches(msg, v.keys.Right):
			v.col++
			v.clampCursor()
		case key.Matches(msg, v.keys.Up):
			v.row--
			v.clampCursor()
		case key.Matches(msg, v.keys.Down):
			v.row++
			v.clampCursor()
		case key.Matches(msg, v.keys.ShowCompleted):
			v.filter.ShowAllCompleted = !v.filter.ShowAllCompleted
			return v, v.load
		case key.Matches(msg, v.keys.Filter):
			v.filter.Priority = nextPriority(v.filter.Priority)
			return v, v.load
		case key.Matches(msg, v.keys.MoveNext):
			return v, v.move(1)
		case key.Matches(msg, v.keys.MovePrev):
			return v, v.move(-1)
		}
	}
	return v, nil
}

// nextPriority cycles all → high → medium → low → leisure → all
func nextPriority(p models.Priority) models.Priority {
	i := slices.Index(models.Priorities, p)
	if i == len(models.Priorities)-1 {
		return ""
	}
	return models.Priorities[i+1]
}

// move shifts the selected task into the neighbouring column
func (v *KanbanView) move(step int) tea.Cmd {
	task := v.selected()
	target := v.col + step
	if task == nil || target < 0 || target >= len(v.columns) {
		return nil
	}

	ctx := context.Background()
	status, err := v.svc.DB().GetStatusByName(ctx, task.ProjectID, v.columns[target].Status.Name())
	if err != nil {
		v.alert = errorText(err)
		return nil
	}
	updated, err := v.svc.SetTaskStatus(ctx, v.userID, task.ID, status.ID)
	if err != nil {
		v.alert = errorText(err)
		return nil
	}
	v.notice = fmt.Sprintf("%s → %s", updated.Title, updated.StatusName())
	// the moved task is the most recently updated, so it leads its column
	v.col, v.row = target, 0
	return v.load
}

func (v *KanbanView) View() string {
	s := v.styles
	if !v.loaded {
		return s.TitleMuted.Render("Loading...")
	}

	priority := "all"
	if v.filter.Priority != "" {
		priority = string(v.filter.Priority)
	}
	completed := "last 7 days"
	if v.filter.ShowAllCompleted {
		completed = "all"
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("Board") + "  " +
		s.TitleMuted.Render(fmt.Sprintf("priority: %s • completed: %s", priority, completed)) + "\n\n")

	if len(v.columns) > 0 {
		colWidth := max(v.width/len(v.columns)-1, 14)
		rendered := make([]string, len(v.columns))
		for i, col := range v.columns {
			rendered[i] = v.renderColumn(i, col, colWidth)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...) + "\n")
	}

	switch {
	case v.alert != "":
		b.WriteString(s.Alert.Render(v.alert) + "\n")
	case v.notice != "":
		b.WriteString(s.Notice.Render(v.notice) + "\n")
	}
	k := s.HelpKey.Render
	b.WriteString(s.Help.Render(fmt.Sprintf("%s move • %s/%s status • %s priority • %s completed • %s back • %s quit",
		k("←→↑↓"), k("["), k("]"), k("f"), k("c"), k("esc"), k("q"))))
	return b.String()
}

func (v *KanbanView) renderColumn(i int, col services.KanbanColumn, width int) string {
	s := v.styles
	header := s.TitleMuted
	if i == v.col {
		header = s.Title
	}
	lines := []string{
		header.Render(ansi.Truncate(fmt.Sprintf("%s (%d)", col.Status.Name(), len(col.Tasks)), width, "…")),
	}

	visible := max(v.height-8, 1)
	for j, t := range col.Tasks {
		if j == visible {
			lines = append(lines, s.TitleMuted.Render(fmt.Sprintf("+%d more", len(col.Tasks)-visible)))
			break
		}
		dot := lipgloss.NewStyle().Foreground(styles.PriorityColor(t.Priority)).Render("●")
		style := s.ListItem.Padding(0, 0)
		if i == v.col && j == v.row {
			style = s.ListSelected.Padding(0, 0)
		}
		lines = append(lines, dot+" "+style.Render(ansi.Truncate(t.Title, width-3, "…")))
	}
	return lipgloss.NewStyle().Width(width).MarginRight(1).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
