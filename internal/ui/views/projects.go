package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/mustermeister/internal/models"
	"github.com/tgienger/mustermeister/internal/services"
	"github.com/tgienger/mustermeister/internal/ui/keys"
	"github.com/tgienger/mustermeister/internal/ui/styles"
)

type projectItem struct {
	project  models.Project
	progress models.Progress
}

func (i projectItem) Title() string       { return i.project.Title }
func (i projectItem) Description() string { return i.project.Description }
func (i projectItem) FilterValue() string { return i.project.Title }

type projectDelegate struct {
	styles *styles.Styles
	width  int
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(projectItem)
	if !ok {
		return
	}

	width := max(d.width-4, 20)
	lineStyle := d.styles.ListItem
	if index == m.Index() {
		lineStyle = d.styles.ListSelected
	}

	title := styles.Swatch(p.project.Color) + " " + p.project.Title
	progress := fmt.Sprintf("%s %3d%%  %s",
		styles.ProgressBar(p.progress.Percentage, 10),
		p.progress.Percentage,
		styles.StateLabel(p.progress.State))
	if p.progress.Total > 0 {
		progress += fmt.Sprintf(" · %d/%d tasks", p.progress.Completed, p.progress.Total)
	}

	fmt.Fprintf(w, "%s\n%s",
		lineStyle.Width(width).Render(title),
		lineStyle.Foreground(styles.Current.ForegroundDim).Width(width).Render(progress))
}

// ProjectListView lists the user's projects with their progress
type ProjectListView struct {
	svc    *services.Service
	userID int64

	list     list.Model
	delegate *projectDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
	loaded   bool
	alert    string

	creating bool
	newName  textinput.Model
	newDesc  textinput.Model
	newColor int // index into models.Colors, -1 for none
	focusIdx int // 0=name, 1=desc, 2=color, 3=confirm

	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string

	showHelpPopup bool
}

func NewProjectListView(svc *services.Service, userID int64) *ProjectListView {
	s := styles.NewStyles()

	newName := textinput.New()
	newName.Placeholder = "Project name"
	newName.CharLimit = 100

	newDesc := textinput.New()
	newDesc.Placeholder = "Description (optional)"
	newDesc.CharLimit = 500

	delegate := &projectDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &ProjectListView{
		svc:      svc,
		userID:   userID,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		newName:  newName,
		newDesc:  newDesc,
		newColor: -1,
	}
}

func (v *ProjectListView) Init() tea.Cmd {
	return v.loadProjects
}

type projectsLoadedMsg struct {
	items []projectItem
}

// SelectedProject asks the app to open a project's tasks
type SelectedProject struct {
	Project models.Project
}

// OpenReport asks the app to show the report view
type OpenReport struct{}

func (v *ProjectListView) loadProjects() tea.Msg {
	ctx := context.Background()
	projects, err := v.svc.Projects(ctx, v.userID)
	if err != nil {
		return errMsg{err}
	}
	items := make([]projectItem, len(projects))
	for i, p := range projects {
		progress, err := v.svc.ProjectProgress(ctx, v.userID, p.ID)
		if err != nil {
			return errMsg{err}
		}
		items[i] = projectItem{project: p, progress: progress}
	}
	return projectsLoadedMsg{items: items}
}

func (v *ProjectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-7)
		return v, nil

	case projectsLoadedMsg:
		items := make([]list.Item, len(msg.items))
		for i, item := range msg.items {
			items[i] = item
		}
		v.list.SetItems(items)
		v.loaded = true
		return v, nil

	case errMsg:
		v.alert = errorText(msg.err)
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.creating {
			return v.updateCreating(msg)
		}
		if v.list.FilterState() == list.Filtering {
			break
		}

		v.alert = ""
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, nil
		case key.Matches(msg, v.keys.New):
			v.startCreate()
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Report):
			return v, func() tea.Msg { return OpenReport{} }
		case key.Matches(msg, v.keys.Board):
			return v, func() tea.Msg { return OpenBoard{} }
		case msg.String() == "?":
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				return v, func() tea.Msg { return SelectedProject{Project: item.project} }
			}
		case key.Matches(msg, v.keys.Delete):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				v.confirmingDelete = true
				v.deleteTargetID = item.project.ID
				v.deleteTargetName = item.project.Title
				return v, nil
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *ProjectListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		if err := v.svc.DeleteProject(context.Background(), v.userID, v.deleteTargetID); err != nil {
			v.alert = errorText(err)
			return v, nil
		}
		return v, v.loadProjects
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return v, nil
}

func (v *ProjectListView) startCreate() {
	v.creating = true
	v.focusIdx = 0
	v.newColor = -1
	v.newName.Reset()
	v.newDesc.Reset()
	v.updateFocus()
}

func (v *ProjectListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.createProject()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 3) % 4
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 4
		v.updateFocus()
		return v, nil

	case v.focusIdx == 2 && (msg.String() == "left" || msg.String() == "right" || msg.String() == " "):
		step := 1
		if msg.String() == "left" {
			step = len(models.Colors)
		}
		// -1 (no color) takes part in the cycle
		v.newColor = (v.newColor+1+step)%(len(models.Colors)+1) - 1
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < 3 {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		return v, v.createProject()
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.newName, cmd = v.newName.Update(msg)
	case 1:
		v.newDesc, cmd = v.newDesc.Update(msg)
	}
	return v, cmd
}

func (v *ProjectListView) createProject() tea.Cmd {
	p := &models.Project{
		Title:       strings.TrimSpace(v.newName.Value()),
		Description: strings.TrimSpace(v.newDesc.Value()),
	}
	if v.newColor >= 0 {
		p.Color = models.Colors[v.newColor]
	}
	if err := v.svc.CreateProject(context.Background(), v.userID, p); err != nil {
		v.alert = errorText(err)
		return nil
	}
	v.creating = false
	v.alert = ""
	return func() tea.Msg { return SelectedProject{Project: *p} }
}

func (v *ProjectListView) updateFocus() {
	v.newName.Blur()
	v.newDesc.Blur()
	switch v.focusIdx {
	case 0:
		v.newName.Focus()
	case 1:
		v.newDesc.Focus()
	}
}

func (v *ProjectListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}
	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}
	if v.creating {
		return v.renderCreateForm()
	}
	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}
	if len(v.list.Items()) == 0 {
		return v.renderEmpty()
	}

	content := v.list.View()
	if v.alert != "" {
		content += "\n" + v.styles.Alert.Render(v.alert)
	}
	content += "\n" + v.renderHelp()
	return styles.CenterView(content, v.width, v.height)
}

func (v *ProjectListView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	lines := []string{
		s.Title.Render("No Projects"),
		"",
		s.TitleMuted.Render("Press 'n' to create your first project"),
		"",
		s.ButtonPrimary.Render(" New Project "),
	}
	if v.alert != "" {
		lines = append(lines, "", s.Alert.Render(v.alert))
	}

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, lines...),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	nameStyle, descStyle, colorStyle, btnStyle := s.Input, s.Input, s.Input, s.Button
	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		colorStyle = s.InputFocused
	case 3:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	colorLabel := styles.Swatch("") + " none"
	if v.newColor >= 0 {
		c := models.Colors[v.newColor]
		colorLabel = styles.Swatch(c) + " " + string(c)
	}

	lines := []string{
		s.Title.Render("New Project"),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.newName.View()),
		"",
		"Description:",
		descStyle.Width(inputWidth).Render(v.newDesc.View()),
		"",
		"Color:",
		colorStyle.Width(inputWidth).Render("← " + colorLabel + " →"),
		"",
		btnStyle.Render(" Create "),
		"",
		s.TitleMuted.Render("Tab: next • ←→: color • Ctrl+S: save • Esc: cancel"),
	}
	if v.alert != "" {
		lines = append(lines, s.Alert.Render(v.alert))
	}

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderHelp() string {
	if w := styles.ContentWidth(v.width); w > 0 && w < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s select • %s new • %s del • %s board • %s report • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("b"),
			v.styles.HelpKey.Render("r"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *ProjectListView) renderHelpPopup() string {
	s := v.styles
	return popup(s, v.width, v.height, "Keyboard Shortcuts",
		s.HelpKey.Render("↵")+"      open project",
		s.HelpKey.Render("n")+"      new project",
		s.HelpKey.Render("d")+"      delete project",
		s.HelpKey.Render("/")+"      filter",
		s.HelpKey.Render("b")+"      board",
		s.HelpKey.Render("r")+"      report",
		s.HelpKey.Render("q")+"      quit",
	)
}

func (v *ProjectListView) renderDeleteConfirm() string {
	return confirmDialog(v.styles, v.width, v.height, "Delete Project?",
		fmt.Sprintf("%q and all of its tasks will be removed.", v.deleteTargetName))
}
