// Package ui is the terminal front end
package ui

import (
	"context"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/mustermeister/internal/models"
	"github.com/tgienger/mustermeister/internal/services"
	"github.com/tgienger/mustermeister/internal/ui/views"
)

// View is the screen currently shown
type View int

const (
	ViewProjects View = iota
	ViewTasks
	ViewReport
	ViewBoard
)

type App struct {
	svc         *services.Service
	userID      int64
	currentView View
	projectList *views.ProjectListView
	taskList    *views.TaskListView
	reportView  *views.ReportView
	boardView   *views.KanbanView
	width       int
	height      int
}

// NewApp creates the TUI acting as userID
func NewApp(svc *services.Service, userID int64) *App {
	return &App{
		svc:         svc,
		userID:      userID,
		currentView: ViewProjects,
		projectList: views.NewProjectListView(svc, userID),
	}
}

// lastProjectKey is the settings key remembering the open project
func (a *App) lastProjectKey() string {
	return "tui." + strconv.FormatInt(a.userID, 10) + ".last_project_id"
}

func (a *App) Init() tea.Cmd {
	ctx := context.Background()
	if raw, err := a.svc.DB().GetSetting(ctx, a.lastProjectKey()); err == nil && raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			if project, err := a.svc.Project(ctx, a.userID, id); err == nil {
				return a.openProject(*project)
			}
		}
	}
	return a.projectList.Init()
}

func (a *App) resize() tea.Msg {
	return tea.WindowSizeMsg{Width: a.width, Height: a.height}
}

func (a *App) openProject(project models.Project) tea.Cmd {
	a.currentView = ViewTasks
	a.taskList = views.NewTaskListView(a.svc, a.userID, project)
	a.remember(strconv.FormatInt(project.ID, 10))
	return tea.Batch(a.taskList.Init(), a.resize)
}

func (a *App) remember(projectID string) {
	// best effort
	_ = a.svc.DB().SetSetting(context.Background(), a.lastProjectKey(), projectID)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// the project list outlives the other views
		a.projectList.Update(msg)

	case views.SelectedProject:
		return a, a.openProject(msg.Project)

	case views.OpenReport:
		a.currentView = ViewReport
		a.reportView = views.NewReportView(a.svc, a.userID)
		return a, tea.Batch(a.reportView.Init(), a.resize)

	case views.OpenBoard:
		a.currentView = ViewBoard
		a.boardView = views.NewKanbanView(a.svc, a.userID)
		return a, tea.Batch(a.boardView.Init(), a.resize)

	case views.BackToProjects:
		a.currentView = ViewProjects
		a.remember("")
		return a, tea.Batch(a.projectList.Init(), a.resize)
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewProjects:
		_, cmd = a.projectList.Update(msg)
	case ViewTasks:
		_, cmd = a.taskList.Update(msg)
	case ViewReport:
		_, cmd = a.reportView.Update(msg)
	case ViewBoard:
		_, cmd = a.boardView.Update(msg)
	}
	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewTasks:
		if a.taskList != nil {
			return a.taskList.View()
		}
	case ViewReport:
		if a.reportView != nil {
			return a.reportView.View()
		}
	case ViewBoard:
		if a.boardView != nil {
			return a.boardView.View()
		}
	}
	return a.projectList.View()
}
