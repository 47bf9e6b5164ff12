package views

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/mustermeister/internal/db"
	"github.com/tgienger/mustermeister/internal/models"
	"github.com/tgienger/mustermeister/internal/services"
	"github.com/tgienger/mustermeister/internal/ui/keys"
	"github.com/tgienger/mustermeister/internal/ui/styles"
)

// FocusArea is the part of the task screen that receives keys
type FocusArea int

const (
	FocusBackButton FocusArea = iota
	FocusSearchInput
	FocusTagDropdown
	FocusTaskList
)

// edit form fields, in tab order
const (
	fieldTitle = iota
	fieldDesc
	fieldNotes
	fieldPriority
	fieldStatus
	fieldTags
	fieldSave
	fieldCount
)

// priorityChoices starts with "" for the project default
var priorityChoices = append([]models.Priority{""}, models.Priorities...)

// TaskListView shows the tasks of one project
type TaskListView struct {
	svc      *services.Service
	userID   int64
	project  models.Project
	tasks    []models.Task
	tags     []models.Tag
	statuses []models.Status
	styles   *styles.Styles
	keys     keys.KeyMap

	width  int
	height int

	focus       FocusArea
	cursor      int
	scrollY     int
	searchInput textinput.Model
	selectedTag *int64

	tagDropdownOpen bool
	tagCursor       int

	editing       bool
	editingNew    bool
	editTitle     textinput.Model
	editDesc      textarea.Model
	editNotes     textarea.Model
	editPriority  int // index into priorityChoices
	editStatus    int // index into statuses
	editFocusIdx  int
	editTags      []int64
	editTagCursor int

	assigningTags   bool
	assignTagCursor int

	viewingTask         bool
	viewTaskComments    []models.Comment
	commentCursor       int
	commentInput        textarea.Model
	commentInputFocused bool

	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string

	showingCompleted bool
	showHelpPopup    bool

	// one-line feedback below the list
	notice string
	alert  string
}

func NewTaskListView(svc *services.Service, userID int64, project models.Project) *TaskListView {
	search := textinput.New()
	search.Placeholder = "Search..."
	search.CharLimit = 100

	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = 1000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	editNotes := textarea.New()
	editNotes.Placeholder = "Notes"
	editNotes.CharLimit = 5000
	editNotes.SetWidth(50)
	editNotes.SetHeight(4)
	editNotes.ShowLineNumbers = false

	commentInput := textarea.New()
	commentInput.Placeholder = "Add a comment..."
	commentInput.CharLimit = 2000
	commentInput.SetWidth(50)
	commentInput.SetHeight(3)
	commentInput.ShowLineNumbers = false

	return &TaskListView{
		svc:          svc,
		userID:       userID,
		project:      project,
		styles:       styles.NewStyles(),
		keys:         keys.DefaultKeyMap(),
		focus:        FocusTaskList,
		searchInput:  search,
		editTitle:    editTitle,
		editDesc:     editDesc,
		editNotes:    editNotes,
		commentInput: commentInput,
	}
}

// BackToProjects asks the app to return to the project list
type BackToProjects struct{}

func (v *TaskListView) Init() tea.Cmd {
	return tea.Batch(v.loadTasks, v.loadChoices)
}

type tasksLoadedMsg struct {
	tasks []models.Task
}

type choicesLoadedMsg struct {
	tags     []models.Tag
	statuses []models.Status
}

type commentsLoadedMsg struct {
	comments []models.Comment
}

func (v *TaskListView) loadTasks() tea.Msg {
	f := db.TaskFilter{
		ProjectID:     v.project.ID,
		Search:        strings.TrimSpace(v.searchInput.Value()),
		TagID:         v.selectedTag,
		ShowCompleted: v.showingCompleted,
		OnlyCompleted: v.showingCompleted,
	}
	tasks, err := v.svc.Tasks(context.Background(), v.userID, f)
	if err != nil {
		return errMsg{err}
	}
	return tasksLoadedMsg{tasks: tasks}
}

func (v *TaskListView) loadChoices() tea.Msg {
	ctx := context.Background()
	tags, err := v.svc.Tags(ctx)
	if err != nil {
		return errMsg{err}
	}
	statuses, err := v.svc.Statuses(ctx, v.userID, v.project.ID)
	if err != nil {
		return errMsg{err}
	}
	return choicesLoadedMsg{tags: tags, statuses: statuses}
}

func (v *TaskListView) loadTaskComments() tea.Msg {
	task, ok := v.current()
	if !ok {
		return nil
	}
	full, err := v.svc.Task(context.Background(), v.userID, task.ID)
	if err != nil {
		return errMsg{err}
	}
	return commentsLoadedMsg{comments: full.Comments}
}

func (v *TaskListView) current() (models.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.tasks) {
		return models.Task{}, false
	}
	return v.tasks[v.cursor], true
}

func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		inputWidth := clamp(styles.ContentWidth(v.width)-10, 20, 50)
		v.editDesc.SetWidth(inputWidth)
		v.editNotes.SetWidth(inputWidth)
		v.commentInput.SetWidth(inputWidth)
		return v, nil

	case tasksLoadedMsg:
		v.tasks = msg.tasks
		if v.cursor >= len(v.tasks) {
			v.cursor = max(0, len(v.tasks)-1)
		}
		if len(v.tasks) == 0 {
			v.assigningTags = false
			v.viewingTask = false
		}
		return v, nil

	case choicesLoadedMsg:
		v.tags = msg.tags
		v.statuses = msg.statuses
		return v, nil

	case commentsLoadedMsg:
		v.viewTaskComments = msg.comments
		v.commentCursor = clamp(v.commentCursor, 0, max(len(msg.comments)-1, 0))
		return v, nil

	case errMsg:
		v.alert = errorText(msg.err)
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}
		if v.editing {
			return v.updateEditing(msg)
		}
		if v.viewingTask {
			return v.updateViewingTask(msg)
		}
		if v.assigningTags {
			return v.updateAssigningTags(msg)
		}
		if v.tagDropdownOpen {
			return v.updateTagDropdown(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.focus == FocusSearchInput {
		switch {
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, v.loadTasks
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			return v, tea.Batch(cmd, v.loadTasks)
		}
	}

	v.notice, v.alert = "", ""
	task, hasTask := v.current()
	onList := v.focus == FocusTaskList && hasTask

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToProjects{} }

	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus(1)
		return v, nil

	case msg.String() == "shift+tab":
		v.cycleFocus(-1)
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.focus == FocusTaskList && v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.focus == FocusTaskList && v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.focus {
		case FocusBackButton:
			return v, func() tea.Msg { return BackToProjects{} }
		case FocusTagDropdown:
			v.tagDropdownOpen = true
			v.tagCursor = 0
		case FocusTaskList:
			if hasTask {
				v.viewingTask = true
				v.commentCursor = 0
				return v, v.loadTaskComments
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit):
		if onList {
			v.startEditTask(task)
			return v, textinput.Blink
		}

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if onList {
			v.confirmDelete(task)
		}

	case key.Matches(msg, v.keys.Toggle):
		if onList {
			return v, v.toggle(task)
		}

	case key.Matches(msg, v.keys.CycleStatus):
		if onList {
			return v, v.cycleStatus(task)
		}

	case key.Matches(msg, v.keys.Archive):
		if onList {
			return v, v.archive(task)
		}

	case key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Filter):
		v.focus = FocusTagDropdown
		v.tagDropdownOpen = true
		v.tagCursor = 0

	case key.Matches(msg, v.keys.Tags):
		if onList {
			v.assigningTags = true
			v.assignTagCursor = 0
		}

	case key.Matches(msg, v.keys.Report):
		return v, func() tea.Msg { return OpenReport{} }

	case msg.String() == "?":
		v.showHelpPopup = true

	case key.Matches(msg, v.keys.ShowCompleted):
		v.showingCompleted = !v.showingCompleted
		v.cursor = 0
		v.scrollY = 0
		return v, v.loadTasks
	}

	return v, nil
}

// toggle flips completion of a task and reports what happened
func (v *TaskListView) toggle(task models.Task) tea.Cmd {
	updated, err := v.svc.ToggleCompletion(context.Background(), v.userID, task.ID)
	if err != nil {
		v.alert = errorText(err)
		return nil
	}
	if updated.Completed {
		v.notice = "Completed " + updated.Title
	} else {
		v.notice = "Reopened " + updated.Title
	}
	return v.loadTasks
}

// cycleStatus moves a task to the next status of the project
func (v *TaskListView) cycleStatus(task models.Task) tea.Cmd {
	if len(v.statuses) == 0 {
		return nil
	}
	next := v.statuses[0]
	for i, st := range v.statuses {
		if st.ID == task.StatusID {
			next = v.statuses[(i+1)%len(v.statuses)]
			break
		}
	}
	updated, err := v.svc.SetTaskStatus(context.Background(), v.userID, task.ID, next.ID)
	if err != nil {
		v.alert = errorText(err)
		return nil
	}
	v.notice = fmt.Sprintf("%s → %s", updated.Title, updated.StatusName())
	return v.loadTasks
}

func (v *TaskListView) archive(task models.Task) tea.Cmd {
	if _, err := v.svc.ArchiveTask(context.Background(), v.userID, task.ID); err != nil {
		v.alert = errorText(err)
		return nil
	}
	v.notice = "Archived " + task.Title
	return v.loadTasks
}

func (v *TaskListView) confirmDelete(task models.Task) {
	v.confirmingDelete = true
	v.deleteTargetID = task.ID
	v.deleteTargetName = task.Title
}

func (v *TaskListView) updateTagDropdown(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.tagDropdownOpen = false

	case key.Matches(msg, v.keys.Up):
		if v.tagCursor > 0 {
			v.tagCursor--
		}

	case key.Matches(msg, v.keys.Down):
		if v.tagCursor < len(v.tags) { // row 0 is "None"
			v.tagCursor++
		}

	case key.Matches(msg, v.keys.Enter):
		if v.tagCursor == 0 {
			v.selectedTag = nil
		} else {
			tagID := v.tags[v.tagCursor-1].ID
			v.selectedTag = &tagID
		}
		v.tagDropdownOpen = false
		v.cursor = 0
		return v, v.loadTasks
	}
	return v, nil
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		if err := v.svc.DeleteTask(context.Background(), v.userID, v.deleteTargetID); err != nil {
			v.alert = errorText(err)
			return v, nil
		}
		v.viewingTask = false
		v.notice = "Deleted " + v.deleteTargetName
		return v, v.loadTasks
	case "n", "N", "esc":
		v.confirmingDelete = false
	}
	return v, nil
}

func (v *TaskListView) updateViewingTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.commentInputFocused {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.commentInputFocused = false
			v.commentInput.Blur()
			return v, nil
		case msg.String() == "ctrl+s":
			return v, v.submitComment()
		default:
			var cmd tea.Cmd
			v.commentInput, cmd = v.commentInput.Update(msg)
			return v, cmd
		}
	}

	task, ok := v.current()
	if !ok {
		v.viewingTask = false
		return v, nil
	}
	v.notice, v.alert = "", ""

	switch {
	case key.Matches(msg, v.keys.Back):
		v.viewingTask = false
		v.viewTaskComments = nil
	case key.Matches(msg, v.keys.Edit):
		v.viewingTask = false
		v.viewTaskComments = nil
		v.startEditTask(task)
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Delete):
		v.confirmDelete(task)
	case key.Matches(msg, v.keys.Tags):
		v.viewingTask = false
		v.viewTaskComments = nil
		v.assigningTags = true
		v.assignTagCursor = 0
	case key.Matches(msg, v.keys.Toggle):
		// the task may leave the filtered list, so go back to it
		v.viewingTask = false
		v.viewTaskComments = nil
		return v, v.toggle(task)
	case key.Matches(msg, v.keys.Up):
		if v.commentCursor > 0 {
			v.commentCursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.commentCursor < len(v.viewTaskComments)-1 {
			v.commentCursor++
		}
	case key.Matches(msg, v.keys.Resolve):
		return v, v.resolveComment()
	case key.Matches(msg, v.keys.Comment):
		v.commentInputFocused = true
		v.commentInput.Focus()
		return v, textarea.Blink
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}
	return v, nil
}

// resolveComment resolves the highlighted comment, reopening it when it
// is already resolved
func (v *TaskListView) resolveComment() tea.Cmd {
	if v.commentCursor >= len(v.viewTaskComments) {
		return nil
	}
	c := v.viewTaskComments[v.commentCursor]
	status := models.CommentResolved
	if c.Status == models.CommentResolved {
		status = models.CommentOpen
	}
	if err := v.svc.SetCommentStatus(context.Background(), v.userID, c.ID, status); err != nil {
		v.alert = errorText(err)
		return nil
	}
	return v.loadTaskComments
}

func (v *TaskListView) updateAssigningTags(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.assigningTags = false

	case key.Matches(msg, v.keys.Up):
		if v.assignTagCursor > 0 {
			v.assignTagCursor--
		}

	case key.Matches(msg, v.keys.Down):
		if v.assignTagCursor < len(v.tags)-1 {
			v.assignTagCursor++
		}

	case key.Matches(msg, v.keys.Enter), msg.String() == " ":
		task, ok := v.current()
		if !ok || v.assignTagCursor >= len(v.tags) {
			return v, nil
		}
		tag := v.tags[v.assignTagCursor]
		if err := v.svc.TagTask(context.Background(), v.userID, task.ID, tag.ID, !hasTag(task, tag.ID)); err != nil {
			v.alert = errorText(err)
			return v, nil
		}
		return v, v.loadTasks
	}
	return v, nil
}

func hasTag(task models.Task, tagID int64) bool {
	for _, t := range task.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		v.alert = ""
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + fieldCount - 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case msg.String() == "left" || msg.String() == "right":
		step := 1
		if msg.String() == "left" {
			step = -1
		}
		switch v.editFocusIdx {
		case fieldPriority:
			v.editPriority = wrap(v.editPriority+step, len(priorityChoices))
			return v, nil
		case fieldStatus:
			if len(v.statuses) > 0 {
				v.editStatus = wrap(v.editStatus+step, len(v.statuses))
			}
			return v, nil
		}

	case key.Matches(msg, v.keys.Enter):
		switch v.editFocusIdx {
		case fieldTitle, fieldPriority, fieldStatus:
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		case fieldTags:
			v.toggleEditTag()
			return v, nil
		case fieldSave:
			return v, v.saveTask()
		}
		// enter inserts newlines in the textareas

	case msg.String() == " " && v.editFocusIdx == fieldTags:
		v.toggleEditTag()
		return v, nil

	case key.Matches(msg, v.keys.Up) && v.editFocusIdx == fieldTags:
		if v.editTagCursor > 0 {
			v.editTagCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down) && v.editFocusIdx == fieldTags:
		if v.editTagCursor < len(v.tags)-1 {
			v.editTagCursor++
		}
		return v, nil
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case fieldDesc:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case fieldNotes:
		v.editNotes, cmd = v.editNotes.Update(msg)
	}
	return v, cmd
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func (v *TaskListView) toggleEditTag() {
	if v.editTagCursor >= len(v.tags) {
		return
	}
	tagID := v.tags[v.editTagCursor].ID
	if i := slices.Index(v.editTags, tagID); i >= 0 {
		v.editTags = slices.Delete(v.editTags, i, i+1)
		return
	}
	v.editTags = append(v.editTags, tagID)
}

func (v *TaskListView) cycleFocus(dir int) {
	v.searchInput.Blur()
	v.focus = FocusArea((int(v.focus) + dir + 4) % 4)
	if v.focus == FocusSearchInput {
		v.searchInput.Focus()
	}
}

func (v *TaskListView) visibleItems() int {
	// each task takes two lines plus a blank one
	return max((v.height-12)/3, 1)
}

func (v *TaskListView) ensureVisible() {
	visible := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

func (v *TaskListView) statusIndex(statusID int64) int {
	for i, st := range v.statuses {
		if st.ID == statusID {
			return i
		}
	}
	return 0
}

func (v *TaskListView) startNewTask() {
	v.editing = true
	v.editingNew = true
	v.editFocusIdx = fieldTitle
	v.editTagCursor = 0
	v.editTags = []int64{}
	v.editPriority = 0
	v.editStatus = 0
	for i, st := range v.statuses {
		if st.Key() == models.StatusNotStarted {
			v.editStatus = i
		}
	}
	v.editTitle.Reset()
	v.editDesc.Reset()
	v.editNotes.Reset()
	v.updateEditFocus()
}

func (v *TaskListView) startEditTask(task models.Task) {
	v.editing = true
	v.editingNew = false
	v.editFocusIdx = fieldTitle
	v.editTagCursor = 0
	v.editTags = make([]int64, len(task.Tags))
	for i, t := range task.Tags {
		v.editTags[i] = t.ID
	}
	v.editPriority = max(slices.Index(priorityChoices, task.Priority), 0)
	v.editStatus = v.statusIndex(task.StatusID)
	v.editTitle.SetValue(task.Title)
	v.editDesc.SetValue(task.Description)
	v.editNotes.SetValue(task.Notes)
	v.updateEditFocus()
}

func (v *TaskListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editNotes.Blur()

	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle.Focus()
	case fieldDesc:
		v.editDesc.Focus()
	case fieldNotes:
		v.editNotes.Focus()
	}
}

// saveTask creates or updates the task from the form. Validation errors
// keep the form open.
func (v *TaskListView) saveTask() tea.Cmd {
	t := &models.Task{
		ProjectID:   v.project.ID,
		Title:       strings.TrimSpace(v.editTitle.Value()),
		Description: strings.TrimSpace(v.editDesc.Value()),
		Notes:       strings.TrimSpace(v.editNotes.Value()),
		Priority:    priorityChoices[v.editPriority],
		Tags:        make([]models.Tag, len(v.editTags)),
	}
	for i, id := range v.editTags {
		t.Tags[i].ID = id
	}
	if v.editStatus < len(v.statuses) {
		t.StatusID = v.statuses[v.editStatus].ID
	}

	ctx := context.Background()
	var err error
	if v.editingNew {
		err = v.svc.CreateTask(ctx, v.userID, t)
	} else if current, ok := v.current(); ok {
		t.ID = current.ID
		err = v.svc.UpdateTask(ctx, v.userID, t)
	}
	if err != nil {
		v.alert = errorText(err)
		return nil
	}

	v.editing = false
	v.alert = ""
	return v.loadTasks
}

func (v *TaskListView) submitComment() tea.Cmd {
	task, ok := v.current()
	if !ok {
		return nil
	}
	if _, err := v.svc.AddComment(context.Background(), v.userID, task.ID, v.commentInput.Value()); err != nil {
		v.alert = errorText(err)
		return nil
	}

	v.commentInput.Reset()
	v.commentInputFocused = false
	v.commentInput.Blur()
	return v.loadTaskComments
}

func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}
	if v.confirmingDelete {
		return confirmDialog(v.styles, v.width, v.height, "Delete Task?",
			fmt.Sprintf("%q will be removed with its comments.", v.deleteTargetName))
	}
	if v.editing {
		return v.renderEditForm()
	}
	if v.viewingTask {
		return v.renderTaskView()
	}
	if v.assigningTags {
		return v.renderTagAssignment()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	b.WriteString(v.renderStatusLine())
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderStatusLine() string {
	switch {
	case v.alert != "":
		return v.styles.Alert.Render(v.alert) + "\n"
	case v.notice != "":
		return v.styles.Notice.Render(v.notice) + "\n"
	}
	return ""
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	isNarrow := contentWidth < 60

	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchBox := searchStyle.Width(clamp(contentWidth-8, 10, 30)).Render(v.searchInput.View())

	tagStyle := s.Button
	if v.focus == FocusTagDropdown {
		tagStyle = s.ButtonFocused
	}
	tagLabel := "All"
	if v.selectedTag != nil {
		for _, t := range v.tags {
			if t.ID == *v.selectedTag {
				tagLabel = t.Name
				break
			}
		}
	}
	if !isNarrow {
		tagLabel = "Tags: " + tagLabel
	}
	tagBtn := tagStyle.Render(tagLabel + " ▼")

	titleText := styles.Swatch(v.project.Color) + " " + v.project.Title
	if v.showingCompleted {
		titleText += " (Completed)"
	}
	title := s.Title.Render(titleText)

	var header string
	if isNarrow {
		header = lipgloss.JoinVertical(lipgloss.Left, searchBox, tagBtn)
	} else {
		backStyle := s.Button
		if v.focus == FocusBackButton {
			backStyle = s.ButtonFocused
		}
		header = lipgloss.JoinHorizontal(lipgloss.Center,
			backStyle.Render("← Projects"), "  ", searchBox, "  ", tagBtn,
		)
	}

	if v.tagDropdownOpen {
		header += "\n" + v.renderTagDropdown()
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, header)
}

func (v *TaskListView) renderTagDropdown() string {
	s := v.styles
	rowStyle := func(i int) lipgloss.Style {
		if v.tagCursor == i {
			return s.ListSelected
		}
		return s.ListItem
	}

	items := []string{rowStyle(0).Render("None")}
	for i, tag := range v.tags {
		items = append(items, rowStyle(i+1).Render(tagDot(tag)+" "+tag.Name))
	}
	return s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func tagDot(tag models.Tag) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color)).Render("●")
}

func (v *TaskListView) renderTaskList() string {
	if len(v.tasks) == 0 {
		return v.styles.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	var items []string
	end := min(v.scrollY+v.visibleItems(), len(v.tasks))
	for i := v.scrollY; i < end; i++ {
		items = append(items, v.renderTaskItem(v.tasks[i], i == v.cursor && v.focus == FocusTaskList))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)

	check := "[ ]"
	title := task.Title
	if task.Completed {
		check = "[x]"
		title = s.TaskDone.Render(title)
	}
	priority := lipgloss.NewStyle().Foreground(styles.PriorityColor(task.Priority)).Render(string(task.Priority))
	titleLine := fmt.Sprintf("%s %s  %s", check, title, priority)

	meta := []string{s.StatusBadge.Render(task.StatusName())}
	if task.DueDate != nil {
		meta = append(meta, "due "+task.DueDate.Format("Jan 2"))
	}
	for _, tag := range task.Tags {
		meta = append(meta, lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color)).Render(tag.Name))
	}

	lineStyle := s.ListItem
	if selected {
		lineStyle = s.ListSelected
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lineStyle.Width(width).Render(titleLine),
		lineStyle.Width(width).Render("    "+strings.Join(meta, " · ")),
	) + "\n"
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	fieldStyle := func(field int) lipgloss.Style {
		if v.editFocusIdx == field {
			return s.InputFocused
		}
		return s.Input
	}
	btnStyle := s.Button
	if v.editFocusIdx == fieldSave {
		btnStyle = s.ButtonFocused
	}

	formTitle := "New Task"
	if !v.editingNew {
		formTitle = "Edit Task"
	}
	inputWidth := clamp(contentWidth-6, 20, 50)

	priorityLabel := "project default (" + string(v.project.EffectivePriority()) + ")"
	if p := priorityChoices[v.editPriority]; p != "" {
		priorityLabel = string(p)
	}
	statusLabel := "-"
	if v.editStatus < len(v.statuses) {
		statusLabel = v.statuses[v.editStatus].Name
	}

	lines := []string{
		s.Title.Render(formTitle),
		"",
		"Title:",
		fieldStyle(fieldTitle).Width(inputWidth).Render(v.editTitle.View()),
		"Description:",
		fieldStyle(fieldDesc).Render(v.editDesc.View()),
		"Notes:",
		fieldStyle(fieldNotes).Render(v.editNotes.View()),
		"Priority:",
		fieldStyle(fieldPriority).Width(inputWidth).Render("← " + priorityLabel + " →"),
		"Status:",
		fieldStyle(fieldStatus).Width(inputWidth).Render("← " + statusLabel + " →"),
		"Tags:",
		v.renderEditTagSelector(fieldStyle(fieldTags), inputWidth),
		"",
		btnStyle.Render(" Save "),
		"",
		s.TitleMuted.Render("Tab: next • ←→: choose • Space/↵: toggle tag • Ctrl+S: save • Esc: cancel"),
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

func (v *TaskListView) renderEditTagSelector(container lipgloss.Style, width int) string {
	s := v.styles
	if len(v.tags) == 0 {
		return container.Width(width).Render(s.TitleMuted.Render("No tags available"))
	}

	var items []string
	for i, tag := range v.tags {
		checkbox := "[ ]"
		if slices.Contains(v.editTags, tag.ID) {
			checkbox = "[x]"
		}
		row := checkbox + " " + tagDot(tag) + " " + tag.Name
		if v.editFocusIdx == fieldTags && i == v.editTagCursor {
			items = append(items, s.ListSelected.Render(row))
		} else {
			items = append(items, s.ListItem.Render(row))
		}
	}
	return container.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (v *TaskListView) renderHelp() string {
	if w := styles.ContentWidth(v.width); w > 0 && w < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	k := v.styles.HelpKey.Render
	return v.styles.Help.Render(
		fmt.Sprintf("%s view • %s new • %s edit • %s done • %s status • %s archive • %s del • %s more",
			k("↵"), k("n"), k("e"), k("x"), k("s"), k("a"), k("d"), k("?"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	completedLabel := "show completed"
	if v.showingCompleted {
		completedLabel = "hide completed"
	}
	return popup(s, v.width, v.height, "Keyboard Shortcuts",
		s.HelpKey.Render("↵")+"      view task",
		s.HelpKey.Render("n")+"      new task",
		s.HelpKey.Render("e")+"      edit task",
		s.HelpKey.Render("x")+"      toggle done",
		s.HelpKey.Render("s")+"      next status",
		s.HelpKey.Render("a")+"      archive",
		s.HelpKey.Render("d")+"      delete task",
		s.HelpKey.Render("/")+"      search",
		s.HelpKey.Render("f")+"      filter by tag",
		s.HelpKey.Render("t")+"      assign tags",
		s.HelpKey.Render("c")+"      "+completedLabel,
		s.HelpKey.Render("r")+"      report",
		s.HelpKey.Render("esc")+"    back",
		s.HelpKey.Render("q")+"      quit",
	)
}

func (v *TaskListView) renderTagAssignment() string {
	s := v.styles
	task, ok := v.current()
	if !ok {
		return ""
	}

	var items []string
	for i, tag := range v.tags {
		checkbox := "[ ]"
		if hasTag(task, tag.ID) {
			checkbox = "[x]"
		}
		rowStyle := s.ListItem
		if i == v.assignTagCursor {
			rowStyle = s.ListSelected
		}
		items = append(items, rowStyle.Render(checkbox+" "+tagDot(tag)+" "+tag.Name))
	}
	if len(items) == 0 {
		items = append(items, s.TitleMuted.Render("No tags yet. Create some with `mustermeister tag add`."))
	}

	lines := []string{
		s.Title.Render("Assign Tags to: " + task.Title),
		"",
		lipgloss.JoinVertical(lipgloss.Left, items...),
		"",
		s.TitleMuted.Render("Enter/Space: toggle • Esc: done"),
	}
	if v.alert != "" {
		lines = append(lines, s.Alert.Render(v.alert))
	}

	centered := lipgloss.Place(styles.ContentWidth(v.width), v.height,
		lipgloss.Center, lipgloss.Center,
		s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderTaskView() string {
	task, ok := v.current()
	if !ok {
		return ""
	}

	s := v.styles
	textWidth := clamp(styles.ContentWidth(v.width)-10, 20, 70)
	v.commentInput.SetWidth(clamp(textWidth, 20, 50))
	wrapText := lipgloss.NewStyle().Width(textWidth)
	label := s.TitleMuted.Render

	var tagNames []string
	for _, tag := range task.Tags {
		tagNames = append(tagNames, lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color)).Render(tag.Name))
	}
	tagsLine := "None"
	if len(tagNames) > 0 {
		tagsLine = strings.Join(tagNames, " ")
	}

	state := "open"
	if task.Completed && task.CompletedAt != nil {
		state = "completed " + task.CompletedAt.Format("Jan 2, 2006")
	}
	due := "none"
	if task.DueDate != nil {
		due = task.DueDate.Format("Jan 2, 2006")
	}

	orNone := func(text, none string) string {
		if text == "" {
			return s.TitleMuted.Render(none)
		}
		return wrapText.Render(text)
	}

	var commentsContent string
	if len(v.viewTaskComments) == 0 {
		commentsContent = s.TitleMuted.Render("No comments yet")
	} else {
		var rows []string
		for i, c := range v.viewTaskComments {
			header := c.CreatedAt.Format("Jan 2, 2006 3:04 PM") + " · " + string(c.Status)
			marker := "  "
			if i == v.commentCursor && !v.commentInputFocused {
				marker = s.HelpKey.Render("› ")
			}
			body := wrapText.Render(c.Content)
			if c.Status != models.CommentOpen {
				body = s.TitleMuted.Render(body)
			}
			rows = append(rows, lipgloss.JoinVertical(lipgloss.Left, marker+s.TitleMuted.Render(header), "  "+body))
		}
		commentsContent = lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	commentStyle := s.Input
	if v.commentInputFocused {
		commentStyle = s.InputFocused
	}

	k := s.HelpKey.Render
	help := s.Help.Render(fmt.Sprintf("%s edit • %s done • %s tags • %s delete • %s comment • %s resolve • %s back",
		k("e"), k("x"), k("t"), k("d"), k("c"), k("v"), k("esc")))
	if v.commentInputFocused {
		help = s.Help.Render(fmt.Sprintf("%s submit • %s cancel", k("ctrl+s"), k("esc")))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.MarginBottom(1).Render(task.Title),
		label("Status")+"  "+s.StatusBadge.Render(task.StatusName())+"  ("+state+")",
		label("Priority")+"  "+s.TaskPriority.Render(string(task.Priority)),
		label("Due")+"  "+due,
		label("Tags")+"  "+tagsLine,
		"",
		label("Description"),
		orNone(task.Description, "No description"),
		"",
		label("Notes"),
		orNone(task.Notes, "No notes"),
		"",
		label("Comments"),
		commentsContent,
		"",
		commentStyle.Render(v.commentInput.View()),
		v.renderStatusLine(),
		help,
	)

	return styles.CenterView(lipgloss.NewStyle().Padding(1, 2).Render(content), v.width, v.height)
}
