package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/rbacconsole/internal/api"
	"github.com/existflow/rbacconsole/internal/forms"
	"github.com/existflow/rbacconsole/internal/logger"
)

const (
	tasksProject = iota
	tasksTitle
	tasksDescription
	tasksSubmit
	tasksBoard
	tasksSlots
)

type tasksScreen struct {
	form  form
	board boardView
	focus int
	busy  bool
	err   string
}

func newTasksScreen() tasksScreen {
	s := tasksScreen{
		form: newForm(
			newField("Project ID", "project id", 64),
			newField("Title", "Title", 256),
			newField("Description", "Description (optional)", 1024),
		),
	}
	s.form.focusOn(tasksProject)
	return s
}

// loadProject points the board at the project id field, if it changed
func (m *Model) loadProject() tea.Cmd {
	s := &m.tasks
	id := strings.TrimSpace(s.form.value(tasksProject))
	if id == "" {
		s.board = boardView{}
		return nil
	}
	if s.board.active() && s.board.board.ProjectID() == id {
		return nil
	}
	s.board.reset(id)
	return m.loadBoardCmd(id)
}

func (m Model) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.tasks

	if s.focus == tasksBoard && !key.Matches(msg, keys.Tab) {
		if key.Matches(msg, keys.Back) && !s.board.picking {
			return m, m.back()
		}
		return m, m.updateBoard(&s.board, msg)
	}

	switch {
	case key.Matches(msg, keys.Back):
		return m, m.back()

	case key.Matches(msg, keys.Tab):
		prev := s.focus
		s.focus = cycle(s.focus, tasksSlots, msg.String() == "shift+tab")
		s.form.focusOn(s.focus)
		if prev == tasksProject {
			return m, m.loadProject()
		}
		return m, nil

	case key.Matches(msg, keys.Enter):
		switch s.focus {
		case tasksProject:
			s.focus = tasksTitle
			s.form.focusOn(s.focus)
			return m, m.loadProject()
		case tasksSubmit:
			return m.submitTask()
		default:
			s.focus++
			s.form.focusOn(s.focus)
			return m, nil
		}
	}

	if s.busy {
		return m, nil
	}
	return m, s.form.update(s.focus, msg)
}

func (m Model) submitTask() (tea.Model, tea.Cmd) {
	s := &m.tasks
	if s.busy {
		return m, nil
	}
	s.err = ""

	req, err := forms.CreateTask{
		ProjectID:   s.form.value(tasksProject),
		Title:       s.form.value(tasksTitle),
		Description: s.form.value(tasksDescription),
	}.Request()
	if err != nil {
		s.err = err.Error()
		return m, nil
	}

	s.busy = true
	logger.Info("Creating task", logger.F("project", req.ProjectID), logger.F("title", req.Title))
	return m, tea.Batch(m.loadProject(), m.createTaskCmd(req))
}

// handleTaskCreated serves both screens that create tasks
func (m Model) handleTaskCreated(msg taskCreatedMsg) (tea.Model, tea.Cmd) {
	var (
		f       *form
		busy    *bool
		errMsg  *string
		project string
	)
	switch m.route.Screen() {
	case ScreenTasks:
		f, busy, errMsg = &m.tasks.form, &m.tasks.busy, &m.tasks.err
		project = strings.TrimSpace(m.tasks.form.value(tasksProject))
	case ScreenProject:
		f, busy, errMsg = &m.project.form, &m.project.busy, &m.project.err
		project = m.project.id
	default:
		return m, nil
	}

	*busy = false
	if msg.err != nil {
		logger.Warn("Create task failed", logger.F("error", msg.err))
		*errMsg = "Create failed: " + api.Message(msg.err)
		return m, nil
	}

	*errMsg = ""
	if m.route.Screen() == ScreenTasks {
		f.set(tasksTitle, "")
		f.set(tasksDescription, "")
	} else {
		f.set(detailTitle, "")
		f.set(detailDescription, "")
		m.project.assignees = nil
	}
	m.message = "Task created"

	// refetch so the board mirrors the server again
	board := m.activeBoard()
	if board == nil || !board.active() || board.board.ProjectID() != project {
		return m, nil
	}
	board.loading = true
	return m, m.loadBoardCmd(project)
}

func (m Model) viewTasks() string {
	s := m.tasks
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Tasks") + "\n")
	b.WriteString(SubtitleStyle.Render("Create and manage tasks for a project") + "\n\n")

	b.WriteString(s.form.view(s.focus))
	if !m.affordances().CreateTask {
		b.WriteString(HelpStyle.Render("Your role may not be allowed to create tasks.") + "\n\n")
	}
	b.WriteString(button("Create", s.focus == tasksSubmit, s.busy, "Creating...") + "\n\n")
	b.WriteString(banner(s.err, ""))

	b.WriteString(s.board.view(s.focus == tasksBoard, m.width))
	return b.String()
}
