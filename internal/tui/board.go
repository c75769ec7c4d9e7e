package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/rbacconsole/internal/api"
	"github.com/existflow/rbacconsole/internal/kanban"
	"github.com/existflow/rbacconsole/internal/logger"
	"github.com/existflow/rbacconsole/internal/model"
)

// boardView is the kanban widget shared by the tasks and project screens
type boardView struct {
	board   *kanban.Board
	dir     model.UserDirectory
	loading bool
	err     string
	col     int
	row     int
	picking bool
	pick    int
}

// reset points the widget at a new project; the caller issues the load
func (v *boardView) reset(projectID string) {
	*v = boardView{board: kanban.New(projectID), dir: v.dir, loading: true}
}

func (v boardView) active() bool {
	return v.board != nil
}

// selected returns the task under the cursor
func (v boardView) selected() (model.Task, bool) {
	if v.board == nil {
		return model.Task{}, false
	}
	cols := v.board.Columns()
	col := cols[clamp(v.col, len(cols))]
	if len(col.Tasks) == 0 {
		return model.Task{}, false
	}
	return col.Tasks[clamp(v.row, len(col.Tasks))], true
}

// follow moves the cursor onto task id wherever it now sits
func (v *boardView) follow(id string) {
	for c, col := range v.board.Columns() {
		for r, t := range col.Tasks {
			if t.ID == id {
				v.col, v.row = c, r
				return
			}
		}
	}
}

func (v *boardView) loaded(msg boardMsg) {
	if v.board == nil || v.board.ProjectID() != msg.projectID {
		return
	}
	v.loading = false
	if msg.err != nil {
		logger.Warn("Loading board failed", logger.F("project", msg.projectID), logger.F("error", msg.err))
		v.err = api.Message(msg.err)
		return
	}
	v.err = ""
	v.board.Replace(msg.tasks)
	cols := v.board.Columns()
	v.col = clamp(v.col, len(cols))
	v.row = clamp(v.row, len(cols[v.col].Tasks))
}

// settle applies the backend's answer to a transition. A refused move is
// reported inline and rolled back when nothing newer touched the task.
func (v *boardView) settle(msg taskMovedMsg) {
	if v.board == nil {
		return
	}
	rolledBack := v.board.Settle(msg.tr, msg.err)
	if msg.err == nil {
		logger.Debug("Task moved", logger.F("task", msg.tr.TaskID), logger.F("status", string(msg.tr.To)))
		return
	}

	logger.Warn("Task move failed",
		logger.F("task", msg.tr.TaskID),
		logger.F("to", string(msg.tr.To)),
		logger.F("rolled_back", rolledBack),
		logger.F("error", msg.err))
	title := msg.tr.TaskID
	if t, ok := v.board.Task(msg.tr.TaskID); ok {
		title = t.Title
	}
	v.err = fmt.Sprintf("Could not move %q to %s: %s", title, msg.tr.To.Label(), api.Message(msg.err))
	if rolledBack {
		v.err += " (reverted)"
		v.follow(msg.tr.TaskID)
	}
}

// update handles keys while the board has focus. It returns the command
// that sends a transition, if one was started.
func (m Model) updateBoard(v *boardView, msg tea.KeyMsg) tea.Cmd {
	if v.board == nil || !v.board.Loaded() {
		if key.Matches(msg, keys.Refresh) && v.board != nil {
			v.loading = true
			return m.loadBoardCmd(v.board.ProjectID())
		}
		return nil
	}

	if v.picking {
		switch {
		case key.Matches(msg, keys.Back):
			v.picking = false
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.Up):
			v.pick = clamp(v.pick-1, len(model.Statuses))
		case key.Matches(msg, keys.Right), key.Matches(msg, keys.Down):
			v.pick = clamp(v.pick+1, len(model.Statuses))
		case key.Matches(msg, keys.Enter):
			v.picking = false
			return m.moveSelected(v, model.Statuses[v.pick])
		default:
			if i, ok := statusKey(msg.String()); ok {
				v.picking = false
				return m.moveSelected(v, model.Statuses[i])
			}
		}
		return nil
	}

	cols := v.board.Columns()
	switch {
	case key.Matches(msg, keys.Left):
		v.col = clamp(v.col-1, len(cols))
		v.row = clamp(v.row, len(cols[v.col].Tasks))
	case key.Matches(msg, keys.Right):
		v.col = clamp(v.col+1, len(cols))
		v.row = clamp(v.row, len(cols[v.col].Tasks))
	case key.Matches(msg, keys.Up):
		v.row = clamp(v.row-1, len(cols[v.col].Tasks))
	case key.Matches(msg, keys.Down):
		v.row = clamp(v.row+1, len(cols[v.col].Tasks))
	case key.Matches(msg, keys.Move), key.Matches(msg, keys.Enter):
		t, ok := v.selected()
		if !ok {
			return nil
		}
		v.picking = true
		v.pick = 0
		for i, opt := range kanban.Options(t) {
			if opt.Enabled {
				v.pick = i
				break
			}
		}
	case key.Matches(msg, keys.Refresh):
		v.loading = true
		return m.loadBoardCmd(v.board.ProjectID())
	default:
		if i, ok := statusKey(msg.String()); ok {
			return m.moveSelected(v, model.Statuses[i])
		}
	}
	return nil
}

// moveSelected writes the new status locally and returns the command that
// tells the backend.
func (m Model) moveSelected(v *boardView, to model.Status) tea.Cmd {
	t, ok := v.selected()
	if !ok {
		return nil
	}
	tr, err := v.board.Move(t.ID, to)
	if err != nil {
		// the current status is a disabled control
		return nil
	}
	v.err = ""
	v.follow(t.ID)
	logger.Info("Moving task", logger.F("task", t.ID), logger.F("from", string(tr.From)), logger.F("to", string(to)))
	return m.moveTaskCmd(tr)
}

func (v boardView) view(focused bool, width int) string {
	if v.board == nil {
		return HelpStyle.Render("Please enter a Project ID above to load tasks.") + "\n"
	}
	if v.loading && !v.board.Loaded() {
		return HelpStyle.Render("Loading tasks...") + "\n" + banner(v.err, "")
	}

	colWidth := 24
	if width > 0 {
		colWidth = max(16, (width-8)/len(model.Statuses)-4)
	}

	var rendered []string
	for c, col := range v.board.Columns() {
		var b strings.Builder
		b.WriteString(StatusStyle(col.Status).Render(fmt.Sprintf("%s (%d)", col.Status.Label(), len(col.Tasks))) + "\n")
		b.WriteString(HelpStyle.Render(repeat("─", colWidth)) + "\n")
		if len(col.Tasks) == 0 {
			b.WriteString(HelpStyle.Render("No tasks") + "\n")
		}
		for r, t := range col.Tasks {
			b.WriteString(v.card(t, focused && c == v.col && r == v.row, colWidth))
		}
		style := ColumnStyle
		if focused && c == v.col {
			style = ColumnFocusedStyle
		}
		rendered = append(rendered, style.Width(colWidth+2).Render(b.String()))
	}

	out := lipgloss.JoinHorizontal(lipgloss.Top, rendered...) + "\n"
	if v.picking {
		out += v.picker() + "\n"
	}
	out += banner(v.err, "")
	if focused {
		out += HelpStyle.Render("←/→ column · ↑/↓ task · m move · 1-4 move to column · ctrl+r reload") + "\n"
	}
	return out
}

func (v boardView) card(t model.Task, selected bool, width int) string {
	title := truncate(t.Title, width-2)
	if v.board.Pending(t.ID) {
		title = CardPendingStyle.Render(title + " …")
	}
	line := title
	if t.Description != "" {
		line += "\n" + HelpStyle.Render(truncate(t.Description, width-2))
	}
	if len(t.Assignees) > 0 {
		names := make([]string, len(t.Assignees))
		for i, id := range t.Assignees {
			names[i] = v.dir.Name(id)
		}
		line += "\n" + HelpStyle.Render("Assigned: "+truncate(strings.Join(names, ", "), width-12))
	}

	var opts []string
	for _, o := range kanban.Options(t) {
		if o.Enabled {
			opts = append(opts, o.Status.Short())
		} else {
			opts = append(opts, HelpStyle.Strikethrough(true).Render(o.Status.Short()))
		}
	}
	line += "\n" + strings.Join(opts, " ")

	if selected {
		return ItemSelectedStyle.Width(width).Render(line) + "\n"
	}
	return ItemStyle.Width(width).Render(line) + "\n"
}

func (v boardView) picker() string {
	t, ok := v.selected()
	if !ok {
		return ""
	}
	var opts []string
	for i, o := range kanban.Options(t) {
		label := fmt.Sprintf("%d %s", i+1, o.Status.Label())
		switch {
		case !o.Enabled:
			opts = append(opts, HelpStyle.Strikethrough(true).Render(label))
		case i == v.pick:
			opts = append(opts, ButtonFocusedStyle.Render(label))
		default:
			opts = append(opts, ButtonStyle.Render(label))
		}
	}
	return ModalStyle.Render(fmt.Sprintf("Move %q to:\n\n%s", t.Title, strings.Join(opts, " ")))
}
