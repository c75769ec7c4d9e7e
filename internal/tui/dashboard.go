package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/rbacconsole/internal/api"
	"github.com/existflow/rbacconsole/internal/dashboard"
	"github.com/existflow/rbacconsole/internal/logger"
	"github.com/existflow/rbacconsole/internal/model"
)

type dashboardScreen struct {
	loading bool
	summary *dashboard.Summary
	err     string
	cursor  int
	modal   *model.Project
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := &m.dashboard

	if s.modal != nil {
		switch {
		case key.Matches(msg, keys.Enter):
			id := s.modal.ID
			s.modal = nil
			return m, m.navigate(ProjectRoute(id), false)
		case key.Matches(msg, keys.Back), msg.String() == "q":
			s.modal = nil
		}
		return m, nil
	}

	var projects []model.Project
	if s.summary != nil {
		projects = s.summary.Projects
	}

	switch {
	case msg.String() == "q":
		return m, tea.Quit
	case key.Matches(msg, keys.Back):
		return m, m.back()
	case key.Matches(msg, keys.Up):
		s.cursor = clamp(s.cursor-1, len(projects))
	case key.Matches(msg, keys.Down):
		s.cursor = clamp(s.cursor+1, len(projects))
	case key.Matches(msg, keys.Enter):
		if len(projects) > 0 {
			p := projects[clamp(s.cursor, len(projects))]
			s.modal = &p
		}
	case msg.String() == "n":
		if m.affordances().CreateProject {
			return m, m.navigate(PathCreateProject, false)
		}
	case msg.String() == "u":
		if m.affordances().CreateUser {
			return m, m.navigate(PathCreateUser, false)
		}
	case key.Matches(msg, keys.Refresh), msg.String() == "r":
		s.loading = true
		s.err = ""
		return m, m.loadSummaryCmd()
	}
	return m, nil
}

func (m Model) handleSummary(msg summaryMsg) (tea.Model, tea.Cmd) {
	s := &m.dashboard
	s.loading = false
	if msg.err != nil {
		logger.Error("Dashboard load failed", logger.F("error", msg.err))
		s.err = api.Message(msg.err)
		return m, nil
	}
	s.summary = msg.summary
	s.cursor = clamp(s.cursor, len(msg.summary.Projects))
	logger.Debug("Dashboard loaded",
		logger.F("projects", len(msg.summary.Projects)),
		logger.F("tasks", msg.summary.TotalTasks))
	return m, nil
}

func (m Model) viewDashboard() string {
	s := m.dashboard
	aff := m.affordances()

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Dashboard") + "\n")
	b.WriteString(SubtitleStyle.Render("Signed in as ") + FormatRole(string(m.role)) + "\n\n")

	if s.loading && s.summary == nil {
		b.WriteString(HelpStyle.Render("Loading...") + "\n")
		return b.String()
	}
	b.WriteString(banner(s.err, ""))
	if s.summary == nil {
		return b.String()
	}
	sum := s.summary

	// stat cards
	var cards []string
	if sum.UsersShown {
		cards = append(cards, statCard("Total Users", fmt.Sprint(len(sum.Users))))
	}
	cards = append(cards, statCard("Total Projects", fmt.Sprint(len(sum.Projects))))
	cards = append(cards, statCard("Total Tasks", fmt.Sprint(sum.TotalTasks)))
	cards = append(cards, statCard("Assignees", fmt.Sprint(sum.Assignees)))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n\n")

	// projects
	header := TitleStyle.Render("Projects")
	if aff.CreateProject {
		header += "  " + ButtonStyle.Render("+ New Project") + HelpStyle.Render(" (n)")
	}
	b.WriteString(header + "\n")
	if len(sum.Projects) == 0 {
		b.WriteString(HelpStyle.Render("  No projects yet") + "\n")
	}
	for i, p := range sum.Projects {
		style := ItemStyle
		cursor := "  "
		if i == s.cursor {
			style = ItemSelectedStyle
			cursor = "❯ "
		}
		line := fmt.Sprintf("%s%-24s %3d tasks  %2d assignees  by %s",
			cursor, truncate(p.Name, 24), sum.TaskCounts[p.ID], len(p.AssignedEmployees), p.Creator())
		b.WriteString(style.Render(line) + "\n")
	}

	// users admin panel
	if aff.ViewUsers && sum.UsersShown {
		b.WriteString("\n" + TitleStyle.Render("Users"))
		if aff.CreateUser {
			b.WriteString("  " + ButtonStyle.Render("+ Create User") + HelpStyle.Render(" (u)"))
		}
		b.WriteString("\n")
		if sum.UsersErr != nil {
			b.WriteString(banner(api.Message(sum.UsersErr), ""))
		} else {
			b.WriteString(usersTable(sum.Users))
		}
	}

	out := b.String()
	if s.modal != nil {
		modal := m.viewProjectModal(*s.modal)
		if m.width > 0 && m.height > 4 {
			return lipgloss.Place(m.width, m.height-4, lipgloss.Center, lipgloss.Center, modal,
				lipgloss.WithWhitespaceChars(" "))
		}
		return out + "\n" + modal
	}
	return out
}

func statCard(label, value string) string {
	return CardStyle.Render(LabelStyle.Render(label) + "\n" + CardValueStyle.Render(value))
}

func usersTable(users []model.User) string {
	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-20s %-28s %-8s %s", "NAME", "EMAIL", "ROLE", "CREATED")) + "\n")
	if len(users) == 0 {
		b.WriteString(HelpStyle.Render("  No users") + "\n")
	}
	for _, u := range users {
		created := ""
		if !u.CreatedAt.IsZero() {
			created = u.CreatedAt.Format("2006-01-02")
		}
		role := fmt.Sprintf("%-8s", u.Role)
		b.WriteString(ItemStyle.Render(fmt.Sprintf("%-20s %-28s ", truncate(u.DisplayName(), 20), truncate(u.Email, 28))) +
			FormatRole(role) + " " + HelpStyle.Render(created) + "\n")
	}
	return b.String()
}

func (m Model) viewProjectModal(p model.Project) string {
	var users []model.User
	if m.dashboard.summary != nil {
		users = m.dashboard.summary.Users
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(p.Name) + "\n")
	desc := p.Description
	if desc == "" {
		desc = "No description"
	}
	b.WriteString(SubtitleStyle.Render(desc) + "\n\n")
	b.WriteString(LabelStyle.Render("Created by ") + p.Creator() + "\n")
	b.WriteString(LabelStyle.Render(fmt.Sprintf("Assignees (%d)", len(p.AssignedEmployees))) + "\n")
	for _, a := range dashboard.ResolveAssignees(p, users) {
		line := "  • " + a.Name
		if a.Known && a.Email != "" && a.Email != a.Name {
			line += HelpStyle.Render(" <" + a.Email + ">")
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + ButtonFocusedStyle.Render("View more") + HelpStyle.Render("  enter open · esc close"))
	return ModalStyle.Render(b.String())
}
