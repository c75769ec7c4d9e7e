package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/rbacconsole/internal/model"
)

// Color palette
var (
	// Column colors
	ColumnTodo       = lipgloss.Color("#6C757D") // Gray
	ColumnInProgress = lipgloss.Color("#FFB347") // Orange
	ColumnReview     = lipgloss.Color("#FFE66D") // Yellow
	ColumnDone       = lipgloss.Color("#95E1A3") // Green

	// Role colors
	RoleAdmin   = lipgloss.Color("#FF6B6B")
	RoleManager = lipgloss.Color("#FFB347")
	RoleEditor  = lipgloss.Color("#4ECDC4")
	RoleViewer  = lipgloss.Color("#888888")

	// Feedback colors
	ErrorColor   = lipgloss.Color("#FF6B6B")
	SuccessColor = lipgloss.Color("#95E1A3")

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Secondary = lipgloss.Color("#6C757D")
	Surface   = lipgloss.Color("#16213e")
	Text      = lipgloss.Color("#FFFFFF")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
)

// Styles
var (
	// Navbar
	NavbarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(Border)

	NavTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	NavItemStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1)

	NavItemActiveStyle = lipgloss.NewStyle().
				Foreground(Text).
				Background(Surface).
				Bold(true).
				Padding(0, 1)

	// Page body
	PageStyle = lipgloss.NewStyle().
			Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	// Stat cards
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2).
			MarginRight(1)

	CardValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Text)

	// Lists and tables
	ItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	ItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(TextMuted).
				Padding(0, 1)

	// Forms
	LabelStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(Primary).
				Bold(true)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(Secondary).
			Padding(0, 2)

	ButtonFocusedStyle = lipgloss.NewStyle().
				Foreground(Text).
				Background(Primary).
				Bold(true).
				Padding(0, 2)

	// Feedback banners
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	// Board
	ColumnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1)

	ColumnFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(Primary).
				Padding(0, 1)

	CardPendingStyle = lipgloss.NewStyle().
				Foreground(TextMuted).
				Italic(true)

	// Modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// StatusStyle returns the header style for a board column
func StatusStyle(s model.Status) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch s {
	case model.StatusTodo:
		return style.Foreground(ColumnTodo)
	case model.StatusInProgress:
		return style.Foreground(ColumnInProgress)
	case model.StatusReview:
		return style.Foreground(ColumnReview)
	case model.StatusDone:
		return style.Foreground(ColumnDone)
	default:
		return style.Foreground(TextMuted)
	}
}

// FormatRole renders a role badge
func FormatRole(role string) string {
	style := lipgloss.NewStyle().Bold(true)
	switch role {
	case model.RoleAdmin:
		return style.Foreground(RoleAdmin).Render(role)
	case model.RoleManager:
		return style.Foreground(RoleManager).Render(role)
	case model.RoleEditor:
		return style.Foreground(RoleEditor).Render(role)
	case "":
		return style.Foreground(RoleViewer).Render("GUEST")
	default:
		return style.Foreground(RoleViewer).Render(role)
	}
}
