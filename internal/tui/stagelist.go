package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/waabox/ingestwatch/internal/domain"
)

var (
	completeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cursorStyle   = lipgloss.NewStyle().Bold(true)
)

const barWidth = 10

// StageListModel is an immutable model for the stages panel.
type StageListModel struct {
	stages []domain.Stage
	cursor int
}

// NewStageListModel creates a stage list model.
func NewStageListModel(stages []domain.Stage) StageListModel {
	return StageListModel{stages: stages, cursor: 0}
}

// UpdateStages replaces the stages while keeping the cursor in range.
func (m StageListModel) UpdateStages(stages []domain.Stage) StageListModel {
	m.stages = stages
	if m.cursor >= len(stages) {
		m.cursor = 0
		if len(stages) > 0 {
			m.cursor = len(stages) - 1
		}
	}
	return m
}

// MoveDown returns a new model with the cursor moved down by one.
func (m StageListModel) MoveDown() StageListModel {
	if m.cursor < len(m.stages)-1 {
		m.cursor++
	}
	return m
}

// MoveUp returns a new model with the cursor moved up by one.
func (m StageListModel) MoveUp() StageListModel {
	if m.cursor > 0 {
		m.cursor--
	}
	return m
}

// Cursor returns the current cursor position.
func (m StageListModel) Cursor() int {
	return m.cursor
}

// Stages returns the full stage slice.
func (m StageListModel) Stages() []domain.Stage {
	return m.stages
}

// View renders the stage list with status icons and progress bars.
func (m StageListModel) View() string {
	if len(m.stages) == 0 {
		return "No stages configured."
	}
	var sb strings.Builder
	for i, s := range m.stages {
		prefix := "  "
		name := fmt.Sprintf("%-28s", truncate(s.DisplayName, 28))
		if i == m.cursor {
			prefix = "> "
			name = cursorStyle.Render(name)
		}
		sb.WriteString(fmt.Sprintf("%s%s %s %s %3d%%\n",
			prefix,
			statusIcon(s.Status),
			name,
			progressBar(s.Percent),
			s.Percent,
		))
	}
	return sb.String()
}

func statusIcon(s domain.StageStatus) string {
	switch s {
	case domain.StatusComplete:
		return completeStyle.Render("✓")
	case domain.StatusFailed:
		return failedStyle.Render("✗")
	case domain.StatusPending:
		return pendingStyle.Render("○")
	default:
		return "?"
	}
}

func progressBar(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * barWidth / 100
	return "[" + strings.Repeat("█", filled) + strings.Repeat("·", barWidth-filled) + "]"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
