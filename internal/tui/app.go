package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/waabox/ingestwatch/internal/domain"
	"github.com/waabox/ingestwatch/internal/tracker"
)

// SnapshotMsg carries a tracker snapshot into the program.
// It is exported so that tests can inject it directly into AppModel.Update.
type SnapshotMsg struct {
	Snapshot tracker.Snapshot
}

// focus indicates which pane receives navigation keys.
type focus int

const (
	focusEvents focus = iota
	focusStages
)

const separator = "────────────────────────────────────────────────────────────\n"

// chromeLines is the number of rows used by header, titles, separators and footer.
const chromeLines = 8

// AppModel is the root Bubbletea model for ingestwatch.
type AppModel struct {
	snapshots <-chan tracker.Snapshot
	snap      tracker.Snapshot
	stages    StageListModel
	events    EventLogModel
	focus     focus
	width     int
	height    int
}

// NewAppModel creates the root model. initial is rendered until the first snapshot arrives.
func NewAppModel(snapshots <-chan tracker.Snapshot, initial tracker.Snapshot) AppModel {
	m := AppModel{
		snapshots: snapshots,
		snap:      initial,
		stages:    NewStageListModel(initial.Stages),
		events:    NewEventLogModel(10),
	}
	if initial.Source != "" {
		m.events = m.events.Append(fmt.Sprintf("tracking %s", initial.Source))
	}
	return m
}

// Init starts listening for snapshots.
func (m AppModel) Init() tea.Cmd {
	return waitForSnapshot(m.snapshots)
}

func waitForSnapshot(ch <-chan tracker.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		return SnapshotMsg{Snapshot: <-ch}
	}
}

// Update handles all incoming messages and key events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.events = m.events.Resize(m.eventLines())

	case SnapshotMsg:
		if msg.Snapshot.Version < m.snap.Version {
			return m, waitForSnapshot(m.snapshots)
		}
		m.events = appendTransitions(m.events, m.snap, msg.Snapshot)
		m.snap = msg.Snapshot
		m.stages = m.stages.UpdateStages(msg.Snapshot.Stages)
		return m, waitForSnapshot(m.snapshots)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			if m.focus == focusEvents {
				m.focus = focusStages
			} else {
				m.focus = focusEvents
			}
		case "G", "end":
			m.events = m.events.Jump()
		case "up", "k":
			if m.focus == focusStages {
				m.stages = m.stages.MoveUp()
			} else {
				m.events = m.events.ScrollUp()
			}
		case "down", "j":
			if m.focus == focusStages {
				m.stages = m.stages.MoveDown()
			} else {
				m.events = m.events.ScrollDown()
			}
		}
	}
	return m, nil
}

// appendTransitions logs what changed between two consecutive snapshots.
func appendTransitions(events EventLogModel, prev, next tracker.Snapshot) EventLogModel {
	if prev.RunID != next.RunID {
		events = events.Reset()
		if next.Source == "" {
			return events.Append("tracking stopped")
		}
		return events.Append(fmt.Sprintf("tracking %s", next.Source))
	}
	for i, s := range next.Stages {
		if i >= len(prev.Stages) || prev.Stages[i].Status == s.Status {
			continue
		}
		events = events.Append(fmt.Sprintf("%s %s %s", statusIcon(s.Status), s.DisplayName, s.Status))
	}
	if prev.Identifier != next.Identifier && next.Identifier != "" {
		events = events.Append(fmt.Sprintf("now tracking %s", next.Identifier))
	}
	if next.Done() && !prev.Done() {
		events = events.Append("all stages finished")
	}
	return events
}

// Snapshot returns the last snapshot the model rendered.
func (m AppModel) Snapshot() tracker.Snapshot {
	return m.snap
}

// Events returns the event log pane.
func (m AppModel) Events() EventLogModel {
	return m.events
}

// View renders the full TUI.
func (m AppModel) View() string {
	header := fmt.Sprintf(" ingestwatch | %s\n", m.describeTarget())

	stagesTitle := " Stages\n"
	eventsTitle := fmt.Sprintf(" Events [%s]\n", m.events.State())
	if m.focus == focusStages {
		stagesTitle = " Stages *\n"
	} else {
		eventsTitle = fmt.Sprintf(" Events [%s] *\n", m.events.State())
	}

	status := fmt.Sprintf(" %d/%d stages finished\n", finished(m.snap.Stages), len(m.snap.Stages))
	if m.snap.Done() {
		status = " All stages finished.\n"
	}
	footer := " ↑/↓: scroll   tab: switch pane   G: follow newest   q: quit\n"

	return header + separator + stagesTitle + m.stages.View() + separator +
		eventsTitle + m.events.View() + separator + status + footer
}

func (m AppModel) describeTarget() string {
	if m.snap.Source == "" {
		return "idle"
	}
	target := m.snap.Source
	if m.snap.Identifier != m.snap.Source {
		target += " → " + m.snap.Identifier
	}
	if m.snap.RunID != "" {
		target += fmt.Sprintf(" (run %s)", shortID(m.snap.RunID))
	}
	return target
}

// eventLines returns the number of event lines visible in the current terminal height.
func (m AppModel) eventLines() int {
	lines := m.height - chromeLines - len(m.snap.Stages)
	if lines < 3 {
		return 3
	}
	return lines
}

func finished(stages []domain.Stage) int {
	n := 0
	for _, s := range stages {
		if s.Status.Terminal() {
			n++
		}
	}
	return n
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// Run starts the Bubbletea program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, snapshots <-chan tracker.Snapshot, initial tracker.Snapshot) error {
	p := tea.NewProgram(NewAppModel(snapshots, initial), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("ingestwatch view: %w", err)
	}
	return nil
}
