package tui

import "strings"

// FollowState says whether the event log tracks its newest line.
type FollowState int

const (
	// Following keeps the newest line in view as content is appended.
	Following FollowState = iota
	// Frozen keeps the viewport where the user left it.
	Frozen
)

func (s FollowState) String() string {
	if s == Frozen {
		return "frozen"
	}
	return "following"
}

// FollowEvent is an input to the follow state machine.
type FollowEvent int

const (
	EventUserScrollUp FollowEvent = iota
	EventReachedBottom
	EventContentAppended
	EventJumpPressed
)

// Next returns the state after e. Appending content never changes the state.
func (s FollowState) Next(e FollowEvent) FollowState {
	switch e {
	case EventUserScrollUp:
		return Frozen
	case EventReachedBottom, EventJumpPressed:
		return Following
	default:
		return s
	}
}

// EventLogModel is an immutable scrolling pane of run events.
type EventLogModel struct {
	lines  []string
	offset int
	height int
	state  FollowState
}

// NewEventLogModel creates an empty event log showing height lines at a time.
func NewEventLogModel(height int) EventLogModel {
	if height < 1 {
		height = 1
	}
	return EventLogModel{height: height}
}

// Append adds a line. While Following the viewport moves to show it.
func (m EventLogModel) Append(line string) EventLogModel {
	lines := make([]string, len(m.lines), len(m.lines)+1)
	copy(lines, m.lines)
	m.lines = append(lines, line)
	m.state = m.state.Next(EventContentAppended)
	if m.state == Following {
		m.offset = m.maxOffset()
	}
	return m
}

// ScrollUp moves the viewport up one line and freezes it.
func (m EventLogModel) ScrollUp() EventLogModel {
	if m.maxOffset() == 0 {
		return m
	}
	if m.offset > 0 {
		m.offset--
	}
	m.state = m.state.Next(EventUserScrollUp)
	return m
}

// ScrollDown moves the viewport down one line. Reaching the bottom resumes following.
func (m EventLogModel) ScrollDown() EventLogModel {
	if m.offset < m.maxOffset() {
		m.offset++
	}
	if m.offset == m.maxOffset() {
		m.state = m.state.Next(EventReachedBottom)
	}
	return m
}

// Jump shows the newest line and resumes following.
func (m EventLogModel) Jump() EventLogModel {
	m.offset = m.maxOffset()
	m.state = m.state.Next(EventJumpPressed)
	return m
}

// Resize changes the number of visible lines.
func (m EventLogModel) Resize(height int) EventLogModel {
	if height < 1 {
		height = 1
	}
	m.height = height
	if m.state == Following || m.offset > m.maxOffset() {
		m.offset = m.maxOffset()
	}
	return m
}

// Reset clears every line and resumes following.
func (m EventLogModel) Reset() EventLogModel {
	return NewEventLogModel(m.height)
}

// State returns the current follow state.
func (m EventLogModel) State() FollowState {
	return m.state
}

// Offset returns the index of the first visible line.
func (m EventLogModel) Offset() int {
	return m.offset
}

// Lines returns every line in the log.
func (m EventLogModel) Lines() []string {
	return m.lines
}

// View renders the visible window of the log.
func (m EventLogModel) View() string {
	if len(m.lines) == 0 {
		return "  No events yet.\n"
	}
	end := m.offset + m.height
	if end > len(m.lines) {
		end = len(m.lines)
	}
	var sb strings.Builder
	for _, l := range m.lines[m.offset:end] {
		sb.WriteString("  " + l + "\n")
	}
	return sb.String()
}

func (m EventLogModel) maxOffset() int {
	if n := len(m.lines) - m.height; n > 0 {
		return n
	}
	return 0
}
