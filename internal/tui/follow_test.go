package tui_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/waabox/ingestwatch/internal/tui"
)

func TestFollowState_Transitions(t *testing.T) {
	cases := []struct {
		from  tui.FollowState
		event tui.FollowEvent
		want  tui.FollowState
	}{
		{tui.Following, tui.EventUserScrollUp, tui.Frozen},
		{tui.Following, tui.EventContentAppended, tui.Following},
		{tui.Following, tui.EventReachedBottom, tui.Following},
		{tui.Following, tui.EventJumpPressed, tui.Following},
		{tui.Frozen, tui.EventContentAppended, tui.Frozen},
		{tui.Frozen, tui.EventUserScrollUp, tui.Frozen},
		{tui.Frozen, tui.EventReachedBottom, tui.Following},
		{tui.Frozen, tui.EventJumpPressed, tui.Following},
	}
	for _, c := range cases {
		if got := c.from.Next(c.event); got != c.want {
			t.Errorf("%s + event %d: expected %s, got %s", c.from, c.event, c.want, got)
		}
	}
}

func fill(m tui.EventLogModel, n int) tui.EventLogModel {
	for i := 1; i <= n; i++ {
		m = m.Append(fmt.Sprintf("event %d", i))
	}
	return m
}

func TestEventLog_FollowsNewestLine(t *testing.T) {
	m := fill(tui.NewEventLogModel(3), 5)
	if m.Offset() != 2 {
		t.Errorf("expected offset 2, got %d", m.Offset())
	}
	view := m.View()
	if !strings.Contains(view, "event 5") || strings.Contains(view, "event 2") {
		t.Errorf("expected the last three events, got:\n%s", view)
	}
}

func TestEventLog_ScrollUpFreezesViewport(t *testing.T) {
	m := fill(tui.NewEventLogModel(3), 5)
	m = m.ScrollUp()
	if m.State() != tui.Frozen {
		t.Fatalf("expected frozen after scrolling up, got %s", m.State())
	}
	m = m.Append("event 6")
	if m.Offset() != 1 {
		t.Errorf("expected offset to stay at 1 while frozen, got %d", m.Offset())
	}
	if strings.Contains(m.View(), "event 6") {
		t.Errorf("expected new event to stay out of view while frozen, got:\n%s", m.View())
	}
}

func TestEventLog_ReachingBottomResumesFollowing(t *testing.T) {
	m := fill(tui.NewEventLogModel(3), 5)
	m = m.ScrollUp()
	m = m.ScrollDown()
	if m.State() != tui.Following {
		t.Fatalf("expected following after reaching the bottom, got %s", m.State())
	}
	m = m.Append("event 6")
	if !strings.Contains(m.View(), "event 6") {
		t.Errorf("expected new event in view, got:\n%s", m.View())
	}
}

func TestEventLog_JumpResumesFollowing(t *testing.T) {
	m := fill(tui.NewEventLogModel(3), 5)
	m = m.ScrollUp().ScrollUp()
	m = m.Append("event 6")
	m = m.Jump()
	if m.State() != tui.Following {
		t.Fatalf("expected following after jump, got %s", m.State())
	}
	if m.Offset() != 3 {
		t.Errorf("expected offset 3, got %d", m.Offset())
	}
}

func TestEventLog_ScrollUpWithoutOverflowKeepsFollowing(t *testing.T) {
	m := fill(tui.NewEventLogModel(10), 2)
	m = m.ScrollUp()
	if m.State() != tui.Following {
		t.Errorf("expected following when everything fits, got %s", m.State())
	}
}

func TestEventLog_ResetClearsLines(t *testing.T) {
	m := fill(tui.NewEventLogModel(3), 5).ScrollUp()
	m = m.Reset()
	if len(m.Lines()) != 0 || m.State() != tui.Following {
		t.Errorf("expected empty following log, got %d lines in %s", len(m.Lines()), m.State())
	}
	if !strings.Contains(m.View(), "No events") {
		t.Errorf("expected empty message, got:\n%s", m.View())
	}
}
