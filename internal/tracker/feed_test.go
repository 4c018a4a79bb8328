package tracker_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waabox/ingestwatch/internal/domain"
	"github.com/waabox/ingestwatch/internal/tracker"
)

func TestFeed_KeepsNewestWhenConsumerIsBehind(t *testing.T) {
	feed := tracker.NewFeed()

	feed.Observe(tracker.Snapshot{Version: 1})
	feed.Observe(tracker.Snapshot{Version: 2})
	feed.Observe(tracker.Snapshot{Version: 3})

	got := <-feed.C()
	assert.Equal(t, uint64(3), got.Version)
	select {
	case extra := <-feed.C():
		t.Fatalf("expected a single buffered snapshot, got version %d", extra.Version)
	default:
	}
}

func TestFeed_ReceivesTrackerUpdates(t *testing.T) {
	feed := tracker.NewFeed()
	tr := tracker.New(stagesOf(domain.StageUpload), newScriptedProber(), tracker.WithObserver(feed.Observe))

	tr.Begin("doc.pdf")
	require.True(t, tr.RunPass(context.Background()))

	got := <-feed.C()
	assert.True(t, got.Done())
	assert.Equal(t, "doc.pdf", got.Source)
}
