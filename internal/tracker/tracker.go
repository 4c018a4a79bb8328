// Package tracker infers ingestion progress by polling stage probes one stage at a time.
package tracker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/waabox/ingestwatch/internal/domain"
	"github.com/waabox/ingestwatch/internal/logging"
)

// Snapshot is an immutable view of a run, handed to observers after every update.
type Snapshot struct {
	// Version increases with every state change of the tracker.
	Version uint64
	RunID   string
	// Source is the identifier as supplied by the caller.
	Source string
	// Identifier is the identifier probes currently use; it differs from
	// Source once the processing stage has derived its output name.
	Identifier string
	Stages     []domain.Stage
}

// Done reports whether every stage has reached a terminal status.
func (s Snapshot) Done() bool {
	if len(s.Stages) == 0 {
		return false
	}
	for _, st := range s.Stages {
		if !st.Status.Terminal() {
			return false
		}
	}
	return true
}

// Observer receives a snapshot after each state change.
type Observer func(Snapshot)

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used for stage transitions and probe failures.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) { t.logger = logger }
}

// WithObserver registers an observer. Observers run on the goroutine that
// changed the state and must not call back into the Tracker synchronously.
func WithObserver(o Observer) Option {
	return func(t *Tracker) { t.observers = append(t.observers, o) }
}

// Tracker is the stage sequencer. It owns the ordered stage list and the
// tracked identifier for one run at a time.
type Tracker struct {
	prober    domain.StageProber
	logger    *slog.Logger
	observers []Observer

	// pass is held for the duration of a pass; overlapping passes are dropped.
	pass sync.Mutex

	pubMu     sync.Mutex
	published uint64

	mu         sync.Mutex
	initial    []domain.Stage
	stages     []domain.Stage
	runID      string
	source     string
	identifier string
	renamed    bool
	version    uint64
	// epoch changes on every Begin so that a probe started under an older
	// run can be recognised and discarded.
	epoch uint64
}

// New creates a tracker over the given stage list. No run is active until Begin.
func New(initial []domain.Stage, prober domain.StageProber, opts ...Option) *Tracker {
	t := &Tracker{
		prober:  prober,
		logger:  logging.NewNop(),
		initial: domain.ResetStages(initial),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.stages = domain.ResetStages(t.initial)
	return t
}

// Begin starts tracking identifier. A different identifier starts a fresh run
// with every stage Pending; an empty identifier tears the current run down.
// Supplying the identifier already being tracked is a no-op.
func (t *Tracker) Begin(identifier string) {
	t.mu.Lock()
	if identifier == t.source {
		t.mu.Unlock()
		return
	}
	t.epoch++
	t.stages = domain.ResetStages(t.initial)
	t.source = identifier
	t.identifier = identifier
	t.renamed = false
	t.runID = ""
	if identifier != "" {
		t.runID = uuid.NewString()
		t.logger.Info("tracking started", "run_id", t.runID, "identifier", identifier)
	} else {
		t.logger.Info("tracking stopped")
	}
	t.version++
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.publish(snap)
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// RunPass probes the earliest Pending stage whose predecessors are all
// terminal and records the outcome. It issues at most one probe and reports
// whether it did. It is a no-op without a tracked identifier, when every
// stage is terminal, or when another pass is already running.
func (t *Tracker) RunPass(ctx context.Context) bool {
	if !t.pass.TryLock() {
		return false
	}
	defer t.pass.Unlock()

	if ctx.Err() != nil {
		return false
	}

	t.mu.Lock()
	if t.identifier == "" {
		t.mu.Unlock()
		return false
	}
	idx := -1
	for i, s := range t.stages {
		if !s.Status.Terminal() {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.mu.Unlock()
		return false
	}
	key := t.stages[idx].Key
	identifier := t.identifier
	epoch := t.epoch
	runID := t.runID
	t.mu.Unlock()

	result, err := t.prober.Probe(ctx, key, identifier)

	t.mu.Lock()
	if epoch != t.epoch || ctx.Err() != nil {
		t.mu.Unlock()
		t.logger.Debug("discarding stale stage check", "run_id", runID, "stage", string(key))
		return true
	}
	t.apply(idx, result, err)
	t.version++
	snap := t.snapshotLocked()
	t.mu.Unlock()

	t.publish(snap)
	return true
}

// apply records a probe outcome for stage idx. Callers hold t.mu.
func (t *Tracker) apply(idx int, result domain.ProbeResult, err error) {
	stage := t.stages[idx]
	switch {
	case err != nil:
		// A failed stage still satisfies the gate, so later stages are attempted on later passes.
		t.stages[idx] = stage.WithStatus(domain.StatusFailed)
		t.logger.Warn("stage failed",
			"run_id", t.runID,
			"stage", string(stage.Key),
			"identifier", t.identifier,
			"error", err,
		)
	case result.Complete:
		t.stages[idx] = stage.WithStatus(domain.StatusComplete)
		if result.Identifier != "" && !t.renamed {
			t.logger.Info("tracked identifier derived",
				"run_id", t.runID,
				"from", t.identifier,
				"to", result.Identifier,
			)
			t.identifier = result.Identifier
			t.renamed = true
		}
		t.logger.Info("stage complete", "run_id", t.runID, "stage", string(stage.Key))
	}
}

func (t *Tracker) snapshotLocked() Snapshot {
	stages := make([]domain.Stage, len(t.stages))
	copy(stages, t.stages)
	return Snapshot{
		Version:    t.version,
		RunID:      t.runID,
		Source:     t.source,
		Identifier: t.identifier,
		Stages:     stages,
	}
}

// publish hands snap to the observers unless a newer snapshot already went out.
func (t *Tracker) publish(snap Snapshot) {
	t.pubMu.Lock()
	defer t.pubMu.Unlock()
	if snap.Version <= t.published {
		return
	}
	t.published = snap.Version
	for _, o := range t.observers {
		o(snap)
	}
}
