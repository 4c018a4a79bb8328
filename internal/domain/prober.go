package domain

import "context"

// ProbeResult is the verdict of a single stage check.
// Identifier is set only by a check that derives a new tracked identifier.
type ProbeResult struct {
	Complete   bool
	Identifier string
}

// StageProber is the port the sequencer uses to check a stage.
// Implementations must be read-only and safe to repeat. A failure to perform
// the check is returned as an error, never as an incomplete result.
type StageProber interface {
	Probe(ctx context.Context, key StageKey, identifier string) (ProbeResult, error)
}
