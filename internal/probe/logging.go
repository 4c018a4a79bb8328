package probe

import (
	"context"
	"log/slog"
	"time"

	"github.com/waabox/ingestwatch/internal/domain"
)

// LoggingProber wraps a StageProber and logs every check it performs.
type LoggingProber struct {
	inner  domain.StageProber
	logger *slog.Logger
}

// Ensure LoggingProber implements StageProber.
var _ domain.StageProber = (*LoggingProber)(nil)

// NewLoggingProber creates a LoggingProber around inner.
func NewLoggingProber(inner domain.StageProber, logger *slog.Logger) *LoggingProber {
	return &LoggingProber{inner: inner, logger: logger}
}

func (lp *LoggingProber) Probe(ctx context.Context, key domain.StageKey, identifier string) (domain.ProbeResult, error) {
	lp.logger.Debug("stage check started", "stage", string(key), "identifier", identifier)
	start := time.Now()
	result, err := lp.inner.Probe(ctx, key, identifier)
	elapsed := time.Since(start)
	if err != nil {
		lp.logger.Warn("stage check failed",
			"stage", string(key),
			"identifier", identifier,
			"duration", elapsed,
			"error", err,
		)
		return result, err
	}
	attrs := []any{
		"stage", string(key),
		"complete", result.Complete,
		"duration", elapsed,
	}
	if result.Identifier != "" {
		attrs = append(attrs, "derived_identifier", result.Identifier)
	}
	lp.logger.Debug("stage check finished", attrs...)
	return result, nil
}
