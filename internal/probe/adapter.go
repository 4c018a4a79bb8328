package probe

import (
	"context"

	"github.com/waabox/ingestwatch/internal/domain"
)

// indexerSuccess is the indexer run status that marks indexing as finished.
const indexerSuccess = "success"

// Adapter implements domain.StageProber on top of the healthcheck client.
type Adapter struct {
	registry *Registry
}

// Ensure Adapter implements StageProber.
var _ domain.StageProber = (*Adapter)(nil)

// NewAdapter creates an adapter with a check registered for every known stage kind.
// renamer derives the processed output name; pass nil for DefaultRenamer.
func NewAdapter(client *Client, renamer Renamer) *Adapter {
	if renamer == nil {
		renamer = DefaultRenamer()
	}
	r := NewRegistry()

	// The tracked identifier only exists once the upload has been accepted.
	r.Register(domain.StageUpload, immediate)
	r.Register(domain.StageStorageWriteIn, func(ctx context.Context, id string) (domain.ProbeResult, error) {
		blob, err := client.Blob(ctx, id)
		return domain.ProbeResult{Complete: blob.InputExists}, err
	})
	// Processing has no status endpoint; the output name is derived instead.
	r.Register(domain.StageProcess, func(_ context.Context, id string) (domain.ProbeResult, error) {
		return domain.ProbeResult{Complete: true, Identifier: renamer.Rename(id)}, nil
	})
	r.Register(domain.StageStorageWriteOut, func(ctx context.Context, id string) (domain.ProbeResult, error) {
		blob, err := client.Blob(ctx, id)
		return domain.ProbeResult{Complete: blob.OutputExists}, err
	})
	r.Register(domain.StageCreateDataSource, existence(client.DataSourceExists))
	r.Register(domain.StageCreateIndex, existence(client.IndexExists))
	r.Register(domain.StageCreateSkillset, existence(client.SkillsetExists))
	r.Register(domain.StageCreateIndexer, func(ctx context.Context, _ string) (domain.ProbeResult, error) {
		idx, err := client.Indexer(ctx)
		return domain.ProbeResult{Complete: idx.Exists}, err
	})
	r.Register(domain.StageIndexingComplete, func(ctx context.Context, _ string) (domain.ProbeResult, error) {
		idx, err := client.Indexer(ctx)
		return domain.ProbeResult{Complete: idx.Status == indexerSuccess}, err
	})
	return &Adapter{registry: r}
}

// Registry exposes the adapter's checks so a single stage kind can be replaced.
func (a *Adapter) Registry() *Registry {
	return a.registry
}

// Probe runs the check registered for key.
func (a *Adapter) Probe(ctx context.Context, key domain.StageKey, identifier string) (domain.ProbeResult, error) {
	check, err := a.registry.Lookup(key)
	if err != nil {
		return domain.ProbeResult{}, err
	}
	result, err := check(ctx, identifier)
	if err != nil {
		return domain.ProbeResult{}, err
	}
	return result, nil
}

func immediate(_ context.Context, _ string) (domain.ProbeResult, error) {
	return domain.ProbeResult{Complete: true}, nil
}

func existence(fn func(ctx context.Context) (bool, error)) Check {
	return func(ctx context.Context, _ string) (domain.ProbeResult, error) {
		ok, err := fn(ctx)
		return domain.ProbeResult{Complete: ok}, err
	}
}
