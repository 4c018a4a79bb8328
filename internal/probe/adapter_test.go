package probe_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waabox/ingestwatch/internal/domain"
	"github.com/waabox/ingestwatch/internal/probe"
)

// fakeBackend serves the healthcheck endpoints from in-memory state.
type fakeBackend struct {
	mu         sync.Mutex
	inputs     map[string]bool
	outputs    map[string]bool
	dataSource bool
	index      bool
	skillset   bool
	indexer    bool
	status     string
	names      []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{inputs: map[string]bool{}, outputs: map[string]bool{}}
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/api/healthcheck/blob":
		name := r.URL.Query().Get("name")
		f.names = append(f.names, name)
		json.NewEncoder(w).Encode(map[string]bool{
			"inputExists":  f.inputs[name],
			"outputExists": f.outputs[name],
		})
	case "/api/healthcheck/search/datasource":
		json.NewEncoder(w).Encode(map[string]bool{"dataSourceExists": f.dataSource})
	case "/api/healthcheck/search/index":
		json.NewEncoder(w).Encode(map[string]bool{"indexExists": f.index})
	case "/api/healthcheck/search/skillset":
		json.NewEncoder(w).Encode(map[string]bool{"skillsetExists": f.skillset})
	case "/api/healthcheck/search/indexer":
		json.NewEncoder(w).Encode(map[string]interface{}{
			"indexerExists": f.indexer,
			"indexerStatus": f.status,
		})
	default:
		http.NotFound(w, r)
	}
}

func newAdapter(t *testing.T, backend http.Handler) *probe.Adapter {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	return probe.NewAdapter(probe.NewClient(srv.URL+"/api", "", 0), nil)
}

func TestAdapter_UploadCompletesWithoutRequest(t *testing.T) {
	adapter := newAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	}))

	result, err := adapter.Probe(context.Background(), domain.StageUpload, "doc.pdf")
	require.NoError(t, err)
	assert.True(t, result.Complete)
	assert.Empty(t, result.Identifier)
}

func TestAdapter_StorageWriteIn_FollowsInputExists(t *testing.T) {
	backend := newFakeBackend()
	adapter := newAdapter(t, backend)

	result, err := adapter.Probe(context.Background(), domain.StageStorageWriteIn, "doc.pdf")
	require.NoError(t, err)
	assert.False(t, result.Complete)

	backend.mu.Lock()
	backend.inputs["doc.pdf"] = true
	backend.mu.Unlock()

	result, err = adapter.Probe(context.Background(), domain.StageStorageWriteIn, "doc.pdf")
	require.NoError(t, err)
	assert.True(t, result.Complete)
}

func TestAdapter_ProcessDerivesSearchableName(t *testing.T) {
	adapter := newAdapter(t, newFakeBackend())

	result, err := adapter.Probe(context.Background(), domain.StageProcess, "doc.pdf")
	require.NoError(t, err)
	assert.True(t, result.Complete)
	assert.Equal(t, "doc_searchable.pdf", result.Identifier)
}

func TestAdapter_StorageWriteOut_UsesGivenIdentifier(t *testing.T) {
	backend := newFakeBackend()
	backend.outputs["doc_searchable.pdf"] = true
	adapter := newAdapter(t, backend)

	result, err := adapter.Probe(context.Background(), domain.StageStorageWriteOut, "doc_searchable.pdf")
	require.NoError(t, err)
	assert.True(t, result.Complete)
	assert.Equal(t, []string{"doc_searchable.pdf"}, backend.names)
}

func TestAdapter_SearchResourcesFollowExistence(t *testing.T) {
	backend := newFakeBackend()
	backend.dataSource = true
	backend.skillset = true
	backend.indexer = true
	adapter := newAdapter(t, backend)

	cases := map[domain.StageKey]bool{
		domain.StageCreateDataSource: true,
		domain.StageCreateIndex:      false,
		domain.StageCreateSkillset:   true,
		domain.StageCreateIndexer:    true,
	}
	for key, want := range cases {
		result, err := adapter.Probe(context.Background(), key, "ignored")
		require.NoError(t, err, key)
		assert.Equal(t, want, result.Complete, key)
	}
}

func TestAdapter_IndexingComplete_RequiresExactSuccess(t *testing.T) {
	backend := newFakeBackend()
	backend.indexer = true
	adapter := newAdapter(t, backend)

	for status, want := range map[string]bool{
		"inProgress":     false,
		"success":        true,
		"Success":        false,
		"success ":       false,
		"partialsuccess": false,
	} {
		backend.mu.Lock()
		backend.status = status
		backend.mu.Unlock()

		result, err := adapter.Probe(context.Background(), domain.StageIndexingComplete, "")
		require.NoError(t, err)
		assert.Equal(t, want, result.Complete, "status %q", status)
	}
}

func TestAdapter_TransportErrorIsNotCompletion(t *testing.T) {
	adapter := newAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	result, err := adapter.Probe(context.Background(), domain.StageCreateIndex, "")
	require.ErrorIs(t, err, domain.ErrUnexpectedStatus)
	assert.False(t, result.Complete)
}

func TestAdapter_UnknownStage(t *testing.T) {
	adapter := newAdapter(t, newFakeBackend())

	_, err := adapter.Probe(context.Background(), domain.StageKey("make-coffee"), "")
	require.ErrorIs(t, err, domain.ErrUnknownStage)
}

func TestAdapter_RegistryOverrideReplacesOneKind(t *testing.T) {
	adapter := newAdapter(t, newFakeBackend())
	adapter.Registry().Register(domain.StageProcess, func(_ context.Context, id string) (domain.ProbeResult, error) {
		return domain.ProbeResult{Complete: true, Identifier: id + ".out"}, nil
	})

	result, err := adapter.Probe(context.Background(), domain.StageProcess, "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "doc.pdf.out", result.Identifier)
}
