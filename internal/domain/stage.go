package domain

import "fmt"

// StageKey identifies one kind of stage in the ingestion workflow.
type StageKey string

const (
	StageUpload           StageKey = "upload"
	StageStorageWriteIn   StageKey = "storage-write-in"
	StageProcess          StageKey = "process"
	StageStorageWriteOut  StageKey = "storage-write-out"
	StageCreateDataSource StageKey = "create-datasource"
	StageCreateIndex      StageKey = "create-index"
	StageCreateSkillset   StageKey = "create-skillset"
	StageCreateIndexer    StageKey = "create-indexer"
	StageIndexingComplete StageKey = "indexing-complete"
)

// legacyKeys maps the stage keys used by the web client onto their current names.
var legacyKeys = map[string]StageKey{
	"save-storage":    StageStorageWriteIn,
	"di-process":      StageProcess,
	"save-storage-di": StageStorageWriteOut,
}

// AllStageKeys returns every known stage key in pipeline order.
func AllStageKeys() []StageKey {
	return []StageKey{
		StageUpload,
		StageStorageWriteIn,
		StageProcess,
		StageStorageWriteOut,
		StageCreateDataSource,
		StageCreateIndex,
		StageCreateSkillset,
		StageCreateIndexer,
		StageIndexingComplete,
	}
}

// ParseStageKey resolves a raw key, including legacy web client keys.
// Returns an error wrapping ErrUnknownStage for anything else.
func ParseStageKey(raw string) (StageKey, error) {
	if k, ok := legacyKeys[raw]; ok {
		return k, nil
	}
	for _, k := range AllStageKeys() {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("stage key %q: %w", raw, ErrUnknownStage)
}

// StageStatus is the three-valued state of a stage. There is no in-progress state.
type StageStatus string

const (
	StatusPending  StageStatus = "pending"
	StatusComplete StageStatus = "complete"
	StatusFailed   StageStatus = "failed"
)

// Terminal reports whether the status can no longer change within a run.
func (s StageStatus) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// Stage is one tracked unit of the ingestion workflow.
type Stage struct {
	Key         StageKey
	DisplayName string
	Status      StageStatus
	Percent     int
}

// NewStage creates a Pending stage.
func NewStage(key StageKey, displayName string) Stage {
	return Stage{Key: key, DisplayName: displayName, Status: StatusPending}
}

// WithStatus returns a copy of the stage with the given status and its derived percent.
func (s Stage) WithStatus(status StageStatus) Stage {
	s.Status = status
	s.Percent = PercentFor(status)
	return s
}

// PercentFor derives a stage's percent from its status.
func PercentFor(status StageStatus) int {
	if status == StatusComplete {
		return 100
	}
	return 0
}

// DefaultStages returns the nine ingestion stages in pipeline order, all Pending.
func DefaultStages() []Stage {
	return []Stage{
		NewStage(StageUpload, "1. Upload"),
		NewStage(StageStorageWriteIn, "2. Storage write"),
		NewStage(StageProcess, "3. Document processing"),
		NewStage(StageStorageWriteOut, "4. Processed output write"),
		NewStage(StageCreateDataSource, "5. Create data source"),
		NewStage(StageCreateIndex, "6. Create index"),
		NewStage(StageCreateSkillset, "7. Create skillset"),
		NewStage(StageCreateIndexer, "8. Create indexer"),
		NewStage(StageIndexingComplete, "9. Indexing complete"),
	}
}

// ResetStages returns a copy of stages with every status set back to Pending.
func ResetStages(stages []Stage) []Stage {
	out := make([]Stage, len(stages))
	for i, s := range stages {
		out[i] = s.WithStatus(StatusPending)
	}
	return out
}
