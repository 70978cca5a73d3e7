package models

// Progress stages form a fixed, closed set shared by the chunk transfer and
// migration paths, so the same contract can back a callback, a channel, or a
// polled status object.
const (
	StagePreparing  = "preparing"
	StageExporting  = "exporting"
	StageImporting  = "importing"
	StageValidating = "validating"
	StageComplete   = "complete"
	StageError      = "error"
)

// Progress is one progress update. Processed/Total count the stage's work
// units (keys for migration, chunks for transfer); Detail optionally names
// the current unit.
type Progress struct {
	Stage     string `json:"stage"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
	Detail    string `json:"detail,omitempty"`
}

// ProgressFunc receives progress updates. Implementations must be fast and
// must not call back into the reporting component.
type ProgressFunc func(Progress)
