package models

import "time"

// Conflict kinds, keyed by which side changed and which side deleted.
const (
	ConflictUpdateUpdate = "update-update"
	ConflictUpdateDelete = "update-delete" // local updated, remote deleted
	ConflictDeleteUpdate = "delete-update" // local deleted, remote updated
)

// Conflict statuses.
const (
	ConflictPending  = "pending"
	ConflictResolved = "resolved"
)

// Resolution strategies. LatestWins ties (equal timestamps) resolve to the
// local value; that tie-break is a deliberate, tested default.
const (
	StrategyLocalWins  = "local-wins"
	StrategyRemoteWins = "remote-wins"
	StrategyLatestWins = "latest-wins"
	StrategyManual     = "manual"
	StrategyMerge      = "merge"
)

// Winning sides recorded in resolution provenance.
const (
	WinnerLocal  = "local"
	WinnerRemote = "remote"
	WinnerMerged = "merged"
	WinnerNone   = "none"
)

// ConflictData describes one detected divergence between a pending local
// value and the authoritative remote value for a single record field. It is
// created by the sync engine when a remote apply reports a conflict and is
// consumed, never mutated, by the conflict resolver.
type ConflictData struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	TableName string `json:"table_name"`
	RecordID  string `json:"record_id"`
	Field     string `json:"field"`

	LocalValue  any `json:"local_value"`
	RemoteValue any `json:"remote_value"`

	// AncestorValue is the common base both sides diverged from, when
	// known. HasAncestor distinguishes "no ancestor" from a nil ancestor.
	AncestorValue any  `json:"ancestor_value,omitempty"`
	HasAncestor   bool `json:"has_ancestor,omitempty"`

	LocalTimestamp  time.Time `json:"local_timestamp"`
	RemoteTimestamp time.Time `json:"remote_timestamp"`

	Status   string            `json:"status"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Resolution is the outcome of resolving one conflict. The resolver returns
// it by value; persisting the resolved value and requeuing the originating
// operation is the sync engine's responsibility.
type Resolution struct {
	// Resolved is false only for the manual strategy, which signals that
	// the caller must supply a value out of band.
	Resolved bool `json:"resolved"`

	// Value is the winning (possibly merged) value. Meaningless when
	// Resolved is false. A nil Value with Deleted set means the record
	// stays deleted.
	Value   any  `json:"value,omitempty"`
	Deleted bool `json:"deleted,omitempty"`

	// Strategy and Winner record resolution provenance for audit trails.
	Strategy string `json:"strategy"`
	Winner   string `json:"winner"`
}
