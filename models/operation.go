package models

import "time"

// Operation types. A SyncOperation records exactly one local mutation kind.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// Operation lifecycle statuses. Transitions are owned exclusively by the
// sync engine: pending → in-flight → completed, with in-flight falling back
// to pending (requeue after a resolved conflict) or failed (retries exhausted).
const (
	OperationPending   = "pending"
	OperationInFlight  = "in-flight"
	OperationCompleted = "completed"
	OperationFailed    = "failed"
)

// SyncOperation is a pending local mutation awaiting remote acknowledgment.
// Operations are created while the device is offline (or optimistically while
// online), persisted in the local store, and drained by the sync engine in
// ascending Timestamp order to preserve local causal intent.
type SyncOperation struct {
	// ID uniquely identifies the operation. Assigned by the queue
	// (UUIDv7) when the caller leaves it empty.
	ID string `json:"id"`

	// Type is one of OperationCreate, OperationUpdate, OperationDelete.
	Type string `json:"type"`

	// TableName names the logical table the mutation applies to.
	TableName string `json:"table_name"`

	// RecordID identifies the mutated record within TableName.
	RecordID string `json:"record_id"`

	// Data carries the field values of the mutation. Empty for deletes.
	Data map[string]any `json:"data,omitempty"`

	// Timestamp is the local wall-clock time of the mutation.
	Timestamp time.Time `json:"timestamp"`

	// Status is the current lifecycle state of the operation.
	Status string `json:"status"`

	// RetryCount is the number of failed remote-apply attempts so far.
	RetryCount int `json:"retry_count"`
}

func ValidOperationType(t string) bool {
	switch t {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	}
	return false
}
