package models

// SyncResult summarizes one sync cycle. A coalesced trigger (another cycle
// was already running) and an offline cycle both return a zero-work result
// without error; callers can tell the cases apart via the flags.
type SyncResult struct {
	// Coalesced is set when the trigger was ignored because a cycle was
	// already in progress.
	Coalesced bool `json:"coalesced"`

	// Offline is set when the connectivity check failed and nothing was
	// attempted.
	Offline bool `json:"offline"`

	// Completed lists operation ids acknowledged by the server.
	Completed []string `json:"completed,omitempty"`

	// Conflicted lists operation ids that hit a conflict, were resolved,
	// and were requeued with merged data.
	Conflicted []string `json:"conflicted,omitempty"`

	// Unresolved lists operation ids whose conflict resolution returned
	// manual; they stay pending until a value is supplied out of band.
	Unresolved []string `json:"unresolved,omitempty"`

	// Failed lists operations that exhausted their retries this cycle.
	Failed []FailedOperation `json:"failed,omitempty"`
}

// FailedOperation surfaces one permanently failed operation to the caller.
type FailedOperation struct {
	OperationID string `json:"operation_id"`
	Attempts    int    `json:"attempts"`
	Error       string `json:"error"`
}
