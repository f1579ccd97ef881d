package reconcile

// Result is the reconciliation output for one key.
type Result struct {
	// Key identifies the entity in both sources.
	Key string `json:"key"`

	// LivePresent indicates whether the entity exists in the live source.
	LivePresent bool `json:"live_present"`

	// SnapshotPresent indicates whether the entity exists in the snapshot.
	SnapshotPresent bool `json:"snapshot_present"`

	// Mismatch describes differing fields, e.g. "stock_quantity: snapshot=4 live=3".
	Mismatch []string `json:"mismatch"`
}

// Status classifies the result.
func (r Result) Status() string {
	switch {
	case !r.SnapshotPresent:
		return StatusMissingSnapshot
	case !r.LivePresent:
		return StatusStale
	case len(r.Mismatch) > 0:
		return StatusMismatch
	default:
		return StatusOK
	}
}

// Result statuses.
const (
	StatusOK              = "ok"
	StatusMissingSnapshot = "missing_in_snapshot"
	StatusStale           = "stale_in_snapshot"
	StatusMismatch        = "mismatch"
)

// Summary counts results by status.
type Summary struct {
	Total           int `json:"total"`
	Matched         int `json:"matched"`
	MissingSnapshot int `json:"missing_in_snapshot"`
	Stale           int `json:"stale_in_snapshot"`
	Mismatched      int `json:"mismatched"`
}

// InSync reports whether every key matched.
func (s Summary) InSync() bool {
	return s.Total == s.Matched
}

// Report is the outcome of a reconciliation.
type Report struct {
	Summary Summary `json:"summary"`

	// Drifted holds every result whose status is not ok, sorted by key.
	Drifted []Result `json:"drifted"`
}
