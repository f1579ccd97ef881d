// Package reconcile compares a live data source with its exported snapshot.
//
// Both sides are loaded into keyed indices concurrently; the union of keys is
// then walked once and each key is classified:
//
//   - ok: present on both sides with equal fields
//   - missing_in_snapshot: exported after the last snapshot
//   - stale_in_snapshot: deleted from the live source since the export
//   - mismatch: present on both sides with differing fields
//
// Callers provide a CompareFunc that lists differing fields; Field and Fields
// format them as "name: snapshot=X live=Y".
//
// # Usage
//
//	report, err := reconcile.Reconcile(ctx, liveLoader, snapshotLoader, compareRecords)
//	if err != nil {
//	    return err
//	}
//	if !report.Summary.InSync() {
//	    // re-export the snapshot
//	}
package reconcile
