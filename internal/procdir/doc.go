// Package procdir tracks the set of process identifiers visible under the
// process-table root and classifies filesystem paths against it.
//
// Directory provides command-query separation:
//
// Commands (mutations):
//   - Refresh(ctx) - Enumerate the process table and replace the snapshot
//
// Queries (read-only):
//   - Current() - The snapshot produced by the last successful Refresh
//   - Classify(path) - Root, Process(id) or Invalid against Current()
//
// A Snapshot is immutable once built; Refresh swaps it wholesale under a
// write lock, so concurrent queries always see one complete enumeration.
package procdir
