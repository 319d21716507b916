// Package statusfs implements the four filesystem operations of a read-only
// mount that lists running processes and serves their status records.
//
// Namespace:
//
//	/          directory, one entry per process identifier
//	/<pid>     regular file, content of <proc-root>/<pid>/status
//
// Readdir refreshes the process snapshot. Getattr and Read classify paths
// against the snapshot of the last listing; Open refreshes once if no listing
// has happened yet. No handle state exists: every Read re-resolves its path
// and re-reads the record, so a process that exits between Open and Read
// surfaces as fserrors.ErrIO.
//
// Every operation runs inside an OpenTelemetry span named procstatfs.<op>.
package statusfs
