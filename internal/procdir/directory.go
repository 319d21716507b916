package procdir

import (
	"context"
	"fmt"
	"sync"

	"github.com/mrzor/procstatfs/internal/fserrors"
	"github.com/mrzor/procstatfs/internal/procsource"
)

// DefaultMaxIDLength bounds the length of a numeric process identifier.
// Linux PIDs fit in 7 digits; anything this long is not a PID.
const DefaultMaxIDLength = 32

// Directory owns the snapshot of the process table.
// It serializes refreshes and hands out consistent copies to readers.
type Directory struct {
	source      procsource.Source
	maxIDLength int

	refreshMu sync.Mutex // serializes Refresh calls

	mu        sync.RWMutex
	current   Snapshot
	refreshed bool
}

// NewDirectory creates a Directory over source. A non-positive maxIDLength
// selects DefaultMaxIDLength.
func NewDirectory(source procsource.Source, maxIDLength int) *Directory {
	if maxIDLength <= 0 {
		maxIDLength = DefaultMaxIDLength
	}
	return &Directory{
		source:      source,
		maxIDLength: maxIDLength,
	}
}

// Refresh enumerates the process table and replaces the retained snapshot (command).
// On failure the previous snapshot is left untouched.
func (d *Directory) Refresh(ctx context.Context) (Snapshot, error) {
	d.refreshMu.Lock()
	defer d.refreshMu.Unlock()

	entries, err := d.source.Entries(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("enumerating process table: %w: %w", fserrors.ErrIO, err)
	}

	ids := make([]ProcessID, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir {
			continue
		}
		if len(e.Name) > d.maxIDLength && isDigits(e.Name) {
			return Snapshot{}, fmt.Errorf("process identifier of %d bytes exceeds %d: %w",
				len(e.Name), d.maxIDLength, fserrors.ErrLimitExceeded)
		}
		id := ProcessID(e.Name)
		if !id.Valid() {
			continue
		}
		ids = append(ids, id)
	}

	snapshot := NewSnapshot(ids)

	d.mu.Lock()
	d.current = snapshot
	d.refreshed = true
	d.mu.Unlock()

	return snapshot, nil
}

// Current returns the last successfully refreshed snapshot (query).
// The boolean is false until the first successful Refresh, in which case
// the snapshot is empty.
func (d *Directory) Current() (Snapshot, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current, d.refreshed
}

// Classify classifies path against the current snapshot (query).
func (d *Directory) Classify(path string) Classification {
	snapshot, _ := d.Current()
	return Classify(path, snapshot)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
