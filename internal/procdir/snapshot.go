package procdir

import (
	"strconv"
	"strings"
)

// RootPath is the path of the mount's root directory.
const RootPath = "/"

// ProcessID is the directory name of a process under the process-table root.
type ProcessID string

// Valid reports whether id parses as a positive base-10 integer.
func (id ProcessID) Valid() bool {
	n, err := strconv.ParseUint(string(id), 10, 64)
	return err == nil && n > 0
}

// Inode returns a stable inode number for id. The root directory owns inode 1.
func (id ProcessID) Inode() uint64 {
	n, err := strconv.ParseUint(string(id), 10, 63)
	if err != nil {
		return 0
	}
	return n + 1
}

// Snapshot is the ordered set of process identifiers seen by one pass over
// the process table. The zero value is an empty snapshot.
type Snapshot struct {
	ids   []ProcessID
	index map[ProcessID]struct{}
}

// NewSnapshot builds a snapshot preserving the order of ids.
func NewSnapshot(ids []ProcessID) Snapshot {
	s := Snapshot{
		ids:   make([]ProcessID, len(ids)),
		index: make(map[ProcessID]struct{}, len(ids)),
	}
	copy(s.ids, ids)
	for _, id := range ids {
		s.index[id] = struct{}{}
	}
	return s
}

// IDs returns a copy of the identifiers in enumeration order.
func (s Snapshot) IDs() []ProcessID {
	out := make([]ProcessID, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of identifiers.
func (s Snapshot) Len() int {
	return len(s.ids)
}

// Contains reports whether id was enumerated.
func (s Snapshot) Contains(id ProcessID) bool {
	_, ok := s.index[id]
	return ok
}

// Kind is the outcome of classifying a path.
type Kind int

const (
	// Invalid paths resolve to nothing.
	Invalid Kind = iota
	// Root is the mount's root directory.
	Root
	// Process is a per-process status file.
	Process
)

func (k Kind) String() string {
	switch k {
	case Root:
		return "root"
	case Process:
		return "process"
	default:
		return "invalid"
	}
}

// Classification maps a path to the entry it denotes.
type Classification struct {
	Kind Kind
	ID   ProcessID // set only when Kind is Process
}

// Classify maps path onto the root, a process in snapshot, or nothing.
// Matching is exact after stripping the leading separator; paths without
// one are invalid.
func Classify(path string, snapshot Snapshot) Classification {
	if path == RootPath {
		return Classification{Kind: Root}
	}

	rest, ok := strings.CutPrefix(path, "/")
	if !ok {
		return Classification{Kind: Invalid}
	}
	if id := ProcessID(rest); snapshot.Contains(id) {
		return Classification{Kind: Process, ID: id}
	}
	return Classification{Kind: Invalid}
}
