// Package procsource reads the host process table exposed under /proc.
package procsource

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultRoot is the process-table root on Linux hosts.
const DefaultRoot = "/proc"

// Entry is one name found under the process-table root.
type Entry struct {
	Name  string
	IsDir bool
}

// Source is the process-table collaborator consumed by the filesystem core.
type Source interface {
	// Entries enumerates the process-table root in host order.
	Entries(ctx context.Context) ([]Entry, error)
	// OpenStatus opens <root>/<id>/status for reading.
	OpenStatus(ctx context.Context, id string) (io.ReadCloser, error)
}

// Procfs is a Source backed by a directory laid out like /proc.
type Procfs struct {
	root string
}

// NewProcfs creates a Source rooted at root. An empty root means DefaultRoot.
func NewProcfs(root string) *Procfs {
	if root == "" {
		root = DefaultRoot
	}
	return &Procfs{root: root}
}

// Root returns the process-table root directory.
func (p *Procfs) Root() string {
	return p.root
}

// Entries lists the root directory without sorting, so the order matches
// what the host returned.
func (p *Procfs) Entries(_ context.Context) ([]Entry, error) {
	dir, err := os.Open(p.root)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", p.root, err)
	}
	defer func() {
		_ = dir.Close() //nolint:errcheck // Read-only directory, defer cleanup
	}()

	dirents, err := dir.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p.root, err)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		entries = append(entries, Entry{Name: d.Name(), IsDir: d.IsDir()})
	}
	return entries, nil
}

// OpenStatus opens the status record of process id.
func (p *Procfs) OpenStatus(_ context.Context, id string) (io.ReadCloser, error) {
	return os.Open(p.StatusPath(id))
}

// StatusPath returns the path of the status record of process id.
func (p *Procfs) StatusPath(id string) string {
	return filepath.Join(p.root, id, "status")
}
