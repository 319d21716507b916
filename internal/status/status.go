// Package status reads per-process status records and windows their content
// into the byte ranges requested by the filesystem.
//
// Records are small line-oriented text, so every call reads the whole record
// into a buffer sized at read time. Nothing is cached between calls.
package status

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mrzor/procstatfs/internal/fserrors"
	"github.com/mrzor/procstatfs/internal/procdir"
	"github.com/mrzor/procstatfs/internal/procsource"
)

// BlockSize is the unit of the block count reported for status files.
const BlockSize = 1024

// DefaultMaxSize bounds a single status record.
const DefaultMaxSize = 1 << 20

// Accessor resolves and reads status records through a procsource.Source.
type Accessor struct {
	source  procsource.Source
	maxSize int64
	log     *slog.Logger
}

// NewAccessor creates an Accessor. A non-positive maxSize selects
// DefaultMaxSize; a nil logger selects slog.Default().
func NewAccessor(source procsource.Source, maxSize int64, log *slog.Logger) *Accessor {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &Accessor{
		source:  source,
		maxSize: maxSize,
		log:     log,
	}
}

// Blocks returns ceil(size / BlockSize), and 0 for an empty record.
func Blocks(size int64) int64 {
	if size <= 0 {
		return 0
	}
	return (size + BlockSize - 1) / BlockSize
}

// Size returns the length of the status record of id.
// A record that cannot be read has size 0; the failure is logged, not returned,
// so attribute queries still succeed for processes that exited or are
// unreadable to the caller.
func (a *Accessor) Size(ctx context.Context, id procdir.ProcessID) int64 {
	data, err := a.load(ctx, id)
	if err != nil {
		if errors.Is(err, fserrors.ErrIO) {
			a.log.Debug("status record unreadable, reporting size 0", "pid", string(id), "error", err)
		} else {
			a.log.Warn("status record rejected, reporting size 0", "pid", string(id), "error", err)
		}
		return 0
	}
	return int64(len(data))
}

// ReadWindow returns content[offset : min(offset+maxLen, len(content))] of the
// status record of id. An offset at or past the end yields an empty slice and
// no error. Failing to open or read the record is an ErrIO, never an empty result.
func (a *Accessor) ReadWindow(ctx context.Context, id procdir.ProcessID, offset int64, maxLen int) ([]byte, error) {
	if offset < 0 || maxLen < 0 {
		return nil, fmt.Errorf("read window offset=%d len=%d: %w", offset, maxLen, fserrors.ErrInvalid)
	}

	data, err := a.load(ctx, id)
	if err != nil {
		return nil, err
	}

	size := int64(len(data))
	if offset >= size {
		return []byte{}, nil
	}

	end := size
	if int64(maxLen) < size-offset {
		end = offset + int64(maxLen)
	}
	return data[offset:end], nil
}

// load reads the whole status record of id.
func (a *Accessor) load(ctx context.Context, id procdir.ProcessID) ([]byte, error) {
	rc, err := a.source.OpenStatus(ctx, string(id))
	if err != nil {
		return nil, fmt.Errorf("opening status of %s: %w: %w", id, fserrors.ErrIO, err)
	}
	defer func() {
		_ = rc.Close() //nolint:errcheck // Read-only file, defer cleanup
	}()

	data, err := io.ReadAll(io.LimitReader(rc, a.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading status of %s: %w: %w", id, fserrors.ErrIO, err)
	}
	if int64(len(data)) > a.maxSize {
		return nil, fmt.Errorf("status of %s exceeds %d bytes: %w", id, a.maxSize, fserrors.ErrLimitExceeded)
	}
	return data, nil
}
