package statusfs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mrzor/procstatfs/internal/attributes"
	"github.com/mrzor/procstatfs/internal/fserrors"
	"github.com/mrzor/procstatfs/internal/procdir"
	"github.com/mrzor/procstatfs/internal/status"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sys/unix"
)

// RootInode is the inode number of the mount's root directory.
const RootInode = 1

const (
	rootMode = os.ModeDir | 0o555
	fileMode = 0o444
)

// Access is the access mode requested by an open call.
type Access int

const (
	// ReadOnly is O_RDONLY.
	ReadOnly Access = iota
	// WriteOnly is O_WRONLY.
	WriteOnly
	// ReadWrite is O_RDWR.
	ReadWrite
)

// AccessFromFlags extracts the access mode from open(2) flags.
func AccessFromFlags(flags int) Access {
	switch flags & unix.O_ACCMODE {
	case unix.O_RDONLY:
		return ReadOnly
	case unix.O_WRONLY:
		return WriteOnly
	default:
		return ReadWrite
	}
}

// Attr describes an entry as reported by Getattr.
type Attr struct {
	Inode  uint64
	Mode   os.FileMode
	Nlink  uint32
	Size   int64
	Blocks int64
	Mtime  time.Time
}

// IsDir reports whether the entry is a directory.
func (a Attr) IsDir() bool {
	return a.Mode.IsDir()
}

// DirEntry is one name returned by Readdir.
type DirEntry struct {
	Name  string
	Inode uint64
	IsDir bool
}

// Options configures an FS. Zero values select no-op tracing, slog.Default(),
// the current time as boot time, and time.Now.
type Options struct {
	Tracer     trace.Tracer
	Attributes *attributes.Evaluator
	Logger     *slog.Logger
	BootTime   time.Time
	Now        func() time.Time
}

// FS answers getattr, readdir, open and read for the process namespace.
type FS struct {
	dir      *procdir.Directory
	status   *status.Accessor
	tracer   trace.Tracer
	attrs    *attributes.Evaluator
	log      *slog.Logger
	bootTime time.Time
	now      func() time.Time
}

// New creates an FS over the given snapshot directory and status accessor.
func New(dir *procdir.Directory, accessor *status.Accessor, opts Options) *FS {
	f := &FS{
		dir:      dir,
		status:   accessor,
		tracer:   opts.Tracer,
		attrs:    opts.Attributes,
		log:      opts.Logger,
		bootTime: opts.BootTime,
		now:      opts.Now,
	}
	if f.tracer == nil {
		f.tracer = noop.NewTracerProvider().Tracer("")
	}
	if f.log == nil {
		f.log = slog.Default()
	}
	if f.now == nil {
		f.now = time.Now
	}
	if f.bootTime.IsZero() {
		f.bootTime = f.now()
	}
	return f
}

// Getattr reports the attributes of path.
func (f *FS) Getattr(ctx context.Context, path string) (attr Attr, err error) {
	op := &attributes.Operation{Op: "getattr", Path: path}
	ctx, span := f.start(ctx, op)
	defer func() { f.end(span, op, err) }()

	c := f.dir.Classify(path)
	switch c.Kind {
	case procdir.Root:
		return f.rootAttr(), nil
	case procdir.Process:
		op.PID = string(c.ID)
		size := f.status.Size(ctx, c.ID)
		op.Size = size
		return Attr{
			Inode:  c.ID.Inode(),
			Mode:   fileMode,
			Nlink:  1,
			Size:   size,
			Blocks: status.Blocks(size),
			Mtime:  f.now(),
		}, nil
	default:
		return Attr{}, fmt.Errorf("getattr %s: %w", path, fserrors.ErrNotFound)
	}
}

// Readdir refreshes the process snapshot and lists the root directory:
// ".", "..", then one entry per process in enumeration order.
func (f *FS) Readdir(ctx context.Context, path string) (entries []DirEntry, err error) {
	op := &attributes.Operation{Op: "readdir", Path: path}
	ctx, span := f.start(ctx, op)
	defer func() { f.end(span, op, err) }()

	if path != procdir.RootPath {
		return nil, fmt.Errorf("readdir %s: %w", path, fserrors.ErrNotFound)
	}

	snapshot, err := f.dir.Refresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("readdir %s: %w", path, err)
	}

	entries = make([]DirEntry, 0, snapshot.Len()+2)
	entries = append(entries,
		DirEntry{Name: ".", Inode: RootInode, IsDir: true},
		DirEntry{Name: "..", Inode: RootInode, IsDir: true},
	)
	for _, id := range snapshot.IDs() {
		entries = append(entries, DirEntry{Name: string(id), Inode: id.Inode()})
	}
	op.Size = int64(snapshot.Len())
	span.SetAttributes(attribute.Int("fs.entries", snapshot.Len()))

	return entries, nil
}

// Open checks that path is a process entry and access is read-only.
// Nothing is retained; Read resolves the path again.
func (f *FS) Open(ctx context.Context, path string, access Access) (err error) {
	op := &attributes.Operation{Op: "open", Path: path}
	ctx, span := f.start(ctx, op)
	defer func() { f.end(span, op, err) }()

	snapshot, ok := f.dir.Current()
	if !ok {
		if snapshot, err = f.dir.Refresh(ctx); err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
	}

	c := procdir.Classify(path, snapshot)
	if c.Kind != procdir.Process {
		return fmt.Errorf("open %s: %w", path, fserrors.ErrNotFound)
	}
	op.PID = string(c.ID)

	if access != ReadOnly {
		return fmt.Errorf("open %s for writing: %w", path, fserrors.ErrPermissionDenied)
	}
	return nil
}

// Read returns up to size bytes of the status record behind path, starting
// at offset. Fewer bytes are returned at the end of the record.
func (f *FS) Read(ctx context.Context, path string, offset int64, size int) (data []byte, err error) {
	op := &attributes.Operation{Op: "read", Path: path, Offset: offset, Size: int64(size)}
	ctx, span := f.start(ctx, op)
	defer func() { f.end(span, op, err) }()

	c := f.dir.Classify(path)
	if c.Kind != procdir.Process {
		return nil, fmt.Errorf("read %s: %w", path, fserrors.ErrNotFound)
	}
	op.PID = string(c.ID)

	data, err = f.status.ReadWindow(ctx, c.ID, offset, size)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	span.SetAttributes(attribute.Int("fs.bytes", len(data)))
	return data, nil
}

func (f *FS) rootAttr() Attr {
	return Attr{
		Inode: RootInode,
		Mode:  rootMode,
		Nlink: 2,
		Mtime: f.bootTime,
	}
}

func (f *FS) start(ctx context.Context, op *attributes.Operation) (context.Context, trace.Span) {
	return f.tracer.Start(ctx, "procstatfs."+op.Op,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("fs.op", op.Op),
			attribute.String("fs.path", op.Path),
		),
	)
}

// end finishes the span of op. Expected outcomes (not found, permission
// denied) are recorded on the span only; anything else is logged.
func (f *FS) end(span trace.Span, op *attributes.Operation, err error) {
	defer span.End()

	if op.PID != "" {
		span.SetAttributes(attribute.String("process.pid", op.PID))
	}
	span.SetAttributes(f.attrs.Evaluate(op)...)

	if err == nil {
		f.log.Debug("fs operation", "op", op.Op, "path", op.Path)
		return
	}

	errno := fserrors.Errno(err)
	span.SetAttributes(attribute.String("fs.errno", errno.Error()))
	if fserrors.Expected(err) {
		f.log.Debug("fs operation rejected", "op", op.Op, "path", op.Path, "error", err)
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	f.log.Warn("fs operation failed", "op", op.Op, "path", op.Path, "errno", errno.Error(), "error", err)
}
