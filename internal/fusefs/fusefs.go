// Package fusefs binds statusfs onto the kernel through bazil.org/fuse.
//
// Nodes carry only their path. Every kernel request is forwarded to the
// matching statusfs operation and its error mapped through fserrors.Errno.
package fusefs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"golang.org/x/sys/unix"

	"github.com/mrzor/procstatfs/internal/fserrors"
	"github.com/mrzor/procstatfs/internal/procdir"
	"github.com/mrzor/procstatfs/internal/statusfs"
)

// attrValid bounds how long the kernel caches attributes and lookups.
// Status content changes constantly and processes come and go.
const attrValid = time.Second

// FS is the bazil filesystem root.
type FS struct {
	core *statusfs.FS
	uid  uint32
	gid  uint32
}

var _ fs.FS = (*FS)(nil)

// New wraps core. Entries are owned by the mounting user.
func New(core *statusfs.FS) *FS {
	return &FS{
		core: core,
		uid:  uint32(unix.Getuid()), //nolint:gosec // uid fits in uint32
		gid:  uint32(unix.Getgid()), //nolint:gosec // gid fits in uint32
	}
}

// Root returns the root directory node.
func (f *FS) Root() (fs.Node, error) {
	return &Dir{fs: f}, nil
}

func (f *FS) fill(a *fuse.Attr, attr statusfs.Attr) {
	a.Valid = attrValid
	a.Inode = attr.Inode
	a.Mode = attr.Mode
	a.Nlink = attr.Nlink
	a.Size = uint64(attr.Size)     //nolint:gosec // sizes are never negative
	a.Blocks = uint64(attr.Blocks) //nolint:gosec // block counts are never negative
	a.Atime = attr.Mtime
	a.Mtime = attr.Mtime
	a.Ctime = attr.Mtime
	a.Uid = f.uid
	a.Gid = f.gid
}

// errno converts a statusfs error into the value bazil reports to the kernel.
func errno(err error) error {
	if err == nil {
		return nil
	}
	return fuse.Errno(fserrors.Errno(err))
}

// Dir is the root directory.
type Dir struct {
	fs *FS
}

var (
	_ fs.Node                = (*Dir)(nil)
	_ fs.NodeRequestLookuper = (*Dir)(nil)
	_ fs.HandleReadDirAller  = (*Dir)(nil)
)

// Attr implements fs.Node.
func (d *Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	attr, err := d.fs.core.Getattr(ctx, procdir.RootPath)
	if err != nil {
		return errno(err)
	}
	d.fs.fill(a, attr)
	return nil
}

// Lookup implements fs.NodeRequestLookuper. The attributes it resolves are
// handed to the Attr call bazil makes right after, so a lookup reads the
// status record once.
func (d *Dir) Lookup(ctx context.Context, req *fuse.LookupRequest, resp *fuse.LookupResponse) (fs.Node, error) {
	path := procdir.RootPath + req.Name
	attr, err := d.fs.core.Getattr(ctx, path)
	if err != nil {
		return nil, errno(err)
	}
	resp.EntryValid = attrValid
	d.fs.fill(&resp.Attr, attr)

	file := &File{fs: d.fs, path: path}
	file.looked.Store(&attr)
	return file, nil
}

// ReadDirAll implements fs.HandleReadDirAller.
func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	entries, err := d.fs.core.Readdir(ctx, procdir.RootPath)
	if err != nil {
		return nil, errno(err)
	}

	dirents := make([]fuse.Dirent, len(entries))
	for i, e := range entries {
		typ := fuse.DT_File
		if e.IsDir {
			typ = fuse.DT_Dir
		}
		dirents[i] = fuse.Dirent{Inode: e.Inode, Type: typ, Name: e.Name}
	}
	return dirents, nil
}

// File is a per-process status file. It doubles as its own handle since
// reads re-resolve the path.
type File struct {
	fs   *FS
	path string

	// looked holds the attributes resolved by Lookup until the first Attr.
	looked atomic.Pointer[statusfs.Attr]
}

var (
	_ fs.Node         = (*File)(nil)
	_ fs.NodeOpener   = (*File)(nil)
	_ fs.HandleReader = (*File)(nil)
)

// Attr implements fs.Node.
func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	if attr := f.looked.Swap(nil); attr != nil {
		f.fs.fill(a, *attr)
		return nil
	}

	attr, err := f.fs.core.Getattr(ctx, f.path)
	if err != nil {
		return errno(err)
	}
	f.fs.fill(a, attr)
	return nil
}

// Open implements fs.NodeOpener. Content size is not known ahead of the
// read, so the kernel page cache is bypassed.
func (f *File) Open(ctx context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fs.Handle, error) {
	if err := f.fs.core.Open(ctx, f.path, statusfs.AccessFromFlags(int(req.Flags))); err != nil {
		return nil, errno(err)
	}
	resp.Flags |= fuse.OpenDirectIO
	return f, nil
}

// Read implements fs.HandleReader.
func (f *File) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	data, err := f.fs.core.Read(ctx, f.path, req.Offset, req.Size)
	if err != nil {
		return errno(err)
	}
	resp.Data = data
	return nil
}

// String identifies the node in FUSE debug output.
func (f *File) String() string {
	return fmt.Sprintf("File(%s)", f.path)
}
