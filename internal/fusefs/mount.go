package fusefs

import (
	"fmt"
	"log/slog"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
)

// MountOptions configures Mount.
type MountOptions struct {
	FSName     string
	AllowOther bool
}

// Mount mounts the filesystem at mountpoint. The mount itself is left
// writable so that write opens reach File.Open and fail with EACCES rather
// than being refused by the kernel with EROFS.
func Mount(mountpoint string, opts MountOptions) (*fuse.Conn, error) {
	options := []fuse.MountOption{
		fuse.FSName(opts.FSName),
		fuse.Subtype("procstatfs"),
	}
	if opts.AllowOther {
		options = append(options, fuse.AllowOther())
	}

	conn, err := fuse.Mount(mountpoint, options...)
	if err != nil {
		return nil, fmt.Errorf("mounting %s: %w", mountpoint, err)
	}
	return conn, nil
}

// Serve answers kernel requests on conn until the filesystem is unmounted.
func Serve(conn *fuse.Conn, filesys *FS, debug bool) error {
	cfg := &fs.Config{}
	if debug {
		cfg.Debug = func(msg interface{}) {
			slog.Debug("fuse", "msg", fmt.Sprint(msg))
		}
	}

	if err := fs.New(conn, cfg).Serve(filesys); err != nil {
		return fmt.Errorf("serving fuse requests: %w", err)
	}
	return nil
}

// Unmount detaches the filesystem at mountpoint.
func Unmount(mountpoint string) error {
	if err := fuse.Unmount(mountpoint); err != nil {
		return fmt.Errorf("unmounting %s: %w", mountpoint, err)
	}
	return nil
}
