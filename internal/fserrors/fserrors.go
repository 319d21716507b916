// Package fserrors defines the error taxonomy shared by the filesystem layers
// and its mapping onto kernel errno values.
package fserrors

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

var (
	// ErrNotFound means the path is neither the root nor a known process.
	ErrNotFound = errors.New("no such entry")
	// ErrPermissionDenied means write access was requested on a read-only entry.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrIO means a backing record that should exist could not be opened or read.
	ErrIO = errors.New("i/o failure")
	// ErrLimitExceeded means a defensive bound was violated.
	ErrLimitExceeded = errors.New("internal limit exceeded")
	// ErrInvalid means the caller passed an argument no operation accepts.
	ErrInvalid = errors.New("invalid argument")
)

// Errno maps an error onto the errno reported to the kernel.
// Errors outside the taxonomy are reported as EIO.
func Errno(err error) syscall.Errno {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrNotFound):
		return unix.ENOENT
	case errors.Is(err, ErrPermissionDenied):
		return unix.EACCES
	case errors.Is(err, ErrLimitExceeded):
		return unix.EOVERFLOW
	case errors.Is(err, ErrInvalid):
		return unix.EINVAL
	default:
		return unix.EIO
	}
}

// Expected reports whether err is a normal classification outcome that
// should not be logged as an anomaly.
func Expected(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrPermissionDenied)
}
