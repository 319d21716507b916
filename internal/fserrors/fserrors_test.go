package fserrors

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"golang.org/x/sys/unix"
)

func TestErrno(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want syscall.Errno
	}{
		{name: "nil", err: nil, want: 0},
		{name: "not found", err: ErrNotFound, want: unix.ENOENT},
		{name: "wrapped not found", err: fmt.Errorf("lookup %q: %w", "/x", ErrNotFound), want: unix.ENOENT},
		{name: "permission", err: ErrPermissionDenied, want: unix.EACCES},
		{name: "io", err: fmt.Errorf("open status: %w", ErrIO), want: unix.EIO},
		{name: "limit", err: ErrLimitExceeded, want: unix.EOVERFLOW},
		{name: "invalid", err: ErrInvalid, want: unix.EINVAL},
		{name: "unknown", err: errors.New("boom"), want: unix.EIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Errno(tt.err); got != tt.want {
				t.Errorf("Errno() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpected(t *testing.T) {
	if !Expected(fmt.Errorf("x: %w", ErrNotFound)) {
		t.Error("ErrNotFound should be expected")
	}
	if !Expected(ErrPermissionDenied) {
		t.Error("ErrPermissionDenied should be expected")
	}
	if Expected(ErrIO) {
		t.Error("ErrIO should not be expected")
	}
	if Expected(ErrLimitExceeded) {
		t.Error("ErrLimitExceeded should not be expected")
	}
}
