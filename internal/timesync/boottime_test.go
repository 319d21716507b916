package timesync

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeStat(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "stat"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return root
}

func TestBootTime(t *testing.T) {
	root := writeStat(t, "cpu  1 2 3 4\nintr 5\nbtime 1000000000\nprocesses 42\n")

	got, err := BootTime(root)
	if err != nil {
		t.Fatalf("BootTime() error = %v", err)
	}
	if want := time.Unix(1000000000, 0); !got.Equal(want) {
		t.Errorf("BootTime() = %v, want %v", got, want)
	}
}

func TestBootTime_Errors(t *testing.T) {
	tests := []struct {
		name string
		root string
	}{
		{name: "missing file", root: t.TempDir()},
		{name: "no btime", root: writeStat(t, "cpu  1 2 3 4\n")},
		{name: "bad btime", root: writeStat(t, "btime soon\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BootTime(tt.root); err == nil {
				t.Error("BootTime() expected error")
			}
		})
	}
}

func TestBootTimeOr(t *testing.T) {
	fallback := time.Unix(42, 0)

	if got := BootTimeOr(t.TempDir(), fallback); !got.Equal(fallback) {
		t.Errorf("BootTimeOr() = %v, want fallback %v", got, fallback)
	}

	root := writeStat(t, "btime 1700000000\n")
	if got := BootTimeOr(root, fallback); !got.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("BootTimeOr() = %v, want btime", got)
	}
}

func TestBootTime_Host(t *testing.T) {
	bootTime, err := BootTime("/proc")
	if err != nil {
		t.Skipf("host /proc/stat unavailable: %v", err)
	}
	if bootTime.After(time.Now()) {
		t.Error("BootTime() is in the future")
	}
}
