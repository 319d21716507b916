package timesync

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BootTime reads the system boot time from <procRoot>/stat.
func BootTime(procRoot string) (time.Time, error) {
	path := filepath.Join(procRoot, "stat")
	file, err := os.Open(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = file.Close() //nolint:errcheck // Read-only file, defer cleanup
	}()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "btime ") {
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				bootTimeSec, err := strconv.ParseInt(fields[1], 10, 64)
				if err != nil {
					return time.Time{}, fmt.Errorf("failed to parse btime: %w", err)
				}
				return time.Unix(bootTimeSec, 0), nil
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return time.Time{}, fmt.Errorf("error reading %s: %w", path, err)
	}

	return time.Time{}, fmt.Errorf("btime not found in %s", path)
}

// BootTimeOr returns the boot time, or fallback if it cannot be read.
func BootTimeOr(procRoot string, fallback time.Time) time.Time {
	bootTime, err := BootTime(procRoot)
	if err != nil {
		return fallback
	}
	return bootTime
}
