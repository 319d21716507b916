// Package timesync reads the host boot time from the process table.
//
// The boot time is the "btime" line of <proc-root>/stat, in seconds since
// the epoch. The filesystem reports it as the root directory's timestamps.
package timesync
