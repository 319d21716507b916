package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrHelp is returned by ParseArgs when -h or --help is given.
var ErrHelp = errors.New("help requested")

// CustomAttribute is a span attribute computed from an expression.
type CustomAttribute struct {
	Name       string
	Expression string
}

// Config holds the parsed command-line configuration
type Config struct {
	// Mountpoint is the directory the filesystem is mounted on
	Mountpoint string
	// AllowOther lets users other than the mounting user access the mount
	AllowOther bool
	// Debug enables debug logging and FUSE protocol tracing
	Debug bool
	// ShowVersion prints version information and exits
	ShowVersion bool
	// CustomAttributes are added to every operation span
	CustomAttributes []CustomAttribute
}

// Usage returns the help text for programName.
func Usage(programName string) string {
	return fmt.Sprintf(`Usage: %s [flags] MOUNTPOINT

Mounts a read-only filesystem listing running processes by PID. Each entry
reads as the process's /proc/<pid>/status.

Flags:
  --allow-other              allow other users to access the mount
  --debug                    log at debug level and trace FUSE requests
  -a, --attribute NAME=EXPR  add a span attribute computed from EXPR (repeatable)
  -v, --version              print version information and exit
  -h, --help                 print this help and exit

Example: %s -a 'fs.kind=pid == "" ? "dir" : "status"' /mnt/procs
`, programName, programName)
}

// ParseArgs parses command-line arguments and returns a Config.
// Expected format: program_name [flags] MOUNTPOINT
func ParseArgs(args []string) (*Config, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no arguments provided")
	}

	cfg := &Config{}
	var positional []string

	for i := 1; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-h", "--help":
			return nil, ErrHelp
		case "-v", "--version":
			cfg.ShowVersion = true
		case "--allow-other":
			cfg.AllowOther = true
		case "--debug":
			cfg.Debug = true
		case "-a", "--attribute":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%s requires a value", arg)
			}
			attr, err := parseAttribute(args[i+1])
			if err != nil {
				return nil, err
			}
			cfg.CustomAttributes = append(cfg.CustomAttributes, attr)
			i++ // skip the value
		case "--":
			positional = append(positional, args[i+1:]...)
			i = len(args)
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown flag %q", arg)
			}
			positional = append(positional, arg)
		}
	}

	if cfg.ShowVersion {
		return cfg, nil
	}

	switch len(positional) {
	case 0:
		return nil, fmt.Errorf("no mountpoint specified\n%s", Usage(args[0]))
	case 1:
		cfg.Mountpoint = positional[0]
	default:
		return nil, fmt.Errorf("expected one mountpoint, got %d: %s", len(positional), strings.Join(positional, " "))
	}

	return cfg, nil
}

// parseAttribute splits NAME=EXPR on the first '='.
func parseAttribute(raw string) (CustomAttribute, error) {
	name, expression, ok := strings.Cut(raw, "=")
	if !ok {
		return CustomAttribute{}, fmt.Errorf("invalid attribute format %q, expected NAME=EXPR", raw)
	}

	name = strings.TrimSpace(name)
	expression = strings.TrimSpace(expression)
	if name == "" {
		return CustomAttribute{}, fmt.Errorf("invalid attribute %q: name cannot be empty", raw)
	}
	if expression == "" {
		return CustomAttribute{}, fmt.Errorf("invalid attribute %q: expression cannot be empty", raw)
	}

	return CustomAttribute{Name: name, Expression: expression}, nil
}
