// procstatfs mounts a read-only FUSE filesystem that lists running processes
// by PID and serves each process's /proc/<pid>/status as a flat file.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrzor/procstatfs/internal/attributes"
	"github.com/mrzor/procstatfs/internal/config"
	"github.com/mrzor/procstatfs/internal/fusefs"
	"github.com/mrzor/procstatfs/internal/otel"
	"github.com/mrzor/procstatfs/internal/procdir"
	"github.com/mrzor/procstatfs/internal/procsource"
	"github.com/mrzor/procstatfs/internal/status"
	"github.com/mrzor/procstatfs/internal/statusfs"
	"github.com/mrzor/procstatfs/internal/timesync"

	"go.opentelemetry.io/otel/trace"
)

// Version information injected by GoReleaser at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, config.ErrHelp) {
			fmt.Fprint(os.Stderr, config.Usage(os.Args[0]))
			os.Exit(0)
		}
		slog.Error("procstatfs failed", "error", err)
		os.Exit(1)
	}
}

// setupLogger installs the default slog logger on stderr.
func setupLogger(fsCfg *config.FSConfig, debug bool) error {
	level, err := fsCfg.Level()
	if err != nil {
		return err
	}
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// setupOTEL initializes the tracer and returns it with a cleanup function.
func setupOTEL(versionInfo string) (trace.Tracer, func(), error) {
	otelCfg, err := config.ParseOTELConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse OTEL config: %w", err)
	}

	tracer, tp, err := otel.NewTracer(otelCfg, versionInfo)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize OTEL provider: %w", err)
	}

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otel.ShutdownProvider(shutdownCtx, tp); err != nil {
			slog.Warn("error shutting down OTEL provider", "error", err)
		}
	}

	return tracer, cleanup, nil
}

// setupFS wires the process table, snapshot directory and status accessor
// into the bazil filesystem root.
func setupFS(cfg *config.Config, fsCfg *config.FSConfig, tracer trace.Tracer) (*fusefs.FS, error) {
	evaluator, err := attributes.NewEvaluator(cfg.CustomAttributes, slog.Default())
	if err != nil {
		return nil, err
	}

	source := procsource.NewProcfs(fsCfg.ProcRoot)
	if _, err := source.Entries(context.Background()); err != nil {
		return nil, fmt.Errorf("process table unavailable: %w", err)
	}

	core := statusfs.New(
		procdir.NewDirectory(source, fsCfg.MaxIDLength),
		status.NewAccessor(source, fsCfg.MaxStatusSize, slog.Default()),
		statusfs.Options{
			Tracer:     tracer,
			Attributes: evaluator,
			Logger:     slog.Default(),
			BootTime:   timesync.BootTimeOr(fsCfg.ProcRoot, time.Now()),
		},
	)

	return fusefs.New(core), nil
}

// serve mounts the filesystem and blocks until it is unmounted, either
// externally or after SIGINT/SIGTERM.
func serve(cfg *config.Config, fsCfg *config.FSConfig, filesys *fusefs.FS) error {
	conn, err := fusefs.Mount(cfg.Mountpoint, fusefs.MountOptions{
		FSName:     fsCfg.FSName,
		AllowOther: cfg.AllowOther,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Warn("error closing fuse connection", "error", err)
		}
	}()

	slog.Info("mounted", "mountpoint", cfg.Mountpoint, "proc_root", fsCfg.ProcRoot)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	served := make(chan error, 1)
	go func() {
		served <- fusefs.Serve(conn, filesys, cfg.Debug)
	}()

	select {
	case err := <-served:
		return err
	case sig := <-sigCh:
		slog.Info("received signal, unmounting", "signal", sig.String())
		if err := fusefs.Unmount(cfg.Mountpoint); err != nil {
			return err
		}
		return <-served
	}
}

func run() error {
	cfg, err := config.ParseArgs(os.Args)
	if err != nil {
		return err
	}

	if cfg.ShowVersion {
		fmt.Printf("procstatfs %s (commit: %s, built: %s)\n", version, commit, date)
		return nil
	}

	fsCfg, err := config.ParseFSConfig()
	if err != nil {
		return err
	}

	if err := setupLogger(fsCfg, cfg.Debug); err != nil {
		return err
	}

	slog.Info("starting procstatfs", "version", version, "commit", commit, "built", date)

	versionInfo := fmt.Sprintf("%s (%s)", version, commit)
	tracer, cleanupOTEL, err := setupOTEL(versionInfo)
	if err != nil {
		return err
	}
	defer cleanupOTEL()

	filesys, err := setupFS(cfg, fsCfg, tracer)
	if err != nil {
		return err
	}

	return serve(cfg, fsCfg, filesys)
}
