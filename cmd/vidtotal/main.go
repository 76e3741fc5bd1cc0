// Command vidtotal is the CLI entrypoint. It scans a directory tree of
// media files, probes each file's playback duration concurrently, and
// reports per-directory totals as a heading tree on the console and as an
// exported Markdown document.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shiranzby/vidtotal/internal/check"
	"github.com/shiranzby/vidtotal/internal/config"
	"github.com/shiranzby/vidtotal/internal/display"
	"github.com/shiranzby/vidtotal/internal/logging"
	"github.com/shiranzby/vidtotal/internal/pipeline"
	"github.com/shiranzby/vidtotal/internal/probe"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build", these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "vidtotal: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()
	var colorMode string

	cmd := &cobra.Command{
		Use:   "vidtotal [folder]",
		Short: "Per-directory playback duration totals for a media library",
		Long: `Vidtotal walks a folder of media files, probes every file's playback
duration with ffprobe, and prints a nested heading tree of per-directory
totals. The same tree is exported as a Markdown document next to where
you run it. Subdirectories that are the only duration-bearing child of
their parent are folded into the parent so totals surface at the most
meaningful level.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.ColorMode = config.ColorMode(colorMode)
			if len(args) == 1 {
				cfg.RootDir = config.NormalizeDirArg(args[0])
			}
			return run(&cfg)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "probe concurrency (0 = GOMAXPROCS*2)")
	flags.DurationVar(&cfg.ProbeTimeout, "probe-timeout", cfg.ProbeTimeout, "per-file ffprobe budget")
	flags.BoolVar(&cfg.NoExport, "no-export", false, "print only; skip the Markdown document")
	flags.StringVarP(&cfg.OutputDir, "out", "o", cfg.OutputDir, "directory for the exported document")
	flags.StringVar(&colorMode, "color", string(config.ColorAuto), "colored logs: auto | always | never")
	flags.StringVarP(&cfg.LogFile, "log", "l", "", "append logs to file")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&cfg.CheckOnly, "check", "c", false, "run system diagnostics and exit")

	return cmd
}

func run(cfg *config.Config) error {
	// Phase 1: Bootstrap — resolve the root (prompting interactively like
	// the folder picker it replaces), then validate before the logger exists.
	if cfg.RootDir == "" && !cfg.CheckOnly {
		cfg.RootDir = promptForFolder()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	// Phase 2: Logger available — all output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(log) {
			return fmt.Errorf("system check failed")
		}
		return nil
	}

	// The root must exist; this is the only fatal input error.
	rootAbs, err := absPath(cfg.RootDir)
	if err != nil {
		log.Error("Folder not found: %s", cfg.RootDir)
		return fmt.Errorf("folder not found: %s", cfg.RootDir)
	}
	fi, err := os.Stat(rootAbs)
	if err != nil || !fi.IsDir() {
		log.Error("Not a directory: %s", rootAbs)
		return fmt.Errorf("not a directory: %s", rootAbs)
	}
	cfg.RootDir = rootAbs

	log.Info("=== vidtotal v%s ===", version)
	log.Info("Scanning: %s", cfg.RootDir)
	log.Info("")

	// Fail fast if ffprobe is unavailable.
	if err := check.CheckDeps(); err != nil {
		log.Error("%v", err)
		return err
	}

	// Phase 3: Signal handling — cancel the context on SIGINT/SIGTERM so
	// probe workers stop and the run exits without a partial report.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, stopping …")
		cancel()
	}()

	// Phase 4: Run the pipeline (discover → probe → aggregate → report).
	if _, err := pipeline.Run(ctx, cfg, log, probe.Duration); err != nil {
		return err
	}
	return nil
}

// promptForFolder asks for a path on stdin when none was given as an
// argument, mirroring interactive use.
func promptForFolder() string {
	fmt.Fprint(os.Stdout, "Folder to scan: ")
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return config.NormalizeDirArg(strings.TrimSpace(line))
}

// absPath returns the absolute path with symlinks resolved; it fails when
// the path does not exist.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
