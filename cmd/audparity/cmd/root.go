// Package cmd provides the CLI commands for audparity.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/audlab/audparity/internal/config"
	"github.com/audlab/audparity/internal/dll"
	"github.com/audlab/audparity/internal/format"
	"github.com/audlab/audparity/internal/logging"
	"github.com/audlab/audparity/internal/parity"
	"github.com/audlab/audparity/internal/report"
	"github.com/audlab/audparity/internal/session"
	"github.com/audlab/audparity/pkg/version"
)

// rootFlags collects the root command's flag values.
type rootFlags struct {
	configPath    string
	formatCode    int32
	challengeInit bool
	resultsPath   string
	historyPath   string
	debug         bool
}

// NewRootCmd creates the root command for the audparity CLI.
func NewRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "audparity <original_library> <rebuilt_library> <test_file>",
		Short: "Differential parity tester for two builds of the measurement-file library",
		Long: `audparity loads the original and the rebuilt build of the
measurement-file reading library, drives both through the identical
open/query/read/close protocol against the same input file, and reports
whether their externally observable behavior matches.

The two run records are printed to stdout as a JSON array; diagnostics and
the verdict go to stderr. Exit code 0 means PASS or PASS-WITH-NOTE, 1 means
FAIL or a usage error.`,
		Version: version.Version,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParity(cmd, args, flags)
		},
	}

	cmd.SetVersionTemplate("audparity version {{.Version}}\n")

	cmd.Flags().StringVar(&flags.configPath, "config", "", "Path to config file (default .audparity.yaml if present)")
	cmd.Flags().Int32Var(&flags.formatCode, "format-code", -1, "Force a format code instead of resolving from the extension")
	cmd.Flags().BoolVar(&flags.challengeInit, "challenge-init", false, "Use the three-phase init handshake for the original library")
	cmd.Flags().StringVar(&flags.resultsPath, "results", "", "Also write results JSON to this file")
	cmd.Flags().StringVar(&flags.historyPath, "history", "", "Record runs in this SQLite history database")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging to ~/.audparity/logs/")

	cmd.AddCommand(newFormatsCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// runParity executes one full comparison: two sequential library runs and
// the verdict.
func runParity(cmd *cobra.Command, args []string, flags rootFlags) error {
	origPath, rebuiltPath, testFile := args[0], args[1], args[2]

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if flags.challengeInit {
		cfg.ChallengeInit = true
	}
	if flags.resultsPath != "" {
		cfg.ResultsPath = flags.resultsPath
	}
	if flags.historyPath != "" {
		cfg.HistoryPath = flags.historyPath
	}

	if flags.debug {
		logger, cleanup, err := logging.Setup(logging.DebugConfig())
		if err != nil {
			return fmt.Errorf("setup debug logging: %w", err)
		}
		defer cleanup()
		slog.SetDefault(logger)
	} else {
		// File-only logging at the configured level; the log file is a
		// diagnostic convenience, so a setup failure never blocks the run.
		logCfg := logging.DefaultConfig()
		logCfg.Level = cfg.LogLevel
		logCfg.WriteToStderr = false
		if logger, cleanup, err := logging.Setup(logCfg); err == nil {
			defer cleanup()
			slog.SetDefault(logger)
		} else {
			logging.Discard()
		}
	}

	formatCode := flags.formatCode
	if formatCode < 0 {
		formatCode = format.Default().Merge(cfg.Formats).Resolve(testFile)
	}

	diag := report.NewPrinter(cmd.ErrOrStderr())
	diag.Diag("test file: %s (format code %d)", testFile, formatCode)

	// The two libraries may export identically named entry points; they are
	// never resident at the same time.
	original := runOne(diag, "original", origPath, testFile, session.Options{
		Label:         "original",
		Magic:         cfg.InitMagic,
		ChallengeInit: cfg.ChallengeInit,
		FormatCode:    formatCode,
	})
	rebuilt := runOne(diag, "rebuilt", rebuiltPath, testFile, session.Options{
		Label:      "rebuilt",
		Magic:      cfg.InitMagic,
		FormatCode: formatCode,
	})

	if err := report.WriteRecords(cmd.OutOrStdout(), original, rebuilt); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	verdict := parity.Compare(original, rebuilt, cfg.DivergenceSentinel)
	if original.OpenRet == session.NotAttempted && rebuilt.OpenRet == session.NotAttempted {
		diag.Diag("warning: neither library produced data; comparing sentinel records only")
	}
	diag.Verdict(verdict)

	persist(diag, cfg, original, rebuilt, verdict)

	if !verdict.Passed() {
		// The verdict itself is the diagnostic; suppress cobra's usage dump.
		cmd.SilenceUsage = true
		return fmt.Errorf("parity check failed with %d mismatch(es)", len(verdict.Mismatches))
	}
	return nil
}

// runOne binds one library, drives the protocol, and unloads it before
// returning. A bind failure downgrades to a sentinel-filled record so the
// oracle always has both sides.
func runOne(diag *report.Printer, label, libPath, testFile string, opts session.Options) session.Record {
	lib, err := dll.Bind(libPath)
	if err != nil {
		diag.Diag("%s: %v", label, err)
		slog.Warn("bind failed", slog.String("dll", label), slog.String("error", err.Error()))
		return session.Skipped(label, testFile)
	}
	defer func() {
		if err := lib.Close(); err != nil {
			slog.Warn("unload failed", slog.String("dll", label), slog.String("error", err.Error()))
		}
	}()

	return session.Run(lib, testFile, opts)
}

// persist writes the optional results file and history rows. Failures are
// diagnostics, not run failures: the verdict already stands.
func persist(diag *report.Printer, cfg config.Config, original, rebuilt session.Record, v parity.Verdict) {
	if cfg.ResultsPath != "" {
		if err := report.SaveResults(cfg.ResultsPath, original, rebuilt, v); err != nil {
			diag.Diag("warning: %v", err)
		}
	}
	if cfg.HistoryPath != "" {
		if err := appendHistory(cfg.HistoryPath, original, rebuilt, v); err != nil {
			diag.Diag("warning: %v", err)
		}
	}
}
