package cmd

import (
	"github.com/spf13/cobra"

	"github.com/audlab/audparity/internal/config"
	"github.com/audlab/audparity/internal/history"
	"github.com/audlab/audparity/internal/output"
	"github.com/audlab/audparity/internal/parity"
	"github.com/audlab/audparity/internal/session"
)

// newHistoryCmd creates the history command, which lists recent stored
// runs from the SQLite history database.
func newHistoryCmd() *cobra.Command {
	var dbPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent parity runs from the history database",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := dbPath
			if path == "" {
				cfg, err := config.Load("")
				if err != nil {
					return err
				}
				path = cfg.HistoryPath
			}
			if path == "" {
				out := output.New(cmd.ErrOrStderr())
				out.Warning("no history database configured (use --db or history_path in config)")
				return nil
			}

			store, err := history.Open(path)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.Recent(limit)
			if err != nil {
				return err
			}

			out := output.New(cmd.OutOrStdout())
			if len(entries) == 0 {
				out.Status("", "history is empty")
				return nil
			}
			for _, e := range entries {
				out.Statusf("", "%s  %-14s  %-8s  %s  open_ret=%d files=%d channels=%d samples=%d",
					e.Timestamp.Format("2006-01-02 15:04:05"), e.Verdict, e.DLL, e.File,
					e.OpenRet, e.NumFiles, e.NumChannels, e.SampleCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Path to the history database")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to list")

	return cmd
}

// appendHistory stores both run records in the history database.
func appendHistory(path string, original, rebuilt session.Record, v parity.Verdict) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	return store.Append(v, original, rebuilt)
}
