package cmd

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/audlab/audparity/internal/config"
	"github.com/audlab/audparity/internal/format"
	"github.com/audlab/audparity/internal/output"
)

// newFormatsCmd creates the formats command, which prints the effective
// extension-to-format-code table after config overrides.
func newFormatsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "Print the extension to format-code table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			table := format.Default().Merge(cfg.Formats)

			exts := make([]string, 0, len(table))
			for ext := range table {
				exts = append(exts, ext)
			}
			sort.Strings(exts)

			out := output.New(cmd.OutOrStdout())
			for _, ext := range exts {
				out.Statusf("", "%-6s -> %d", ext, table[ext])
			}
			out.Statusf("", "%-6s -> %d (auto-detect)", "other", format.AutoDetect)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")

	return cmd
}
