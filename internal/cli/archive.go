package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	archiveBefore string
	archiveKeep   bool
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Compress finished monthly event logs",
	Long: `Compress the monthly application event files of months before the
current one (or before --before YYYY-MM) into zstd archives. The view and
serve commands read archives directly.`,
	Args: cobra.NoArgs,
	RunE: runArchive,
}

func init() {
	flags := archiveCmd.Flags()
	flags.StringVar(&archiveBefore, "before", "", "archive months before YYYY-MM (default: current month)")
	flags.BoolVar(&archiveKeep, "keep", false, "keep the uncompressed files")
}

func runArchive(cmd *cobra.Command, args []string) error {
	cutoff := time.Now()
	if archiveBefore != "" {
		t, err := time.ParseInLocation("2006-01", archiveBefore, time.Local)
		if err != nil {
			return fmt.Errorf("invalid month %q, expected YYYY-MM", archiveBefore)
		}
		cutoff = t
	}

	logger, err := openLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	archived, err := logger.Events().ArchiveBefore(cutoff, archiveKeep)
	for _, path := range archived {
		fmt.Fprintf(cmd.OutOrStdout(), "Archived %s\n", path)
	}
	if err != nil {
		return err
	}
	if len(archived) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to archive")
	}
	return nil
}
