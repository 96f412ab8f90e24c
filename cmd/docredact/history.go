package docredact

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/redactyl/docredact/internal/audit"
	"github.com/redactyl/docredact/internal/engine"
	"github.com/spf13/cobra"
)

var flagHistoryLimit int

func init() {
	cmd := &cobra.Command{
		Use:   "history [folder]",
		Short: "Show the audit log of past runs for a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHistory,
	}
	rootCmd.AddCommand(cmd)
	cmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "show at most this many runs (0 = all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	log := audit.NewAuditLog(filepath.Join(dir, engine.OutputDirName))
	recs, err := log.LoadHistory()
	if err != nil {
		return err
	}
	if flagHistoryLimit > 0 && len(recs) > flagHistoryLimit {
		recs = recs[:flagHistoryLimit]
	}
	w := cmd.OutOrStdout()
	if flagJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if recs == nil {
			recs = []audit.RunRecord{}
		}
		return enc.Encode(recs)
	}
	table := tablewriter.NewWriter(w)
	table.Header("WHEN", "RUN", "MODE", "REDACTED", "FAILED", "RECORDS", "DURATION")
	for _, r := range recs {
		row := []string{
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			r.RunID,
			r.Mode,
			strconv.Itoa(r.Summary.Redacted),
			strconv.Itoa(r.Summary.Failed),
			strconv.Itoa(r.Summary.Records),
			r.Duration,
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Runs: %d (%s)\n", len(recs), log.Path())
	return err
}
