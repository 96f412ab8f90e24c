package docredact

import (
	"path/filepath"
	"time"

	"github.com/redactyl/docredact/internal/audit"
	"github.com/redactyl/docredact/internal/config"
	"github.com/redactyl/docredact/internal/engine"
	"github.com/redactyl/docredact/internal/report"
	"github.com/redactyl/docredact/internal/types"
	"github.com/spf13/cobra"
)

var (
	flagFileTypes       []string
	flagFileIncremental bool
	flagFileAudit       bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Redact a single file into the redacted folder next to it",
		Args:  cobra.ExactArgs(1),
		RunE:  runFile,
		Example: `  docredact file contract.pdf -t email -t phone
  docredact file notes.txt -t secrets --json`,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringSliceVarP(&flagFileTypes, "type", "t", nil, "categories to redact (repeatable or comma-separated)")
	cmd.Flags().BoolVar(&flagFileIncremental, "incremental", false, "skip the file if it is unchanged since the last run")
	cmd.Flags().BoolVar(&flagFileAudit, "audit", false, "append a run record to the audit log in the output folder")
}

func runFile(cmd *cobra.Command, args []string) error {
	path := absPath(args[0])
	s := loadSettings(cmd, filepath.Dir(path))
	p, err := resolvePatterns(s, flagFileTypes)
	if err != nil {
		return err
	}
	checkForUpdate(cmd, s)
	l := s.layers

	start := time.Now()
	fr := engine.RedactFile(path, engine.Config{
		Incremental: config.PickBool(flagFileIncremental, cmd.Flags().Changed("incremental"), l.Local.Incremental, l.Global.Incremental, false),
		Redactor:    p.redactor,
		Fingerprint: p.fingerprint,
		Logger:      s.logger,
	})
	took := time.Since(start)
	results := []types.FileResult{fr}

	if config.PickBool(flagFileAudit, cmd.Flags().Changed("audit"), l.Local.Audit, l.Global.Audit, false) {
		rec := audit.CreateRunRecord("file", path, p.categories, p.fingerprint, results, took)
		writeAudit(s, filepath.Join(filepath.Dir(path), engine.OutputDirName), rec)
	}
	if err := printResults(cmd, s, results, report.PrintOptions{Duration: took}); err != nil {
		return err
	}
	return failures(results)
}
