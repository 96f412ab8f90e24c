package docredact

import (
	"fmt"
	"path/filepath"

	"github.com/redactyl/docredact/internal/audit"
	"github.com/redactyl/docredact/internal/config"
	"github.com/redactyl/docredact/internal/engine"
	"github.com/redactyl/docredact/internal/report"
	"github.com/redactyl/docredact/internal/types"
	"github.com/spf13/cobra"
)

var (
	flagFolderTypes     []string
	flagRecursive       bool
	flagInclude         string
	flagExclude         string
	flagMaxBytes        int64
	flagDefaultExcludes bool
	flagIncremental     bool
	flagAudit           bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "folder <path>",
		Short: "Redact every file in a folder, writing into per-directory redacted folders",
		Args:  cobra.ExactArgs(1),
		RunE:  runFolder,
		Example: `  docredact folder ./contracts -t pii -r
  docredact folder . -t secrets -r --include '**/*.txt' --incremental`,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringSliceVarP(&flagFolderTypes, "type", "t", nil, "categories to redact (repeatable or comma-separated)")
	cmd.Flags().BoolVarP(&flagRecursive, "recursive", "r", false, "descend into subdirectories (breadth first)")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this (0 = no limit)")
	cmd.Flags().BoolVar(&flagDefaultExcludes, "default-excludes", true, "skip .git, node_modules, Office lock files and similar")
	cmd.Flags().BoolVar(&flagIncremental, "incremental", false, "skip files unchanged since the last run")
	cmd.Flags().BoolVar(&flagAudit, "audit", false, "append a run record to the audit log in the root output folder")
}

func runFolder(cmd *cobra.Command, args []string) error {
	root := absPath(args[0])
	s := loadSettings(cmd, root)
	p, err := resolvePatterns(s, flagFolderTypes)
	if err != nil {
		return err
	}
	checkForUpdate(cmd, s)
	l := s.layers
	changed := cmd.Flags().Changed

	cfg := engine.Config{
		Root:            root,
		Recursive:       config.PickBool(flagRecursive, changed("recursive"), l.Local.Recursive, l.Global.Recursive, false),
		Threads:         threads(s),
		IncludeGlobs:    config.PickString(flagInclude, l.Local.Include, l.Global.Include),
		ExcludeGlobs:    config.PickString(flagExclude, l.Local.Exclude, l.Global.Exclude),
		MaxBytes:        config.PickInt64(flagMaxBytes, l.Local.MaxBytes, l.Global.MaxBytes),
		DefaultExcludes: config.PickBool(flagDefaultExcludes, changed("default-excludes"), l.Local.DefaultExcludes, l.Global.DefaultExcludes, true),
		Incremental:     config.PickBool(flagIncremental, changed("incremental"), l.Local.Incremental, l.Global.Incremental, false),
		Redactor:        p.redactor,
		Fingerprint:     p.fingerprint,
		Logger:          s.logger,
	}

	// Optional progress bar: simple textual bar on an interactive stderr
	errOut := cmd.ErrOrStderr()
	showProgress := !flagJSON && isTerminal(errOut)
	total := 0
	if showProgress {
		total = engine.CountTargets(cfg)
	}
	progressed := 0
	if total > 0 {
		cfg.Progress = func(types.FileResult) {
			progressed++
			if progressed%10 == 0 || progressed == total {
				pct := float64(progressed) / float64(total) * 100
				_, _ = fmt.Fprintf(errOut, "\r[%d/%d] %.0f%%", progressed, total, pct)
			}
		}
	}
	res, err := engine.RedactFolder(cfg)
	if err != nil {
		return err
	}
	if total > 0 {
		_, _ = fmt.Fprintln(errOut)
	}

	if config.PickBool(flagAudit, changed("audit"), l.Local.Audit, l.Global.Audit, false) {
		rec := audit.CreateRunRecord("folder", root, p.categories, p.fingerprint, res.Files, res.Duration)
		rec.Directories = len(res.Directories)
		rec.DirErrors = len(res.DirErrors)
		writeAudit(s, filepath.Join(root, engine.OutputDirName), rec)
	}
	opts := report.PrintOptions{Duration: res.Duration, Directories: len(res.Directories), DirErrors: res.DirErrors}
	if err := printResults(cmd, s, res.Files, opts); err != nil {
		return err
	}
	return failures(res.Files)
}
