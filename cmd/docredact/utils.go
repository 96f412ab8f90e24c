package docredact

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	semver3 "github.com/blang/semver"
	semver "github.com/blang/semver/v4"
	"github.com/charmbracelet/log"
	"github.com/redactyl/docredact/internal/audit"
	"github.com/redactyl/docredact/internal/catalog"
	"github.com/redactyl/docredact/internal/config"
	"github.com/redactyl/docredact/internal/files"
	"github.com/redactyl/docredact/internal/logging"
	"github.com/redactyl/docredact/internal/redact"
	"github.com/redactyl/docredact/internal/report"
	"github.com/redactyl/docredact/internal/types"
	"github.com/redactyl/docredact/internal/update"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func selfUpdate() (string, error) {
	v := version
	// Use build info if tag overridden at build-time
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(v) == 0 {
				v = s.Value
			}
		}
	}
	ver, err := semver.ParseTolerant(v)
	if err != nil {
		ver = semver.MustParse("0.0.0")
	}
	latest, err := selfupdate.UpdateSelf(semver3.MustParse(ver.String()), update.Repo)
	if err != nil {
		return "", err
	}
	return latest.Version.String(), nil
}

// settings is the merged view of flags and config files for one command.
type settings struct {
	layers config.Layers
	logger *log.Logger
	color  bool
}

func loadSettings(cmd *cobra.Command, dir string) settings {
	l := config.Load(dir)
	level := config.PickString(flagLogLevel, l.Local.LogLevel, l.Global.LogLevel)
	noColor := config.PickBool(flagNoColor, cmd.Flags().Changed("no-color"), l.Local.NoColor, l.Global.NoColor, false)
	return settings{
		layers: l,
		logger: logging.New(logging.Options{Level: level, Output: cmd.ErrOrStderr()}),
		color:  colorFor(cmd.OutOrStdout(), noColor),
	}
}

// resolved is the compiled pattern set for a run.
type resolved struct {
	redactor    *redact.Redactor
	categories  []string
	fingerprint string
}

// resolvePatterns loads the catalog and compiles the requested categories.
// Unknown categories are logged, not fatal.
func resolvePatterns(s settings, requested []string) (resolved, error) {
	cats := s.layers.Types(requested)
	cat, src, err := catalog.Open(s.layers.Catalog(flagCatalog))
	if err != nil {
		return resolved{}, err
	}
	res, err := cat.Resolve(cats)
	if err != nil {
		return resolved{}, err
	}
	for _, u := range res.Unknown {
		s.logger.Warn("no patterns for category", "category", u, "catalog", src)
	}
	s.logger.Debug("patterns resolved", "catalog", src, "patterns", len(res.Patterns))
	return resolved{
		redactor:    redact.New(catalog.Regexps(res.Patterns)),
		categories:  cats,
		fingerprint: catalog.Fingerprint(res.Patterns),
	}, nil
}

func threads(s settings) int {
	return config.PickInt(flagThreads, s.layers.Local.Threads, s.layers.Global.Threads)
}

func checkForUpdate(cmd *cobra.Command, s settings) {
	if flagJSON {
		return
	}
	noCheck := config.PickBool(flagNoUpdateCheck, cmd.Flags().Changed("no-update-check"), s.layers.Local.NoUpdateCheck, s.layers.Global.NoUpdateCheck, false)
	if noCheck || update.Disabled() {
		return
	}
	st := update.Checker{}.Check(cmd.Context(), version)
	if st.Newer() {
		s.logger.Debug("release check", "latest", st.Latest.Version, "cached", st.FromCache)
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "(new version available: v%s)  run 'docredact update' to upgrade\n", st.Latest.Version)
	}
}

func printResults(cmd *cobra.Command, s settings, fs []types.FileResult, opts report.PrintOptions) error {
	w := cmd.OutOrStdout()
	opts.NoColor = !s.color
	switch {
	case flagJSON:
		return report.WriteJSON(w, fs, opts)
	case flagText:
		report.PrintText(w, fs, opts)
		return nil
	default:
		return report.PrintTable(w, fs, opts)
	}
}

func writeAudit(s settings, outDir string, rec audit.RunRecord) {
	if err := files.EnsureDir(outDir); err != nil {
		s.logger.Warn("audit log skipped", "dir", outDir, "err", err)
		return
	}
	if err := audit.NewAuditLog(outDir).LogRun(rec); err != nil {
		s.logger.Warn("audit log skipped", "err", err)
	}
}

// failures converts file failures into the exit-1 error.
func failures(fs []types.FileResult) error {
	n := 0
	for _, f := range fs {
		if report.Status(f) == report.StatusFailed {
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return fmt.Errorf("%w (%d)", errFailures, n)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func colorFor(w io.Writer, noColor bool) bool {
	f, ok := w.(*os.File)
	return ok && report.ColorEnabled(noColor, f)
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
