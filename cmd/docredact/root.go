package docredact

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagCatalog       string
	flagThreads       int
	flagJSON          bool
	flagText          bool
	flagNoColor       bool
	flagLogLevel      string
	flagNoUpdateCheck bool

	version = "0.1.0"
)

// errFailures marks a run where at least one supported file failed.
var errFailures = errors.New("one or more files could not be redacted")

// rootCmd is the base Cobra command for the docredact CLI.
var rootCmd = &cobra.Command{
	Use:           "docredact",
	Short:         "Redact sensitive text in txt, pdf and docx files",
	Long:          "docredact replaces regex-matched sensitive text in documents with opaque tokens and writes a reveal manifest mapping each token back to the original.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the docredact CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command error to the process status: 1 when files failed,
// 2 for anything that stopped the invocation itself.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errFailures):
		return 1
	default:
		return 2
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "pattern catalog (JSON or YAML); default ./patterns.json, then built-in")
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "concurrent jobs per directory (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagText, "text", false, "output in plain text columnar format")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable update check")
}
