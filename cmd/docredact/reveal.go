package docredact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/redactyl/docredact/internal/files"
	"github.com/redactyl/docredact/internal/job"
	"github.com/redactyl/docredact/internal/manifest"
	"github.com/redactyl/docredact/internal/redact"
	"github.com/redactyl/docredact/internal/types"
	"github.com/spf13/cobra"
)

var (
	flagRevealManifest string
	flagRevealOutput   string
)

func init() {
	cmd := &cobra.Command{
		Use:   "reveal <redacted.txt>",
		Short: "Restore the original text of a redacted text file from its manifest",
		Args:  cobra.ExactArgs(1),
		RunE:  runReveal,
		Example: `  docredact reveal redacted/notes.txt
  docredact reveal redacted/notes.txt --manifest redacted/notes-unredact.json -o notes.txt`,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagRevealManifest, "manifest", "m", "", "reveal manifest (default: <stem>-unredact.json next to the file)")
	cmd.Flags().StringVarP(&flagRevealOutput, "output", "o", "", "write the restored text here instead of stdout")
}

func runReveal(cmd *cobra.Command, args []string) error {
	path := args[0]
	format, err := job.DetectFormat(path)
	if err != nil {
		return err
	}
	if format != types.FormatText {
		return fmt.Errorf("%w: reveal restores text files only, got %s", types.ErrUnsupportedFormat, format)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrDocumentLoad, err)
	}
	mpath := flagRevealManifest
	if mpath == "" {
		mpath = filepath.Join(filepath.Dir(path), manifest.Name(path, false))
		if !files.Exists(mpath) {
			if full := filepath.Join(filepath.Dir(path), manifest.Name(path, true)); files.Exists(full) {
				mpath = full
			}
		}
	}
	records, err := manifest.Load(mpath)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	out := redact.Restore(string(src), records)
	if flagRevealOutput == "" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	}
	// The restored file holds the sensitive text again.
	return files.WriteAtomic(flagRevealOutput, []byte(out), 0o600)
}
