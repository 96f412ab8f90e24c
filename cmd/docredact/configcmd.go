package docredact

import (
	"fmt"
	"path/filepath"

	"github.com/redactyl/docredact/internal/config"
	"github.com/redactyl/docredact/internal/files"
	"github.com/spf13/cobra"
)

var (
	cfgOutput          string
	cfgTypes           []string
	cfgCatalog         string
	cfgThreads         int
	cfgMaxBytes        int64
	cfgRecursive       bool
	cfgDefaultExcludes bool
	cfgIncremental     bool
	cfgGitignore       bool
	cfgForce           bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .docredact.yml with the selected categories and options",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the global config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := config.GlobalPath()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), p)
			return err
		},
	}
	cfgCmd.AddCommand(pathCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", ".docredact.yml", "output file path")
	initCmd.Flags().StringSliceVarP(&cfgTypes, "type", "t", []string{"pii"}, "default categories to redact")
	initCmd.Flags().StringVar(&cfgCatalog, "catalog", "", "pattern catalog path to record")
	initCmd.Flags().IntVar(&cfgThreads, "threads", 0, "worker threads (0=GOMAXPROCS)")
	initCmd.Flags().Int64Var(&cfgMaxBytes, "max-bytes", 0, "skip files larger than this (0 = no limit)")
	initCmd.Flags().BoolVar(&cfgRecursive, "recursive", true, "descend into subdirectories by default")
	initCmd.Flags().BoolVar(&cfgDefaultExcludes, "default-excludes", true, "enable default exclude list")
	initCmd.Flags().BoolVar(&cfgIncremental, "incremental", false, "enable incremental runs by default")
	initCmd.Flags().BoolVar(&cfgGitignore, "gitignore", false, "add docredact outputs to .gitignore next to the config")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if files.Exists(cfgOutput) && !cfgForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgOutput)
	}
	fc := config.FileConfig{
		Catalog:         optStrPtr(cfgCatalog),
		Types:           cfgTypes,
		Recursive:       boolPtr(cfgRecursive),
		Threads:         intPtr(cfgThreads),
		MaxBytes:        int64Ptr(cfgMaxBytes),
		DefaultExcludes: boolPtr(cfgDefaultExcludes),
		Incremental:     boolPtr(cfgIncremental),
	}
	b, err := config.Template(fc)
	if err != nil {
		return err
	}
	if err := files.WriteAtomic(cfgOutput, b, 0o644); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Wrote", cfgOutput)

	if cfgGitignore {
		dir := filepath.Dir(cfgOutput)
		added, err := files.AppendIgnores(dir, files.OutputIgnores())
		if err != nil {
			return fmt.Errorf("update .gitignore: %w", err)
		}
		for _, p := range added {
			fmt.Fprintln(out, "Ignored", p)
		}
	}
	return nil
}

func optStrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
func int64Ptr(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}
func boolPtr(v bool) *bool { return &v }

