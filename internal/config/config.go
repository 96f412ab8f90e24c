package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for docredact. Nil
// fields are unset and fall through to the next layer.
type FileConfig struct {
	Catalog         *string  `yaml:"catalog,omitempty"`
	Types           []string `yaml:"types,omitempty"`
	Recursive       *bool    `yaml:"recursive,omitempty"`
	Threads         *int     `yaml:"threads,omitempty"`
	Include         *string  `yaml:"include,omitempty"`
	Exclude         *string  `yaml:"exclude,omitempty"`
	MaxBytes        *int64   `yaml:"max_bytes,omitempty"`
	DefaultExcludes *bool    `yaml:"default_excludes,omitempty"`
	Incremental     *bool    `yaml:"incremental,omitempty"`
	Audit           *bool    `yaml:"audit,omitempty"`
	NoColor         *bool    `yaml:"no_color,omitempty"`
	LogLevel        *string  `yaml:"log_level,omitempty"`
	NoUpdateCheck   *bool    `yaml:"no_update_check,omitempty"`
}

// LocalNames are the repo-local config file names in search order.
var LocalNames = []string{".docredact.yml", ".docredact.yaml", "docredact.yml", "docredact.yaml"}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a local config file in dir.
func LoadLocal(dir string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range LocalNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// GlobalPath returns the global config location under the XDG config
// directory, falling back to ~/.config.
func GlobalPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return "", errors.New("no config dir")
	}
	return filepath.Join(base, "docredact", "config.yml"), nil
}

// LoadGlobal loads the global config file.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	p, err := GlobalPath()
	if err != nil {
		return cfg, err
	}
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}

// Layers holds the local and global file configs. Missing files leave the
// corresponding layer zero.
type Layers struct {
	Local  FileConfig
	Global FileConfig
}

// Load reads both layers for a target directory; absent files are not errors.
func Load(dir string) Layers {
	var l Layers
	l.Local, _ = LoadLocal(dir)
	l.Global, _ = LoadGlobal()
	return l
}

// Catalog resolves the catalog path: cli, then local, then global.
func (l Layers) Catalog(cli string) string {
	return PickString(cli, l.Local.Catalog, l.Global.Catalog)
}

// Types resolves the requested categories; the first non-empty layer wins.
func (l Layers) Types(cli []string) []string {
	switch {
	case len(cli) > 0:
		return cli
	case len(l.Local.Types) > 0:
		return l.Local.Types
	default:
		return l.Global.Types
	}
}

// Template returns a commented starter config with the given values.
func Template(fc FileConfig) ([]byte, error) {
	b, err := yaml.Marshal(&fc)
	if err != nil {
		return nil, err
	}
	header := "# docredact configuration. CLI flags override this file;\n" +
		"# this file overrides $XDG_CONFIG_HOME/docredact/config.yml.\n"
	return append([]byte(header), b...), nil
}

func PickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func PickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func PickInt64(cli int64, local, global *int64) int64 {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

// PickBool resolves a boolean whose flag was explicitly set (cliSet) or
// falls back to the files, then def.
func PickBool(cli, cliSet bool, local, global *bool, def bool) bool {
	if cliSet {
		return cli
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return def
}
