package engine

import "strings"

// OutputDirName is the per-directory output folder. Directories with this
// name are never traversed, whoever created them.
const OutputDirName = "redacted"

var defaultExcludeDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	".idea":        true,
	".vscode":      true,
}

// exact filenames skipped when default excludes are enabled
var defaultExcludeFileNames = map[string]bool{
	".DS_Store":   true,
	"Thumbs.db":   true,
	"desktop.ini": true,
}

func isDefaultDirExcluded(name string) bool {
	return defaultExcludeDirs[name] || strings.HasPrefix(name, ".git")
}

func isDefaultFileExcluded(name string) bool {
	// Office lock files: "~$report.docx"
	if strings.HasPrefix(name, "~$") {
		return true
	}
	return defaultExcludeFileNames[name]
}
