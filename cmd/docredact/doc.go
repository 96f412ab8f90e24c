// Package docredact provides the command-line interface for docredact. It
// configures subcommands (file, folder, reveal, categories, ...), parses
// flags, and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/redactyl/docredact/cmd/docredact"
//	func main() { docredact.Execute() }
package docredact
