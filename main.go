package main

import "github.com/redactyl/docredact/cmd/docredact"

func main() { docredact.Execute() }
