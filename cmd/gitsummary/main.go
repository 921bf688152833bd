// Package main is the entry point for the gitsummary command.
package main

import (
	"context"
	"os"

	"github.com/chmouel/gitsummary/internal/bootstrap"
	"github.com/chmouel/gitsummary/internal/buildinfo"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date, builtBy)
	buildinfo.Enrich()

	os.Exit(bootstrap.Run(context.Background(), os.Args, os.Stdout, os.Stderr))
}
