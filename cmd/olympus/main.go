// Package main provides the entry point for the olympus CLI.
package main

import (
	"context"
	"os"

	"github.com/mrz1836/olympus/internal/cli"
)

//nolint:gochecknoglobals // set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx := context.Background()
	if err := cli.Execute(ctx, cli.BuildInfo{Version: version, Commit: commit, Date: date}); err != nil {
		os.Exit(1)
	}
}
