// Package main runs the savegraft command.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	platformcmd "github.com/louisbranch/savegraft/internal/platform/cmd"
	"github.com/louisbranch/savegraft/internal/platform/config"
	"github.com/louisbranch/savegraft/internal/tools/savegraft"
)

func main() {
	cfg, err := savegraft.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.ExitCodef(2, "Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceSavegraft, func(ctx context.Context) error {
		return savegraft.Run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr)
	})
	if err != nil {
		config.ExitCodef(savegraft.ExitCode(err), "Error: %s", savegraft.Describe(cfg.Lang, err))
	}
}
