package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"leavedesk/internal/cli"
	"leavedesk/internal/platform/config"
	"leavedesk/internal/platform/logger"
)

var CLI struct {
	Workdays      cli.WorkdaysCmd      `cmd:"" help:"Preview the leave days selected for a date range."`
	CreateAdmin   cli.CreateAdminCmd   `cmd:"" help:"Create an admin account or promote an existing one."`
	EnsureIndexes cli.EnsureIndexesCmd `cmd:"" help:"Create the MongoDB indexes."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("leavectl"),
		kong.Description("Administration tool for the leavedesk service."),
		kong.UsageOnError(),
	)

	cfg := config.Load()
	log, err := logger.New(cfg)
	if err != nil {
		log = zap.NewNop()
	}
	defer func() { _ = log.Sync() }()

	err = kctx.Run(&cli.Context{
		Ctx:    context.Background(),
		Out:    os.Stdout,
		Config: cfg,
		Log:    log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
