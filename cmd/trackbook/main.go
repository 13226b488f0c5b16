// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command trackbook is the terminal client for reading plans.
//
// Configuration comes from TRACKBOOK_* environment variables (or ./.env):
//
//	TRACKBOOK_API_URL       backend root, default http://localhost:8000/api
//	TRACKBOOK_TIMEOUT       per-request timeout, default 30s
//	TRACKBOOK_SESSION_FILE  session file, default <config dir>/trackbook/session.json
//	TRACKBOOK_TIMEZONE      zone deciding "today", default Local
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/taibuivan/trackbook/internal/cli"
	"github.com/taibuivan/trackbook/internal/platform/constants"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := cli.Execute(ctx, cli.Options{
		Colors:  !color.NoColor,
		Version: constants.AppVersion,
	}, os.Args[1:])

	stop()
	os.Exit(code)
}
