// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cli implements the trackbook terminal client.

The client talks to the reading-plan backend directly, keeps the signed-in
session in a file, and runs the same progress derivation as the web server.
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taibuivan/trackbook/internal/core/plan"
	"github.com/taibuivan/trackbook/internal/core/report"
	"github.com/taibuivan/trackbook/internal/platform/apperr"
	"github.com/taibuivan/trackbook/internal/platform/config"
	"github.com/taibuivan/trackbook/internal/platform/ctxutil"
	"github.com/taibuivan/trackbook/internal/platform/remote"
	"github.com/taibuivan/trackbook/internal/platform/sec"
	"github.com/taibuivan/trackbook/internal/platform/session"
	"github.com/taibuivan/trackbook/internal/users/auth"
)

// cliSessionID names the single session a terminal holds.
const cliSessionID = "cli"

// errNotSignedIn is returned by commands that need a session.
var errNotSignedIn = errors.New("not signed in, run `trackbook login` first")

// Dependencies are the services the commands call.
type Dependencies struct {
	Auth      *auth.Service
	Plans     *plan.Service
	Reports   *report.Service
	Inspector *sec.TokenInspector
}

// Builder creates the [Dependencies] once flags are parsed.
type Builder func(logger *slog.Logger) (*Dependencies, error)

// Options configures [NewRootCommand].
type Options struct {
	In      io.Reader
	Out     io.Writer
	Err     io.Writer
	Colors  bool
	Version string

	// Build overrides the default wiring, mainly for tests.
	Build Builder
}

type app struct {
	options    Options
	jsonOutput bool
	verbose    bool

	logger  *slog.Logger
	printer *Printer
	deps    *Dependencies
}

/*
NewRootCommand assembles the trackbook command tree.

Global flags:
  - --json: print the view-model instead of tables
  - --verbose: debug logging on stderr
*/
func NewRootCommand(options Options) *cobra.Command {
	if options.In == nil {
		options.In = os.Stdin
	}
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.Err == nil {
		options.Err = os.Stderr
	}
	if options.Build == nil {
		options.Build = BuildFromEnvironment
	}

	cli := &app{options: options}

	root := &cobra.Command{
		Use:     "trackbook",
		Short:   "Follow your reading plans from the terminal",
		Version: options.Version,
		Long: `trackbook shows the progress of your reading plans and records what you read.

Example usage:
  trackbook login --email ana@example.com
  trackbook plans                         # List your plans
  trackbook plan show 12                  # Day-by-day progress of plan 12
  trackbook plan read 12 41 --minutes 25  # Mark assignment 41 as read
  trackbook report                        # Overall progress report`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.init()
		},
	}

	root.SetIn(options.In)
	root.SetOut(options.Out)
	root.SetErr(options.Err)

	root.PersistentFlags().BoolVar(&cli.jsonOutput, "json", false, "output as JSON")
	root.PersistentFlags().BoolVarP(&cli.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		cli.loginCommand(),
		cli.logoutCommand(),
		cli.whoamiCommand(),
		cli.plansCommand(),
		cli.planCommand(),
		cli.reportCommand(),
	)

	return root
}

/*
Execute runs the command tree and reports the failure on stderr.

Returns:
  - int: the process exit code
*/
func Execute(ctx context.Context, options Options, args []string) int {
	root := NewRootCommand(options)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		printer := NewPrinter(root.OutOrStdout(), root.ErrOrStderr(), options.Colors)
		printer.Error("%s", describe(err))
		return 1
	}
	return 0
}

func (cli *app) init() error {
	logLevel := slog.LevelWarn
	if cli.verbose {
		logLevel = slog.LevelDebug
	}
	cli.logger = slog.New(slog.NewTextHandler(cli.options.Err, &slog.HandlerOptions{Level: logLevel}))
	cli.printer = NewPrinter(cli.options.Out, cli.options.Err, cli.options.Colors)

	deps, err := cli.options.Build(cli.logger)
	if err != nil {
		return err
	}
	cli.deps = deps
	return nil
}

// BuildFromEnvironment wires the services from TRACKBOOK_* variables.
func BuildFromEnvironment(logger *slog.Logger) (*Dependencies, error) {
	cfg, err := config.LoadCLI()
	if err != nil {
		return nil, err
	}

	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	sessionFile := cfg.SessionFile
	if sessionFile == "" {
		if sessionFile, err = session.DefaultFilePath(); err != nil {
			return nil, err
		}
	}

	client, err := remote.NewClient(remote.Options{BaseURL: cfg.RemoteAPIURL, Timeout: cfg.Timeout}, logger)
	if err != nil {
		return nil, err
	}

	logger.Debug("cli_configured",
		slog.String("remote_api", cfg.RemoteAPIURL),
		slog.String("session_file", sessionFile),
		slog.String("timezone", location.String()),
	)

	inspector := sec.NewTokenInspector()
	sessions := session.Single{Store: session.NewFileStore(sessionFile)}

	return &Dependencies{
		Auth:      auth.NewService(auth.NewRemoteGateway(client), sessions, inspector, logger),
		Plans:     plan.NewService(plan.NewRemoteRepository(client), plan.NopCache{}, location, logger),
		Reports:   report.NewService(report.NewRemoteRepository(client), logger),
		Inspector: inspector,
	}, nil
}

// # Identity

// signedIn loads the stored session and returns a context carrying its token.
func (cli *app) signedIn(ctx context.Context) (context.Context, *sec.AuthClaims, error) {
	state, err := cli.deps.Auth.Current(ctx, cliSessionID)
	if err != nil {
		return nil, nil, err
	}
	if !state.Authenticated {
		return nil, nil, errNotSignedIn
	}

	claims, err := cli.deps.Inspector.VerifyToken(state.Token)
	if err != nil {
		return nil, nil, errNotSignedIn
	}

	return ctxutil.WithAuthUser(ctx, claims), claims, nil
}

// authorized runs fn as the signed-in user. A session the backend rejects is
// cleared so the next command asks for a new login.
func (cli *app) authorized(cmd *cobra.Command, fn func(ctx context.Context, userID string) error) error {
	ctx, claims, err := cli.signedIn(cmd.Context())
	if err != nil {
		return err
	}

	err = fn(ctx, claims.UserID)
	if apperr.IsSessionExpired(err) {
		if clearErr := cli.deps.Auth.EndSession(context.WithoutCancel(ctx), cliSessionID); clearErr != nil {
			cli.logger.Warn("session_clear_failed", slog.String("error", clearErr.Error()))
		}
	}
	return err
}

// describe renders err with its field details.
func describe(err error) string {
	appErr := apperr.As(err)
	if appErr == nil {
		return err.Error()
	}

	message := appErr.Message
	for _, detail := range appErr.Details {
		message += fmt.Sprintf("\n  %s: %s", detail.Field, detail.Message)
	}
	return message
}
