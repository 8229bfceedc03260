// Command shortlink-admin drives the short-link admin API from a terminal.
//
//	shortlink-admin login -username alice -password secret -remember
//	shortlink-admin groups
//	shortlink-admin create -gid <gid> -url https://example.com
//	shortlink-admin logout
//
// Credentials are kept in an encrypted cookie file between runs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"go.uber.org/zap"

	"shortlink-admin/api"
	"shortlink-admin/client"
	"shortlink-admin/config"
	"shortlink-admin/logger"
	"shortlink-admin/routeguard"
	"shortlink-admin/state"
	"shortlink-admin/tokenstore"
)

var errUsage = errors.New("usage")

// errLoginRequired is returned when a guarded command runs without credentials.
var errLoginRequired = errors.New("login required")

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	log, err := logger.NewCLI(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	jar, err := tokenstore.NewFileJar(cfg.CookieFile, []byte(cfg.CookieHashKey), []byte(cfg.CookieBlockKey))
	if err != nil {
		log.Fatal("Failed to open cookie file", zap.String("path", cfg.CookieFile), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, newApp(cfg, jar, os.Stdout, os.Stderr, log), os.Args[1:])
	switch {
	case err == nil:
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	default:
		log.Debug("Command failed", zap.Error(err))
		os.Exit(1)
	}
}

// app is everything a command needs.
type app struct {
	api     *api.API
	session *tokenstore.Store
	state   *state.Store
	guard   *routeguard.Guard
	out     io.Writer
	errOut  io.Writer
	logger  *zap.Logger
}

func newApp(cfg *config.Config, jar tokenstore.Jar, out, errOut io.Writer, logger *zap.Logger) *app {
	session := tokenstore.New(jar)
	navigate := client.NavigatorFunc(func(path string) {
		fmt.Fprintf(errOut, "Please log in again (%s)\n", path)
	})
	c := client.New(cfg.APIBase(), cfg.RequestTimeout, session,
		client.WithNotifier(client.NewWriterNotifier(errOut)),
		client.WithNavigator(navigate),
		client.WithLogger(logger),
	)
	return &app{
		api:     api.New(c, session),
		session: session,
		state:   state.New(cfg.ShortDomain),
		guard:   routeguard.New(),
		out:     out,
		errOut:  errOut,
		logger:  logger,
	}
}

func run(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		a.usage()
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(a.errOut, "unknown command %q\n", args[0])
		a.usage()
		return errUsage
	}

	d := a.guard.Decide(cmd.path, a.session.IsAuthenticated())
	if !d.Allow {
		fmt.Fprintf(a.errOut, "Not logged in, continue at %s\n", d.Redirect)
		return errLoginRequired
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	exec := cmd.setup(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if err := exec(ctx, a, fs.Args()); err != nil {
		a.report(err)
		return err
	}
	return nil
}

// report shows a failure the client has not already notified. Invalid fields
// are listed one per line.
func (a *app) report(err error) {
	var apiErr *client.Error
	if errors.As(err, &apiErr) {
		return
	}
	var verr *api.ValidationError
	if errors.As(err, &verr) {
		names := make([]string, 0, len(verr.Fields))
		for name := range verr.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintln(a.errOut, "Invalid input:")
		for _, name := range names {
			fmt.Fprintf(a.errOut, "  %s: %s\n", name, verr.Fields[name])
		}
		return
	}
	fmt.Fprintln(a.errOut, "Error:", err)
}

func (a *app) usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(a.errOut, "Usage: shortlink-admin <command> [flags]")
	fmt.Fprintln(a.errOut, "Commands:")
	for _, name := range names {
		fmt.Fprintf(a.errOut, "  %-14s %s\n", name, commands[name].summary)
	}
}
