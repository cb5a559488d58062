// Package cli implements the flightdesk command line.
package cli

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/cx-tal-miterani/flightdesk/internal/config"
	"github.com/cx-tal-miterani/flightdesk/internal/loading"
	"github.com/cx-tal-miterani/flightdesk/internal/logging"
	"github.com/cx-tal-miterani/flightdesk/internal/notify"
	"github.com/cx-tal-miterani/flightdesk/internal/service"
	"github.com/cx-tal-miterani/flightdesk/internal/session"
	"github.com/cx-tal-miterani/flightdesk/internal/tokenstore"
	"github.com/cx-tal-miterani/flightdesk/internal/validate"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitUsage   = 2
	ExitAuth    = 3
	ExitBackend = 4
)

const usage = `usage: flightdesk [global flags] <command> [flags]

commands:
  login --token T        store a token without contacting the backend
  logout                 forget the stored token
  status                 verify the stored token and show the session
  search --from --to --date --category
  search-all
  feedback --name --email --mobile --subject --message
  profile [--first-name --last-name --mobile --address]
  flights list [--category --airline --date --sort]
  flights add --flight-no --airline --from --to --category --seats --price --date --departure --arrival
  flights edit --id ID [field flags]
  flights delete --id ID [--yes]

global flags:
  --backend URL  --db PATH  --log-level LEVEL  --json
`

// App holds the process streams and environment.
type App struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Getenv replaces the process environment when set.
	Getenv func(string) string
	// HTTPClient overrides the client built from configuration.
	HTTPClient *http.Client
}

// Run executes one command and returns the process exit code.
func Run(args []string, in io.Reader, out, errw io.Writer) int {
	a := App{Stdin: in, Stdout: out, Stderr: errw}
	return a.Run(args)
}

type globalOptions struct {
	json bool
}

// usageError is a problem with the command line itself.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// shownError marks an error the user has already been notified about.
type shownError struct{ err error }

func (e shownError) Error() string { return e.err.Error() }
func (e shownError) Unwrap() error { return e.err }

func shown(err error) error {
	if err == nil {
		return nil
	}
	return shownError{err: err}
}

func (a App) Run(args []string) int {
	notifier := notify.NewWriter(a.Stderr)
	var (
		cfg config.Config
		err error
	)
	if a.Getenv != nil {
		cfg, err = config.LoadFrom(a.Getenv)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		notifier.Error(err.Error())
		return ExitUsage
	}

	g := globalOptions{}
	fs := flag.NewFlagSet("flightdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.BackendURL, "backend", cfg.BackendURL, "backend base URL")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "token database path")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.BoolVar(&g.json, "json", false, "print JSON")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(a.Stdout, usage)
			return ExitOK
		}
		notifier.Error(err.Error())
		return ExitUsage
	}
	rest := fs.Args()
	if len(rest) == 0 || rest[0] == "help" {
		fmt.Fprint(a.Stdout, usage)
		return ExitOK
	}

	logger := logging.New(a.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = a.dispatch(ctx, cfg, g, logger, notifier, rest)
	if err == nil {
		return ExitOK
	}
	var se shownError
	if !errors.As(err, &se) {
		notifier.Error(err.Error())
	}
	logger.Debug("command failed", "command", rest[0], "error", err)
	return exitCode(err)
}

func exitCode(err error) int {
	var (
		uerr   usageError
		verr   *validate.Error
		apiErr *service.APIError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &uerr), errors.As(err, &verr):
		return ExitUsage
	case errors.Is(err, session.ErrNotAuthenticated), errors.Is(err, session.ErrEmptyToken):
		return ExitAuth
	case errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden):
		return ExitAuth
	default:
		return ExitBackend
	}
}

// env is everything a command needs, built once per invocation.
type env struct {
	cfg      config.Config
	json     bool
	logger   *slog.Logger
	notifier notify.Notifier
	loading  *loading.Indicator
	db       *sql.DB
	session  *session.Manager
	backend  service.BackendService
}

func (e *env) close() {
	if e.db != nil {
		e.db.Close()
	}
}

func (a App) open(ctx context.Context, cfg config.Config, g globalOptions, logger *slog.Logger, n notify.Notifier, verify bool) (*env, error) {
	db, err := tokenstore.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}

	mgr := session.NewManager(tokenstore.New(db), cfg.BackendURL, logger.With("component", "session"))
	backend := service.NewBackendService(service.Config{
		BaseURL:    cfg.BackendURL,
		Timeout:    cfg.HTTPTimeout,
		Tokens:     mgr,
		HTTPClient: a.HTTPClient,
		Logger:     logger.With("component", "service"),
	})
	if verify {
		mgr.Initialize(ctx, backend)
	}

	ind := loading.New(cfg.MinLoading, loading.WithObserver(func(visible bool) {
		logger.Debug("loading", "visible", visible)
	}))

	return &env{
		cfg:      cfg,
		json:     g.json,
		logger:   logger,
		notifier: n,
		loading:  ind,
		db:       db,
		session:  mgr,
		backend:  backend,
	}, nil
}

func (a App) dispatch(ctx context.Context, cfg config.Config, g globalOptions, logger *slog.Logger, n notify.Notifier, args []string) error {
	name, rest := args[0], args[1:]

	var run func(context.Context, *env, []string) error
	verify := true
	switch name {
	case "login":
		run, verify = a.cmdLogin, false
	case "logout":
		run, verify = a.cmdLogout, false
	case "status":
		run = a.cmdStatus
	case "search":
		run = a.cmdSearch
	case "search-all":
		run = a.cmdSearchAll
	case "feedback":
		run = a.cmdFeedback
	case "profile":
		run = a.cmdProfile
	case "flights":
		run = a.cmdFlights
	default:
		return usagef("unknown command %q, run flightdesk help", name)
	}

	e, err := a.open(ctx, cfg, g, logger, n, verify)
	if err != nil {
		return err
	}
	defer e.close()
	return run(ctx, e, rest)
}

// parseFlags parses a subcommand's flags, rejecting stray arguments.
func parseFlags(fs *flag.FlagSet, args []string) error {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return usagef("%s: %v", fs.Name(), err)
	}
	if fs.NArg() > 0 {
		return usagef("%s: unexpected argument %q", fs.Name(), fs.Arg(0))
	}
	return nil
}
