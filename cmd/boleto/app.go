package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/peterbourgon/ff/v4"

	"github.com/zombor/boleto-client/internal/acquire"
	"github.com/zombor/boleto-client/internal/api"
	"github.com/zombor/boleto-client/internal/flow"
	"github.com/zombor/boleto-client/internal/precheck"
	"github.com/zombor/boleto-client/internal/results"
)

// errReported marks failures the user has already been told about
var errReported = errors.New("already reported")

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	rootFlags   *ff.FlagSet
	env         *string
	baseURL     *string
	token       *string
	timeout     *time.Duration
	historyDB   *string
	checkerKind *string
	convertHEIC *bool
	verbose     *bool
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	fs := ff.NewFlagSet("boleto")
	return &app{
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
		rootFlags:   fs,
		env:         fs.StringLong("env", string(api.EnvProd), "Backend environment: 'prod' or 'local'"),
		baseURL:     fs.StringLong("base-url", "", "Backend base URL (overrides --env)"),
		token:       fs.StringLong("token", "", "Bearer token sent with every request (optional)"),
		timeout:     fs.DurationLong("timeout", 0, "Request timeout (0 waits indefinitely)"),
		historyDB:   fs.StringLong("history-db", "boleto-history.db", "Result history database path"),
		checkerKind: fs.StringLong("checker", string(precheck.KindFitz), "PDF checker: 'fitz' or 'pure'"),
		convertHEIC: fs.BoolLong("convert-heic", "Convert HEIC/HEIF photos to PNG before upload"),
		verbose:     fs.BoolLong("verbose", "Enable debug logging"),
	}
}

func (a *app) configureLogging() {
	level := slog.LevelInfo
	if *a.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level})))
}

func (a *app) command() *ff.Command {
	cameraFlags := ff.NewFlagSet("camera").SetParent(a.rootFlags)
	dataURLFile := cameraFlags.StringLong("data-url-file", "-", "File holding the captured data URL ('-' reads stdin)")

	loginFlags := ff.NewFlagSet("login").SetParent(a.rootFlags)
	loginEmail := loginFlags.StringLong("email", "", "Account email")
	loginSenha := loginFlags.StringLong("senha", "", "Account password")

	registerFlags := ff.NewFlagSet("register").SetParent(a.rootFlags)
	registerNome := registerFlags.StringLong("nome", "", "Full name")
	registerEmail := registerFlags.StringLong("email", "", "Account email")
	registerSenha := registerFlags.StringLong("senha", "", "Account password")

	recoverFlags := ff.NewFlagSet("recover-password").SetParent(a.rootFlags)
	recoverEmail := recoverFlags.StringLong("email", "", "Account email")
	recoverNovaSenha := recoverFlags.StringLong("nova-senha", "", "New password")

	return &ff.Command{
		Name:      "boleto",
		Usage:     "boleto [FLAGS] <SUBCOMMAND> ...",
		ShortHelp: "Send boleto photos and PDFs to the extraction backend",
		Flags:     a.rootFlags,
		Subcommands: []*ff.Command{
			{
				Name:      "upload",
				Usage:     "boleto upload [FLAGS] <file>",
				ShortHelp: "Upload a boleto image or PDF",
				Flags:     ff.NewFlagSet("upload").SetParent(a.rootFlags),
				Exec: func(ctx context.Context, args []string) error {
					if len(args) != 1 {
						return fmt.Errorf("upload requires exactly one file")
					}
					return a.runFlow(ctx, func(f *flow.Flow) error {
						return f.SelectFile(ctx, acquire.NewFilePicker(""), args[0])
					})
				},
			},
			{
				Name:      "camera",
				Usage:     "boleto camera [FLAGS]",
				ShortHelp: "Upload a camera capture given as a base64 data URL",
				Flags:     cameraFlags,
				Exec: func(ctx context.Context, args []string) error {
					camera := acquire.NewReaderCamera(*dataURLFile, a.stdin)
					return a.runFlow(ctx, func(f *flow.Flow) error {
						return f.UseCamera(ctx, camera)
					})
				},
			},
			{
				Name:      "login",
				Usage:     "boleto login --email EMAIL --senha SENHA",
				ShortHelp: "Log in to the backend",
				Flags:     loginFlags,
				Exec: func(ctx context.Context, args []string) error {
					return a.runAccount(func(c *api.Client) (api.Result, error) {
						return c.Login(ctx, *loginEmail, *loginSenha)
					})
				},
			},
			{
				Name:      "me",
				Usage:     "boleto me",
				ShortHelp: "Show the current user",
				Flags:     ff.NewFlagSet("me").SetParent(a.rootFlags),
				Exec: func(ctx context.Context, args []string) error {
					return a.runAccount(func(c *api.Client) (api.Result, error) {
						return c.Me(ctx)
					})
				},
			},
			{
				Name:      "register",
				Usage:     "boleto register --nome NOME --email EMAIL --senha SENHA",
				ShortHelp: "Create an account",
				Flags:     registerFlags,
				Exec: func(ctx context.Context, args []string) error {
					return a.runAccount(func(c *api.Client) (api.Result, error) {
						return c.Register(ctx, api.RegisterRequest{Nome: *registerNome, Email: *registerEmail, Senha: *registerSenha})
					})
				},
			},
			{
				Name:      "recover-password",
				Usage:     "boleto recover-password --email EMAIL --nova-senha SENHA",
				ShortHelp: "Set a new account password",
				Flags:     recoverFlags,
				Exec: func(ctx context.Context, args []string) error {
					return a.runAccount(func(c *api.Client) (api.Result, error) {
						return c.RecoverPassword(ctx, *recoverEmail, *recoverNovaSenha)
					})
				},
			},
			{
				Name:      "history",
				Usage:     "boleto history [FLAGS] [id]",
				ShortHelp: "List stored results, or show one",
				Flags:     ff.NewFlagSet("history").SetParent(a.rootFlags),
				Exec: func(ctx context.Context, args []string) error {
					return a.runHistory(args)
				},
			},
		},
	}
}

func (a *app) client() (*api.Client, error) {
	baseURL, err := api.BaseURL(api.Environment(*a.env), *a.baseURL)
	if err != nil {
		return nil, err
	}
	slog.Debug("Using backend", "base_url", baseURL)
	return api.NewClient(baseURL, *a.token, *a.timeout), nil
}

// runFlow wires one upload flow and runs it
func (a *app) runFlow(ctx context.Context, run func(*flow.Flow) error) error {
	client, err := a.client()
	if err != nil {
		return err
	}

	checker, err := precheck.New(precheck.Kind(*a.checkerKind))
	if err != nil {
		return err
	}

	var store results.Store
	if *a.historyDB != "" {
		bolt, err := results.NewBoltStore(*a.historyDB)
		if err != nil {
			slog.Warn("History disabled", "path", *a.historyDB, "error", err)
		} else {
			defer bolt.Close()
			store = bolt
		}
	}

	presenter := &alertTracker{Presenter: flow.NewTerminalPresenter(a.stderr)}
	view := results.NewView(a.stdout, store)
	f := flow.New(
		client,
		checker,
		flow.NewTerminalPrompter(a.stdin, a.stderr),
		presenter,
		view,
		flow.Options{ConvertHEIC: *a.convertHEIC, Recorder: view},
	)

	if err := run(f); err != nil {
		if presenter.alerted || errors.Is(err, flow.ErrAborted) {
			return fmt.Errorf("%w: %w", errReported, err)
		}
		return err
	}
	return nil
}

// alertTracker remembers whether the user has seen an alert
type alertTracker struct {
	flow.Presenter
	alerted bool
}

func (t *alertTracker) Alert(event flow.Event) {
	t.alerted = true
	t.Presenter.Alert(event)
}

func (a *app) runAccount(call func(*api.Client) (api.Result, error)) error {
	client, err := a.client()
	if err != nil {
		return err
	}
	result, err := call(client)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			fmt.Fprintln(a.stderr, apiErr.Message)
			return fmt.Errorf("%w: %w", errReported, err)
		}
		return err
	}
	return results.Print(a.stdout, result)
}

func (a *app) runHistory(args []string) error {
	if *a.historyDB == "" {
		return fmt.Errorf("history is disabled (empty --history-db)")
	}
	store, err := results.NewBoltStore(*a.historyDB)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(args) > 0 {
		entry, err := store.GetEntry(args[0])
		if err != nil {
			return err
		}
		return results.Print(a.stdout, entry.Result)
	}

	entries, err := store.ListEntries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(a.stdout, "%s\t%s\t%s\t%s\n", e.ID, e.CreatedAt.Format(time.RFC3339), e.ContentType, e.Filename)
	}
	return nil
}
