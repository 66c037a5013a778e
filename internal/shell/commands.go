package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"chronix/config"
	"chronix/internal/task"
	"chronix/pkg/gdocs"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
	// ErrExit is returned by exit and quit; the shell stops on it.
	ErrExit = errors.New("exit")
)

// Options configures a Dispatcher.
type Options struct {
	UseCase task.UseCase
	// SetupErr is reported by the task commands when the use case could
	// not be built, e.g. because of an invalid configuration.
	SetupErr error

	Config     *config.Config
	ConfigPath string
	Location   *time.Location

	// In supplies the authorization code for "auth" when none is given.
	In io.Reader
	// NewAuthenticator defaults to gdocs.NewAuthenticator.
	NewAuthenticator func(credentialsPath, tokenPath string) (Authenticator, error)
}

// Authenticator runs the installed-app OAuth flow.
type Authenticator interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) error
	TokenPath() string
}

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, f *Formatter, args []string) error
}

// Dispatcher runs shell commands; it serves both the one-shot mode and
// the interactive shell.
type Dispatcher struct {
	opts     Options
	commands map[string]command
	// base, when set, supplies the color profile for output written to
	// buffers instead of the terminal.
	base *lipgloss.Renderer
}

func NewDispatcher(opts Options) *Dispatcher {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.NewAuthenticator == nil {
		opts.NewAuthenticator = newGDocsAuthenticator
	}

	d := &Dispatcher{opts: opts}
	d.commands = map[string]command{
		"sync":    {"sync", "Fetch and parse every configured document", d.sync},
		"today":   {"today [day]", "Show the schedule for today or another day (tomorrow, next monday, 2026-01-19)", d.today},
		"tasks":   {"tasks [--all] [--project name]", "List incomplete tasks, or every task with --all", d.tasks},
		"explain": {"explain <id>", "Show a task and where it lands today", d.explain},
		"config":  {"config <init [--force]|show|path|validate>", "Manage the configuration file", d.config},
		"auth":    {"auth [code]", "Authorize access to Google Docs", d.auth},
		"help":    {"help", "Show this help", d.help},
		"exit":    {"exit", "Leave the shell", d.exit},
	}
	d.commands["quit"] = d.commands["exit"]
	return d
}

// Run executes one command line, writing output to w.
func (d *Dispatcher) Run(ctx context.Context, w io.Writer, args []string) error {
	f := d.formatter(w)
	if len(args) == 0 {
		return nil
	}

	cmd, ok := d.commands[strings.ToLower(args[0])]
	if !ok {
		f.Warning(fmt.Sprintf("Unknown command: %s", args[0]))
		f.println(f.dim.Render("Type 'help' for available commands."))
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}

	err := cmd.run(ctx, f, args[1:])
	switch {
	case err == nil, errors.Is(err, ErrExit):
	case errors.Is(err, ErrUsage):
		f.Error(fmt.Errorf("usage: %s", cmd.usage))
	default:
		f.Error(err)
	}
	return err
}

func (d *Dispatcher) formatter(w io.Writer) *Formatter {
	if d.base == nil {
		return NewFormatter(w, d.opts.Location)
	}
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(d.base.ColorProfile())
	r.SetHasDarkBackground(d.base.HasDarkBackground())
	return newFormatter(w, d.opts.Location, r)
}

func (d *Dispatcher) useCase() (task.UseCase, error) {
	if d.opts.SetupErr != nil {
		return nil, d.opts.SetupErr
	}
	if d.opts.UseCase == nil {
		return nil, errors.New("task service is not configured")
	}
	return d.opts.UseCase, nil
}

func (d *Dispatcher) sync(ctx context.Context, f *Formatter, args []string) error {
	uc, err := d.useCase()
	if err != nil {
		return err
	}

	f.println(f.dim.Render("Starting sync..."))
	out, err := uc.Sync(ctx, task.SyncInput{})
	if errors.Is(err, task.ErrNoDocuments) {
		f.Warning("No documents configured.")
		f.printf("Add google_docs.document_ids or markdown.files to %s\n", f.accent.Render(d.configPath()))
		return err
	}
	if err != nil {
		for _, fl := range out.Failures {
			f.printf("  %s %s: %v\n", f.bad.Render("✗"), fl.Document.ID, fl.Err)
		}
		return err
	}

	f.SyncSummary(out)
	return nil
}

func (d *Dispatcher) today(ctx context.Context, f *Formatter, args []string) error {
	uc, err := d.useCase()
	if err != nil {
		return err
	}

	out, err := uc.Today(ctx, task.TodayInput{Day: strings.Join(args, " ")})
	if err != nil {
		if errors.Is(err, task.ErrNotSynced) {
			f.Info("Run 'sync' first.")
		}
		return err
	}

	f.Timeline(out.Timeline)
	return nil
}

func (d *Dispatcher) tasks(ctx context.Context, f *Formatter, args []string) error {
	uc, err := d.useCase()
	if err != nil {
		return err
	}

	input := task.TasksInput{IncompleteOnly: true}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--all", "-a":
			input.IncompleteOnly = false
		case "--project", "-p":
			if i+1 >= len(args) {
				return ErrUsage
			}
			i++
			input.Project = args[i]
		default:
			return ErrUsage
		}
	}

	list, err := uc.Tasks(ctx, input)
	if err != nil {
		return err
	}
	f.Tasks(list)
	return nil
}

func (d *Dispatcher) explain(ctx context.Context, f *Formatter, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	uc, err := d.useCase()
	if err != nil {
		return err
	}

	out, err := uc.Explain(ctx, task.ExplainInput{ID: args[0]})
	if err != nil {
		return err
	}
	f.Explain(out)
	return nil
}

func (d *Dispatcher) configPath() string {
	switch {
	case d.opts.ConfigPath != "":
		return d.opts.ConfigPath
	case d.opts.Config != nil && d.opts.Config.Path != "":
		return d.opts.Config.Path
	default:
		return config.DefaultPath()
	}
}

func (d *Dispatcher) config(ctx context.Context, f *Formatter, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	path := d.configPath()

	switch args[0] {
	case "init":
		force := len(args) > 1 && (args[1] == "--force" || args[1] == "-f")
		if err := config.WriteDefault(path, force); err != nil {
			if errors.Is(err, config.ErrConfigExists) {
				f.Info("Use 'config init --force' to overwrite it.")
			}
			return err
		}
		f.Success("Wrote " + path)
		f.println(f.dim.Render("Add your document ids, then run 'auth' and 'sync'."))
	case "path":
		f.println(path)
	case "show":
		cfg := d.opts.Config
		if cfg == nil {
			cfg = config.Default()
		}
		body, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		f.printf("%s\n\n%s", f.dim.Render("# "+path), body)
	case "validate":
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			f.Warning("Configuration has problems:")
			for _, line := range strings.Split(err.Error(), "\n") {
				f.printf("   %s %s\n", f.warn.Render("•"), line)
			}
			return fmt.Errorf("invalid configuration: %s", path)
		}
		f.Success("Configuration is valid: " + path)
	default:
		return ErrUsage
	}
	return nil
}

func (d *Dispatcher) auth(ctx context.Context, f *Formatter, args []string) error {
	if d.opts.Config == nil {
		return errors.New("no configuration loaded")
	}
	gd := d.opts.Config.GoogleDocs
	if gd.AuthMethod == config.AuthMethodServiceAccount {
		f.Info("Service-account credentials need no authorization.")
		return nil
	}

	a, err := d.opts.NewAuthenticator(gd.CredentialsPath, gd.TokenPath)
	if err != nil {
		return err
	}

	code := ""
	if len(args) > 0 {
		code = strings.Join(args, " ")
	} else {
		f.println("Open this URL in your browser and authorize chronix:")
		f.println()
		f.println("  " + f.accent.Render(a.AuthCodeURL("chronix")))
		f.println()
		if d.opts.In == nil {
			f.println("Then run " + f.accent.Render("auth <code>") + " with the code you were given.")
			return nil
		}
		f.printf("Authorization code: ")
		line, err := bufio.NewReader(d.opts.In).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		code = strings.TrimSpace(line)
	}

	if code == "" {
		return gdocs.ErrEmptyAuthorization
	}
	if err := a.Exchange(ctx, code); err != nil {
		return err
	}
	f.Success("Token saved to " + a.TokenPath())
	return nil
}

func (d *Dispatcher) help(ctx context.Context, f *Formatter, args []string) error {
	names := make([]string, 0, len(d.commands))
	for name := range d.commands {
		if name != "quit" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	f.println(f.bold.Render("Commands:"))
	for _, name := range names {
		c := d.commands[name]
		f.printf("  %-44s %s\n", f.accent.Render(c.usage), f.dim.Render(c.help))
	}
	f.printf("  %-44s %s\n", f.accent.Render("clear"), f.dim.Render("Clear the screen (shell only)"))
	f.printf("  %-44s %s\n", f.accent.Render("serve"), f.dim.Render("Run the HTTP API (one-shot only)"))
	return nil
}

func (d *Dispatcher) exit(ctx context.Context, f *Formatter, args []string) error {
	f.println(f.dim.Render("Goodbye!"))
	return ErrExit
}

type gdocsAuthenticator struct {
	*gdocs.Authenticator
}

func (a gdocsAuthenticator) Exchange(ctx context.Context, code string) error {
	_, err := a.Authenticator.Exchange(ctx, code)
	return err
}

func newGDocsAuthenticator(credentialsPath, tokenPath string) (Authenticator, error) {
	a, err := gdocs.NewAuthenticator(credentialsPath, tokenPath)
	if err != nil {
		return nil, err
	}
	return gdocsAuthenticator{a}, nil
}
