package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"ojadmin/internal/admin/api"
	"ojadmin/internal/admin/screen"
	"ojadmin/internal/admin/session"
	"ojadmin/internal/cli/command"
	"ojadmin/internal/cli/config"
	"ojadmin/pkg/utils/contextkey"
	"ojadmin/pkg/utils/logger"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
)

const (
	promptReady = "ojadmin> "
	promptLogin = "login> "

	msgSessionExpired = "session expired, please login"
)

// LineReader is the input side of the console. *readline.Instance
// satisfies it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

type passwordReader interface {
	ReadPassword(prompt string) ([]byte, error)
}

type handler func(ctx context.Context, params command.Params) error

// Console is the interactive admin shell. It owns one set of screens, so
// list state survives between commands.
type Console struct {
	cfg      config.Config
	client   *api.Client
	registry map[string]command.Command
	handlers map[string]handler
	in       LineReader
	out      io.Writer
	outMu    sync.Mutex
	location *time.Location
	current  string

	users       *screen.Users
	teams       *screen.Teams
	problems    *screen.Problems
	submissions *screen.Submissions
	events      *screen.Events
	dashboard   *screen.Dashboard

	unsubscribe func()
}

func New(cfg config.Config, client *api.Client, in LineReader, out io.Writer) *Console {
	loc, err := cfg.TimeLocation()
	if err != nil {
		loc = time.Local
	}
	c := &Console{
		cfg:         cfg,
		client:      client,
		registry:    command.Registry(),
		in:          in,
		out:         out,
		location:    loc,
		users:       screen.NewUsers(client),
		teams:       screen.NewTeams(client),
		problems:    screen.NewProblems(client),
		submissions: screen.NewSubmissions(client),
		events:      screen.NewEvents(client),
		dashboard:   screen.NewDashboard(client),
	}
	c.handlers = c.routes()
	c.unsubscribe = client.Session().Subscribe(c.navigate)
	return c
}

// NewReadline opens a line editor with history and command completion.
func NewReadline(historyFile string, registry map[string]command.Command) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          promptLogin,
		HistoryFile:     historyFile,
		AutoComplete:    completer(registry),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
}

func completer(registry map[string]command.Command) *readline.PrefixCompleter {
	actions := map[string][]readline.PrefixCompleterInterface{}
	var order []string
	for _, key := range command.Keys(registry) {
		cmd := registry[key]
		if _, seen := actions[cmd.Service]; !seen {
			order = append(order, cmd.Service)
			actions[cmd.Service] = nil
		}
		if cmd.Action != "" {
			actions[cmd.Service] = append(actions[cmd.Service], readline.PcItem(cmd.Action))
		}
	}
	items := make([]readline.PrefixCompleterInterface, 0, len(order))
	for _, service := range order {
		items = append(items, readline.PcItem(service, actions[service]...))
	}
	return readline.NewPrefixCompleter(items...)
}

// Close detaches the console from the session.
func (c *Console) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// Run reads and executes lines until exit or end of input.
func (c *Console) Run(ctx context.Context) error {
	c.refreshPrompt(ctx)
	if !c.client.Session().IsAuthenticated(ctx) {
		c.printLine("not logged in, use: login username=<name>")
	}
	for {
		line, err := c.in.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if strings.TrimSpace(line) == "" {
				c.printLine("bye")
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			c.printLine("bye")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input failed: %w", err)
		}
		exit, err := c.Execute(ctx, line)
		if err != nil {
			c.printLine("error: %v", err)
		}
		if exit {
			c.printLine("bye")
			return nil
		}
	}
}

// Execute runs one command line. It reports whether the console should exit.
func (c *Console) Execute(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}
	tokens, err := shlex.Split(line)
	if err != nil {
		return false, fmt.Errorf("parse command failed: %w", err)
	}
	if len(tokens) == 1 && strings.EqualFold(tokens[0], "quit") {
		return true, nil
	}
	cmd, rest, ok := command.Lookup(c.registry, tokens)
	if !ok {
		return false, c.unknown(line)
	}
	if cmd.Key() == "exit" {
		return true, nil
	}
	params, err := command.ParseParams(rest)
	if err != nil {
		return false, err
	}
	params.Canonicalize(cmd.Fields)
	if err := command.Validate(cmd, params); err != nil {
		return false, err
	}
	if cmd.RequiresAuth && !c.client.Session().IsAuthenticated(ctx) {
		c.refreshPrompt(ctx)
		return false, fmt.Errorf("not logged in, use: login")
	}
	if err := c.promptMissing(cmd, params); err != nil {
		return false, err
	}
	h, ok := c.handlers[cmd.Key()]
	if !ok {
		return false, fmt.Errorf("command %s is not available", cmd.Key())
	}
	ctx = context.WithValue(ctx, contextkey.Operation, cmd.Key())
	logger.Debug(ctx, "execute command")
	c.current = cmd.Key()
	defer func() { c.current = "" }()
	return false, h(ctx, params)
}

func (c *Console) unknown(line string) error {
	suggestions := command.Suggest(c.registry, line, 3)
	if len(suggestions) == 0 {
		return fmt.Errorf("unknown command: %s (try help)", line)
	}
	return fmt.Errorf("unknown command: %s, did you mean: %s", line, strings.Join(suggestions, " | "))
}

// navigate reacts to session invalidation by returning to the login state.
// A rejected login is reported by the login command itself.
func (c *Console) navigate(_ context.Context, ev session.Invalidated) {
	c.in.SetPrompt(promptLogin)
	if ev.Reason == session.ReasonUnauthorized && c.current != "login" {
		c.printLine(msgSessionExpired)
	}
}

func (c *Console) refreshPrompt(ctx context.Context) {
	if c.client.Session().IsAuthenticated(ctx) {
		c.in.SetPrompt(promptReady)
		return
	}
	c.in.SetPrompt(promptLogin)
}

func (c *Console) promptMissing(cmd command.Command, params command.Params) error {
	missing := command.Missing(cmd, params)
	if len(missing) == 0 {
		return nil
	}
	defer c.refreshPrompt(context.Background())
	for _, field := range missing {
		value, err := c.promptValue(field)
		if err != nil {
			return err
		}
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", field.Name)
		}
		params.Set(field.Name, value)
	}
	return nil
}

func (c *Console) promptValue(field command.Field) (string, error) {
	prompt := field.Prompt + ": "
	if field.Type == command.FieldSecret {
		if pr, ok := c.in.(passwordReader); ok {
			data, err := pr.ReadPassword(prompt)
			if err != nil {
				return "", fmt.Errorf("read input failed: %w", err)
			}
			return strings.TrimSpace(string(data)), nil
		}
	}
	c.in.SetPrompt(prompt)
	line, err := c.in.Readline()
	if err != nil {
		return "", fmt.Errorf("read input failed: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) printLine(format string, args ...interface{}) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	_, _ = fmt.Fprintf(c.out, format+"\n", args...)
}
