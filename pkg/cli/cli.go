// Package cli provides console command scaffolding for application binaries:
// a named command registry with usage output, plus ready-made schema
// migration commands built on pkg/pg.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

var (
	// ErrUnknownCommand indicates dispatch of a name with no registered command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrNoCommand indicates Run was invoked without a command name.
	ErrNoCommand = errors.New("no command given")
	// ErrDuplicateCommand indicates two registrations under the same name.
	ErrDuplicateCommand = errors.New("command already registered")
)

// Command is one console command. Run receives the remaining command-line
// arguments after the command name.
type Command struct {
	Name  string
	Usage string
	Run   func(ctx context.Context, args []string) error
}

// App dispatches console commands by name.
type App struct {
	name     string
	out      io.Writer
	log      *slog.Logger
	commands map[string]*Command
}

// Option configures an App.
type Option func(*App)

// WithOutput redirects usage output, mainly for tests.
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		if w != nil {
			a.out = w
		}
	}
}

// WithLogger sets the logger commands report through.
func WithLogger(log *slog.Logger) Option {
	return func(a *App) {
		if log != nil {
			a.log = log
		}
	}
}

// New creates a command dispatcher for the named binary.
func New(name string, opts ...Option) *App {
	a := &App{
		name:     name,
		out:      os.Stdout,
		log:      slog.Default(),
		commands: make(map[string]*Command),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register adds commands to the app. Duplicate names are rejected.
func (a *App) Register(cmds ...*Command) error {
	for _, cmd := range cmds {
		if cmd == nil || cmd.Name == "" || cmd.Run == nil {
			return fmt.Errorf("cli: command must have a name and a run function")
		}
		if _, exists := a.commands[cmd.Name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateCommand, cmd.Name)
		}
		a.commands[cmd.Name] = cmd
	}
	return nil
}

// Run dispatches args[0] to its command, passing the rest through. "help",
// "-h", and "--help" print usage. A missing or unknown command prints usage
// and returns an error so binaries exit non-zero.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printUsage()
		return ErrNoCommand
	}

	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		a.printUsage()
		return nil
	}

	cmd, ok := a.commands[name]
	if !ok {
		a.printUsage()
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	if err := cmd.Run(ctx, args[1:]); err != nil {
		a.log.ErrorContext(ctx, "command failed", "command", name, "error", err)
		return err
	}
	return nil
}

func (a *App) printUsage() {
	names := make([]string, 0, len(a.commands))
	width := 0
	for name := range a.commands {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s <command> [arguments]\n\nCommands:\n", a.name)
	for _, name := range names {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, name, a.commands[name].Usage)
	}
	fmt.Fprint(a.out, b.String())
}
