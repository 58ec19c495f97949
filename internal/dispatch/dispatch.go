// Package dispatch maps typed command lines to registered commands.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/projectdiscovery/gologger"
	mapsutil "github.com/projectdiscovery/utils/maps"
	"github.com/rs/xid"
)

// Command is a verb the operator can type.
type Command interface {
	Name() string
	Tip() string
	Handle(ctx context.Context, args []string)
}

// Logger brackets a command invocation with a per-command log.
type Logger interface {
	StartLog(command, id string) (string, error)
	StopLog() error
}

// Dispatcher routes lines to commands. Verbs are matched case-insensitively.
type Dispatcher struct {
	out      io.Writer
	logger   Logger
	commands *mapsutil.SyncLockMap[string, Command]
	running  atomic.Bool
}

// New returns a dispatcher with the built-in help, quit and exit commands
// registered. logger may be nil.
func New(out io.Writer, logger Logger) *Dispatcher {
	d := &Dispatcher{
		out:      out,
		logger:   logger,
		commands: mapsutil.NewSyncLockMap[string, Command](),
	}
	d.running.Store(true)
	_ = d.Register(
		builtin{name: "help", tip: "Show this message", run: d.help},
		builtin{name: "quit", tip: "Exit the program", run: d.stop},
		builtin{name: "exit", tip: "Exit the program", run: d.stop},
	)
	return d
}

// Register adds commands. Registering a name twice is an error.
func (d *Dispatcher) Register(commands ...Command) error {
	for _, c := range commands {
		name := strings.ToLower(c.Name())
		if _, ok := d.commands.Get(name); ok {
			return fmt.Errorf("command %q already registered", name)
		}
		if err := d.commands.Set(name, c); err != nil {
			return err
		}
	}
	return nil
}

// Running reports whether quit has not been requested yet.
func (d *Dispatcher) Running() bool {
	return d.running.Load()
}

// Dispatch runs the command named by the first word of line and reports
// whether the loop should keep going.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return d.Running()
	}
	verb := strings.ToLower(fields[0])

	c, ok := d.commands.Get(verb)
	if !ok {
		fmt.Fprintf(d.out, "Unknown command: %s\n", strings.TrimSpace(line))
		fmt.Fprintln(d.out, "Type 'help' for available commands")
		return d.Running()
	}

	id := xid.New().String()
	gologger.Verbose().Msgf("[%s] %s %s", id, verb, strings.Join(redact(verb, fields[1:]), " "))

	if _, isBuiltin := c.(builtin); !isBuiltin && d.logger != nil {
		if path, err := d.logger.StartLog(verb, id); err != nil {
			gologger.Warning().Msgf("could not open log for %s: %s", verb, err)
		} else if path != "" {
			gologger.Verbose().Msgf("[%s] logging to %s", id, path)
		}
		defer func() {
			if err := d.logger.StopLog(); err != nil {
				gologger.Warning().Msgf("could not close log for %s: %s", verb, err)
			}
		}()
	}

	c.Handle(ctx, fields[1:])
	return d.Running()
}

func (d *Dispatcher) help(context.Context, []string) {
	var names []string
	_ = d.commands.Iterate(func(name string, _ Command) error {
		names = append(names, name)
		return nil
	})
	slices.Sort(names)

	fmt.Fprintln(d.out, "\nAvailable commands:")
	for _, name := range names {
		c, _ := d.commands.Get(name)
		fmt.Fprintf(d.out, "  %s\t-\t%s\n", name, c.Tip())
	}
}

func (d *Dispatcher) stop(context.Context, []string) {
	d.running.Store(false)
}

// redact hides the password argument of ssh in trace output.
func redact(verb string, args []string) []string {
	if verb != "ssh" || len(args) < 3 {
		return args
	}
	out := slices.Clone(args)
	out[2] = "****"
	return out
}

type builtin struct {
	name string
	tip  string
	run  func(ctx context.Context, args []string)
}

func (b builtin) Name() string { return b.name }
func (b builtin) Tip() string  { return b.tip }

func (b builtin) Handle(ctx context.Context, args []string) {
	b.run(ctx, args)
}
