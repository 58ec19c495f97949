package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kr/pretty"
	"github.com/logrusorgru/aurora/v4"
	"github.com/netcartographer/cartographer/internal/commands"
	"github.com/netcartographer/cartographer/internal/console"
	"github.com/netcartographer/cartographer/internal/dispatch"
	"github.com/netcartographer/cartographer/pkg/probe/icmp"
	"github.com/netcartographer/cartographer/pkg/probe/tcp"
	"github.com/netcartographer/cartographer/pkg/rdns"
	"github.com/netcartographer/cartographer/pkg/remote"
	"github.com/projectdiscovery/gologger"
	errorutil "github.com/projectdiscovery/utils/errors"
)

const prompt = "> "

// Runner contains the internal logic of the program
type Runner struct {
	options    *Options
	console    *console.Console
	dispatcher *dispatch.Dispatcher
	input      <-chan string
	cancel     context.CancelFunc
}

// NewRunner wires every command to stdin and stdout.
func NewRunner(options *Options) (*Runner, error) {
	return newRunner(options, os.Stdin, os.Stdout)
}

func newRunner(options *Options, in io.Reader, out io.Writer) (*Runner, error) {
	if au == nil {
		au = aurora.New(aurora.WithColors(!options.NoColor))
	}
	gologger.Verbose().Msgf("options: %s", pretty.Sprint(options.Config))

	logDir := options.LogDir
	if options.NoLog {
		logDir = ""
	}
	con := console.New(out, logDir)

	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		options:    options,
		console:    con,
		dispatcher: dispatch.New(con, con),
		cancel:     cancel,
	}
	// one-shot runs never hand stdin to a remote shell
	if len(options.Commands) == 0 {
		r.input = console.Lines(ctx, in)
	}

	if err := r.register(); err != nil {
		cancel()
		return nil, errorutil.NewWithErr(err).Msgf("could not register commands")
	}
	return r, nil
}

func (r *Runner) register() error {
	cfg := r.options.Config

	env := commands.Env{Out: r.console, Au: au}
	if cfg.RDNS {
		env.Names = rdns.New(cfg.RDNSCache, cfg.RDNSCacheTTL, cfg.RDNSTimeout)
	}
	settings := commands.SweepSettings{
		MaxWorkers: cfg.Workers,
		SpawnDelay: cfg.SpawnDelay,
		MaxHosts:   cfg.MaxHosts,
		Prioritize: cfg.Prioritize,
	}
	liveness := cfg.LivenessPorts
	if len(liveness) == 0 {
		liveness = commands.DefaultLivenessPorts
	}

	return r.dispatcher.Register(
		&commands.Ping{
			Env:    env,
			Sweep:  settings,
			Prober: icmp.Prober{Timeout: cfg.PingTimeout, Attempts: cfg.PingAttempts},
		},
		&commands.Scan{
			Env:    env,
			Sweep:  settings,
			Prober: tcp.HostProber{Ports: liveness, Timeout: cfg.TCPTimeout},
		},
		&commands.TCP{
			Env:     env,
			Sweep:   settings,
			Timeout: cfg.TCPTimeout,
			Delay:   cfg.TCPDelay,
			Ports:   cfg.TCPPorts,
		},
		&commands.SSH{
			Env: env,
			Config: remote.Config{
				Timeout:       cfg.SSH.Timeout,
				Terminal:      cfg.SSH.Terminal,
				SettleWindow:  cfg.SSH.SettleWindow,
				MaxEmptyReads: cfg.SSH.MaxEmptyReads,
				PollInterval:  cfg.SSH.PollInterval,
				Escape:        cfg.SSH.Escape,
			},
			ProfilePath: cfg.SSH.Profiles,
			Profile:     cfg.SSH.Profile,
			Input:       r.input,
		},
		&commands.Ifaces{Env: env},
	)
}

// Run executes the -c commands when given, otherwise reads commands from
// stdin until quit, end of input or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	if len(r.options.Commands) > 0 {
		for _, line := range r.options.Commands {
			if ctx.Err() != nil || !r.dispatcher.Dispatch(ctx, line) {
				break
			}
		}
		return nil
	}

	for {
		fmt.Fprint(r.console, prompt)
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-r.input:
			if !ok {
				fmt.Fprintln(r.console)
				return nil
			}
			if !r.dispatcher.Dispatch(ctx, line) {
				return nil
			}
		}
	}
}

// Close stops reading input and closes any open command log.
func (r *Runner) Close() {
	r.cancel()
	if err := r.console.StopLog(); err != nil {
		gologger.Warning().Msgf("could not close log: %s", err)
	}
}
