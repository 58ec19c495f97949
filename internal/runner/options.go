package runner

import (
	"flag"
	"os"

	"github.com/logrusorgru/aurora/v4"
	"github.com/netcartographer/cartographer/internal/commands"
	"github.com/netcartographer/cartographer/pkg/version"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
	envutil "github.com/projectdiscovery/utils/env"
	errorutil "github.com/projectdiscovery/utils/errors"
)

var au *aurora.Aurora

// DefaultConfigLocation can be overridden with CARTOGRAPHER_CONFIG.
var DefaultConfigLocation = envutil.GetEnvOrDefault("CARTOGRAPHER_CONFIG", defaultConfigLocation())

// Options contains the configuration options of a cartographer run.
type Options struct {
	Config

	ConfigFile    string
	Commands      goflags.StringSlice
	TCPPorts      string
	LivenessPorts string

	NoColor bool
	Verbose bool
	Silent  bool
	Version bool
}

// ParseOptions parses the command line flags provided by a user
func ParseOptions() *Options {
	options := &Options{Config: DefaultConfig()}
	flagSet := goflags.NewFlagSet()

	flagSet.SetDescription(`cartographer maps plant and office networks: ping and TCP sweeps, port checks and scripted SSH discovery`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringSliceVarP(&options.Commands, "command", "c", nil, "run command(s) then exit instead of starting the shell (e.g. -c 'ping 10.0.0.0/24')", goflags.StringSliceOptions),
	)

	flagSet.CreateGroup("config", "Config",
		flagSet.StringVar(&options.ConfigFile, "config", DefaultConfigLocation, "tunables configuration file (yaml)"),
	)

	flagSet.CreateGroup("sweep", "Sweep",
		flagSet.IntVarP(&options.Workers, "workers", "w", options.Workers, "number of concurrent sweep workers"),
		flagSet.DurationVarP(&options.SpawnDelay, "spawn-delay", "sd", options.SpawnDelay, "delay between starting sweep workers"),
		flagSet.IntVarP(&options.MaxHosts, "max-hosts", "mh", options.MaxHosts, "refuse sweeps larger than this many hosts (0 = no limit)"),
		flagSet.BoolVarP(&options.Prioritize, "prioritize", "pr", options.Prioritize, "probe likely infrastructure addresses (gateways, switches) first"),
	)

	flagSet.CreateGroup("probe", "Probe",
		flagSet.DurationVarP(&options.PingTimeout, "ping-timeout", "pt", options.PingTimeout, "icmp echo reply timeout"),
		flagSet.IntVarP(&options.PingAttempts, "ping-attempts", "pa", options.PingAttempts, "icmp echo attempts per host"),
		flagSet.DurationVarP(&options.TCPTimeout, "tcp-timeout", "tt", options.TCPTimeout, "tcp connect timeout"),
		flagSet.DurationVarP(&options.TCPDelay, "tcp-delay", "td", options.TCPDelay, "delay between port probes on the same host"),
		flagSet.StringVarP(&options.TCPPorts, "tcp-ports", "tp", "", "ports checked by 'tcp <ip>' (comma separated, default industrial catalog)"),
		flagSet.StringVarP(&options.LivenessPorts, "liveness-ports", "lp", "", "ports tried by 'scan' (comma separated)"),
		flagSet.BoolVar(&options.RDNS, "rdns", options.RDNS, "resolve reverse dns names of alive hosts"),
	)

	flagSet.CreateGroup("ssh", "SSH",
		flagSet.DurationVar(&options.SSH.Timeout, "ssh-timeout", options.SSH.Timeout, "ssh connect and handshake timeout"),
		flagSet.StringVar(&options.SSH.Profiles, "ssh-profiles", options.SSH.Profiles, "json file with named discovery command profiles"),
		flagSet.StringVarP(&options.SSH.Profile, "ssh-profile", "sp", options.SSH.Profile, "discovery profile to run after login"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.StringVarP(&options.LogDir, "log-dir", "ld", options.LogDir, "directory for per-command logs"),
		flagSet.BoolVarP(&options.NoLog, "no-log", "nl", options.NoLog, "do not write per-command logs"),
		flagSet.BoolVarP(&options.NoColor, "no-color", "nc", false, "disable output content coloring (ANSI escape codes)"),
		flagSet.BoolVar(&options.Silent, "silent", false, "show only results in output"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.BoolVar(&options.Version, "version", false, "show version of the project"),
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "show verbose output"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}

	// configure aurora for logging
	au = aurora.New(aurora.WithColors(true))

	options.configureOutput()

	showBanner()

	if options.Version {
		gologger.Info().Msgf("Current Version: %s\n", version.Version)
		os.Exit(0)
	}

	if err := options.mergeConfigFile(flagSet.CommandLine); err != nil {
		gologger.Warning().Msgf("%s\n", err)
	}
	if err := options.parsePorts(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}
	if err := options.Validate(); err != nil {
		gologger.Fatal().Msgf("invalid options: %s\n", err)
	}

	return options
}

// configureOutput configures the output on the screen
func (options *Options) configureOutput() {
	// If the user desires verbose output, show verbose output
	if options.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if options.NoColor {
		gologger.DefaultLogger.SetFormatter(formatter.NewCLI(true))
		au = aurora.New(aurora.WithColors(false))
	}
	if options.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
}

// mergeConfigFile applies the tunables file under the flags the user set
// explicitly, so command line values always win.
func (options *Options) mergeConfigFile(cli *flag.FlagSet) error {
	if options.ConfigFile == "" {
		return nil
	}
	cfg, err := LoadConfig(options.ConfigFile)
	if err != nil {
		return errorutil.NewWithErr(err).Msgf("could not read config %s", options.ConfigFile)
	}

	explicit := make(map[*flag.Flag]string)
	cli.Visit(func(f *flag.Flag) {
		explicit[f] = f.Value.String()
	})

	options.Config = cfg
	for f, value := range explicit {
		if f.Value.String() == value {
			continue
		}
		if err := f.Value.Set(value); err != nil {
			return errorutil.NewWithErr(err).Msgf("could not reapply -%s", f.Name)
		}
	}
	return nil
}

// parsePorts turns the comma separated port flags into the config port lists.
func (options *Options) parsePorts() error {
	if options.TCPPorts != "" {
		ports, err := commands.ParsePorts(options.TCPPorts)
		if err != nil {
			return errorutil.NewWithErr(err).Msgf("invalid -tcp-ports")
		}
		options.Config.TCPPorts = ports
	}
	if options.LivenessPorts != "" {
		ports, err := commands.ParsePorts(options.LivenessPorts)
		if err != nil {
			return errorutil.NewWithErr(err).Msgf("invalid -liveness-ports")
		}
		options.Config.LivenessPorts = ports
	}
	return nil
}
