package commands

import (
	"context"
	"errors"
	"strconv"

	"github.com/netcartographer/cartographer/pkg/probe/tcp"
	"github.com/netcartographer/cartographer/pkg/remote"
	"github.com/projectdiscovery/gologger"
)

// SSH logs into a device, runs the discovery battery and then hands the shell
// to the operator.
type SSH struct {
	Env
	Config remote.Config
	// ProfilePath and Profile select the command battery; see remote.ResolveProfile.
	ProfilePath string
	Profile     string
	// Input feeds the interactive part of the shell. A nil Input ends the
	// session once the battery has run.
	Input <-chan string
}

func (s *SSH) Name() string { return "ssh" }

func (s *SSH) Tip() string {
	return "Autorun ssh commands against a host. Usage: ssh <IP> <user> <pw> [port]"
}

func (s *SSH) Handle(ctx context.Context, args []string) {
	if len(args) < 3 {
		s.println("Usage: ssh <hostname> <username> <password>")
		return
	}
	host, user, pass := args[0], args[1], args[2]
	port := remote.DefaultPort
	if len(args) > 3 {
		p, err := strconv.Atoi(args[3])
		if err != nil || !tcp.ValidPort(p) {
			s.println("Invalid Port")
			return
		}
		port = p
	}

	commands, err := remote.ResolveProfile(s.ProfilePath, s.Profile)
	if err != nil {
		gologger.Warning().Msgf("%s, using the built-in commands", err)
		commands = remote.DiscoveryCommands
	}

	session := remote.New(s.Out, s.Config)
	defer session.Disconnect()
	if err := session.Connect(ctx, host, user, pass, port); err != nil {
		gologger.Verbose().Msgf("ssh %s:%d: %s", host, port, err)
		return
	}

	input := s.Input
	if input == nil {
		closed := make(chan string)
		close(closed)
		input = closed
	} else if s.Config.Escape != "" {
		gologger.Info().Msgf("Type %s on its own line to leave the remote shell", s.Config.Escape)
	}

	if err := session.InteractiveShell(ctx, commands, input); err != nil && !errors.Is(err, context.Canceled) {
		gologger.Verbose().Msgf("ssh %s:%d: %s", host, port, err)
	}
}
