package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/netcartographer/cartographer/pkg/address"
	"github.com/netcartographer/cartographer/pkg/probe/tcp"
	"github.com/netcartographer/cartographer/pkg/sweep"
	"github.com/projectdiscovery/gologger"
	sliceutil "github.com/projectdiscovery/utils/slice"
)

// DefaultLivenessPorts are tried in order by scan; a host answering on any of
// them is up. Chosen to catch switches, PLCs and HMIs that drop ICMP.
var DefaultLivenessPorts = []int{80, 443, 22, 23, 502, 102, 44818}

// Scan sweeps a subnet for hosts with TCP connects instead of ICMP.
type Scan struct {
	Env
	Sweep  SweepSettings
	Prober tcp.HostProber
}

func (s *Scan) Name() string { return "scan" }

func (s *Scan) Tip() string {
	return "TCP sweep subnet for active hosts. Usage: scan <cidr>"
}

func (s *Scan) Handle(ctx context.Context, args []string) {
	if len(args) == 0 {
		s.println("Usage: scan <cidr>")
		return
	}
	target, err := address.Parse(args[0])
	if err != nil {
		s.println(address.Diagnostic(err))
		return
	}

	s.printRange(target)
	hosts, ok := s.hosts(target, s.Sweep)
	if !ok {
		return
	}
	s.printf("Scanning %s via TCP %s...\n", target, joinPorts(s.Prober.Ports))

	res, err := sweep.Run(hosts, s.Prober.Open, sweep.Options[string]{
		MaxWorkers: s.Sweep.MaxWorkers,
		SpawnDelay: s.Sweep.SpawnDelay,
		OnResult: func(host string, alive bool) {
			if alive {
				s.println(host)
			}
		},
	})
	if err != nil {
		gologger.Error().Msgf("tcp sweep of %s: %s", target, err)
		return
	}
	s.printSummary(res)
	s.printTable(ctx, res)
}

// ParsePorts parses a comma separated port list such as "22,80,502". Duplicates
// are dropped and the first occurrence keeps its position.
func ParsePorts(value string) ([]int, error) {
	var ports []int
	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		port, err := strconv.Atoi(field)
		if err != nil || !tcp.ValidPort(port) {
			return nil, fmt.Errorf("invalid port %q", field)
		}
		ports = append(ports, port)
	}
	if len(ports) == 0 {
		return nil, fmt.Errorf("no ports in %q", value)
	}
	return sliceutil.Dedupe(ports), nil
}

func joinPorts(ports []int) string {
	s := make([]string, len(ports))
	for i, p := range ports {
		s[i] = strconv.Itoa(p)
	}
	return strings.Join(s, ",")
}
