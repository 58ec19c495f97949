package commands

import (
	"context"
	"time"

	"github.com/netcartographer/cartographer/pkg/address"
	"github.com/netcartographer/cartographer/pkg/probe/tcp"
	"github.com/netcartographer/cartographer/pkg/sweep"
	"github.com/projectdiscovery/gologger"
)

// TCP checks the port catalog on one host, one port on one host, or one port
// across a subnet.
type TCP struct {
	Env
	Sweep   SweepSettings
	Timeout time.Duration
	// Delay spaces out probes against the same host.
	Delay time.Duration
	Ports []int
}

func (t *TCP) Name() string { return "tcp" }

func (t *TCP) Tip() string {
	return "Scan TCP ports on target. Usage: tcp <ip> [port]"
}

func (t *TCP) Handle(ctx context.Context, args []string) {
	if len(args) == 0 {
		t.println("Usage: tcp <ip> [port]")
		return
	}
	target, err := address.ParseTarget(args[0])
	if err != nil {
		t.println(address.Diagnostic(err))
		return
	}

	var ports []int
	if len(args) > 1 {
		if ports, err = ParsePorts(args[1]); err != nil {
			t.println("Invalid Port")
			return
		}
	}

	if !target.Single() {
		if len(ports) == 0 {
			t.println("Usage: tcp <cidr> <port>")
			return
		}
		t.sweep(ctx, target, ports)
		return
	}

	host := address.BitsToAddress(target.Base())
	if len(ports) == 0 {
		ports = t.Ports
		if len(ports) == 0 {
			ports = tcp.Ports()
		}
	}

	t.printf("Scanning ports on %s\n", host)
	open := tcp.Sweep(ctx, host, ports, t.Timeout, t.Delay, func(port int, service string) {
		t.printf("  Port %d OPEN - %s\n", port, service)
	})
	gologger.Verbose().Msgf("%s: %d/%d ports open", host, len(open), len(ports))
	if len(open) == 0 && len(ports) == 1 {
		t.printf("  Port %d CLOSED\n", ports[0])
	}
}

func (t *TCP) sweep(ctx context.Context, target address.Range, ports []int) {
	hosts, ok := t.hosts(target, t.Sweep)
	if !ok {
		return
	}
	t.printf("Scanning %s for TCP %s...\n", target, joinPorts(ports))

	prober := tcp.HostProber{Ports: ports, Timeout: t.Timeout}
	res, err := sweep.Run(hosts, prober.Open, sweep.Options[string]{
		MaxWorkers: t.Sweep.MaxWorkers,
		SpawnDelay: t.Sweep.SpawnDelay,
		OnResult: func(host string, open bool) {
			if open {
				t.println(host)
			}
		},
	})
	if err != nil {
		gologger.Error().Msgf("tcp sweep of %s: %s", target, err)
		return
	}
	t.printSummary(res)
	t.printTable(ctx, res)
}
