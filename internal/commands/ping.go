package commands

import (
	"context"

	"github.com/netcartographer/cartographer/pkg/address"
	"github.com/netcartographer/cartographer/pkg/probe/icmp"
	"github.com/netcartographer/cartographer/pkg/sweep"
	"github.com/projectdiscovery/gologger"
)

// Ping sweeps a subnet, or a single host, with ICMP echo.
type Ping struct {
	Env
	Sweep  SweepSettings
	Prober icmp.Prober
	// open acquires a worker; tests replace it to avoid raw sockets.
	open sweep.Opener[string]
}

func (p *Ping) Name() string { return "ping" }

func (p *Ping) Tip() string {
	return "Ping sweep subnet for active hosts. Usage: ping <cidr>"
}

func (p *Ping) Handle(ctx context.Context, args []string) {
	if len(args) == 0 {
		p.println("Usage: ping <cidr>")
		return
	}
	target, err := address.ParseTarget(args[0])
	if err != nil {
		p.println(address.Diagnostic(err))
		return
	}
	if target.Single() {
		p.single(address.BitsToAddress(target.Base()))
		return
	}

	p.printRange(target)
	hosts, ok := p.hosts(target, p.Sweep)
	if !ok {
		return
	}
	p.printf("Scanning %s via Ping...\n", target)

	res, err := sweep.Run(hosts, p.opener(), sweep.Options[string]{
		MaxWorkers: p.Sweep.MaxWorkers,
		SpawnDelay: p.Sweep.SpawnDelay,
		OnResult: func(host string, alive bool) {
			if alive {
				p.println(host)
			}
		},
		// runs under the sweep lock, so lines never interleave with results
		OnWorkerError: func(err error) {
			p.println("Failed to create ICMP handle")
			gologger.Verbose().Msgf("ping worker: %s", err)
		},
	})
	if err != nil {
		gologger.Error().Msgf("ping sweep of %s: %s", target, err)
		return
	}
	p.printSummary(res)
	p.printTable(ctx, res)
}

func (p *Ping) single(host string) {
	p.printf("Pinging host: %s\n", host)
	w, err := p.opener()()
	if err != nil {
		p.println("Failed to create ICMP handle")
		gologger.Verbose().Msgf("ping %s: %s", host, err)
		return
	}
	defer func() {
		_ = w.Close()
	}()
	if w.Probe(host) {
		p.println("Responded!")
	} else {
		p.println("No response.")
	}
}

func (p *Ping) opener() sweep.Opener[string] {
	if p.open != nil {
		return p.open
	}
	return p.Prober.Open
}
