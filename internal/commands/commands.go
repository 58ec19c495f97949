// Package commands implements the operator verbs of the interactive shell on
// top of the address, sweep, probe and remote packages.
package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/logrusorgru/aurora/v4"
	"github.com/netcartographer/cartographer/pkg/address"
	"github.com/netcartographer/cartographer/pkg/rdns"
	"github.com/netcartographer/cartographer/pkg/sweep"
)

// SweepSettings control every host sweep.
type SweepSettings struct {
	MaxWorkers int
	SpawnDelay time.Duration
	// MaxHosts refuses sweeps larger than this many hosts. Zero disables the guard.
	MaxHosts   int
	Prioritize bool
}

// DefaultSweepSettings mirror the pacing used against plant networks: many
// workers, started slowly enough not to upset older PLCs.
func DefaultSweepSettings() SweepSettings {
	return SweepSettings{
		MaxWorkers: 100,
		SpawnDelay: 10 * time.Millisecond,
		MaxHosts:   65534,
	}
}

// Env is what every command writes through.
type Env struct {
	Out   io.Writer
	Au    *aurora.Aurora
	Names *rdns.Resolver
}

func (e Env) printf(format string, args ...any) {
	fmt.Fprintf(e.Out, format, args...)
}

func (e Env) println(args ...any) {
	fmt.Fprintln(e.Out, args...)
}

// hosts returns the sweep list for r, or false after printing why there is none.
func (e Env) hosts(r address.Range, settings SweepSettings) ([]string, bool) {
	if settings.MaxHosts > 0 && r.Len() > settings.MaxHosts {
		e.printf("Refusing to sweep %d addresses (limit %d)\n", r.Len(), settings.MaxHosts)
		return nil, false
	}
	hosts := r.HostList()
	if settings.Prioritize {
		hosts = address.Prioritize(hosts)
	}
	return hosts, true
}

func (e Env) printRange(r address.Range) {
	e.printf("Network:      %s\n", address.Binary(r.Network()))
	e.printf("Mask:         %s\n", address.Binary(r.Mask()))
	e.printf("Broadcast:    %s\n", address.Binary(r.Broadcast()))
	e.printf("Unique addresses: %d\n", r.Len())
}

func (e Env) printSummary(res *sweep.Result[string]) {
	e.printf("Scan complete. Found %d alive hosts out of %d scanned.\n", res.Alive, res.Total)
}

// printTable lists the alive hosts of a sweep in address order, with their
// reverse DNS name when a resolver is configured.
func (e Env) printTable(ctx context.Context, res *sweep.Result[string]) {
	alive := res.AliveItems(address.Compare)
	if len(alive) == 0 {
		return
	}
	e.println()
	if e.Names == nil {
		e.printf("  %s\n", e.Au.Bold("HOST"))
		for _, host := range alive {
			e.printf("  %s\n", e.Au.Green(host))
		}
	} else {
		e.printf("  %-16s %s\n", e.Au.Bold("HOST"), e.Au.Bold("NAME"))
		for _, host := range alive {
			name := e.Names.Lookup(ctx, host)
			if name == "" {
				name = "-"
			}
			e.printf("  %-16s %s\n", e.Au.Green(host), name)
		}
	}
	e.printf("  %s\n", e.Au.BrightBlack(fmt.Sprintf("%d/%d up in %s", res.Alive, res.Total, res.Duration.Round(time.Millisecond))))
}
