package commands

import (
	"context"

	"github.com/netcartographer/cartographer/pkg/netif"
)

// Ifaces lists the private networks this machine sits on.
type Ifaces struct {
	Env
	// networks is replaced in tests.
	networks func() ([]netif.Network, error)
}

func (i *Ifaces) Name() string { return "ifaces" }

func (i *Ifaces) Tip() string {
	return "List local networks to sweep. Usage: ifaces"
}

func (i *Ifaces) Handle(_ context.Context, _ []string) {
	list := i.networks
	if list == nil {
		list = netif.Networks
	}
	networks, err := list()
	if err != nil {
		i.printf("Failed to list interfaces: %s\n", err)
		return
	}
	if len(networks) == 0 {
		i.println("No private IPv4 networks found")
		return
	}

	i.printf("  %-12s %-16s %-20s %s\n", i.Au.Bold("IFACE"), i.Au.Bold("ADDRESS"), i.Au.Bold("NETWORK"), i.Au.Bold("HOSTS"))
	for _, n := range networks {
		i.printf("  %-12s %-16s %-20s %d\n", n.Interface, n.Address, i.Au.Cyan(n.CIDR), n.Hosts)
	}

	i.println("\nSweep targets:")
	for _, cidr := range netif.CIDRs(networks) {
		i.printf("  ping %s\n", cidr)
	}
}
