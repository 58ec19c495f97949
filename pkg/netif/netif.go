// Package netif lists the private IPv4 networks attached to local interfaces
// so an operator can pick a sweep target.
package netif

import (
	"net"
	"slices"
	"strconv"
	"strings"

	"github.com/netcartographer/cartographer/pkg/address"
	sliceutil "github.com/projectdiscovery/utils/slice"
	psnet "github.com/shirou/gopsutil/v3/net"
)

// Network is one IPv4 network seen on a local interface.
type Network struct {
	Interface string
	Address   string
	CIDR      string
	Hosts     int
}

// Networks returns the private IPv4 networks of every up, non-loopback
// interface, ordered by interface name then network.
func Networks() ([]Network, error) {
	interfaces, err := psnet.Interfaces()
	if err != nil {
		return nil, err
	}
	return fromInterfaces(interfaces), nil
}

func fromInterfaces(interfaces psnet.InterfaceStatList) []Network {
	var networks []Network
	seen := make(map[string]struct{})

	for _, iface := range interfaces {
		if !sliceutil.Contains(iface.Flags, "up") || sliceutil.Contains(iface.Flags, "loopback") {
			continue
		}
		for _, addr := range iface.Addrs {
			ip, ipNet, err := net.ParseCIDR(addr.Addr)
			if err != nil || ip.To4() == nil || !ip.IsPrivate() {
				continue
			}
			ones, _ := ipNet.Mask.Size()
			r, err := address.Parse(ipNet.IP.String() + "/" + strconv.Itoa(ones))
			if err != nil {
				continue
			}
			key := iface.Name + "|" + r.String()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			networks = append(networks, Network{
				Interface: iface.Name,
				Address:   ip.String(),
				CIDR:      r.String(),
				Hosts:     r.Len(),
			})
		}
	}

	slices.SortFunc(networks, func(a, b Network) int {
		if c := strings.Compare(a.Interface, b.Interface); c != 0 {
			return c
		}
		return address.Compare(a.Address, b.Address)
	})
	return networks
}

// CIDRs returns the distinct network CIDRs across all interfaces.
func CIDRs(networks []Network) []string {
	cidrs := make([]string, 0, len(networks))
	for _, n := range networks {
		cidrs = append(cidrs, n.CIDR)
	}
	return sliceutil.Dedupe(cidrs)
}
