package address

import (
	"slices"
)

// Priority tiers by last octet, highest first.
const (
	PriorityGateway   = 100 // .1, .254
	PriorityReserved  = 90  // .2-.5, .250-.253
	PriorityEarlyDHCP = 80  // .6-.10
	PriorityDHCPPeak  = 70  // .50, .100, .150
	PriorityDHCPPool  = 50  // .51-.99, .101-.149, .151-.200
	PriorityLongTail  = 20  // .11-.49, .201-.249
	PriorityExcluded  = 0   // .0, .255
)

type octetBand struct {
	start, end int
	priority   int
}

var octetBands = []octetBand{
	{1, 1, PriorityGateway},
	{254, 254, PriorityGateway},
	{2, 5, PriorityReserved},
	{250, 253, PriorityReserved},
	{6, 10, PriorityEarlyDHCP},
	{50, 50, PriorityDHCPPeak},
	{100, 100, PriorityDHCPPeak},
	{150, 150, PriorityDHCPPeak},
	{51, 99, PriorityDHCPPool},
	{101, 149, PriorityDHCPPool},
	{151, 200, PriorityDHCPPool},
	{11, 49, PriorityLongTail},
	{201, 249, PriorityLongTail},
	{0, 0, PriorityExcluded},
	{255, 255, PriorityExcluded},
}

// Priority scores a host by how likely it is to answer, based on where
// gateways and DHCP pools usually sit within a /24. Unparseable hosts get
// the long-tail score.
func Priority(host string) int {
	value, err := AddressToBits(host)
	if err != nil {
		return PriorityLongTail
	}
	last := int(value & 0xff)
	for _, band := range octetBands {
		if last >= band.start && last <= band.end {
			return band.priority
		}
	}
	return PriorityLongTail
}

// Prioritize returns a copy of hosts ordered by descending Priority. Hosts
// within the same tier keep their input order.
func Prioritize(hosts []string) []string {
	ordered := slices.Clone(hosts)
	slices.SortStableFunc(ordered, func(a, b string) int {
		return Priority(b) - Priority(a)
	})
	return ordered
}
