package address

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/projectdiscovery/mapcidr"
)

const maxMaskBits = 32

// Range is a parsed IPv4 block: the base address as typed and the prefix length.
type Range struct {
	base uint32
	bits int
}

// Parse parses a CIDR of the form #.#.#.#/# (or #.#.#.#\#).
func Parse(input string) (Range, error) {
	if strings.Count(input, ".") != 3 || strings.Count(input, "/")+strings.Count(input, `\`) != 1 {
		return Range{}, &ParseError{Input: input, Kind: ErrInvalidFormat}
	}
	tokens := tokenize(input)
	if len(tokens) != 5 {
		return Range{}, &ParseError{Input: input, Kind: ErrInvalidFormat}
	}

	base, err := octetsToBits(input, tokens[:4])
	if err != nil {
		return Range{}, err
	}

	bits, err := strconv.Atoi(tokens[4])
	if err != nil || bits < 0 || bits > maxMaskBits {
		return Range{}, &ParseError{Input: input, Token: tokens[4], Kind: ErrInvalidMask}
	}

	return Range{base: base, bits: bits}, nil
}

// ParseTarget parses either a CIDR or a bare IPv4 address. A bare address
// yields a /32 range for which Single reports true.
func ParseTarget(input string) (Range, error) {
	if strings.ContainsAny(input, `/\`) {
		return Parse(input)
	}
	tokens := tokenize(input)
	if strings.Count(input, ".") != 3 || len(tokens) != 4 {
		return Range{}, &ParseError{Input: input, Kind: ErrInvalidFormat}
	}
	base, err := octetsToBits(input, tokens)
	if err != nil {
		return Range{}, err
	}
	return Range{base: base, bits: maxMaskBits}, nil
}

// tokenize splits on any of the delimiter characters, skipping empty tokens.
func tokenize(input string) []string {
	return strings.FieldsFunc(input, func(r rune) bool {
		return r == '.' || r == '/' || r == '\\'
	})
}

func octetsToBits(input string, octets []string) (uint32, error) {
	var value uint32
	for _, octet := range octets {
		n, err := strconv.Atoi(octet)
		if err != nil || n < 0 || n > 255 {
			return 0, &ParseError{Input: input, Token: octet, Kind: ErrInvalidAddress}
		}
		value = value<<8 | uint32(n)
	}
	return value, nil
}

// Base returns the address exactly as it was typed, before masking.
func (r Range) Base() uint32 { return r.base }

// MaskLen returns the prefix length.
func (r Range) MaskLen() int { return r.bits }

// Mask returns the 32-bit netmask. A /0 yields 0.
func (r Range) Mask() uint32 {
	return ^uint32(0) << uint(maxMaskBits-r.bits)
}

// Network returns base & mask.
func (r Range) Network() uint32 { return r.base & r.Mask() }

// Broadcast returns base | ^mask.
func (r Range) Broadcast() uint32 { return r.base | ^r.Mask() }

// Single reports whether the range designates exactly one host.
func (r Range) Single() bool { return r.bits == maxMaskBits }

// Len returns the number of usable hosts strictly between network and broadcast.
func (r Range) Len() int {
	span := uint64(r.Broadcast()) - uint64(r.Network())
	if span < 2 {
		return 0
	}
	return int(span - 1)
}

// Contains reports whether ip is a usable host of the range.
func (r Range) Contains(ip uint32) bool {
	return ip > r.Network() && ip < r.Broadcast()
}

// Hosts yields every usable host address in ascending order. The sequence is
// lazy and can be ranged over more than once.
func (r Range) Hosts() iter.Seq[string] {
	network, broadcast := BitsToAddress(r.Network()), BitsToAddress(r.Broadcast())
	return func(yield func(string) bool) {
		if r.Len() == 0 {
			return
		}
		ips, err := mapcidr.IPAddressesAsStream(r.String())
		if err != nil {
			return
		}
		for ip := range ips {
			if ip == network || ip == broadcast {
				continue
			}
			if !yield(ip) {
				// let the producer run to completion so it can exit
				go func() {
					for range ips {
					}
				}()
				return
			}
		}
	}
}

// HostList materializes Hosts into a slice.
func (r Range) HostList() []string {
	hosts := make([]string, 0, r.Len())
	for host := range r.Hosts() {
		hosts = append(hosts, host)
	}
	return hosts
}

// String returns the range in canonical network/prefix form.
func (r Range) String() string {
	return fmt.Sprintf("%s/%d", BitsToAddress(r.Network()), r.bits)
}
