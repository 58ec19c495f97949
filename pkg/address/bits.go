package address

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"net"
)

// BitsToAddress renders a 32-bit value as a dotted IPv4 address.
func BitsToAddress(value uint32) string {
	return fmt.Sprintf("%d.%d.%d.%d", byte(value>>24), byte(value>>16), byte(value>>8), byte(value))
}

// AddressToBits converts a dotted IPv4 address into its 32-bit value.
func AddressToBits(addr string) (uint32, error) {
	ip := net.ParseIP(addr)
	if ip == nil || ip.To4() == nil {
		return 0, &ParseError{Input: addr, Kind: ErrInvalidAddress}
	}
	return ipToBits(ip.To4()), nil
}

func ipToBits(ip net.IP) uint32 {
	return binary.BigEndian.Uint32(ip)
}

// Binary renders value as a zero-padded 32 character bit string.
func Binary(value uint32) string {
	return fmt.Sprintf("%032b", value)
}

// Compare orders two dotted IPv4 addresses numerically. Unparseable values
// sort before valid ones and fall back to string order among themselves.
func Compare(a, b string) int {
	av, aerr := AddressToBits(a)
	bv, berr := AddressToBits(b)
	switch {
	case aerr != nil && berr != nil:
		return cmp.Compare(a, b)
	case aerr != nil:
		return -1
	case berr != nil:
		return 1
	}
	return cmp.Compare(av, bv)
}
