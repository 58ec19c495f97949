// Package address parses IPv4 CIDR specifications into an ordered range of
// usable host addresses.
//
// Two entry points are provided:
//   - Parse: the strict parser used by sweeps. Input must be four dotted
//     octets followed by exactly one mask separator ('/' or '\') and a mask.
//   - ParseTarget: accepts the same CIDR form, or a bare IPv4 address which is
//     treated as a single /32 host.
//
// Tokenization splits on '.', '/' and '\' and drops empty tokens, so stray
// leading or doubled delimiters are tolerated as long as the separator counts
// and the token count still match.
//
// Example:
//
//	r, err := address.Parse("192.168.1.0/30")
//	if err != nil {
//		return err
//	}
//	for host := range r.Hosts() {
//		fmt.Println(host) // 192.168.1.1, 192.168.1.2
//	}
//
// The network and broadcast addresses are never part of the host sequence, so
// /31 and /32 ranges yield no hosts.
package address
