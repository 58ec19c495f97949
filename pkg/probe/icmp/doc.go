// Package icmp tests IPv4 host reachability with ICMP echo requests.
//
// A Handle wraps one ICMP socket and is meant to be owned by a single sweep
// worker for its whole lifetime. Open first tries a privileged raw socket
// ("ip4:icmp"); when that is not permitted it falls back to the unprivileged
// datagram socket ("udp4"), which Linux allows for users in
// net.ipv4.ping_group_range.
//
// Privilege Requirements:
//   - Raw ICMP sockets require root or CAP_NET_RAW on most systems
//   - The udp4 fallback needs the ping group sysctl on Linux; macOS allows it by default
//
// Limitations:
//   - Hosts with ICMP disabled or firewalled report as unreachable
//   - A timeout and a run of unanswered retries are not distinguished
package icmp
