package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/logrusorgru/aurora/v4"
	"github.com/netcartographer/cartographer/pkg/netif"
	"github.com/netcartographer/cartographer/pkg/probe/tcp"
	"github.com/netcartographer/cartographer/pkg/sweep"
	"github.com/stretchr/testify/require"
)

func testEnv() (Env, *bytes.Buffer) {
	var out bytes.Buffer
	return Env{Out: &out, Au: aurora.New(aurora.WithColors(false))}, &out
}

type fakeWorker struct {
	alive map[string]bool
}

func (f fakeWorker) Probe(host string) bool { return f.alive[host] }
func (f fakeWorker) Close() error           { return nil }

func fakeOpener(alive ...string) sweep.Opener[string] {
	set := make(map[string]bool)
	for _, a := range alive {
		set[a] = true
	}
	return func() (sweep.Worker[string], error) {
		return fakeWorker{alive: set}, nil
	}
}

func testSweep() SweepSettings {
	return SweepSettings{MaxWorkers: 4, MaxHosts: 1024}
}

func TestPingSweep(t *testing.T) {
	env, out := testEnv()
	p := &Ping{Env: env, Sweep: testSweep(), open: fakeOpener("10.0.0.6", "10.0.0.1")}

	p.Handle(context.Background(), []string{"10.0.0.3/29"})

	got := out.String()
	require.True(t, strings.HasPrefix(got,
		"Network:      00001010000000000000000000000000\n"+
			"Mask:         11111111111111111111111111111000\n"+
			"Broadcast:    00001010000000000000000000000111\n"+
			"Unique addresses: 6\n"+
			"Scanning 10.0.0.0/29 via Ping...\n"), got)
	require.Contains(t, got, "Scan complete. Found 2 alive hosts out of 6 scanned.\n")

	table := got[strings.Index(got, "HOST"):]
	require.Less(t, strings.Index(table, "10.0.0.1"), strings.Index(table, "10.0.0.6"), "table is in address order")
}

func TestPingDiagnostics(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"10.0.0", "Invalid CIDR (#.#.#.#/#)\n"},
		{"10.0.0.256/24", "Invalid Address\n"},
		{"10.0.0.0/33", "Invalid Subnet\n"},
		{"10.0.0.0/x", "Invalid Subnet\n"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			env, out := testEnv()
			p := &Ping{Env: env, Sweep: testSweep(), open: fakeOpener()}
			p.Handle(context.Background(), []string{tt.input})
			require.Equal(t, tt.want, out.String())
		})
	}

	env, out := testEnv()
	(&Ping{Env: env}).Handle(context.Background(), nil)
	require.Equal(t, "Usage: ping <cidr>\n", out.String())
}

func TestPingSingleHost(t *testing.T) {
	env, out := testEnv()
	p := &Ping{Env: env, Sweep: testSweep(), open: fakeOpener("192.168.1.20")}
	p.Handle(context.Background(), []string{"192.168.1.20"})
	require.Equal(t, "Pinging host: 192.168.1.20\nResponded!\n", out.String())

	out.Reset()
	p.Handle(context.Background(), []string{"192.168.1.21"})
	require.Equal(t, "Pinging host: 192.168.1.21\nNo response.\n", out.String())
}

func TestPingHandleFailure(t *testing.T) {
	failing := func() (sweep.Worker[string], error) {
		return nil, errors.New("operation not permitted")
	}

	env, out := testEnv()
	p := &Ping{Env: env, Sweep: testSweep(), open: failing}
	p.Handle(context.Background(), []string{"10.1.1.1"})
	require.Equal(t, "Pinging host: 10.1.1.1\nFailed to create ICMP handle\n", out.String())

	out.Reset()
	p.Handle(context.Background(), []string{"10.1.1.0/30"})
	require.Equal(t, 4, strings.Count(out.String(), "Failed to create ICMP handle\n"), "one line per worker")
	require.Contains(t, out.String(), "Found 0 alive hosts out of 2 scanned.")
}

func TestPingPartialHandleFailure(t *testing.T) {
	var opened atomic.Int64
	alive := fakeOpener("10.1.1.3")
	flaky := func() (sweep.Worker[string], error) {
		if opened.Add(1)%2 == 0 {
			return nil, errors.New("socket: too many open files")
		}
		return alive()
	}

	env, out := testEnv()
	p := &Ping{Env: env, Sweep: testSweep(), open: flaky}
	p.Handle(context.Background(), []string{"10.1.1.0/29"})

	got := out.String()
	require.Equal(t, 2, strings.Count(got, "Failed to create ICMP handle\n"), got)
	require.Contains(t, got, "Scan complete. Found 1 alive hosts out of 6 scanned.\n")
}

func TestPingRefusesLargeSweep(t *testing.T) {
	env, out := testEnv()
	settings := testSweep()
	settings.MaxHosts = 254
	p := &Ping{Env: env, Sweep: settings, open: fakeOpener()}
	p.Handle(context.Background(), []string{"10.0.0.0/23"})
	require.Contains(t, out.String(), "Refusing to sweep 510 addresses (limit 254)\n")
	require.NotContains(t, out.String(), "Scanning")
}

func listen(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()
	return ln.Addr().(*net.TCPAddr).Port
}

func testTCP(env Env) *TCP {
	return &TCP{Env: env, Sweep: testSweep(), Timeout: time.Second}
}

func TestTCPSinglePort(t *testing.T) {
	port := listen(t)
	env, out := testEnv()
	testTCP(env).Handle(context.Background(), []string{"127.0.0.1", fmt.Sprint(port)})
	require.Equal(t, fmt.Sprintf("Scanning ports on 127.0.0.1\n  Port %d OPEN - %s\n", port, tcp.Service(port)), out.String())
}

func TestTCPPortList(t *testing.T) {
	port := listen(t)
	env, out := testEnv()
	c := testTCP(env)
	c.Ports = []int{port}
	c.Handle(context.Background(), []string{"127.0.0.1"})
	require.Contains(t, out.String(), fmt.Sprintf("  Port %d OPEN", port))
}

func TestTCPArguments(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, "Usage: tcp <ip> [port]\n"},
		{[]string{"127.0.0.1", "0"}, "Invalid Port\n"},
		{[]string{"127.0.0.1", "http"}, "Invalid Port\n"},
		{[]string{"127.0.0.0/30"}, "Usage: tcp <cidr> <port>\n"},
		{[]string{"127.0.0.999"}, "Invalid Address\n"},
	}
	for _, tt := range tests {
		env, out := testEnv()
		testTCP(env).Handle(context.Background(), tt.args)
		require.Equal(t, tt.want, out.String(), "args %v", tt.args)
	}
}

func TestTCPRangeSweep(t *testing.T) {
	port := listen(t)
	env, out := testEnv()
	testTCP(env).Handle(context.Background(), []string{"127.0.0.0/30", fmt.Sprint(port)})
	require.Contains(t, out.String(), "Found 1 alive hosts out of 2 scanned.")
	require.Contains(t, out.String(), "127.0.0.1\n")
}

func TestScan(t *testing.T) {
	port := listen(t)
	env, out := testEnv()
	s := &Scan{Env: env, Sweep: testSweep(), Prober: tcp.HostProber{Ports: []int{port}, Timeout: time.Second}}
	s.Handle(context.Background(), []string{"127.0.0.0/30"})
	require.Contains(t, out.String(), fmt.Sprintf("Scanning 127.0.0.0/30 via TCP %d...\n", port))
	require.Contains(t, out.String(), "Found 1 alive hosts out of 2 scanned.")

	out.Reset()
	s.Handle(context.Background(), []string{"127.0.0.1"})
	require.Equal(t, "Invalid CIDR (#.#.#.#/#)\n", out.String())
}

func TestParsePorts(t *testing.T) {
	ports, err := ParsePorts("502, 22,502,80,")
	require.NoError(t, err)
	require.Equal(t, []int{502, 22, 80}, ports)

	for _, bad := range []string{"", ",", "70000", "-1", "ssh"} {
		_, err := ParsePorts(bad)
		require.Error(t, err, bad)
	}
}

func TestSSHArguments(t *testing.T) {
	env, out := testEnv()
	s := &SSH{Env: env}
	s.Handle(context.Background(), []string{"10.0.0.1", "admin"})
	require.Equal(t, "Usage: ssh <hostname> <username> <password>\n", out.String())

	out.Reset()
	s.Handle(context.Background(), []string{"10.0.0.1", "admin", "pw", "99999"})
	require.Equal(t, "Invalid Port\n", out.String())
}

func TestIfaces(t *testing.T) {
	env, out := testEnv()
	i := &Ifaces{Env: env, networks: func() ([]netif.Network, error) {
		return []netif.Network{
			{Interface: "eth0", Address: "10.20.0.5", CIDR: "10.20.0.0/24", Hosts: 254},
			{Interface: "eth0.10", Address: "10.20.0.6", CIDR: "10.20.0.0/24", Hosts: 254},
			{Interface: "wlan0", Address: "192.168.8.20", CIDR: "192.168.8.0/22", Hosts: 1022},
		}, nil
	}}
	i.Handle(context.Background(), nil)
	got := out.String()
	require.Contains(t, got, "eth0")
	require.Contains(t, got, "1022")
	require.True(t, strings.HasSuffix(got, "\nSweep targets:\n  ping 10.20.0.0/24\n  ping 192.168.8.0/22\n"), got)

	out.Reset()
	i.networks = func() ([]netif.Network, error) { return nil, nil }
	i.Handle(context.Background(), nil)
	require.Equal(t, "No private IPv4 networks found\n", out.String())
}
