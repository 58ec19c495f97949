// Package tcp checks TCP ports with plain connect probes and carries the
// catalog of ports commonly exposed by industrial and plant-floor equipment.
package tcp

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/netcartographer/cartographer/pkg/sweep"
)

const (
	// DefaultTimeout bounds a single connect attempt.
	DefaultTimeout = 500 * time.Millisecond
	// DefaultDelay spaces out probes against a single host.
	DefaultDelay = 25 * time.Millisecond
)

// Probe attempts a full connect to host:port. A refusal and a timeout are both
// reported as closed. The connection is always closed before returning.
func Probe(ctx context.Context, host string, port int, timeout time.Duration) (bool, string) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return false, ""
	}
	_ = conn.Close()
	return true, Service(port)
}

// Sweep probes ports on one host sequentially, sleeping delay after each probe,
// and returns the open ones. onOpen, when set, is called as each open port is
// found. Cancelling ctx stops the sweep between probes.
func Sweep(ctx context.Context, host string, ports []int, timeout, delay time.Duration, onOpen func(port int, service string)) []int {
	var open []int
	for _, port := range ports {
		if ctx.Err() != nil {
			break
		}
		if ok, service := Probe(ctx, host, port, timeout); ok {
			open = append(open, port)
			if onOpen != nil {
				onOpen(port, service)
			}
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
		}
	}
	return open
}

// HostProber opens sweep workers that report a host alive when any of Ports
// accepts a connection.
type HostProber struct {
	Ports   []int
	Timeout time.Duration
}

// Open satisfies sweep.Opener. TCP workers hold no long-lived handle.
func (p HostProber) Open() (sweep.Worker[string], error) {
	return hostWorker(p), nil
}

type hostWorker HostProber

func (w hostWorker) Probe(host string) bool {
	for _, port := range w.Ports {
		if ok, _ := Probe(context.Background(), host, port, w.Timeout); ok {
			return true
		}
	}
	return false
}

func (w hostWorker) Close() error { return nil }
