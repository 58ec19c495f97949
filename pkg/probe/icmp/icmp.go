package icmp

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/netcartographer/cartographer/pkg/sweep"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

const (
	// DefaultTimeout is how long one attempt waits for a reply.
	DefaultTimeout = 2 * time.Second
	// DefaultAttempts is how many echo requests are sent before giving up.
	DefaultAttempts = 2

	protocolICMP = 1
)

// ErrTransport is returned when no ICMP socket can be opened.
var ErrTransport = errors.New("could not open icmp socket")

var (
	payload    = []byte("cartographer")
	handleSeed atomic.Uint32
)

// packetConn is the part of *icmp.PacketConn a Handle uses.
type packetConn interface {
	WriteTo(b []byte, dst net.Addr) (int, error)
	ReadFrom(b []byte) (int, net.Addr, error)
	SetReadDeadline(t time.Time) error
	Close() error
}

// Handle is one ICMP socket plus the echo identifier and sequence state that
// goes with it. A Handle is not safe for concurrent use.
type Handle struct {
	conn       packetConn
	privileged bool
	id         int
	seq        int
}

// Open acquires a new ICMP socket.
func Open() (*Handle, error) {
	conn, err := icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	if err == nil {
		return newHandle(conn, true), nil
	}
	conn, udpErr := icmp.ListenPacket("udp4", "0.0.0.0")
	if udpErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, errors.Join(err, udpErr))
	}
	return newHandle(conn, false), nil
}

func newHandle(conn packetConn, privileged bool) *Handle {
	// raw sockets see every echo reply on the host, so each handle gets its own id
	id := (os.Getpid() + int(handleSeed.Add(1))) & 0xffff
	return &Handle{conn: conn, privileged: privileged, id: id}
}

// Close releases the socket.
func (h *Handle) Close() error {
	if h == nil || h.conn == nil {
		return nil
	}
	return h.conn.Close()
}

// Probe sends up to maxAttempts echo requests to address and reports whether
// any of them was answered within timeout. An address that is not a valid
// IPv4 literal is reported unreachable without sending anything.
func (h *Handle) Probe(address string, timeout time.Duration, maxAttempts int) bool {
	ip := net.ParseIP(address).To4()
	if ip == nil || h.conn == nil {
		return false
	}

	var dst net.Addr = &net.IPAddr{IP: ip}
	if !h.privileged {
		dst = &net.UDPAddr{IP: ip}
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		h.seq = (h.seq + 1) & 0xffff
		msg := icmp.Message{
			Type: ipv4.ICMPTypeEcho,
			Code: 0,
			Body: &icmp.Echo{
				ID:   h.id,
				Seq:  h.seq,
				Data: payload,
			},
		}
		b, err := msg.Marshal(nil)
		if err != nil {
			return false
		}
		if _, err := h.conn.WriteTo(b, dst); err != nil {
			continue
		}
		if h.awaitReply(ip, h.seq, time.Now().Add(timeout)) {
			return true
		}
	}
	return false
}

// awaitReply reads until a matching echo reply arrives or deadline passes.
func (h *Handle) awaitReply(ip net.IP, seq int, deadline time.Time) bool {
	if err := h.conn.SetReadDeadline(deadline); err != nil {
		return false
	}
	reply := make([]byte, 1500)
	for {
		n, peer, err := h.conn.ReadFrom(reply)
		if err != nil {
			return false
		}
		rm, err := icmp.ParseMessage(protocolICMP, reply[:n])
		if err != nil || rm.Type != ipv4.ICMPTypeEchoReply {
			continue
		}
		echo, ok := rm.Body.(*icmp.Echo)
		if !ok || echo.Seq != seq {
			continue
		}
		// the kernel rewrites the id on datagram sockets
		if h.privileged && echo.ID != h.id {
			continue
		}
		if !peerIP(peer).Equal(ip) {
			continue
		}
		return true
	}
}

func peerIP(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.IPAddr:
		return a.IP
	case *net.UDPAddr:
		return a.IP
	}
	return nil
}

// Prober opens sweep workers that ping each item once per attempt.
type Prober struct {
	Timeout  time.Duration
	Attempts int
}

// Open satisfies sweep.Opener.
func (p Prober) Open() (sweep.Worker[string], error) {
	h, err := Open()
	if err != nil {
		return nil, err
	}
	return &worker{handle: h, timeout: p.Timeout, attempts: p.Attempts}, nil
}

type worker struct {
	handle   *Handle
	timeout  time.Duration
	attempts int
}

func (w *worker) Probe(address string) bool {
	return w.handle.Probe(address, w.timeout, w.attempts)
}

func (w *worker) Close() error {
	return w.handle.Close()
}
