package remote

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/projectdiscovery/gologger"
	"golang.org/x/crypto/ssh"
)

// DefaultPort is the SSH port used when none is given.
const DefaultPort = 22

// DiscoveryCommands is the built-in battery run against network devices.
var DiscoveryCommands = []string{
	"terminal length 0",
	"show interface status",
	"show cdp neighbors",
}

// Config tunes connection setup and the shell read loop.
type Config struct {
	// Timeout bounds the TCP dial and the SSH handshake.
	Timeout time.Duration
	// Terminal is the pty type requested for shells. Empty skips the pty request.
	Terminal      string
	SettleWindow  time.Duration
	MaxEmptyReads int
	PollInterval  time.Duration
	// Escape is the input line that leaves the shell. Empty disables it.
	Escape string
}

// DefaultConfig returns the settings used by the ssh command.
func DefaultConfig() Config {
	return Config{
		Timeout:       10 * time.Second,
		Terminal:      "vt100",
		SettleWindow:  time.Second,
		MaxEmptyReads: DefaultMaxEmptyReads,
		PollInterval:  DefaultPollInterval,
		Escape:        "~.",
	}
}

// Session is a single SSH connection. It is driven by one goroutine at a time.
type Session struct {
	cfg    Config
	out    io.Writer
	state  State
	conn   net.Conn
	client *ssh.Client
}

// New returns a disconnected session that writes operator output to out.
func New(out io.Writer, cfg Config) *Session {
	return &Session{cfg: cfg, out: out, state: Disconnected}
}

// State reports where the session is in its lifecycle.
func (s *Session) State() State {
	return s.state
}

// Connect dials host:port and authenticates with a password.
func (s *Session) Connect(ctx context.Context, host, user, pass string, port int) error {
	if s.client != nil {
		return &Error{Kind: KindConnection, Err: fmt.Errorf("session already connected")}
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	d := net.Dialer{Timeout: s.cfg.Timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		s.state = Closed
		fmt.Fprintf(s.out, "Failed to connect to %s:%d\n", host, port)
		return &Error{Kind: KindConnection, Addr: addr, Err: err}
	}
	s.conn = conn
	s.state = SocketConnected
	gologger.Verbose().Msgf("ssh: socket connected to %s", addr)

	// handshake and authentication are one call in x/crypto/ssh
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()
	if s.cfg.Timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(s.cfg.Timeout))
	}

	config := &ssh.ClientConfig{
		User: user,
		Auth: []ssh.AuthMethod{
			ssh.Password(pass),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = pass
				}
				return answers, nil
			}),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         s.cfg.Timeout,
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		_ = conn.Close()
		s.conn = nil
		s.state = Closed
		if strings.Contains(err.Error(), "unable to authenticate") {
			fmt.Fprintln(s.out, "Authentication failed")
			return &Error{Kind: KindAuthentication, Addr: addr, Err: err}
		}
		fmt.Fprintln(s.out, "SSH handshake failed")
		return &Error{Kind: KindHandshake, Addr: addr, Err: err}
	}
	_ = conn.SetDeadline(time.Time{})
	s.state = TransportEstablished

	s.client = ssh.NewClient(c, chans, reqs)
	s.state = Authenticated
	fmt.Fprintf(s.out, "Connected to %s as %s\n", host, user)
	return nil
}

// ExecuteOnce runs command on a fresh channel and returns its standard output.
// Failures are returned as the result text and leave the session connected.
// A non-zero exit status is not treated as a failure.
func (s *Session) ExecuteOnce(command string) string {
	if s.state != Authenticated || s.client == nil {
		return "Error: Not connected"
	}

	sess, err := s.client.NewSession()
	if err != nil {
		gologger.Verbose().Msgf("ssh: open channel: %s", err)
		return "Error: Failed to open channel"
	}
	s.state = ChannelOpen
	defer func() {
		_ = sess.Close()
		s.state = Authenticated
	}()

	stdout, err := sess.StdoutPipe()
	if err != nil {
		return "Error: Failed to open channel"
	}
	if err := sess.Start(command); err != nil {
		gologger.Verbose().Msgf("ssh: exec %q: %s", command, err)
		return "Error: Failed to execute command"
	}
	s.state = Streaming

	data, _ := io.ReadAll(stdout)
	_ = sess.Wait()
	return string(data)
}

// InteractiveShell opens a shell, runs commands in order, then forwards lines
// from input until the remote side ends the stream, input is closed or yields
// the escape line, or ctx is cancelled. Output is written to the session's
// writer as it arrives.
func (s *Session) InteractiveShell(ctx context.Context, commands []string, input <-chan string) error {
	if s.state != Authenticated || s.client == nil {
		fmt.Fprintln(s.out, "Error: Not connected")
		return &Error{Kind: KindChannel, Err: ErrNotConnected}
	}

	sess, err := s.client.NewSession()
	if err != nil {
		fmt.Fprintln(s.out, "Error: Failed to open channel")
		return &Error{Kind: KindChannel, Err: err}
	}
	defer func() {
		_ = sess.Close()
		s.state = Authenticated
	}()

	if s.cfg.Terminal != "" {
		modes := ssh.TerminalModes{
			ssh.ECHO:          1,
			ssh.TTY_OP_ISPEED: 14400,
			ssh.TTY_OP_OSPEED: 14400,
		}
		if err := sess.RequestPty(s.cfg.Terminal, 80, 200, modes); err != nil {
			fmt.Fprintln(s.out, "Error: Failed to request shell")
			return &Error{Kind: KindChannel, Err: err}
		}
	}
	stdin, err := sess.StdinPipe()
	if err != nil {
		return &Error{Kind: KindChannel, Err: err}
	}
	stdout, err := sess.StdoutPipe()
	if err != nil {
		return &Error{Kind: KindChannel, Err: err}
	}
	if err := sess.Shell(); err != nil {
		fmt.Fprintln(s.out, "Error: Failed to request shell")
		return &Error{Kind: KindChannel, Err: err}
	}
	s.state = ChannelOpen

	stream := NewStream(stdout)
	defer stream.Close()

	s.settle(stream)

	send := func(line string) error {
		if _, err := io.WriteString(stdin, line+"\n"); err != nil {
			return err
		}
		s.state = Streaming
		_, _ = io.WriteString(s.out, AwaitPrompt(stream, s.cfg.MaxEmptyReads, s.cfg.PollInterval))
		s.state = ChannelOpen
		return nil
	}

	for _, command := range commands {
		if err := send(command); err != nil {
			gologger.Verbose().Msgf("ssh: write %q: %s", command, err)
			return nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stream.Done():
			// flush whatever arrived after the last prompt
			_, _ = io.WriteString(s.out, AwaitPrompt(stream, 1, 0))
			return nil
		case line, ok := <-input:
			if !ok || (s.cfg.Escape != "" && strings.TrimSpace(line) == s.cfg.Escape) {
				return nil
			}
			if err := send(line); err != nil {
				return nil
			}
		}
	}
}

// settle discards the login banner for the configured window.
func (s *Session) settle(stream *Stream) {
	deadline := time.Now().Add(s.cfg.SettleWindow)
	for time.Now().Before(deadline) {
		chunk, err := stream.TryRead()
		if err != nil {
			return
		}
		if chunk == nil {
			time.Sleep(s.cfg.PollInterval)
		}
	}
}

// Disconnect tears the session down. It is safe to call more than once.
func (s *Session) Disconnect() {
	if s.client == nil && s.conn == nil {
		return
	}
	if s.client != nil {
		// closing the client also closes the underlying socket
		_ = s.client.Close()
		s.client = nil
	}
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	s.state = Closed
	fmt.Fprintln(s.out, "Disconnected")
}
