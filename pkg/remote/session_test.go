package remote

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Timeout:       5 * time.Second,
		Terminal:      "vt100",
		SettleWindow:  100 * time.Millisecond,
		MaxEmptyReads: 40,
		PollInterval:  5 * time.Millisecond,
		Escape:        "~.",
	}
}

func TestConnectAndExecuteOnce(t *testing.T) {
	host, port := startDevice(t)
	var out bytes.Buffer
	s := New(&out, testConfig())
	require.Equal(t, Disconnected, s.State())

	require.NoError(t, s.Connect(context.Background(), host, testUser, testPassword, port))
	require.Equal(t, Authenticated, s.State())
	require.Contains(t, out.String(), "Connected to "+host+" as "+testUser)

	require.Equal(t, "hello\n", s.ExecuteOnce("echo hello"))
	require.Equal(t, Authenticated, s.State(), "session stays usable after exec")
	require.Equal(t, "again\n", s.ExecuteOnce("echo again"))

	s.Disconnect()
	require.Equal(t, Closed, s.State())
	require.Equal(t, "Error: Not connected", s.ExecuteOnce("echo late"))
}

func TestExecuteOnceRejected(t *testing.T) {
	host, port := startDevice(t)
	var out bytes.Buffer
	s := New(&out, testConfig())
	require.NoError(t, s.Connect(context.Background(), host, testUser, testPassword, port))
	defer s.Disconnect()

	require.Equal(t, "Error: Failed to execute command", s.ExecuteOnce(rejectedCommand))
	require.Equal(t, Authenticated, s.State())
	require.Equal(t, "still here\n", s.ExecuteOnce("echo still here"), "session stays usable after a rejected exec")
}

func TestConnectAuthenticationFailure(t *testing.T) {
	host, port := startDevice(t)
	var out bytes.Buffer
	s := New(&out, testConfig())

	err := s.Connect(context.Background(), host, testUser, "wrong", port)
	require.Error(t, err)
	require.True(t, IsKind(err, KindAuthentication), "got %v", err)
	require.Equal(t, Closed, s.State())
	require.Contains(t, out.String(), "Authentication failed")

	// nothing left to tear down
	out.Reset()
	s.Disconnect()
	require.Equal(t, Closed, s.State())
	require.Empty(t, out.String())
}

func TestConnectRefused(t *testing.T) {
	var out bytes.Buffer
	s := New(&out, testConfig())
	port := closedPort(t)

	err := s.Connect(context.Background(), "127.0.0.1", testUser, testPassword, port)
	require.True(t, IsKind(err, KindConnection), "got %v", err)
	require.Equal(t, Closed, s.State())
	require.Contains(t, out.String(), "Failed to connect to 127.0.0.1:")
}

func TestConnectHandshakeFailure(t *testing.T) {
	var out bytes.Buffer
	s := New(&out, testConfig())
	port := startGarbage(t)

	err := s.Connect(context.Background(), "127.0.0.1", testUser, testPassword, port)
	require.True(t, IsKind(err, KindHandshake), "got %v", err)
	require.Equal(t, Closed, s.State())
	require.Contains(t, out.String(), "SSH handshake failed")
}

func TestDisconnectIsIdempotent(t *testing.T) {
	host, port := startDevice(t)
	var out bytes.Buffer
	s := New(&out, testConfig())
	require.NoError(t, s.Connect(context.Background(), host, testUser, testPassword, port))

	s.Disconnect()
	s.Disconnect()
	require.Equal(t, Closed, s.State())
	require.Equal(t, 1, strings.Count(out.String(), "Disconnected"))

	fresh := New(&out, testConfig())
	fresh.Disconnect()
	require.Equal(t, Disconnected, fresh.State())
}

func TestInteractiveShell(t *testing.T) {
	host, port := startDevice(t)
	var out bytes.Buffer
	s := New(&out, testConfig())
	require.NoError(t, s.Connect(context.Background(), host, testUser, testPassword, port))
	defer s.Disconnect()

	input := make(chan string, 1)
	input <- "show clock"
	close(input)

	err := s.InteractiveShell(context.Background(), []string{"terminal length 0", "show version"}, input)
	require.NoError(t, err)
	require.Equal(t, Authenticated, s.State())

	got := out.String()
	require.NotContains(t, got, "Welcome to the lab switch", "banner is discarded")
	first := strings.Index(got, "output for terminal length 0")
	second := strings.Index(got, "output for show version")
	third := strings.Index(got, "output for show clock")
	require.True(t, first >= 0 && second > first && third > second, "commands out of order:\n%s", got)
}

func TestInteractiveShellEscape(t *testing.T) {
	host, port := startDevice(t)
	var out bytes.Buffer
	s := New(&out, testConfig())
	require.NoError(t, s.Connect(context.Background(), host, testUser, testPassword, port))
	defer s.Disconnect()

	input := make(chan string, 2)
	input <- " ~. "
	input <- "show clock"

	require.NoError(t, s.InteractiveShell(context.Background(), nil, input))
	require.NotContains(t, out.String(), "output for show clock")
	require.Len(t, input, 1, "lines after the escape stay queued")
}

func TestInteractiveShellStreamEnd(t *testing.T) {
	host, port := startDevice(t)
	var out bytes.Buffer
	s := New(&out, testConfig())
	require.NoError(t, s.Connect(context.Background(), host, testUser, testPassword, port))
	defer s.Disconnect()

	done := make(chan error, 1)
	go func() {
		done <- s.InteractiveShell(context.Background(), []string{"show version", "exit"}, nil)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("shell did not return after the remote side closed")
	}
	require.Contains(t, out.String(), "bye")
}

func TestInteractiveShellCancelled(t *testing.T) {
	host, port := startDevice(t)
	var out bytes.Buffer
	s := New(&out, testConfig())
	require.NoError(t, s.Connect(context.Background(), host, testUser, testPassword, port))
	defer s.Disconnect()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.InteractiveShell(ctx, nil, make(chan string))
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, Authenticated, s.State())
}

func TestInteractiveShellNotConnected(t *testing.T) {
	var out bytes.Buffer
	s := New(&out, testConfig())
	err := s.InteractiveShell(context.Background(), DiscoveryCommands, nil)
	require.True(t, IsKind(err, KindChannel))
	require.ErrorIs(t, err, ErrNotConnected)
	require.Contains(t, out.String(), "Error: Not connected")
}
