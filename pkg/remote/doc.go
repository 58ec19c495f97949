// Package remote drives interactive SSH sessions against network devices.
//
// A Session moves through a fixed sequence of states:
//
//	Disconnected -> SocketConnected -> TransportEstablished -> Authenticated
//	             -> ChannelOpen -> Streaming -> Closed
//
// Closed is reachable from any state, on error or on Disconnect.
//
// Two ways of running commands are offered once authenticated:
//   - ExecuteOnce runs a single command on its own channel and reads until the
//     server closes the stream. Channel failures come back as the result text.
//   - InteractiveShell opens a shell, discards the login banner, then writes
//     each command and waits for the prompt to come back before sending the
//     next one. Lines from an input channel are forwarded the same way until
//     the remote side ends the stream.
//
// Prompt detection is a heuristic: the read loop stops as soon as the last
// line of output ends in one of '>', '#', '$' or '%', or after a run of empty
// polls. Command output whose final line happens to end in one of those
// characters is therefore cut short.
package remote
