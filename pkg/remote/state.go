package remote

// State is the lifecycle position of a Session.
type State int

const (
	Disconnected State = iota
	SocketConnected
	TransportEstablished
	Authenticated
	ChannelOpen
	Streaming
	Closed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case SocketConnected:
		return "socket-connected"
	case TransportEstablished:
		return "transport-established"
	case Authenticated:
		return "authenticated"
	case ChannelOpen:
		return "channel-open"
	case Streaming:
		return "streaming"
	case Closed:
		return "closed"
	}
	return "unknown"
}
