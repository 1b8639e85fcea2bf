package core

// ConnectionStatus describes how the engine currently relates to the remote log.
type ConnectionStatus string

const (
	// StatusDisconnected is the state before polling starts and after it stops.
	StatusDisconnected ConnectionStatus = "disconnected"
	// StatusConnecting means no poll has succeeded yet.
	StatusConnecting ConnectionStatus = "connecting"
	// StatusConnected means the latest poll succeeded.
	StatusConnected ConnectionStatus = "connected"
	// StatusDegraded means a poll succeeded before but the latest one failed.
	StatusDegraded ConnectionStatus = "degraded"
)

// transitions lists every permitted status change. Self-transitions are
// recorded explicitly because each poll outcome is written independently.
var transitions = map[ConnectionStatus][]ConnectionStatus{
	StatusDisconnected: {StatusConnecting, StatusDisconnected},
	StatusConnecting:   {StatusConnecting, StatusConnected, StatusDisconnected},
	StatusConnected:    {StatusConnected, StatusDegraded, StatusDisconnected},
	StatusDegraded:     {StatusDegraded, StatusConnected, StatusDisconnected},
}

// CanTransition reports whether the status table allows moving from -> to.
func CanTransition(from, to ConnectionStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Text returns the human readable status line shown to the user.
func (s ConnectionStatus) Text() string {
	switch s {
	case StatusConnecting:
		return "Connecting to chat backend..."
	case StatusConnected:
		return "Connected. Receiving messages..."
	case StatusDegraded:
		return "Disconnected. Check chat backend."
	default:
		return "Not connected"
	}
}
