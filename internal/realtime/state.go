package realtime

// State is the connection lifecycle state of a ChannelClient.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateOpen
	StateClosed
	// StateStopped is terminal; no event leaves it.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Event is something that happens to a connection.
type Event int

const (
	EventDial Event = iota
	EventOpened
	EventClosed
	EventStop
)

// Next is the pure transition function of the connection state machine.
// Invalid transitions return the current state unchanged.
func Next(s State, ev Event) State {
	if s == StateStopped {
		return StateStopped
	}
	switch ev {
	case EventStop:
		return StateStopped
	case EventDial:
		if s == StateIdle || s == StateClosed {
			return StateConnecting
		}
	case EventOpened:
		if s == StateConnecting {
			return StateOpen
		}
	case EventClosed:
		if s == StateConnecting || s == StateOpen {
			return StateClosed
		}
	}
	return s
}
