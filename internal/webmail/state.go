package webmail

// State tracks the session lifecycle: Closed -> Opening -> Ready -> Sending
// -> Ready -> ... -> Closing -> Closed. Invalid transitions are rejected so
// a send can never race an open or a close.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateReady
	StateSending
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateReady:
		return "ready"
	case StateSending:
		return "sending"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}
