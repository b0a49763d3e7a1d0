package narrative

// EventKind identifies a presenter completion delivered to a Player.
type EventKind int

const (
	EventNone EventKind = iota
	EventShowComplete
	EventHideComplete
)

func (k EventKind) String() string {
	switch k {
	case EventShowComplete:
		return "show_complete"
	case EventHideComplete:
		return "hide_complete"
	default:
		return "none"
	}
}

// Event is a completion signal for a single presenter request. Token ties the
// event to the request that produced it so stale or repeated deliveries can
// be told apart from the one the player is waiting on.
type Event struct {
	Kind  EventKind
	Token uint64
}
