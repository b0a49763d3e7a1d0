package narrative

// State is the current phase of a Player.
type State int

const (
	StateNotStarted State = iota
	StateShowingPanel
	StateRevealing
	StateRevealingFast
	StateWaitingForAdvance
	StateHidingPanel
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateShowingPanel:
		return "showing_panel"
	case StateRevealing:
		return "revealing"
	case StateRevealingFast:
		return "revealing_fast"
	case StateWaitingForAdvance:
		return "waiting_for_advance"
	case StateHidingPanel:
		return "hiding_panel"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// revealing reports whether text is currently being printed.
func (s State) revealing() bool {
	return s == StateRevealing || s == StateRevealingFast
}
