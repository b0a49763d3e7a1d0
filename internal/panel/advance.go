package panel

import "time"

// Animated is a presenter whose transitions are driven by Tick.
type Animated interface {
	Busy() bool
	Tick(dt time.Duration) time.Duration
}

// Advance spends dt on whichever panel is mid-transition, handing any time
// left after a transition completes to the next one it started. It returns
// the time no transition used.
func Advance(dt time.Duration, panels ...Animated) time.Duration {
	for dt > 0 {
		busy := firstBusy(panels)
		if busy == nil {
			break
		}
		dt = busy.Tick(dt)
	}
	return dt
}

func firstBusy(panels []Animated) Animated {
	for _, p := range panels {
		if p.Busy() {
			return p
		}
	}
	return nil
}
