package console

import "time"

const DefaultTransition = 200 * time.Millisecond

type ConsoleOpt func(*Console)

// WithScreen draws on s instead of the process terminal.
func WithScreen(s Screen) ConsoleOpt {
	return func(c *Console) {
		c.newScreen = func() (Screen, error) { return s, nil }
	}
}

// WithTransitions sets how long panels take to open and close.
func WithTransitions(show, hide time.Duration) ConsoleOpt {
	return func(c *Console) {
		for _, p := range c.panels {
			p.showDuration = show
			p.hideDuration = hide
		}
	}
}

// WithPanelHeight sets the height of each panel in rows, borders included.
func WithPanelHeight(h int) ConsoleOpt {
	return func(c *Console) {
		c.height = h
	}
}
