package panel

import "time"

type PanelOpt func(*Panel)

// WithWidth sets the column at which text is wrapped, not counting indent.
func WithWidth(w int) PanelOpt {
	return func(p *Panel) {
		p.width = w
	}
}

// WithIndent sets how many columns the panel is shifted to the right.
func WithIndent(n uint) PanelOpt {
	return func(p *Panel) {
		p.indent = n
	}
}

// WithShowDuration sets the length of the enter transition.
func WithShowDuration(d time.Duration) PanelOpt {
	return func(p *Panel) {
		p.showDuration = d
	}
}

// WithHideDuration sets the length of the exit transition.
func WithHideDuration(d time.Duration) PanelOpt {
	return func(p *Panel) {
		p.hideDuration = d
	}
}
