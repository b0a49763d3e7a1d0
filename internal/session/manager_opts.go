package session

import (
	"github.com/pixil98/go-narrator/internal/messaging"
	"github.com/pixil98/go-narrator/internal/panel"
)

const DefaultRightIndent = 12

type ManagerOpt func(*Manager)

// WithSubscriber lets hurry requests arrive over the bus.
func WithSubscriber(sub messaging.Subscriber) ManagerOpt {
	return func(m *Manager) {
		m.sub = sub
	}
}

// WithPanelOpts sets the options applied to both panels of every session.
func WithPanelOpts(opts ...panel.PanelOpt) ManagerOpt {
	return func(m *Manager) {
		m.panelOpts = opts
	}
}

// WithRightIndent sets how far the right panel is indented.
func WithRightIndent(n uint) ManagerOpt {
	return func(m *Manager) {
		m.indent = n
	}
}

// WithIdGenerator replaces the session id source.
func WithIdGenerator(f func() string) ManagerOpt {
	return func(m *Manager) {
		m.newID = f
	}
}
