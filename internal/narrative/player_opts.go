package narrative

type PlayerOpt func(*Player)

// WithHooks sets the receiver of entry start/end notifications.
func WithHooks(h Hooks) PlayerOpt {
	return func(p *Player) {
		if h != nil {
			p.hooks = h
		}
	}
}
