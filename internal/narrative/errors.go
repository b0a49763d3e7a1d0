package narrative

import "errors"

var (
	ErrEmptyQueue       = errors.New("sequence queue is empty")
	ErrMissingPresenter = errors.New("panel presenter is required")
	ErrMissingSink      = errors.New("completion sink is required")
	ErrAlreadyStarted   = errors.New("playback already started")
)
