package narrative

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"time"

	"github.com/pixil98/go-errors"
)

// Player plays a queue of entries across two dialogue panels.
//
// A Player is not safe for concurrent use. Tick, Handle, Hurry and Start must
// all be called from the same goroutine, including the done callbacks handed
// to presenters.
type Player struct {
	queue  []Entry
	panels [2]Presenter
	sink   CompletionSink
	hooks  Hooks

	state  State
	active Presenter

	// Playback cursor
	index       int
	runes       []rune
	revealed    int
	rate        float64
	sinceReveal float64
	waiting     time.Duration
	finishing   bool

	pending   Event
	lastToken uint64
}

// NewPlayer validates its inputs and returns a player in StateNotStarted. The
// queue is copied so later changes by the caller do not affect playback.
func NewPlayer(queue []Entry, left, right Presenter, sink CompletionSink, opts ...PlayerOpt) (*Player, error) {
	if len(queue) == 0 {
		return nil, ErrEmptyQueue
	}
	if isNil(left) || isNil(right) {
		return nil, ErrMissingPresenter
	}
	if isNil(sink) {
		return nil, ErrMissingSink
	}

	el := errors.NewErrorList()
	for i, e := range queue {
		if err := validateEntry(e); err != nil {
			el.Add(fmt.Errorf("entry %d: %w", i, err))
		}
	}
	if err := el.Err(); err != nil {
		return nil, err
	}

	p := &Player{
		queue:  append([]Entry(nil), queue...),
		panels: [2]Presenter{SideLeft: left, SideRight: right},
		sink:   sink,
		hooks:  noopHooks{},
		state:  StateNotStarted,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// isNil also catches interfaces holding a nil pointer.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func validateEntry(e Entry) error {
	el := errors.NewErrorList()

	if e.Side != SideLeft && e.Side != SideRight {
		el.Add(fmt.Errorf("unknown panel side %d", e.Side))
	}
	if !(e.CharsPerSecond > 0) {
		el.Add(fmt.Errorf("chars per second must be positive"))
	}
	if e.AdvanceDelay < 0 {
		el.Add(fmt.Errorf("advance delay must not be negative"))
	}

	return el.Err()
}

// State returns the current playback state.
func (p *Player) State() State {
	return p.state
}

// Index returns the position of the current entry in the queue.
func (p *Player) Index() int {
	return p.index
}

// Revealed returns how many characters of the current entry are visible.
func (p *Player) Revealed() int {
	return p.revealed
}

// Len returns the number of entries in the queue.
func (p *Player) Len() int {
	return len(p.queue)
}

// Start begins playback by showing the first entry's panel.
func (p *Player) Start() error {
	if len(p.queue) == 0 {
		return ErrEmptyQueue
	}
	if p.state != StateNotStarted {
		return ErrAlreadyStarted
	}

	p.index = 0
	p.showPanel()
	return nil
}

// Tick advances playback by dt. Negative durations are treated as zero.
func (p *Player) Tick(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}

	switch p.state {
	case StateRevealing, StateRevealingFast:
		p.reveal(dt)

	case StateWaitingForAdvance:
		p.waiting += dt
		if p.waiting >= p.queue[p.index].AdvanceDelay {
			p.advance()
		}
	}
}

// Hurry doubles the reveal rate for the rest of the current entry. It returns
// false if the player was not revealing at normal speed.
func (p *Player) Hurry() bool {
	if p.state != StateRevealing {
		return false
	}
	p.state = StateRevealingFast
	p.rate *= 2
	return true
}

// Handle delivers a presenter completion. Events that do not match the
// request the player is currently waiting on are logged and dropped.
func (p *Player) Handle(ev Event) {
	if p.pending.Kind == EventNone || ev != p.pending {
		slog.Warn("ignoring unexpected panel event",
			"state", p.state.String(),
			"event", ev.Kind.String(),
			"token", ev.Token,
			"expected", p.pending.Kind.String(),
		)
		return
	}
	p.pending = Event{}

	switch ev.Kind {
	case EventShowComplete:
		p.beginReveal()
	case EventHideComplete:
		if p.finishing {
			p.finish()
			return
		}
		p.showPanel()
	}
}

// expect records the completion the player now waits for and returns the
// callback that delivers it.
func (p *Player) expect(kind EventKind) func() {
	p.lastToken++
	ev := Event{Kind: kind, Token: p.lastToken}
	p.pending = ev
	return func() {
		p.Handle(ev)
	}
}

func (p *Player) showPanel() {
	e := p.queue[p.index]
	p.active = p.panels[e.Side]
	p.state = StateShowingPanel

	done := p.expect(EventShowComplete)
	p.active.Initialize(e)
	p.active.Show(done)
}

func (p *Player) hidePanel() {
	p.active.SetText("")
	p.revealed = 0
	p.sinceReveal = 0
	p.state = StateHidingPanel

	done := p.expect(EventHideComplete)
	p.active.Hide(done)
}

func (p *Player) beginReveal() {
	e := p.queue[p.index]

	p.runes = []rune(e.Text)
	p.revealed = 0
	p.sinceReveal = 0
	p.waiting = 0
	p.rate = e.CharsPerSecond
	p.state = StateRevealing

	p.hooks.OnSequenceStart(p.index, e)
	p.active.PlayEmotion(e.Emotion)
	p.active.SetText("")
}

func (p *Player) reveal(dt time.Duration) {
	p.sinceReveal += dt.Seconds()

	// Leftover time is dropped once any characters are printed.
	add := math.RoundToEven(p.rate * p.sinceReveal)
	if add <= 0 {
		return
	}

	remaining := len(p.runes) - p.revealed
	n := remaining
	if add < float64(remaining) {
		n = int(add)
	}

	p.revealed += n
	p.sinceReveal = 0
	if n > 0 {
		p.active.SetText(string(p.runes[:p.revealed]))
	}

	if p.revealed >= len(p.runes) {
		p.waiting = 0
		p.state = StateWaitingForAdvance
	}
}

func (p *Player) advance() {
	if p.index+1 >= len(p.queue) {
		p.finishing = true
		p.hidePanel()
		return
	}

	prev := &p.queue[p.index]
	p.hooks.OnSequenceEnd(p.index, *prev)

	next := &p.queue[p.index+1]
	needsNewPanel := next.NeedsNewPanel(prev)
	p.index++

	if needsNewPanel {
		p.hidePanel()
		return
	}
	p.beginReveal()
}

func (p *Player) finish() {
	p.hooks.OnSequenceEnd(p.index, p.queue[p.index])

	p.state = StateFinished
	p.runes = nil
	p.sink.OnFinished()
}
