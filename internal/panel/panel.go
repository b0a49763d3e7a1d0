package panel

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/muesli/reflow/indent"

	"github.com/pixil98/go-narrator/internal/display"
	"github.com/pixil98/go-narrator/internal/narrative"
)

const (
	DefaultWidth        = 48
	DefaultShowDuration = 250 * time.Millisecond
	DefaultHideDuration = 250 * time.Millisecond

	clearLine = "\r\x1b[K"
)

// Panel is a text dialogue panel written to a terminal stream. Show and Hide
// transitions run for a fixed duration and complete from Tick.
type Panel struct {
	w            io.Writer
	width        int
	indent       uint
	showDuration time.Duration
	hideDuration time.Duration

	speaker   string
	text      string
	committed int
	visible   bool
	anim      *transition

	err error
}

type transition struct {
	remaining time.Duration
	onDone    func()
	done      func()
}

func New(w io.Writer, opts ...PanelOpt) *Panel {
	p := &Panel{
		w:            w,
		width:        DefaultWidth,
		showDuration: DefaultShowDuration,
		hideDuration: DefaultHideDuration,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Err returns the first error encountered writing to the stream.
func (p *Panel) Err() error {
	return p.err
}

// Visible reports whether the panel is fully shown.
func (p *Panel) Visible() bool {
	return p.visible
}

// Busy reports whether a show or hide transition is in progress.
func (p *Panel) Busy() bool {
	return p.anim != nil
}

func (p *Panel) Initialize(e narrative.Entry) {
	p.speaker = e.Speaker
	p.text = ""
	p.committed = 0
}

func (p *Panel) Show(done func()) {
	p.start(p.showDuration, p.onShown, done)
}

func (p *Panel) Hide(done func()) {
	p.visible = false
	p.start(p.hideDuration, p.onHidden, done)
}

func (p *Panel) start(d time.Duration, onDone, done func()) {
	t := &transition{remaining: d, onDone: onDone, done: done}
	if d <= 0 {
		p.complete(t)
		return
	}
	p.anim = t
}

// Tick advances any running transition by dt and returns the part of dt the
// transition did not use. The transition's completion callback runs
// synchronously from here.
func (p *Panel) Tick(dt time.Duration) time.Duration {
	if p.anim == nil {
		return dt
	}

	if dt < p.anim.remaining {
		p.anim.remaining -= dt
		return 0
	}

	t := p.anim
	p.anim = nil
	p.complete(t)
	return dt - t.remaining
}

func (p *Panel) complete(t *transition) {
	t.onDone()
	if t.done != nil {
		t.done()
	}
}

func (p *Panel) onShown() {
	p.visible = true
	p.writeLine(fmt.Sprintf("[%s]", p.speaker))
}

func (p *Panel) onHidden() {
	p.write("\n")
}

func (p *Panel) PlayEmotion(e narrative.Emotion) {
	p.writeLine(fmt.Sprintf("(%s)", display.EmotionLabel(e)))
}

func (p *Panel) Text() string {
	return p.text
}

// SetText renders the visible text. Wrapped lines before the last are
// written once; the last line is redrawn in place until it is complete.
func (p *Panel) SetText(s string) {
	if s == "" {
		if p.text != "" {
			p.write("\n")
		}
		p.text = ""
		p.committed = 0
		return
	}
	p.text = s

	lines := strings.Split(p.layout(s), "\n")
	for i := p.committed; i < len(lines); i++ {
		p.write(clearLine + lines[i])
		if i < len(lines)-1 {
			p.write("\n")
			p.committed = i + 1
		}
	}
}

func (p *Panel) layout(s string) string {
	out := display.Wrap(s, p.width)
	if p.indent > 0 {
		out = indent.String(out, p.indent)
	}
	return out
}

func (p *Panel) writeLine(s string) {
	p.write(p.layout(s) + "\n")
}

func (p *Panel) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}
