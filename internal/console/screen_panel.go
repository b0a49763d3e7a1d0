package console

import (
	"time"

	"github.com/pixil98/go-narrator/internal/narrative"
)

// screenPanel is a dialogue panel drawn on a terminal screen. It only keeps
// state; the console draws it.
type screenPanel struct {
	showDuration time.Duration
	hideDuration time.Duration

	speaker string
	emotion narrative.Emotion
	text    string
	visible bool

	anim *openClose
}

type openClose struct {
	opening   bool
	total     time.Duration
	remaining time.Duration
	done      func()
}

func (p *screenPanel) Initialize(e narrative.Entry) {
	p.speaker = e.Speaker
	p.emotion = narrative.EmotionNeutral
	p.text = ""
}

func (p *screenPanel) Show(done func()) {
	p.start(true, p.showDuration, done)
}

func (p *screenPanel) Hide(done func()) {
	p.start(false, p.hideDuration, done)
}

func (p *screenPanel) start(opening bool, d time.Duration, done func()) {
	if d <= 0 {
		p.visible = opening
		p.anim = nil
		done()
		return
	}
	p.anim = &openClose{opening: opening, total: d, remaining: d, done: done}
}

// Busy reports whether an open or close is in progress.
func (p *screenPanel) Busy() bool {
	return p.anim != nil
}

// Tick advances the running transition and returns the unused part of dt.
func (p *screenPanel) Tick(dt time.Duration) time.Duration {
	if p.anim == nil {
		return dt
	}

	if dt < p.anim.remaining {
		p.anim.remaining -= dt
		return 0
	}

	a := p.anim
	p.anim = nil
	p.visible = a.opening
	a.done()
	return dt - a.remaining
}

// openness returns how far open the panel is, from 0 to 1.
func (p *screenPanel) openness() float64 {
	if p.anim == nil {
		if p.visible {
			return 1
		}
		return 0
	}

	left := float64(p.anim.remaining) / float64(p.anim.total)
	if p.anim.opening {
		return 1 - left
	}
	return left
}

func (p *screenPanel) PlayEmotion(e narrative.Emotion) {
	p.emotion = e
}

func (p *screenPanel) SetText(s string) {
	p.text = s
}

func (p *screenPanel) Text() string {
	return p.text
}
