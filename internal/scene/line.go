package scene

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-narrator/internal/narrative"
)

const defaultCharsPerSecond = 30

// Line is a stored line of dialogue.
type Line struct {
	Speaker        string            `json:"speaker"`
	Side           narrative.Side    `json:"side"`
	Emotion        narrative.Emotion `json:"emotion"`
	Text           string            `json:"text"`
	CharsPerSecond float64           `json:"chars_per_second,omitempty"`
	AdvanceDelay   string            `json:"advance_delay,omitempty"`
	ForceNewPanel  bool              `json:"force_new_panel,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (l *Line) Validate() error {
	el := errors.NewErrorList()

	if l.Speaker == "" {
		el.Add(fmt.Errorf("speaker is required"))
	}
	if l.CharsPerSecond < 0 {
		el.Add(fmt.Errorf("chars_per_second must not be negative"))
	}
	if _, err := l.advanceDelay(); err != nil {
		el.Add(err)
	}
	if err := checkText(l.Text); err != nil {
		el.Add(fmt.Errorf("text: %w", err))
	}

	return el.Err()
}

func (l *Line) charsPerSecond() float64 {
	if l.CharsPerSecond == 0 {
		return defaultCharsPerSecond
	}
	return l.CharsPerSecond
}

func (l *Line) advanceDelay() (time.Duration, error) {
	if l.AdvanceDelay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(l.AdvanceDelay)
	if err != nil {
		return 0, fmt.Errorf("parsing advance_delay: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("advance_delay must not be negative")
	}
	return d, nil
}

// Entry builds the playable entry for this line.
func (l *Line) Entry(id string, data TextData) (narrative.Entry, error) {
	delay, err := l.advanceDelay()
	if err != nil {
		return narrative.Entry{}, err
	}

	data.Speaker = l.Speaker
	text, err := ExpandText(l.Text, data)
	if err != nil {
		return narrative.Entry{}, fmt.Errorf("expanding text: %w", err)
	}

	return narrative.Entry{
		ID:             id,
		Speaker:        l.Speaker,
		Text:           text,
		Side:           l.Side,
		Emotion:        l.Emotion,
		CharsPerSecond: l.charsPerSecond(),
		AdvanceDelay:   delay,
		ForceNewPanel:  l.ForceNewPanel,
	}, nil
}
