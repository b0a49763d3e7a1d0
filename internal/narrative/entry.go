package narrative

import (
	"fmt"
	"time"
)

// Side selects which of the two dialogue panels renders an entry.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "unknown"
	}
}

func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "left":
		*s = SideLeft
	case "right":
		*s = SideRight
	default:
		return fmt.Errorf("unknown panel side: %s", text)
	}
	return nil
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Emotion is the portrait emotion shown while an entry prints.
type Emotion int

const (
	EmotionNeutral Emotion = iota
	EmotionHappy
	EmotionAngry
	EmotionExhausted
	EmotionSmug
	EmotionLaughing
	EmotionShifty
	EmotionSatisfied
	EmotionScared
	EmotionSurprised
)

var emotionNames = []string{
	"neutral",
	"happy",
	"angry",
	"exhausted",
	"smug",
	"laughing",
	"shifty",
	"satisfied",
	"scared",
	"surprised",
}

func (e Emotion) String() string {
	if e < 0 || int(e) >= len(emotionNames) {
		return "unknown"
	}
	return emotionNames[e]
}

func (e *Emotion) UnmarshalText(text []byte) error {
	for i, name := range emotionNames {
		if name == string(text) {
			*e = Emotion(i)
			return nil
		}
	}
	return fmt.Errorf("unknown emotion: %s", text)
}

func (e Emotion) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// Entry is a single line of dialogue and the parameters used to play it.
// Entries are never modified once queued.
type Entry struct {
	ID             string
	Speaker        string
	Text           string
	Side           Side
	Emotion        Emotion
	CharsPerSecond float64
	AdvanceDelay   time.Duration

	// ForceNewPanel requests a hide/show transition even when the previous
	// entry used the same panel and speaker.
	ForceNewPanel bool
}

// NeedsNewPanel reports whether moving from prev to e requires hiding the
// current panel and showing a fresh one instead of resetting text in place.
func (e *Entry) NeedsNewPanel(prev *Entry) bool {
	if prev == nil || e.ForceNewPanel {
		return true
	}
	return prev.Side != e.Side || prev.Speaker != e.Speaker
}
