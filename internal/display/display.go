package display

import (
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pixil98/go-narrator/internal/narrative"
)

const DefaultWidth = 80

var titleCase = cases.Title(language.English)

// Wrap word-wraps text to width columns, preserving ANSI escape sequences.
// A width below one uses DefaultWidth.
func Wrap(text string, width int) string {
	if width < 1 {
		width = DefaultWidth
	}
	return wordwrap.String(text, width)
}

// EmotionLabel returns the display name of an emotion, e.g. "Surprised".
func EmotionLabel(e narrative.Emotion) string {
	return titleCase.String(e.String())
}
