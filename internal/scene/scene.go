package scene

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-narrator/internal/storage"
)

// Scene is an ordered list of lines played as one queue.
type Scene struct {
	Title string `json:"title"`

	// Standalone scenes are played on their own rather than as part of a
	// larger cinematic; when one finishes its victory scene is queued next.
	Standalone   bool              `json:"standalone,omitempty"`
	VictoryScene string            `json:"victory_scene,omitempty"`
	Vars         map[string]string `json:"vars,omitempty"`

	Lines []storage.SmartIdentifier[*Line] `json:"lines"`
}

// Validate satisfies storage.ValidatingSpec.
func (s *Scene) Validate() error {
	el := errors.NewErrorList()

	if s.Title == "" {
		el.Add(fmt.Errorf("title is required"))
	}
	if len(s.Lines) == 0 {
		el.Add(fmt.Errorf("at least one line is required"))
	}
	for i, l := range s.Lines {
		if err := l.Validate(); err != nil {
			el.Add(fmt.Errorf("line %d: %w", i, err))
		}
	}
	if s.VictoryScene != "" && !s.Standalone {
		el.Add(fmt.Errorf("victory_scene requires standalone"))
	}

	return el.Err()
}

// Selector satisfies the storage selectable interface.
func (s *Scene) Selector() string {
	return s.Title
}

// Resolve binds the scene's line references.
func (s *Scene) Resolve(lines storage.Storer[*Line]) error {
	for i := range s.Lines {
		if err := s.Lines[i].Resolve(lines); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
	}
	return nil
}
