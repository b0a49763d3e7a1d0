package scene

import (
	"fmt"

	"github.com/pixil98/go-narrator/internal/narrative"
	"github.com/pixil98/go-narrator/internal/storage"
)

// Library holds the line and scene stores and turns scenes into playable
// queues.
type Library struct {
	Lines  storage.Storer[*Line]
	Scenes storage.Storer[*Scene]
}

// Resolve binds every scene's references and checks that victory scenes
// exist and that chaining them always ends.
func (l *Library) Resolve() error {
	scenes := l.Scenes.GetAll()
	for id, s := range scenes {
		if err := s.Resolve(l.Lines); err != nil {
			return fmt.Errorf("scene %s: %w", id, err)
		}
		if s.VictoryScene != "" {
			if _, ok := scenes[s.VictoryScene]; !ok {
				return fmt.Errorf("scene %s: victory scene %q not found", id, s.VictoryScene)
			}
		}
	}

	for id := range scenes {
		if err := checkVictoryChain(id, scenes); err != nil {
			return fmt.Errorf("scene %s: %w", id, err)
		}
	}
	return nil
}

// checkVictoryChain follows the victory scenes queued after id finishes. Only
// standalone scenes queue their victory scene.
func checkVictoryChain(id string, scenes map[string]*Scene) error {
	seen := map[string]bool{id: true}
	for s := scenes[id]; s.Standalone && s.VictoryScene != ""; s = scenes[s.VictoryScene] {
		if seen[s.VictoryScene] {
			return fmt.Errorf("victory scene cycle through %q", s.VictoryScene)
		}
		seen[s.VictoryScene] = true
	}
	return nil
}

// Scene returns the scene with the given id, or nil.
func (l *Library) Scene(id string) *Scene {
	return l.Scenes.Get(id)
}

// Queue builds the entry queue for a scene. The returned slice is owned by the
// caller.
func (l *Library) Queue(sceneID string) ([]narrative.Entry, error) {
	s := l.Scenes.Get(sceneID)
	if s == nil {
		return nil, fmt.Errorf("scene %q not found", sceneID)
	}

	data := TextData{Scene: s.Title, Vars: s.Vars}
	if data.Vars == nil {
		data.Vars = map[string]string{}
	}

	queue := make([]narrative.Entry, 0, len(s.Lines))
	for i, ref := range s.Lines {
		line := ref.Get()
		if line == nil {
			return nil, fmt.Errorf("scene %q line %d: %q is not resolved", sceneID, i, ref.Id())
		}

		e, err := line.Entry(ref.Id(), data)
		if err != nil {
			return nil, fmt.Errorf("scene %q line %s: %w", sceneID, ref.Id(), err)
		}
		queue = append(queue, e)
	}

	if len(queue) == 0 {
		return nil, fmt.Errorf("scene %q: %w", sceneID, narrative.ErrEmptyQueue)
	}

	return queue, nil
}
