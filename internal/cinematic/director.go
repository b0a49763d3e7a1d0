package cinematic

import (
	"log/slog"

	"github.com/pixil98/go-narrator/internal/messaging"
	"github.com/pixil98/go-narrator/internal/narrative"
	"github.com/pixil98/go-narrator/internal/scene"
)

// SceneLookup finds scene definitions by id.
type SceneLookup interface {
	Scene(id string) *scene.Scene
}

// EventPublisher publishes narrative events.
type EventPublisher interface {
	Publish(messaging.Event) error
}

// Director decides which scene plays next for a single viewer. It is not safe
// for concurrent use.
type Director struct {
	scenes SceneLookup
	pub    EventPublisher

	queue    []string
	finished []string
}

func NewDirector(scenes SceneLookup, pub EventPublisher) *Director {
	return &Director{
		scenes: scenes,
		pub:    pub,
	}
}

// Enqueue appends a scene to the play queue.
func (d *Director) Enqueue(sceneID string) {
	d.queue = append(d.queue, sceneID)
}

// Next removes and returns the next queued scene.
func (d *Director) Next() (string, bool) {
	if len(d.queue) == 0 {
		return "", false
	}
	id := d.queue[0]
	d.queue = d.queue[1:]
	return id, true
}

// Pending returns the number of queued scenes.
func (d *Director) Pending() int {
	return len(d.queue)
}

// Finished returns the ids of scenes that have completed, in order.
func (d *Director) Finished() []string {
	return append([]string(nil), d.finished...)
}

// Sink returns the completion sink for one playback of sceneID.
func (d *Director) Sink(sceneID string) narrative.CompletionSink {
	return &sceneSink{director: d, sceneID: sceneID}
}

func (d *Director) onFinished(sceneID string) {
	d.finished = append(d.finished, sceneID)

	if s := d.scenes.Scene(sceneID); s != nil && s.Standalone && s.VictoryScene != "" {
		d.Enqueue(s.VictoryScene)
	}

	err := d.pub.Publish(messaging.Event{Scene: sceneID, Kind: messaging.KindFinished})
	if err != nil {
		slog.Warn("publishing scene finished", "scene", sceneID, "error", err)
	}
}

type sceneSink struct {
	director *Director
	sceneID  string
	done     bool
}

func (s *sceneSink) OnFinished() {
	if s.done {
		slog.Warn("scene finished twice", "scene", s.sceneID)
		return
	}
	s.done = true
	s.director.onFinished(s.sceneID)
}
