package messaging

import (
	"encoding/json"
	"fmt"
	"time"
)

const subjectRoot = "narrative"

// Event kinds published for a session.
const (
	KindLineStart = "line.start"
	KindLineEnd   = "line.end"
	KindFinished  = "finished"
	KindHurry     = "hurry"
)

// Bus is the transport used to publish events. NatsServer satisfies it.
type Bus interface {
	Publish(subject string, data []byte) error
}

// Subscriber is the transport used to receive events. NatsServer satisfies it.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// Event is the payload of every narrative message.
type Event struct {
	Session string    `json:"session"`
	Scene   string    `json:"scene"`
	Kind    string    `json:"event"`
	Line    string    `json:"line,omitempty"`
	Index   int       `json:"index"`
	Time    time.Time `json:"time"`
}

// Subject returns the subject an event kind is published on for a session.
func Subject(session, kind string) string {
	return fmt.Sprintf("%s.%s.%s", subjectRoot, session, kind)
}

// EventPublisher publishes narrative events for a single session.
type EventPublisher struct {
	bus     Bus
	session string
	now     func() time.Time
}

func NewEventPublisher(bus Bus, session string) *EventPublisher {
	return &EventPublisher{
		bus:     bus,
		session: session,
		now:     time.Now,
	}
}

func (p *EventPublisher) Publish(ev Event) error {
	ev.Session = p.session
	if ev.Time.IsZero() {
		ev.Time = p.now()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshalling %s event: %w", ev.Kind, err)
	}

	err = p.bus.Publish(Subject(p.session, ev.Kind), data)
	if err != nil {
		return fmt.Errorf("publishing %s event: %w", ev.Kind, err)
	}
	return nil
}
