package messaging

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

type recordingBus struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (b *recordingBus) Publish(subject string, data []byte) error {
	if b.err != nil {
		return b.err
	}
	b.subjects = append(b.subjects, subject)
	b.payloads = append(b.payloads, data)
	return nil
}

func TestSubject(t *testing.T) {
	testutil.AssertEqual(t, "subject", Subject("abc", KindLineStart), "narrative.abc.line.start")
	testutil.AssertEqual(t, "subject", Subject("abc", KindFinished), "narrative.abc.finished")
}

func TestEventPublisher_Publish(t *testing.T) {
	bus := &recordingBus{}
	pub := NewEventPublisher(bus, "sess-1")
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	pub.now = func() time.Time { return fixed }

	err := pub.Publish(Event{Scene: "intro", Kind: KindLineEnd, Line: "greet", Index: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "published", len(bus.subjects), 1)
	testutil.AssertEqual(t, "subject", bus.subjects[0], "narrative.sess-1.line.end")

	var got Event
	if err := json.Unmarshal(bus.payloads[0], &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "session", got.Session, "sess-1")
	testutil.AssertEqual(t, "scene", got.Scene, "intro")
	testutil.AssertEqual(t, "kind", got.Kind, KindLineEnd)
	testutil.AssertEqual(t, "line", got.Line, "greet")
	testutil.AssertEqual(t, "index", got.Index, 2)
	testutil.AssertEqual(t, "time", got.Time.Equal(fixed), true)
}

func TestEventPublisher_PublishError(t *testing.T) {
	bus := &recordingBus{err: errors.New("boom")}
	pub := NewEventPublisher(bus, "sess-1")

	err := pub.Publish(Event{Kind: KindFinished})
	testutil.AssertErrorContains(t, err, "publishing finished event: boom")
}
