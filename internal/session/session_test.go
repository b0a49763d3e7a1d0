package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-narrator/internal/messaging"
	"github.com/pixil98/go-narrator/internal/narrative"
	"github.com/pixil98/go-narrator/internal/panel"
	"github.com/pixil98/go-narrator/internal/scene"
	"github.com/pixil98/go-testutil"
)

type fakeLibrary struct {
	scenes map[string]*scene.Scene
	queues map[string][]narrative.Entry
}

func (l *fakeLibrary) Scene(id string) *scene.Scene {
	return l.scenes[id]
}

func (l *fakeLibrary) Queue(id string) ([]narrative.Entry, error) {
	q, ok := l.queues[id]
	if !ok {
		return nil, fmt.Errorf("scene %q not found", id)
	}
	return q, nil
}

type recordingBus struct {
	mu       sync.Mutex
	subjects []string
}

func (b *recordingBus) Publish(subject string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subjects = append(b.subjects, subject)
	return nil
}

func (b *recordingBus) count(suffix string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, s := range b.subjects {
		if strings.HasSuffix(s, suffix) {
			n++
		}
	}
	return n
}

type fixedPrompter struct {
	id  string
	err error
}

func (p fixedPrompter) Prompt(rw io.ReadWriter, prompt string) (string, error) {
	return p.id, p.err
}

func testLibrary() *fakeLibrary {
	line := func(id, speaker, text string, side narrative.Side) narrative.Entry {
		return narrative.Entry{ID: id, Speaker: speaker, Text: text, Side: side, CharsPerSecond: 1000}
	}
	return &fakeLibrary{
		scenes: map[string]*scene.Scene{
			"duel":    {Title: "The Duel", Standalone: true, VictoryScene: "victory"},
			"victory": {Title: "Victory"},
			"broken":  {Title: "Broken"},
		},
		queues: map[string][]narrative.Entry{
			"duel": {
				line("d1", "Mira", "En garde!", narrative.SideLeft),
				line("d2", "Oren", "Bring it.", narrative.SideRight),
			},
			"victory": {
				line("v1", "Mira", "Too easy.", narrative.SideLeft),
			},
		},
	}
}

func newTestManager(lib Library, bus messaging.Bus, opts ...ManagerOpt) *Manager {
	opts = append([]ManagerOpt{
		WithPanelOpts(panel.WithShowDuration(0), panel.WithHideDuration(0)),
		WithIdGenerator(func() string { return "s1" }),
	}, opts...)
	return NewManager(lib, fixedPrompter{}, bus, opts...)
}

func tickUntilDone(t *testing.T, s *Session, dt time.Duration) {
	t.Helper()
	for i := 0; i < 100; i++ {
		select {
		case <-s.Done():
			return
		default:
		}
		s.Tick(dt)
	}
	t.Fatalf("session did not finish")
}

func TestSession_PlaysQueuedScenes(t *testing.T) {
	bus := &recordingBus{}
	m := newTestManager(testLibrary(), bus)

	var out bytes.Buffer
	s := m.newSession(&out)
	s.director.Enqueue("duel")

	tickUntilDone(t, s, 100*time.Millisecond)

	if err := s.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()
	for _, want := range []string{"== The Duel ==", "[Mira]", "En garde!", "[Oren]", "Bring it.", "== Victory ==", "Too easy."} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	testutil.AssertEqual(t, "duel before victory", strings.Index(got, "The Duel") < strings.Index(got, "Victory"), true)
	testutil.AssertEqual(t, "finished scenes", strings.Join(s.director.Finished(), ","), "duel,victory")
	testutil.AssertEqual(t, "last scene", s.Scene(), "victory")
	testutil.AssertEqual(t, "line starts", bus.count(".line.start"), 3)
	testutil.AssertEqual(t, "line ends", bus.count(".line.end"), 3)
	testutil.AssertEqual(t, "finished events", bus.count(".finished"), 2)
}

func TestSession_Hurry(t *testing.T) {
	lib := &fakeLibrary{
		scenes: map[string]*scene.Scene{"slow": {Title: "Slow"}},
		queues: map[string][]narrative.Entry{
			"slow": {{ID: "l1", Speaker: "Mira", Text: "abcdefghij", CharsPerSecond: 10}},
		},
	}
	m := newTestManager(lib, &recordingBus{})

	var out bytes.Buffer
	s := m.newSession(&out)
	s.director.Enqueue("slow")

	s.Tick(200 * time.Millisecond)
	testutil.AssertEqual(t, "state", s.State(), narrative.StateRevealing)
	testutil.AssertEqual(t, "revealed", s.player.Revealed(), 2)

	s.Hurry()
	s.Tick(200 * time.Millisecond)
	testutil.AssertEqual(t, "hurried state", s.State(), narrative.StateRevealingFast)
	testutil.AssertEqual(t, "hurried revealed", s.player.Revealed(), 6)
}

func TestSession_TransitionTimeNotRevealed(t *testing.T) {
	lib := &fakeLibrary{
		scenes: map[string]*scene.Scene{"slow": {Title: "Slow"}},
		queues: map[string][]narrative.Entry{
			"slow": {{ID: "l1", Speaker: "Mira", Text: "abcdefghij", CharsPerSecond: 10}},
		},
	}
	m := newTestManager(lib, &recordingBus{}, WithPanelOpts(panel.WithShowDuration(250*time.Millisecond), panel.WithHideDuration(250*time.Millisecond)))

	var out bytes.Buffer
	s := m.newSession(&out)
	s.director.Enqueue("slow")

	s.Tick(300 * time.Millisecond)
	testutil.AssertEqual(t, "state", s.State(), narrative.StateRevealing)
	testutil.AssertEqual(t, "revealed", s.player.Revealed(), 0)

	s.Tick(40 * time.Millisecond)
	testutil.AssertEqual(t, "revealed after tick", s.player.Revealed(), 1)
}

func TestSession_HideThenShowInOneFrame(t *testing.T) {
	lib := &fakeLibrary{
		scenes: map[string]*scene.Scene{"swap": {Title: "Swap"}},
		queues: map[string][]narrative.Entry{
			"swap": {
				{ID: "l1", Speaker: "Mira", Text: "Hi", Side: narrative.SideLeft, CharsPerSecond: 1000},
				{ID: "l2", Speaker: "Oren", Text: "Yo", Side: narrative.SideRight, CharsPerSecond: 1000},
			},
		},
	}
	m := newTestManager(lib, &recordingBus{}, WithPanelOpts(panel.WithShowDuration(100*time.Millisecond), panel.WithHideDuration(100*time.Millisecond)))

	var out bytes.Buffer
	s := m.newSession(&out)
	s.director.Enqueue("swap")

	s.Tick(100 * time.Millisecond)
	testutil.AssertEqual(t, "shown", s.State(), narrative.StateRevealing)
	s.Tick(100 * time.Millisecond)
	testutil.AssertEqual(t, "revealed", s.State(), narrative.StateWaitingForAdvance)
	s.Tick(10 * time.Millisecond)
	testutil.AssertEqual(t, "hiding", s.State(), narrative.StateHidingPanel)

	s.Tick(100 * time.Millisecond)
	testutil.AssertEqual(t, "right still showing", s.State(), narrative.StateShowingPanel)
	testutil.AssertEqual(t, "right busy", s.right.Busy(), true)

	s.Tick(50 * time.Millisecond)
	testutil.AssertEqual(t, "half shown", s.State(), narrative.StateShowingPanel)
	s.Tick(50 * time.Millisecond)
	testutil.AssertEqual(t, "right shown", s.State(), narrative.StateRevealing)
	testutil.AssertEqual(t, "nothing revealed yet", s.player.Revealed(), 0)
}

func TestSession_BadScene(t *testing.T) {
	m := newTestManager(testLibrary(), &recordingBus{})

	var out bytes.Buffer
	s := m.newSession(&out)
	s.director.Enqueue("broken")

	s.Tick(time.Millisecond)

	testutil.AssertErrorContains(t, s.Err(), "building scene broken")
}

type failingWriter struct{}

func (failingWriter) Read(p []byte) (int, error)  { return 0, io.EOF }
func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("connection reset") }

func TestSession_WriteFailure(t *testing.T) {
	m := newTestManager(testLibrary(), &recordingBus{})

	s := m.newSession(failingWriter{})
	s.director.Enqueue("duel")

	tickUntilDone(t, s, 100*time.Millisecond)

	testutil.AssertErrorContains(t, s.Err(), "connection reset")
}

func TestSession_TickAfterDone(t *testing.T) {
	m := newTestManager(testLibrary(), &recordingBus{})

	var out bytes.Buffer
	s := m.newSession(&out)
	s.Tick(time.Millisecond)

	select {
	case <-s.Done():
	default:
		t.Fatalf("expected session with empty director to be done")
	}

	n := out.Len()
	s.director.Enqueue("duel")
	s.Tick(time.Millisecond)
	testutil.AssertEqual(t, "no output after done", out.Len(), n)
	testutil.AssertEqual(t, "state", s.State(), narrative.StateNotStarted)
}

// pipeConn reads from a pipe and writes to a locked buffer.
type pipeConn struct {
	r  *io.PipeReader
	mu sync.Mutex
	b  bytes.Buffer
}

func (c *pipeConn) Read(p []byte) (int, error) {
	return c.r.Read(p)
}

func (c *pipeConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.b.Write(p)
}

func (c *pipeConn) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.b.String()
}

func TestManager_RunSession(t *testing.T) {
	bus := &recordingBus{}
	m := NewManager(testLibrary(), fixedPrompter{id: "duel"}, bus,
		WithPanelOpts(panel.WithShowDuration(0), panel.WithHideDuration(0)),
		WithIdGenerator(func() string { return "abc" }),
	)

	r, w := io.Pipe()
	defer w.Close()
	conn := &pipeConn{r: r}

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.RunSession(context.Background(), conn)
	}()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case err := <-errCh:
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			out := conn.String()
			if !strings.Contains(out, "Too easy.") || !strings.HasSuffix(out, "The end.\n") {
				t.Errorf("unexpected output:\n%s", out)
			}
			testutil.AssertEqual(t, "sessions", m.Count(), 0)
			testutil.AssertEqual(t, "subject", bus.subjects[0], "narrative.abc.line.start")
			return
		case <-deadline:
			t.Fatalf("session did not finish")
		default:
		}
		_ = m.Tick(context.Background(), 100*time.Millisecond)
		time.Sleep(time.Millisecond)
	}
}

func TestManager_RunSessionErrors(t *testing.T) {
	tests := map[string]struct {
		prompter ScenePrompter
		expErr   string
	}{
		"prompt fails": {
			prompter: fixedPrompter{err: errors.New("too many tries")},
			expErr:   "selecting scene: too many tries",
		},
		"unknown scene": {
			prompter: fixedPrompter{id: "missing"},
			expErr:   `scene "missing" not found`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := NewManager(testLibrary(), tt.prompter, &recordingBus{})

			var out bytes.Buffer
			err := m.RunSession(context.Background(), &out)
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestManager_ContextCancel(t *testing.T) {
	m := newTestManager(testLibrary(), &recordingBus{})

	r, w := io.Pipe()
	defer w.Close()
	conn := &pipeConn{r: r}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- m.Play(ctx, conn, "duel")
	}()

	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("session did not stop")
	}
}

type hurrySubscriber struct {
	mu      sync.Mutex
	subject string
	handler func([]byte)
}

func (s *hurrySubscriber) Subscribe(subject string, handler func([]byte)) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subject = subject
	s.handler = handler
	return func() {}, nil
}

func (s *hurrySubscriber) send() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handler == nil {
		return false
	}
	s.handler(nil)
	return true
}

func TestManager_HurryOverBus(t *testing.T) {
	lib := &fakeLibrary{
		scenes: map[string]*scene.Scene{"slow": {Title: "Slow"}},
		queues: map[string][]narrative.Entry{
			"slow": {{ID: "l1", Speaker: "Mira", Text: "abcdefghij", CharsPerSecond: 10}},
		},
	}
	sub := &hurrySubscriber{}
	m := newTestManager(lib, &recordingBus{}, WithSubscriber(sub))

	r, w := io.Pipe()
	defer w.Close()
	conn := &pipeConn{r: r}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = m.Play(ctx, conn, "slow")
	}()

	deadline := time.After(5 * time.Second)
	for m.Get("s1") == nil || !sub.send() {
		select {
		case <-deadline:
			t.Fatalf("session did not start")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	s := m.Get("s1")
	s.Tick(0)
	testutil.AssertEqual(t, "subject", sub.subject, "narrative.s1.hurry")
	testutil.AssertEqual(t, "state", s.State(), narrative.StateRevealingFast)
}
