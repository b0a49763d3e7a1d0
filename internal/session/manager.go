package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pixil98/go-narrator/internal/cinematic"
	"github.com/pixil98/go-narrator/internal/messaging"
	"github.com/pixil98/go-narrator/internal/narrative"
	"github.com/pixil98/go-narrator/internal/panel"
	"github.com/pixil98/go-narrator/internal/scene"
)

// Library builds playable queues for scenes.
type Library interface {
	Scene(id string) *scene.Scene
	Queue(sceneID string) ([]narrative.Entry, error)
}

// ScenePrompter asks a viewer to pick a scene and returns its id.
type ScenePrompter interface {
	Prompt(rw io.ReadWriter, prompt string) (string, error)
}

// Manager runs one session per viewer connection and ticks them all from the
// driver.
type Manager struct {
	library  Library
	prompter ScenePrompter
	bus      messaging.Bus
	sub      messaging.Subscriber

	panelOpts []panel.PanelOpt
	indent    uint
	newID     func() string

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(library Library, prompter ScenePrompter, bus messaging.Bus, opts ...ManagerOpt) *Manager {
	m := &Manager{
		library:  library,
		prompter: prompter,
		bus:      bus,
		indent:   DefaultRightIndent,
		newID:    func() string { return uuid.New().String() },
		sessions: map[string]*Session{},
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Start blocks until the context is cancelled.
func (m *Manager) Start(ctx context.Context) error {
	<-ctx.Done()

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		s.finish(ctx.Err())
	}
	return nil
}

// Tick advances every running session by dt.
func (m *Manager) Tick(ctx context.Context, dt time.Duration) error {
	for _, s := range m.snapshot() {
		s.Tick(dt)
	}
	return nil
}

// Count returns the number of running sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Get returns the running session with the given id, or nil.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

func (m *Manager) snapshot() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// RunSession asks the viewer for a scene and plays it, along with anything the
// scene queues after it. It returns when playback ends, the viewer
// disconnects, or the context is cancelled.
func (m *Manager) RunSession(ctx context.Context, conn io.ReadWriter) error {
	_, err := fmt.Fprintf(conn, "Welcome to the narrator.\n\n")
	if err != nil {
		return err
	}

	sceneID, err := m.prompter.Prompt(conn, "Which scene would you like to watch?")
	if err != nil {
		return fmt.Errorf("selecting scene: %w", err)
	}

	_, err = fmt.Fprintf(conn, "Press enter to hurry the text along.\n")
	if err != nil {
		return err
	}

	return m.Play(ctx, conn, sceneID)
}

// Play runs a session for sceneID on conn without prompting.
func (m *Manager) Play(ctx context.Context, conn io.ReadWriter, sceneID string) error {
	if m.library.Scene(sceneID) == nil {
		return fmt.Errorf("scene %q not found", sceneID)
	}

	s := m.newSession(conn)
	s.director.Enqueue(sceneID)

	if m.sub != nil {
		unsub, err := m.sub.Subscribe(messaging.Subject(s.id, messaging.KindHurry), func([]byte) {
			s.Hurry()
		})
		if err != nil {
			slog.WarnContext(ctx, "subscribing to hurry requests", "session", s.id, "error", err)
		} else {
			defer unsub()
		}
	}

	go s.readInput(conn)

	m.add(s)
	defer m.remove(s.id)

	slog.InfoContext(ctx, "session started", "session", s.id, "scene", sceneID)

	select {
	case <-ctx.Done():
		s.finish(ctx.Err())
		return nil
	case <-s.Done():
	}

	slog.InfoContext(ctx, "session ended", "session", s.id, "scenes", len(s.director.Finished()))

	if err := s.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(conn, "\nThe end.\n")
	return err
}

func (m *Manager) newSession(conn io.ReadWriter) *Session {
	id := m.newID()
	pub := messaging.NewEventPublisher(m.bus, id)

	rightOpts := append(append([]panel.PanelOpt(nil), m.panelOpts...), panel.WithIndent(m.indent))

	return &Session{
		id:       id,
		conn:     conn,
		library:  m.library,
		director: cinematic.NewDirector(m.library, pub),
		pub:      pub,
		left:     panel.New(conn, m.panelOpts...),
		right:    panel.New(conn, rightOpts...),
		done:     make(chan struct{}),
	}
}

func (m *Manager) add(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.id] = s
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
