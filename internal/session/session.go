package session

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pixil98/go-narrator/internal/cinematic"
	"github.com/pixil98/go-narrator/internal/messaging"
	"github.com/pixil98/go-narrator/internal/narrative"
	"github.com/pixil98/go-narrator/internal/panel"
)

// Session plays scenes for one viewer. Everything except Hurry and Done runs
// on the driver goroutine.
type Session struct {
	id       string
	conn     io.ReadWriter
	library  Library
	director *cinematic.Director
	pub      *messaging.EventPublisher

	left   *panel.Panel
	right  *panel.Panel
	player *narrative.Player
	scene  string

	hurry atomic.Bool

	once sync.Once
	done chan struct{}
	err  error
}

// Id returns the session id.
func (s *Session) Id() string {
	return s.id
}

// Hurry requests a faster reveal of the current line. Safe to call from any
// goroutine.
func (s *Session) Hurry() {
	s.hurry.Store(true)
}

// Done is closed when the session has nothing left to play or fails.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err returns the reason the session ended, if it ended with an error.
func (s *Session) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Scene returns the id of the scene playing, or "" before the first starts.
func (s *Session) Scene() string {
	return s.scene
}

// State returns the current player state, or StateNotStarted between scenes.
func (s *Session) State() narrative.State {
	if s.player == nil {
		return narrative.StateNotStarted
	}
	return s.player.State()
}

func (s *Session) finish(err error) {
	s.once.Do(func() {
		s.err = err
		close(s.done)
	})
}

func (s *Session) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Tick advances the session by dt.
func (s *Session) Tick(dt time.Duration) {
	if s.closed() {
		return
	}

	if s.player == nil || s.player.State() == narrative.StateFinished {
		if !s.startNext() {
			return
		}
	}

	if s.hurry.Swap(false) {
		s.player.Hurry()
	}

	// Time spent on panel transitions is not reveal time.
	s.player.Tick(panel.Advance(dt, s.left, s.right))

	if err := s.panelErr(); err != nil {
		s.finish(fmt.Errorf("writing to viewer: %w", err))
	}
}

func (s *Session) panelErr() error {
	if err := s.left.Err(); err != nil {
		return err
	}
	return s.right.Err()
}

// startNext begins the next queued scene. It returns false if the session
// ended instead.
func (s *Session) startNext() bool {
	id, ok := s.director.Next()
	if !ok {
		s.finish(nil)
		return false
	}

	queue, err := s.library.Queue(id)
	if err != nil {
		s.finish(fmt.Errorf("building scene %s: %w", id, err))
		return false
	}

	p, err := narrative.NewPlayer(queue, s.left, s.right, s.director.Sink(id),
		narrative.WithHooks(cinematic.NewLineHooks(s.pub, id)))
	if err != nil {
		s.finish(fmt.Errorf("creating player for %s: %w", id, err))
		return false
	}

	if sc := s.library.Scene(id); sc != nil {
		_, _ = fmt.Fprintf(s.conn, "\n== %s ==\n\n", sc.Title)
	}

	s.player = p
	s.scene = id
	if err := p.Start(); err != nil {
		s.finish(fmt.Errorf("starting scene %s: %w", id, err))
		return false
	}

	slog.Info("scene started", "session", s.id, "scene", id, "lines", p.Len())
	return true
}

// readInput turns any line of input from the viewer into a hurry request.
func (s *Session) readInput(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if s.closed() {
			return
		}
		s.Hurry()
	}
}
