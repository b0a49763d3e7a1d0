package console

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pixil98/go-narrator/internal/cinematic"
	"github.com/pixil98/go-narrator/internal/display"
	"github.com/pixil98/go-narrator/internal/messaging"
	"github.com/pixil98/go-narrator/internal/narrative"
	"github.com/pixil98/go-narrator/internal/panel"
	"github.com/pixil98/go-narrator/internal/scene"
)

const (
	SessionID = "console"

	DefaultPanelHeight = 8

	footerHelp = "enter: hurry  esc: quit"
	footerEnd  = "The end. Press esc to quit."
)

// Screen is the part of tcell.Screen the console draws with.
type Screen interface {
	Init() error
	Fini()
	Clear()
	Show()
	Size() (int, int)
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	PollEvent() tcell.Event
}

// Library builds playable queues for scenes.
type Library interface {
	Scene(id string) *scene.Scene
	Queue(sceneID string) ([]narrative.Entry, error)
}

// Console plays a scene on the local terminal with the two panels side by
// side. It is started as a worker and ticked by the driver.
type Console struct {
	library   Library
	sceneID   string
	pub       *messaging.EventPublisher
	newScreen func() (Screen, error)
	height    int

	hurry    atomic.Bool
	quit     chan struct{}
	quitOnce sync.Once

	mu       sync.Mutex
	screen   Screen
	director *cinematic.Director
	panels   [2]*screenPanel
	player   *narrative.Player
	title    string
	ended    bool
}

func NewConsole(library Library, sceneID string, bus messaging.Bus, opts ...ConsoleOpt) *Console {
	c := &Console{
		library:   library,
		sceneID:   sceneID,
		pub:       messaging.NewEventPublisher(bus, SessionID),
		newScreen: func() (Screen, error) { return tcell.NewScreen() },
		height:    DefaultPanelHeight,
		quit:      make(chan struct{}),
		panels: [2]*screenPanel{
			narrative.SideLeft:  {showDuration: DefaultTransition, hideDuration: DefaultTransition},
			narrative.SideRight: {showDuration: DefaultTransition, hideDuration: DefaultTransition},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Start takes over the terminal and blocks until escape is pressed or the
// context is cancelled.
func (c *Console) Start(ctx context.Context) error {
	if c.library.Scene(c.sceneID) == nil {
		return fmt.Errorf("scene %q not found", c.sceneID)
	}

	screen, err := c.newScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}

	c.attach(screen)
	go c.poll(screen)

	slog.InfoContext(ctx, "console started", "scene", c.sceneID)

	select {
	case <-ctx.Done():
	case <-c.quit:
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen = nil
	screen.Fini()

	slog.InfoContext(ctx, "console stopped")
	return nil
}

func (c *Console) attach(screen Screen) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.screen = screen
	c.director = cinematic.NewDirector(c.library, c.pub)
	c.director.Enqueue(c.sceneID)
	c.player = nil
	c.ended = false
}

func (c *Console) poll(screen Screen) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		if key, ok := ev.(*tcell.EventKey); ok {
			c.handleKey(key.Key())
		}
	}
}

func (c *Console) handleKey(k tcell.Key) {
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		c.quitOnce.Do(func() { close(c.quit) })
	default:
		c.hurry.Store(true)
	}
}

// Tick advances playback by dt and redraws the screen.
func (c *Console) Tick(ctx context.Context, dt time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen == nil {
		return nil
	}

	if !c.ended && (c.player == nil || c.player.State() == narrative.StateFinished) {
		if err := c.startNext(); err != nil {
			c.ended = true
			slog.ErrorContext(ctx, "starting next scene", "error", err)
		}
	}

	if c.hurry.Swap(false) && c.player != nil {
		c.player.Hurry()
	}

	if !c.ended {
		left, right := c.panels[narrative.SideLeft], c.panels[narrative.SideRight]
		c.player.Tick(panel.Advance(dt, left, right))
	}

	c.draw()
	return nil
}

func (c *Console) startNext() error {
	id, ok := c.director.Next()
	if !ok {
		c.ended = true
		return nil
	}

	queue, err := c.library.Queue(id)
	if err != nil {
		return fmt.Errorf("building scene %s: %w", id, err)
	}

	p, err := narrative.NewPlayer(queue, c.panels[narrative.SideLeft], c.panels[narrative.SideRight],
		c.director.Sink(id), narrative.WithHooks(cinematic.NewLineHooks(c.pub, id)))
	if err != nil {
		return fmt.Errorf("creating player for %s: %w", id, err)
	}

	c.player = p
	if s := c.library.Scene(id); s != nil {
		c.title = s.Title
	}
	return p.Start()
}

func (c *Console) draw() {
	c.screen.Clear()
	w, h := c.screen.Size()

	half := w / 2
	c.drawPanel(c.panels[narrative.SideLeft], 0, half)
	c.drawPanel(c.panels[narrative.SideRight], half, w-half)

	footer := footerHelp
	if c.ended {
		footer = footerEnd
	}
	if c.title != "" {
		footer = c.title + " | " + footer
	}
	c.drawString(0, h-1, w, footer, tcell.StyleDefault.Dim(true))

	c.screen.Show()
}

func (c *Console) drawPanel(p *screenPanel, x, w int) {
	rows := int(p.openness()*float64(c.height) + 0.5)
	if rows < 2 || w < 4 {
		return
	}

	border := tcell.StyleDefault
	c.screen.SetContent(x, 0, tcell.RuneULCorner, nil, border)
	c.screen.SetContent(x+w-1, 0, tcell.RuneURCorner, nil, border)
	c.screen.SetContent(x, rows-1, tcell.RuneLLCorner, nil, border)
	c.screen.SetContent(x+w-1, rows-1, tcell.RuneLRCorner, nil, border)
	for i := x + 1; i < x+w-1; i++ {
		c.screen.SetContent(i, 0, tcell.RuneHLine, nil, border)
		c.screen.SetContent(i, rows-1, tcell.RuneHLine, nil, border)
	}
	for j := 1; j < rows-1; j++ {
		c.screen.SetContent(x, j, tcell.RuneVLine, nil, border)
		c.screen.SetContent(x+w-1, j, tcell.RuneVLine, nil, border)
	}

	title := fmt.Sprintf(" %s (%s) ", p.speaker, display.EmotionLabel(p.emotion))
	c.drawString(x+2, 0, w-4, title, tcell.StyleDefault.Bold(true))

	inner := w - 4
	lines := strings.Split(display.Wrap(p.text, inner), "\n")
	for i, line := range lines {
		y := i + 1
		if y >= rows-1 {
			break
		}
		c.drawString(x+2, y, inner, line, tcell.StyleDefault)
	}
}

func (c *Console) drawString(x, y, width int, s string, style tcell.Style) {
	i := 0
	for _, r := range s {
		if i >= width {
			return
		}
		c.screen.SetContent(x+i, y, r, nil, style)
		i++
	}
}
