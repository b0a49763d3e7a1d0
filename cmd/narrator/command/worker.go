package command

import (
	"fmt"

	"github.com/pixil98/go-narrator/internal/driver"
	"github.com/pixil98/go-narrator/internal/listener"
	"github.com/pixil98/go-narrator/internal/session"
	"github.com/pixil98/go-narrator/internal/storage"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	tick, err := cfg.tickInterval()
	if err != nil {
		return nil, err
	}

	// Load lines and scenes
	lib, err := cfg.Storage.BuildLibrary()
	if err != nil {
		return nil, fmt.Errorf("building library: %w", err)
	}

	// Event bus
	bus, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	// Viewer sessions
	sessionOpts, err := cfg.Panels.sessionOpts()
	if err != nil {
		return nil, fmt.Errorf("configuring panels: %w", err)
	}
	sessionOpts = append(sessionOpts, session.WithSubscriber(bus))
	sessions := session.NewManager(lib, storage.NewSelectableStorer(lib.Scenes), bus, sessionOpts...)

	// Create Listeners
	cm := listener.NewConnectionManager(sessions)
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		w, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = w
	}

	workers := service.WorkerList{
		"nats":      bus,
		"sessions":  sessions,
		"listeners": &listeners,
	}

	tickers := []driver.Ticker{sessions}
	if cfg.Console.Enabled {
		con, err := cfg.Console.buildConsole(lib, bus)
		if err != nil {
			return nil, fmt.Errorf("creating console: %w", err)
		}
		tickers = append(tickers, con)
		workers["console"] = con
	}

	workers["driver"] = driver.NewDriver(tickers, driver.WithTickLength(tick))

	return workers, nil
}
