package command

import (
	"fmt"

	"github.com/pixil98/go-narrator/internal/console"
	"github.com/pixil98/go-narrator/internal/messaging"
	"github.com/pixil98/go-narrator/internal/scene"
)

type ConsoleConfig struct {
	Enabled     bool   `json:"enabled"`
	Scene       string `json:"scene"`
	PanelHeight int    `json:"panel_height,omitempty"`
}

func (c *ConsoleConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Scene == "" {
		return fmt.Errorf("console: scene is required when enabled")
	}
	if c.PanelHeight != 0 && c.PanelHeight < 3 {
		return fmt.Errorf("console: panel_height must be at least 3")
	}
	return nil
}

func (c *ConsoleConfig) buildConsole(lib *scene.Library, bus messaging.Bus) (*console.Console, error) {
	if lib.Scene(c.Scene) == nil {
		return nil, fmt.Errorf("console scene %q not found", c.Scene)
	}

	var opts []console.ConsoleOpt
	if c.PanelHeight > 0 {
		opts = append(opts, console.WithPanelHeight(c.PanelHeight))
	}
	return console.NewConsole(lib, c.Scene, bus, opts...), nil
}
