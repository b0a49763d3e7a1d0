package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-narrator/internal/panel"
	"github.com/pixil98/go-narrator/internal/session"
)

type PanelConfig struct {
	Width        int    `json:"width"`
	RightIndent  *uint  `json:"right_indent,omitempty"`
	ShowDuration string `json:"show_duration"`
	HideDuration string `json:"hide_duration"`
}

func (c *PanelConfig) validate() error {
	el := errors.NewErrorList()

	if c.Width < 0 {
		el.Add(fmt.Errorf("panels: width must not be negative"))
	}
	if _, err := parseOptionalDuration(c.ShowDuration); err != nil {
		el.Add(fmt.Errorf("panels: parsing show_duration: %w", err))
	}
	if _, err := parseOptionalDuration(c.HideDuration); err != nil {
		el.Add(fmt.Errorf("panels: parsing hide_duration: %w", err))
	}

	return el.Err()
}

func (c *PanelConfig) sessionOpts() ([]session.ManagerOpt, error) {
	var popts []panel.PanelOpt
	if c.Width > 0 {
		popts = append(popts, panel.WithWidth(c.Width))
	}

	show, err := parseOptionalDuration(c.ShowDuration)
	if err != nil {
		return nil, fmt.Errorf("parsing show_duration: %w", err)
	}
	if show != nil {
		popts = append(popts, panel.WithShowDuration(*show))
	}

	hide, err := parseOptionalDuration(c.HideDuration)
	if err != nil {
		return nil, fmt.Errorf("parsing hide_duration: %w", err)
	}
	if hide != nil {
		popts = append(popts, panel.WithHideDuration(*hide))
	}

	opts := []session.ManagerOpt{session.WithPanelOpts(popts...)}
	if c.RightIndent != nil {
		opts = append(opts, session.WithRightIndent(*c.RightIndent))
	}
	return opts, nil
}

// parseOptionalDuration returns nil for an empty string.
func parseOptionalDuration(s string) (*time.Duration, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, err
	}
	if d < 0 {
		return nil, fmt.Errorf("duration must not be negative")
	}
	return &d, nil
}
