package driver

import (
	"context"
	"time"
)

const (
	DefaultTickLength = time.Second / 30
)

// Ticker is advanced once per driver tick by the time elapsed since the
// previous tick.
type Ticker interface {
	Tick(ctx context.Context, dt time.Duration) error
}

// Driver is the host loop. It measures the real time between ticks and hands
// it to every registered Ticker, in order, on a single goroutine.
type Driver struct {
	tickLength time.Duration
	tickers    []Ticker
	now        func() time.Time
	last       time.Time
}

func NewDriver(tickers []Ticker, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		tickers:    tickers,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	d.last = d.now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

// Tick advances every Ticker by the time since the last tick.
func (d *Driver) Tick(ctx context.Context) error {
	now := d.now()
	dt := now.Sub(d.last)
	if d.last.IsZero() || dt < 0 {
		dt = 0
	}
	d.last = now

	for _, t := range d.tickers {
		if err := t.Tick(ctx, dt); err != nil {
			return err
		}
	}
	return nil
}
