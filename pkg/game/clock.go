package game

import "time"

// Clock drives the simulation. It is either stopped or running; C returns nil
// while stopped so a select on it never fires.
type Clock interface {
	Start()
	Stop()
	Running() bool
	C() <-chan time.Time
}

// TickerClock is a Clock backed by a time.Ticker. It is not safe for
// concurrent use and is owned by the game loop.
type TickerClock struct {
	interval time.Duration
	ticker   *time.Ticker
}

func NewTickerClock(interval time.Duration) *TickerClock {
	return &TickerClock{
		interval: interval,
	}
}

// Start starts the ticker. Starting a running clock is a no-op.
func (c *TickerClock) Start() {
	if c.ticker != nil {
		return
	}
	c.ticker = time.NewTicker(c.interval)
}

// Stop stops the ticker and drops it, so a tick already buffered in the old
// channel is never read.
func (c *TickerClock) Stop() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	c.ticker = nil
}

func (c *TickerClock) Running() bool {
	return c.ticker != nil
}

func (c *TickerClock) C() <-chan time.Time {
	if c.ticker == nil {
		return nil
	}
	return c.ticker.C
}
