package object

// Countdown is a polled periodic timer. The owner advances it with Tick, checks
// Due, and calls Restart once it has acted. A stopped countdown is never due.
type Countdown struct {
	interval  float64
	remaining float64
	stopped   bool
}

// NewCountdown creates a countdown that first fires after interval seconds.
func NewCountdown(interval float64) Countdown {
	return Countdown{interval: interval, remaining: interval}
}

// Tick advances the countdown by dt seconds.
func (c *Countdown) Tick(dt float64) {
	if c.stopped {
		return
	}
	c.remaining -= dt
}

// Due reports whether the interval has elapsed.
func (c *Countdown) Due() bool {
	return !c.stopped && c.remaining <= 0
}

// Restart begins the next interval. Overshoot from a long tick is carried over
// but never makes the countdown due again immediately.
func (c *Countdown) Restart() {
	c.remaining += c.interval
	if c.remaining <= 0 {
		c.remaining = c.interval
	}
}

// SetInterval changes the period used from the next Restart on.
func (c *Countdown) SetInterval(interval float64) {
	c.interval = interval
}

// Stop cancels the countdown for good.
func (c *Countdown) Stop() {
	c.stopped = true
}

// Stopped reports whether Stop was called.
func (c *Countdown) Stopped() bool { return c.stopped }

// Remaining returns the seconds left in the current interval.
func (c *Countdown) Remaining() float64 { return c.remaining }
