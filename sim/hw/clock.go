package hw

import (
	"context"

	"github.com/sirupsen/logrus"
)

// TickSubscriber is notified by the clock once per tick.
type TickSubscriber interface {
	Tick(tick int64)
}

// TickFunc adapts a plain function to TickSubscriber.
type TickFunc func(tick int64)

func (f TickFunc) Tick(tick int64) { f(tick) }

// Clock drives the machine. Subscribers are notified in registration order
// and each tick completes before the next one starts.
type Clock struct {
	subscribers []TickSubscriber
	currentTick int64
}

// NewClock creates a clock at tick zero.
func NewClock() *Clock {
	return &Clock{}
}

// AddSubscriber appends s to the notification order.
func (c *Clock) AddSubscriber(s TickSubscriber) {
	c.subscribers = append(c.subscribers, s)
}

// CurrentTick returns the number of the next tick to be executed,
// which equals the number of ticks executed so far.
func (c *Clock) CurrentTick() int64 {
	return c.currentTick
}

// Tick executes one tick.
func (c *Clock) Tick() {
	n := c.currentTick
	logrus.Debugf("[tick %07d] ---", n)
	for _, s := range c.subscribers {
		s.Tick(n)
	}
	c.currentTick++
}

// Run ticks until stop reports true, maxTicks ticks have run (when
// maxTicks > 0) or ctx is done. stop is checked before every tick.
// It returns the number of ticks executed by this call.
func (c *Clock) Run(ctx context.Context, maxTicks int64, stop func() bool) (int64, error) {
	var ran int64
	for {
		if stop != nil && stop() {
			return ran, nil
		}
		if maxTicks > 0 && ran >= maxTicks {
			logrus.Warnf("[tick %07d] horizon of %d ticks reached", c.currentTick, maxTicks)
			return ran, nil
		}
		if err := ctx.Err(); err != nil {
			return ran, err
		}
		c.Tick()
		ran++
	}
}
