package power2048

import (
	"context"
	"time"
)

// Countdown delivers timer ticks for one game generation on its own
// goroutine. Hosts without an event loop run one per session and replace
// it on every reset.
type Countdown struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartCountdown calls onTick(generation) every interval until ctx is
// cancelled or Stop is called.
func StartCountdown(ctx context.Context, interval time.Duration, generation uint64, onTick func(gen uint64)) *Countdown {
	ctx, cancel := context.WithCancel(ctx)
	c := &Countdown{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(c.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				onTick(generation)
			}
		}
	}()

	return c
}

// Stop cancels the countdown. It does not wait for an in-flight onTick,
// so it is safe to call while holding a lock that onTick acquires.
func (c *Countdown) Stop() {
	if c == nil {
		return
	}
	c.cancel()
}

// Done is closed once the countdown goroutine has exited.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}
