package quiz

import (
	"sync"
	"time"
)

// Ticker delivers countdown ticks.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type stdTicker struct{ t *time.Ticker }

func (s stdTicker) C() <-chan time.Time { return s.t.C }
func (s stdTicker) Stop()               { s.t.Stop() }

// NewTicker is the default TickerFunc backed by time.Ticker.
func NewTicker(d time.Duration) Ticker {
	return stdTicker{t: time.NewTicker(d)}
}

// countdown is the handle for one question's timer. Stop is idempotent and
// safe to call from inside onTick.
type countdown struct {
	stop chan struct{}
	once sync.Once
}

func startCountdown(t Ticker, onTick func()) *countdown {
	c := &countdown{stop: make(chan struct{})}
	go func() {
		defer t.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-t.C():
				onTick()
			}
		}
	}()
	return c
}

// Stop cancels the countdown. A nil handle is a no-op.
func (c *countdown) Stop() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.stop) })
}
