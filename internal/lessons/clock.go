package lessons

import (
	"context"
	"time"

	"github.com/vango-go/reactor/pkg/deps"
	"github.com/vango-go/reactor/pkg/reactor"
	"github.com/vango-go/reactor/pkg/vdom"
)

// TickSource starts a ticker. stop must release the ticker and may be
// called once.
type TickSource interface {
	Start(interval time.Duration) (ticks <-chan time.Time, stop func())
}

// RealTicks is a TickSource backed by time.Ticker.
type RealTicks struct{}

func (RealTicks) Start(interval time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(interval)
	return t.C, t.Stop
}

// Clock shows the time of the last tick. Its effect owns the ticker
// goroutine and stops it on unmount or when Interval changes.
type Clock struct {
	Source   TickSource
	Interval time.Duration
	Layout   string
}

func (c Clock) Render(ctx context.Context) *vdom.VNode {
	now, set := reactor.UseState(ctx, time.Time{})
	ticks := reactor.UseRef(ctx, 0)
	dispatch := reactor.UseDispatch(ctx)

	reactor.UseEffect(ctx, func() reactor.Cleanup {
		ch, stop := c.Source.Start(c.Interval)
		done := make(chan struct{})
		exited := make(chan struct{})
		go func() {
			defer close(exited)
			for {
				select {
				case <-done:
					return
				case t, ok := <-ch:
					if !ok {
						return
					}
					dispatch(func() {
						ticks.Current++
						set.Set(t)
					})
				}
			}
		}()
		return func() {
			close(done)
			<-exited
			stop()
		}
	}, deps.On(c.Source, c.Interval))

	layout := c.Layout
	if layout == "" {
		layout = time.TimeOnly
	}
	label := "--:--:--"
	if !now.IsZero() {
		label = now.UTC().Format(layout)
	}
	return vdom.Div(vdom.Class("clock"),
		vdom.Span(vdom.Key("time"), vdom.Text(label)),
		vdom.Span(vdom.Key("ticks"), vdom.Textf(" (%d ticks)", ticks.Current)),
	)
}
