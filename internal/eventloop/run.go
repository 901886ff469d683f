package eventloop

import (
	"context"

	"github.com/briarwood/wsmgr/internal/events"
)

// Run drains a.Events, applying each one serially, until ctx is cancelled.
// This is the headless loop used outside the TUI (e.g. `wsmgr doctor` or a
// future daemon mode); the bubbletea-backed Model in tea.go calls Apply
// directly instead of looping itself, since bubbletea owns its own loop.
func (a *App) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-a.Events:
			a.Apply(ev)
		}
	}
}

// Send is a convenience wrapper a producer or the CLI can use to enqueue
// an event without reaching into the Events field directly.
func (a *App) Send(ev events.AppEvent) {
	a.Events <- ev
}
