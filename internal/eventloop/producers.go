package eventloop

import (
	"context"
	"time"

	"github.com/briarwood/wsmgr/internal/events"
	"github.com/briarwood/wsmgr/internal/workspace"
)

// discoveryInterval is how often the workspace list is rescanned from
// disk; cheap enough to run far less often than the 1 Hz UI tick.
const discoveryInterval = 10 * time.Second

// Poller is the shape both internal/observer/claude.Observer and
// internal/observer/kiro.Observer satisfy; RunPoller is written once
// against the interface rather than duplicated per backend.
type Poller interface {
	Poll(workspacePaths []string) ([]events.AppEvent, error)
}

// ProducerConfig wires the background tasks: discovery, the Claude poller,
// the Kiro poller. Any Observer left nil is simply not started.
type ProducerConfig struct {
	SearchPaths  []string
	MaxScanDepth int

	ClaudeObserver   Poller
	ClaudePollPeriod time.Duration

	KiroObserver   Poller
	KiroPollPeriod time.Duration
}

// workspacePathsSlot is the single-slot, write-wins channel that is the
// only state shared between producers: pollers read the latest discovered
// workspace path list without blocking discovery's producer.
type workspacePathsSlot struct {
	ch chan []string
}

func newWorkspacePathsSlot() *workspacePathsSlot {
	return &workspacePathsSlot{ch: make(chan []string, 1)}
}

func (s *workspacePathsSlot) set(paths []string) {
	for {
		select {
		case s.ch <- paths:
			return
		default:
			select {
			case <-s.ch:
			default:
			}
		}
	}
}

func (s *workspacePathsSlot) get() []string {
	select {
	case p := <-s.ch:
		s.ch <- p
		return p
	default:
		return nil
	}
}

// RunProducers starts the discovery rescanner, the tick emitter, and
// whichever observer pollers are configured. Every goroutine exits when
// ctx is cancelled — cancellation is structural, not a side channel.
func RunProducers(ctx context.Context, out chan<- events.AppEvent, cfg ProducerConfig) {
	slot := newWorkspacePathsSlot()

	go runDiscovery(ctx, out, cfg.SearchPaths, cfg.MaxScanDepth, slot)
	go runTicker(ctx, out)

	if cfg.ClaudeObserver != nil {
		period := cfg.ClaudePollPeriod
		if period <= 0 {
			period = 2 * time.Second
		}
		go runPoller(ctx, out, cfg.ClaudeObserver, slot, period)
	}
	if cfg.KiroObserver != nil {
		period := cfg.KiroPollPeriod
		if period <= 0 {
			period = 3 * time.Second
		}
		go runPoller(ctx, out, cfg.KiroObserver, slot, period)
	}
}

func runDiscovery(ctx context.Context, out chan<- events.AppEvent, searchPaths []string, maxDepth int, slot *workspacePathsSlot) {
	scan := func() {
		ws := workspace.Scan(searchPaths, maxDepth)
		paths := make([]string, len(ws))
		converted := make([]events.Workspace, len(ws))
		for i, w := range ws {
			paths[i] = w.Path
			converted[i] = events.Workspace{
				Path:      w.Path,
				RepoName:  w.RepoName,
				Branch:    w.Branch,
				RepoKey:   w.RepoKey,
				IsLinked:  w.IsLinked,
				CreatedAt: w.CreatedAt,
				UpdatedAt: w.UpdatedAt,
			}
		}
		slot.set(paths)
		select {
		case out <- events.NewWorkspacesReplaced(converted):
		case <-ctx.Done():
		}
	}

	scan()
	ticker := time.NewTicker(discoveryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			scan()
		}
	}
}

func runTicker(ctx context.Context, out chan<- events.AppEvent) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case out <- events.NewTick():
			case <-ctx.Done():
				return
			}
		}
	}
}

func runPoller(ctx context.Context, out chan<- events.AppEvent, p Poller, slot *workspacePathsSlot, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			paths := slot.get()
			if paths == nil {
				continue
			}
			evs, err := p.Poll(paths)
			if err != nil {
				log.WithError(err).Debug("poller tick failed, retrying next tick")
				continue
			}
			for _, ev := range evs {
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}
