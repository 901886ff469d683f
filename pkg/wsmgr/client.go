package wsmgr

import (
	"context"
	"os"
	"path/filepath"

	"github.com/briarwood/wsmgr/internal/config"
	"github.com/briarwood/wsmgr/internal/eventloop"
	"github.com/briarwood/wsmgr/internal/events"
	"github.com/briarwood/wsmgr/internal/hooks"
	"github.com/briarwood/wsmgr/internal/logging"
	"github.com/briarwood/wsmgr/internal/mux"
	"github.com/briarwood/wsmgr/internal/notify"
	"github.com/briarwood/wsmgr/internal/session"
	"github.com/briarwood/wsmgr/internal/workspace"
)

var log = logging.For("wsmgr")

// Client is the library entry point: one Client owns one aggregator, one
// multiplexer driver, and (optionally) one audit log.
type Client struct {
	app   *eventloop.App
	cfg   *config.Config
	audit *session.AuditLog
	hooks *hooks.Manager
}

// NewClient constructs a Client from a loaded configuration. Pass nil to
// load the default global+project config via config.Manager (the global
// file under config.GetConfigPath, layered with a ".wsmgr/config.toml"
// override in the current directory, if any).
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		m := config.NewManager()
		if err := m.InitGlobal(config.GetConfigPath()); err != nil {
			return nil, err
		}
		if wd, err := os.Getwd(); err == nil {
			if err := m.InitProject(wd); err != nil {
				return nil, err
			}
		}
		merged, err := m.Merged()
		if err != nil {
			return nil, err
		}
		cfg = merged
	}

	var audit *session.AuditLog
	if cfg.Logwatch.Enabled {
		var err error
		audit, err = session.OpenAuditLog(auditPathFor(cfg))
		if err != nil {
			return nil, err
		}
	}

	driver, err := mux.Detect(mux.Config{
		Backend:         mux.Backend(cfg.Multiplexer.Backend),
		SessionName:     cfg.Multiplexer.SessionName,
		TabNameTemplate: cfg.Multiplexer.TabNameTemplate,
	})
	if err != nil {
		return nil, err
	}

	var hookManager *hooks.Manager
	if cfg.Hooks.StatusHooks.Enabled || cfg.Hooks.WorktreeHooks.Enabled {
		hookManager = hooks.NewManager(cfg)
	}

	app := eventloop.New(session.NewAggregator(audit), eventloop.Config{
		Mux:               driver,
		MaxRemoteBranches: cfg.Worktree.MaxRemoteBranches,
		TabNameTemplate:   cfg.Multiplexer.TabNameTemplate,
		Hooks:             hookManager,
	})

	return &Client{app: app, cfg: cfg, audit: audit, hooks: hookManager}, nil
}

// Start launches the client's background producers (the discovery
// rescanner, the tick emitter, and whichever observer pollers the caller
// set on producers) and the headless apply loop; everything runs until
// ctx is cancelled.
func (c *Client) Start(ctx context.Context, producers eventloop.ProducerConfig) {
	if len(producers.SearchPaths) == 0 {
		producers.SearchPaths = c.cfg.SearchPaths
	}
	if producers.MaxScanDepth == 0 {
		producers.MaxScanDepth = c.cfg.MaxScanDepth
	}
	eventloop.RunProducers(ctx, c.app.Events, producers)

	if c.cfg.SocketPath != "" {
		listener := notify.NewListener(c.cfg.SocketPath)
		go func() {
			if err := listener.ListenAndServe(ctx, c.app.Events); err != nil && ctx.Err() == nil {
				log.WithError(err).Warn("notify listener exited")
			}
		}()
	}

	if c.hooks != nil {
		c.hooks.Start(ctx)
	}

	go c.app.Run(ctx)
}

// App exposes the underlying event-loop App for callers (the interactive
// CLI entrypoint) that need to drive a bubbletea program directly rather
// than going through the manager interfaces.
func (c *Client) App() *eventloop.App { return c.app }

// Rescan runs one synchronous discovery pass over the configured search
// paths and applies the result, without starting the background producer
// goroutines Start does. One-shot CLI commands (status, worktree list,
// session list) call this to populate the aggregator before reading it.
func (c *Client) Rescan() {
	ws := workspace.Scan(c.cfg.SearchPaths, c.cfg.MaxScanDepth)
	out := make([]events.Workspace, len(ws))
	for i, w := range ws {
		out[i] = events.Workspace{
			Path:      w.Path,
			RepoName:  w.RepoName,
			Branch:    w.Branch,
			RepoKey:   w.RepoKey,
			IsLinked:  w.IsLinked,
			CreatedAt: w.CreatedAt,
			UpdatedAt: w.UpdatedAt,
		}
	}
	c.app.Apply(events.NewWorkspacesReplaced(out))
}

// Sessions returns the session manager.
func (c *Client) Sessions() SessionManager { return &sessionManager{c.app} }

// Worktrees returns the worktree manager.
func (c *Client) Worktrees() WorktreeManager {
	return &worktreeManager{c.app, c.cfg}
}

// System returns the system status manager.
func (c *Client) System() SystemManager { return &systemManager{c.app} }

// Close releases the audit log's database handle, if one was opened.
func (c *Client) Close() error {
	if c.audit == nil {
		return nil
	}
	return c.audit.Close()
}

// auditPathFor derives the audit database path as a sibling of the
// notify socket, both living under the same per-user runtime directory.
func auditPathFor(cfg *config.Config) string {
	dir := filepath.Dir(workspace.NormalisePath(cfg.SocketPath))
	return filepath.Join(dir, "audit.sqlite3")
}
