package claude

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/briarwood/wsmgr/internal/events"
	"github.com/briarwood/wsmgr/internal/session"
	"github.com/briarwood/wsmgr/internal/workspace"
)

// DefaultActivityThreshold is how recently a transcript must have been
// written to for its session to count as active rather than idle.
const DefaultActivityThreshold = 60 * time.Second

// Config configures one Observer instance.
type Config struct {
	ClaudeHome        string
	ActivityThreshold time.Duration
}

// Observer polls live Claude processes and their transcripts once per tick
// and turns them into session-status / session-removal events. It keeps
// the set of external ids seen on the previous tick so it can emit a
// removal on the first tick a session is no longer matched to a live
// process and transcript.
type Observer struct {
	cfg          Config
	previousSeen map[string]bool
}

// New constructs an Observer, filling in DefaultActivityThreshold when cfg
// leaves it zero.
func New(cfg Config) *Observer {
	if cfg.ActivityThreshold <= 0 {
		cfg.ActivityThreshold = DefaultActivityThreshold
	}
	return &Observer{cfg: cfg, previousSeen: map[string]bool{}}
}

// Poll runs one observation tick against the given workspace paths and
// returns the events it produced. It never touches the aggregator
// directly; the event loop applies the returned events serially.
func (o *Observer) Poll(workspacePaths []string) ([]events.AppEvent, error) {
	procs, err := ListProcesses()
	if err != nil {
		return nil, err
	}
	byCwd := CountByCwd(procs)

	seenThisTick := map[string]bool{}
	var out []events.AppEvent

	for _, wsPath := range workspacePaths {
		norm := workspace.NormalisePath(wsPath)
		wsProcs := byCwd[norm]
		if len(wsProcs) == 0 {
			continue
		}

		dir := projectDir(o.cfg.ClaudeHome, norm)
		candidates := listTranscripts(dir)
		matched := matchTranscripts(wsProcs, candidates)

		for _, t := range matched {
			externalID := "claude:" + t.UUID
			seenThisTick[externalID] = true

			info, statErr := os.Stat(t.Path)
			if statErr != nil {
				continue
			}

			tail, tailErr := TailParse(t.Path)
			if tailErr != nil {
				// Transient read failure; skip this session this tick
				// rather than reporting a guessed status.
				continue
			}

			active := time.Since(info.ModTime()) <= o.cfg.ActivityThreshold
			status, summary := deriveStatus(active, tail)
			summary = fallbackSummary(summary, dir, t.UUID)

			out = append(out, events.NewSessionStatus(events.SessionStatusPayload{
				ExternalID:  externalID,
				ProjectPath: norm,
				Tool:        string(session.ToolClaude),
				Status:      string(status),
				Detail:      string(tail.Detail),
				Summary:     summary,
				CurrentTask: tail.LastUserInput,
				LastActive:  info.ModTime(),
			}))
		}
	}

	for id := range o.previousSeen {
		if !seenThisTick[id] {
			out = append(out, events.NewSessionRemove(id))
		}
	}
	o.previousSeen = seenThisTick

	return out, nil
}

// deriveStatus maps activity + tail detail to a session status and a
// default summary: an active session executing a tool is Working with a
// "Running <tool>" summary; any other active session is Working with its
// last assistant text as the summary; an inactive session is Idle.
func deriveStatus(active bool, tail TailResult) (session.Status, string) {
	if !active {
		return session.StatusIdle, tail.LastAssistantText
	}
	if tail.Detail == DetailExecutingTool && tail.ToolName != "" {
		return session.StatusWorking, "Running " + tail.ToolName
	}
	if tail.LastAssistantText != "" {
		return session.StatusWorking, tail.LastAssistantText
	}
	return session.StatusWorking, ""
}

type sessionIndexEntry struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
}

// fallbackSummary consults sessions-index.json for a human-readable
// summary when the transcript tail produced none.
func fallbackSummary(summary, dir, uuid string) string {
	if summary != "" {
		return summary
	}
	raw, err := os.ReadFile(filepath.Join(dir, "sessions-index.json"))
	if err != nil {
		return ""
	}
	var entries []sessionIndexEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return ""
	}
	for _, e := range entries {
		if e.ID == uuid {
			return e.Summary
		}
	}
	return ""
}
