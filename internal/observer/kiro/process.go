// Package kiro polls Kiro CLI's SQLite conversation store to derive
// per-session status, confirming liveness against the process table before
// trusting a row that might already be stale.
package kiro

import (
	"bufio"
	"os/exec"
	"strconv"
	"strings"

	"github.com/briarwood/wsmgr/internal/logging"
	"github.com/briarwood/wsmgr/internal/workspace"
)

var log = logging.For("observer.kiro")

// ProcessInfo is one surviving Kiro CLI process. Kiro has no subagent
// concept, so unlike the Claude observer there is no ancestry filtering
// step here.
type ProcessInfo struct {
	PID int
	Cwd string
}

// processScanScript matches either the chat binary or the bare CLI, skips
// stopped (T-state) processes, and reports cwd via lsof.
const processScanScript = `
for pid in $(pgrep -f 'kiro-cli-chat|kiro-cli$' 2>/dev/null); do
  state=$(ps -p "$pid" -o state= 2>/dev/null | tr -d ' ')
  if [ "$state" = "T" ] || [ -z "$state" ]; then
    continue
  fi
  cwd=$(lsof -p "$pid" 2>/dev/null | awk '$4=="cwd"{print $NF}')
  echo "${pid}|${cwd}"
done
`

// ListProcesses runs the portable shell fragment and returns the live
// (non-stopped) Kiro processes found.
func ListProcesses() ([]ProcessInfo, error) {
	out, err := exec.Command("sh", "-c", processScanScript).Output()
	if err != nil {
		log.WithError(err).Debug("kiro process scan command exited non-zero")
		return nil, nil
	}

	var procs []ProcessInfo
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 2)
		if len(parts) != 2 {
			continue
		}
		pid, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			continue
		}
		cwd := workspace.NormalisePath(strings.TrimSpace(parts[1]))
		procs = append(procs, ProcessInfo{PID: pid, Cwd: cwd})
	}
	return procs, nil
}

// RunningWorkspaces returns the set of normalised cwds with at least one
// live Kiro process, used to guard against reporting a stale SQLite row
// for a workspace whose Kiro process has already exited.
func RunningWorkspaces(procs []ProcessInfo) map[string]bool {
	out := make(map[string]bool, len(procs))
	for _, p := range procs {
		if p.Cwd != "" {
			out[p.Cwd] = true
		}
	}
	return out
}
