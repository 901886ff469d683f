// Package claude enumerates live Claude Code processes and derives rich
// per-session status by tailing each session's JSONL transcript.
package claude

import (
	"bufio"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/briarwood/wsmgr/internal/logging"
	"github.com/briarwood/wsmgr/internal/workspace"
)

var log = logging.For("observer.claude")

// ProcessInfo is one surviving (non-subagent) Claude process.
type ProcessInfo struct {
	PID      int
	Cwd      string
	ResumeID string
	PPID     int
}

var resumeArgPattern = regexp.MustCompile(`--resume\s+([a-f0-9-]+)`)

// processScanScript lists pids whose executable name is "claude", skips
// those with no controlling tty or in a stopped state, and emits
// "pid|cwd|resume|ppid" per survivor.
const processScanScript = `
for pid in $(pgrep -x 'claude' 2>/dev/null); do
  tty=$(ps -p "$pid" -o tty= 2>/dev/null | tr -d ' ')
  if [ -z "$tty" ] || [ "$tty" = "??" ]; then
    continue
  fi
  state=$(ps -p "$pid" -o state= 2>/dev/null | tr -d ' ')
  if [ "$state" = "T" ]; then
    continue
  fi
  cwd=$(lsof -p "$pid" 2>/dev/null | awk '$4=="cwd"{print $NF}')
  args=$(ps -p "$pid" -o args= 2>/dev/null)
  ppid=$(ps -p "$pid" -o ppid= 2>/dev/null | tr -d ' ')
  echo "${pid}|${cwd}|${args}|${ppid}"
done
`

// ListProcesses runs the portable shell fragment, parses its output, and
// returns the surviving processes after subagent suppression.
func ListProcesses() ([]ProcessInfo, error) {
	out, err := exec.Command("sh", "-c", processScanScript).Output()
	if err != nil {
		// A non-zero exit usually just means pgrep found nothing; treat as
		// "no processes" rather than a hard error.
		log.WithError(err).Debug("process scan command exited non-zero")
		return nil, nil
	}

	var procs []ProcessInfo
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 4)
		if len(parts) != 4 {
			continue
		}
		pid, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			continue
		}
		cwd := workspace.NormalisePath(strings.TrimSpace(parts[1]))
		args := parts[2]
		ppid, _ := strconv.Atoi(strings.TrimSpace(parts[3]))

		resumeID := ""
		if m := resumeArgPattern.FindStringSubmatch(args); m != nil {
			resumeID = m[1]
		}

		procs = append(procs, ProcessInfo{PID: pid, Cwd: cwd, ResumeID: resumeID, PPID: ppid})
	}

	return FilterSubagents(procs), nil
}

// FilterSubagents drops any process whose ancestry (within three hops)
// includes another process already in the set — a Claude process spawned
// by another Claude process is a subagent, not a user-visible session.
func FilterSubagents(procs []ProcessInfo) []ProcessInfo {
	const maxHops = 3

	claudePIDs := make(map[int]bool, len(procs))
	pidToPPID := make(map[int]int, len(procs))
	for _, p := range procs {
		claudePIDs[p.PID] = true
		pidToPPID[p.PID] = p.PPID
	}

	var out []ProcessInfo
	for _, p := range procs {
		if isSubagent(p.PID, pidToPPID, claudePIDs, maxHops) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func isSubagent(pid int, pidToPPID map[int]int, claudePIDs map[int]bool, maxHops int) bool {
	ancestor := pidToPPID[pid]
	for hop := 0; hop < maxHops; hop++ {
		if ancestor == 0 {
			return false
		}
		if claudePIDs[ancestor] {
			return true
		}
		next, ok := pidToPPID[ancestor]
		if !ok {
			return false
		}
		ancestor = next
	}
	return false
}

// CountByCwd groups surviving processes by normalised cwd.
func CountByCwd(procs []ProcessInfo) map[string][]ProcessInfo {
	out := map[string][]ProcessInfo{}
	for _, p := range procs {
		out[p.Cwd] = append(out[p.Cwd], p)
	}
	return out
}

// EncodeProjectPath replaces "/" and "." with "-" and strips trailing "-",
// matching Claude Code's own project-directory naming convention.
func EncodeProjectPath(path string) string {
	path = workspace.NormalisePath(path)
	replacer := strings.NewReplacer("/", "-", ".", "-")
	encoded := replacer.Replace(path)
	return strings.TrimRight(encoded, "-")
}

// projectDir returns the absolute directory expected to contain transcript
// files for a given project path under claudeHome.
func projectDir(claudeHome, projectPath string) string {
	return fmt.Sprintf("%s/projects/%s", workspace.NormalisePath(claudeHome), EncodeProjectPath(projectPath))
}
