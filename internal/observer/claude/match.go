package claude

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// transcriptFile is one candidate <uuid>.jsonl file under a project
// directory.
type transcriptFile struct {
	UUID    string
	Path    string
	ModTime int64 // unix seconds
}

// listTranscripts enumerates root-level "<uuid>.jsonl" files under dir,
// ignoring subdirectories and sessions-index.json, ordered by modification
// time descending.
func listTranscripts(dir string) []transcriptFile {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var out []transcriptFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		uuid := strings.TrimSuffix(name, ".jsonl")
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, transcriptFile{
			UUID:    uuid,
			Path:    filepath.Join(dir, name),
			ModTime: info.ModTime().Unix(),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ModTime > out[j].ModTime })
	return out
}

// matchTranscripts associates running processes for one workspace with
// on-disk transcript files: each candidate whose uuid was requested via
// --resume is selected first; remaining slots (up to n, the process count)
// are filled from the head of the mtime-descending list — this pairs
// processes launched without --resume to the newest transcripts.
func matchTranscripts(procs []ProcessInfo, candidates []transcriptFile) []transcriptFile {
	n := len(procs)
	if n == 0 || len(candidates) == 0 {
		return nil
	}

	ids := map[string]bool{}
	for _, p := range procs {
		if p.ResumeID != "" {
			ids[p.ResumeID] = true
		}
	}

	var selected []transcriptFile
	used := map[string]bool{}
	for _, c := range candidates {
		if len(selected) >= n {
			break
		}
		if ids[c.UUID] {
			selected = append(selected, c)
			used[c.UUID] = true
		}
	}
	for _, c := range candidates {
		if len(selected) >= n {
			break
		}
		if used[c.UUID] {
			continue
		}
		selected = append(selected, c)
		used[c.UUID] = true
	}

	return selected
}
