// Package tree flattens the current workspace/session state into an
// ordered sequence of rows ready for a terminal renderer, grouped by
// repository and carrying the continuation-glyph flags a tree view needs.
package tree

import (
	"sort"

	"github.com/briarwood/wsmgr/internal/session"
	"github.com/briarwood/wsmgr/internal/workspace"
)

// Kind discriminates Item variants.
type Kind string

const (
	KindRepoGroup         Kind = "repo_group"
	KindWorktree          Kind = "worktree"
	KindSession           Kind = "session"
	KindBranch            Kind = "branch"
	KindRemoteBranchGroup Kind = "remote_branch_group"
)

// Item is one row of the flattened tree. Only the fields relevant to Kind
// are meaningful.
type Item struct {
	Kind     Kind
	Depth    int
	RepoKey  string
	RepoName string
	Branch   string
	Path     string // set for Worktree

	Session session.Handle // set for Session

	IsLocal bool // set for Branch: true for a local branch, false for a remote one

	RemoteBranchCount int  // set for RemoteBranchGroup
	RemoteBranchTotal int  // true count before the max-remote-branches cap
	Expanded          bool // set for RemoteBranchGroup: whether its Branch children are shown

	IsLast       bool // last sibling among its own parent's children
	ParentIsLast bool // whether that parent was itself a last sibling
}

// Key returns a value stable across rebuilds for the same logical row,
// used to keep cursor position stable across expand/collapse.
func (it Item) Key() string {
	switch it.Kind {
	case KindRepoGroup:
		return "repo:" + it.RepoKey
	case KindWorktree:
		return "worktree:" + it.Path
	case KindSession:
		return "session:" + it.RepoKey + ":" + it.Path + ":" + it.Branch
	case KindBranch:
		origin := "remote"
		if it.IsLocal {
			origin = "local"
		}
		return "branch:" + origin + ":" + it.RepoKey + ":" + it.Branch
	case KindRemoteBranchGroup:
		return "remotes:" + it.RepoKey
	default:
		return ""
	}
}

// Options configures Build.
type Options struct {
	// Expanded is the set of repo keys currently expanded in the UI.
	Expanded map[string]bool
	// LocalBranches maps repo key to the full set of local branch names
	// (including those already represented by a worktree).
	LocalBranches map[string][]string
	// RemoteBranches maps repo key to remote branch names (already
	// stripped of the "origin/" prefix and excluding origin/HEAD).
	RemoteBranches map[string][]string
	// MaxRemoteBranches caps how many remote branches are shown per repo;
	// 0 means unlimited.
	MaxRemoteBranches int
	// RemoteExpanded is the set of repo keys whose RemoteBranchGroup is
	// currently expanded, showing its capped list of Branch rows.
	RemoteExpanded map[string]bool
}

// Build flattens the aggregator's current workspace list into an ordered
// tree, grouped by repo key in sorted order.
func Build(agg *session.Aggregator, opts Options) []Item {
	groups := map[string][]workspace.Workspace{}
	for _, w := range agg.Workspaces() {
		groups[w.RepoKey] = append(groups[w.RepoKey], w)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []Item
	for ri, key := range keys {
		repoIsLast := ri == len(keys)-1
		group := groups[key]
		sort.Slice(group, func(i, j int) bool { return group[i].Branch < group[j].Branch })

		out = append(out, Item{
			Kind:     KindRepoGroup,
			Depth:    0,
			RepoKey:  key,
			RepoName: group[0].RepoName,
			IsLast:   repoIsLast,
		})

		if !opts.Expanded[key] {
			continue
		}

		children := buildRepoChildren(agg, key, group, opts)
		for _, child := range children {
			if child.Depth == 1 {
				child.ParentIsLast = repoIsLast
			}
			out = append(out, child)
		}
	}

	return out
}

type repoChild struct {
	item     Item
	children []Item // nested rows at item.Depth+1: sessions under a worktree, branches under a remote group
}

func buildRepoChildren(agg *session.Aggregator, repoKey string, group []workspace.Workspace, opts Options) []Item {
	var nodes []repoChild
	worktreeBranches := map[string]bool{}

	for _, w := range group {
		worktreeBranches[w.Branch] = true

		var sessItems []Item
		if wh, ok := agg.HandleForPath(w.Path); ok {
			for _, h := range agg.SessionsForWorkspace(wh) {
				sessItems = append(sessItems, Item{
					Kind:    KindSession,
					Depth:   2,
					RepoKey: repoKey,
					Branch:  w.Branch,
					Path:    w.Path,
					Session: h,
				})
			}
		}

		nodes = append(nodes, repoChild{
			item: Item{
				Kind:    KindWorktree,
				Depth:   1,
				RepoKey: repoKey,
				Branch:  w.Branch,
				Path:    w.Path,
			},
			children: sessItems,
		})
	}

	localBranches := append([]string(nil), opts.LocalBranches[repoKey]...)
	sort.Strings(localBranches)
	for _, b := range localBranches {
		if worktreeBranches[b] {
			continue
		}
		nodes = append(nodes, repoChild{item: Item{
			Kind:    KindBranch,
			Depth:   1,
			RepoKey: repoKey,
			Branch:  b,
			IsLocal: true,
		}})
	}

	if remotes := opts.RemoteBranches[repoKey]; len(remotes) > 0 {
		sorted := append([]string(nil), remotes...)
		sort.Strings(sorted)

		count := len(sorted)
		if opts.MaxRemoteBranches > 0 && count > opts.MaxRemoteBranches {
			count = opts.MaxRemoteBranches
		}
		shown := sorted[:count]
		expanded := opts.RemoteExpanded[repoKey]

		var remoteBranchItems []Item
		if expanded {
			for bi, b := range shown {
				remoteBranchItems = append(remoteBranchItems, Item{
					Kind:    KindBranch,
					Depth:   2,
					RepoKey: repoKey,
					Branch:  b,
					IsLast:  bi == len(shown)-1,
				})
			}
		}

		nodes = append(nodes, repoChild{
			item: Item{
				Kind:              KindRemoteBranchGroup,
				Depth:             1,
				RepoKey:           repoKey,
				RemoteBranchCount: count,
				RemoteBranchTotal: len(sorted),
				Expanded:          expanded,
			},
			children: remoteBranchItems,
		})
	}

	var out []Item
	for ni, n := range nodes {
		isLast := ni == len(nodes)-1
		n.item.IsLast = isLast
		out = append(out, n.item)
		for si, s := range n.children {
			s.IsLast = si == len(n.children)-1
			s.ParentIsLast = isLast
			out = append(out, s)
		}
	}
	return out
}
