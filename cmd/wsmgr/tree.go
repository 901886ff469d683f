package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/briarwood/wsmgr/internal/cli"
	"github.com/briarwood/wsmgr/internal/tree"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the workspace tree once and exit",
	Long: `Print the same repo -> worktree -> session tree the interactive view
shows, fully expanded, as plain text — useful for scripting or piping
into other tools.`,
	RunE: runTreeCommand,
}

func runTreeCommand(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return cli.NewErrorWithCause("failed to initialize", err)
	}
	defer client.Close()

	client.Rescan()
	client.App().ExpandAll()

	for _, it := range client.App().Tree() {
		fmt.Println(renderTreeLine(it))
	}
	return nil
}

func renderTreeLine(it tree.Item) string {
	glyph := "├─"
	if it.IsLast {
		glyph = "└─"
	}
	indent := strings.Repeat("  ", it.Depth)

	switch it.Kind {
	case tree.KindRepoGroup:
		return fmt.Sprintf("%s%s %s", indent, glyph, it.RepoName)
	case tree.KindWorktree:
		return fmt.Sprintf("%s%s %s", indent, glyph, it.Branch)
	case tree.KindSession:
		return fmt.Sprintf("%s%s session %s", indent, glyph, it.Branch)
	case tree.KindBranch:
		if it.IsLocal {
			return fmt.Sprintf("%s%s %s", indent, glyph, it.Branch)
		}
		return fmt.Sprintf("%s%s %s (remote)", indent, glyph, it.Branch)
	case tree.KindRemoteBranchGroup:
		return fmt.Sprintf("%s%s remote branches (%d/%d)", indent, glyph, it.RemoteBranchCount, it.RemoteBranchTotal)
	default:
		return fmt.Sprintf("%s%s %s", indent, glyph, it.Path)
	}
}
