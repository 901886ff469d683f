package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/briarwood/wsmgr/internal/cli"
	"github.com/briarwood/wsmgr/pkg/wsmgr"
)

// WorktreeListData is the payload for `wsmgr worktree list`.
type WorktreeListData struct {
	Worktrees []WorktreeListItem `json:"worktrees" yaml:"worktrees"`
	Total     int                `json:"total" yaml:"total"`
	Timestamp time.Time          `json:"timestamp" yaml:"timestamp"`
}

// WorktreeListItem is a single worktree row in list output.
type WorktreeListItem struct {
	Path   string `json:"path" yaml:"path"`
	Branch string `json:"branch" yaml:"branch"`
	Head   string `json:"head" yaml:"head"`
}

var worktreeCmd = &cobra.Command{
	Use:   "worktree",
	Short: "Manage git worktrees",
	Long: `Manage git worktrees with lifecycle support:
- List all worktrees under a repository
- Create a new worktree, named and placed per the configured path style
- Remove a worktree`,
}

var worktreeListFlags struct {
	format string
	repo   string
}

var worktreeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List git worktrees for a repository",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWorktreeListCommand,
}

var worktreeCreateFlags struct {
	base         string
	startBranch  bool
	startSession bool
}

var worktreeCreateCmd = &cobra.Command{
	Use:   "create <branch> [flags]",
	Short: "Create a new git worktree",
	Long: `Create a new git worktree from the specified branch, placed using the
configured path style (parallel, ghq, subdirectory, or custom template).
Optionally open a multiplexer window for it with --session.`,
	Args: cobra.ExactArgs(1),
	RunE: runWorktreeCreateCommand,
}

var worktreeRemoveFlags struct {
	force bool
	yes   bool
}

var worktreeRemoveCmd = &cobra.Command{
	Use:   "remove <worktree-path>",
	Short: "Remove a git worktree",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorktreeRemoveCommand,
}

func init() {
	worktreeListCmd.Flags().StringVarP(&worktreeListFlags.format, "format", "f", "table", "output format: table, json, yaml")
	worktreeListFlags.repo = "."
	worktreeListCmd.Flags().StringVar(&worktreeListFlags.repo, "repo", ".", "repository path to list worktrees for")

	worktreeCreateCmd.Flags().StringVar(&worktreeCreateFlags.base, "base", "", "branch or commit to start the new branch from (implies --create-branch)")
	worktreeCreateCmd.Flags().BoolVar(&worktreeCreateFlags.startBranch, "create-branch", false, "create the branch if it doesn't already exist")
	worktreeCreateCmd.Flags().BoolVar(&worktreeCreateFlags.startSession, "session", false, "open a multiplexer window for the new worktree")

	worktreeRemoveCmd.Flags().BoolVar(&worktreeRemoveFlags.force, "force", false, "remove even with uncommitted changes")
	worktreeRemoveCmd.Flags().BoolVarP(&worktreeRemoveFlags.yes, "yes", "y", false, "skip the confirmation prompt")

	worktreeCmd.AddCommand(worktreeListCmd, worktreeCreateCmd, worktreeRemoveCmd)
}

func runWorktreeListCommand(cmd *cobra.Command, args []string) error {
	repo := worktreeListFlags.repo
	if len(args) == 1 {
		repo = args[0]
	}

	format, err := cli.ValidateFormat(worktreeListFlags.format)
	if err != nil {
		return err
	}
	if err := cli.ValidateDirectoryPath(repo); err != nil {
		return err
	}

	client, _, err := newClient()
	if err != nil {
		return cli.NewErrorWithCause("failed to initialize", err)
	}
	defer client.Close()

	worktrees, err := client.Worktrees().List(repo)
	if err != nil {
		return handleCLIError(err)
	}

	items := make([]WorktreeListItem, len(worktrees))
	for i, w := range worktrees {
		items[i] = WorktreeListItem{Path: w.Path, Branch: w.Branch, Head: w.Head}
	}

	return cli.NewWorktreeFormatter(format, nil).Format(WorktreeListData{
		Worktrees: items,
		Total:     len(items),
		Timestamp: time.Now(),
	})
}

func runWorktreeCreateCommand(cmd *cobra.Command, args []string) error {
	branch := args[0]
	if err := cli.ValidateBranchName(branch); err != nil {
		return err
	}

	client, cfg, err := newClient()
	if err != nil {
		return cli.NewErrorWithCause("failed to initialize", err)
	}
	defer client.Close()

	info, err := client.Worktrees().Create(".", wsmgr.CreateOptions{
		Branch:       branch,
		CreateBranch: worktreeCreateFlags.startBranch || worktreeCreateFlags.base != "",
		StartPoint:   worktreeCreateFlags.base,
	})
	if err != nil {
		return handleCLIError(err)
	}

	fmt.Printf("Created worktree %s (branch %s)\n", info.Path, info.Branch)

	if worktreeCreateFlags.startSession {
		if err := cli.ValidateSessionName(cfg.Multiplexer.SessionName); err != nil {
			return err
		}

		repoName := "repo"
		if wd, werr := os.Getwd(); werr == nil {
			repoName = filepath.Base(wd)
		}
		outcome, err := client.Worktrees().Open(cfg.Multiplexer.SessionName, repoName, branch, info.Path)
		if err != nil {
			return handleCLIError(err)
		}
		if outcome == wsmgr.CreatedNew {
			fmt.Println("Opened a new multiplexer window for it.")
		} else {
			fmt.Println("Switched to its existing multiplexer window.")
		}
	}
	return nil
}

func runWorktreeRemoveCommand(cmd *cobra.Command, args []string) error {
	if !worktreeRemoveFlags.yes {
		confirmed, err := cli.NewConfirmationPrompt(&cli.ConfirmationOptions{DefaultResponse: false}).
			ConfirmDestructive("remove", args)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	client, _, err := newClient()
	if err != nil {
		return cli.NewErrorWithCause("failed to initialize", err)
	}
	defer client.Close()

	if err := client.Worktrees().Remove(".", args[0], worktreeRemoveFlags.force); err != nil {
		return handleCLIError(err)
	}
	fmt.Printf("Removed worktree %s\n", args[0])
	return nil
}
