package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/briarwood/wsmgr/internal/cli"
	"github.com/briarwood/wsmgr/pkg/wsmgr"
)

// SessionListData is the payload for `wsmgr session list`.
type SessionListData struct {
	Sessions  []SessionListItem `json:"sessions" yaml:"sessions"`
	Total     int               `json:"total" yaml:"total"`
	Timestamp time.Time         `json:"timestamp" yaml:"timestamp"`
}

// SessionListItem is a single session row in list output.
type SessionListItem struct {
	ExternalID string    `json:"external_id" yaml:"external_id"`
	Tool       string    `json:"tool" yaml:"tool"`
	Status     string    `json:"status" yaml:"status"`
	Summary    string    `json:"summary" yaml:"summary"`
	WindowName string    `json:"window_name" yaml:"window_name"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at"`
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect assistant sessions",
	Long: `Inspect the Claude Code / Kiro sessions wsmgr is tracking across your
worktrees: which are currently active, and their audit history.`,
}

var sessionListFlags struct {
	format    string
	workspace string
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active assistant sessions",
	RunE:  runSessionListCommand,
}

var sessionHistoryFlags struct {
	limit int
}

var sessionHistoryCmd = &cobra.Command{
	Use:   "history <external-id>",
	Short: "Show the audit history for one session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionHistoryCommand,
}

func init() {
	sessionListCmd.Flags().StringVarP(&sessionListFlags.format, "format", "f", "table", "output format: table, json, yaml")
	sessionListCmd.Flags().StringVar(&sessionListFlags.workspace, "workspace", "", "restrict to one workspace path")

	sessionHistoryCmd.Flags().IntVar(&sessionHistoryFlags.limit, "limit", 50, "maximum number of audit events to show")

	sessionCmd.AddCommand(sessionListCmd, sessionHistoryCmd)
}

func runSessionListCommand(cmd *cobra.Command, args []string) error {
	format, err := cli.ValidateFormat(sessionListFlags.format)
	if err != nil {
		return err
	}
	if sessionListFlags.workspace != "" {
		if err := cli.ValidateDirectoryPath(sessionListFlags.workspace); err != nil {
			return err
		}
	}

	client, _, err := newClient()
	if err != nil {
		return cli.NewErrorWithCause("failed to initialize", err)
	}
	defer client.Close()

	client.Rescan()

	var sessions []wsmgr.SessionInfo
	if sessionListFlags.workspace != "" {
		sessions, err = client.Sessions().ForWorkspace(sessionListFlags.workspace)
	} else {
		sessions, err = client.Sessions().List()
	}
	if err != nil {
		return handleCLIError(err)
	}

	items := make([]SessionListItem, len(sessions))
	for i, s := range sessions {
		items[i] = SessionListItem{
			ExternalID: s.ExternalID,
			Tool:       s.Tool,
			Status:     s.Status,
			Summary:    s.Summary,
			WindowName: s.WindowName,
			UpdatedAt:  s.UpdatedAt,
		}
	}

	return cli.NewSessionFormatter(format, nil).Format(SessionListData{
		Sessions:  items,
		Total:     len(items),
		Timestamp: time.Now(),
	})
}

func runSessionHistoryCommand(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return cli.NewErrorWithCause("failed to initialize", err)
	}
	defer client.Close()

	history, err := client.Sessions().History(args[0], sessionHistoryFlags.limit)
	if err != nil {
		return handleCLIError(err)
	}
	if len(history) == 0 {
		fmt.Println("No audit history found (is logwatch.enabled set?)")
		return nil
	}
	for _, e := range history {
		fmt.Printf("%s  %-12s %-12s %s\n", e.Timestamp.Format(time.RFC3339), e.EventType, e.Status, e.Summary)
	}
	return nil
}
