package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/briarwood/wsmgr/internal/cli"
)

// StatusData is the top-level payload for `wsmgr status`.
type StatusData struct {
	TrackedWorkspaces int       `json:"tracked_workspaces" yaml:"tracked_workspaces"`
	ActiveSessions    int       `json:"active_sessions" yaml:"active_sessions"`
	LastScan          time.Time `json:"last_scan" yaml:"last_scan"`
	MuxBackend        string    `json:"mux_backend" yaml:"mux_backend"`
}

var statusFlags struct {
	format string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a snapshot of tracked workspaces and sessions",
	Long: `Show overall wsmgr health: how many workspaces discovery has found,
how many assistant sessions are active across them, and when the
workspace list was last refreshed.`,
	RunE: runStatusCommand,
}

func init() {
	statusCmd.Flags().StringVarP(&statusFlags.format, "format", "f", "table", "output format: table, json, yaml")
}

func runStatusCommand(cmd *cobra.Command, args []string) error {
	format, err := cli.ValidateFormat(statusFlags.format)
	if err != nil {
		return err
	}

	client, _, err := newClient()
	if err != nil {
		return cli.NewErrorWithCause("failed to initialize", err)
	}
	defer client.Close()

	client.Rescan()

	st := client.System().Status()
	data := StatusData{
		TrackedWorkspaces: st.TrackedWorkspaces,
		ActiveSessions:    st.ActiveSessions,
		LastScan:          st.LastScan,
		MuxBackend:        string(client.App().Mux().Backend()),
	}

	return cli.NewStatusFormatter(format, nil).Format(data)
}
