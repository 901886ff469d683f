package main

import "github.com/briarwood/wsmgr/internal/cli"

// handleCLIError processes errors in a consistent way for CLI commands.
func handleCLIError(err error) error {
	if err == nil {
		return nil
	}
	return cli.HandleCLIError(err)
}
