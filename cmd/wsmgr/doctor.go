package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/briarwood/wsmgr/internal/cli"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that wsmgr's configuration and environment are sane",
	Long: `Load the effective configuration, validate it, check that every
configured search path exists, and report which multiplexer backend was
detected. Exits non-zero if any check fails.`,
	RunE: runDoctorCommand,
}

func runDoctorCommand(cmd *cobra.Command, args []string) error {
	ok := true

	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("[FAIL] load configuration: %v\n", err)
		return cli.NewError("configuration could not be loaded")
	}
	fmt.Println("[ OK ] configuration loaded")

	if err := cfg.Validate(); err != nil {
		fmt.Printf("[FAIL] configuration invalid: %v\n", err)
		ok = false
	} else {
		fmt.Println("[ OK ] configuration valid")
	}

	for _, p := range cfg.SearchPaths {
		if _, err := os.Stat(p); err != nil {
			fmt.Printf("[WARN] search path %s: %v\n", p, err)
			continue
		}
		fmt.Printf("[ OK ] search path %s exists\n", p)
	}

	client, _, err := newClient()
	if err != nil {
		fmt.Printf("[FAIL] initialize multiplexer/aggregator: %v\n", err)
		ok = false
	} else {
		fmt.Printf("[ OK ] multiplexer backend detected: %s\n", client.App().Mux().Backend())
		client.Close()
	}

	if cfg.Logwatch.ClaudeHooksEnabled {
		if _, err := os.Stat(cfg.Logwatch.ClaudeHome); err != nil {
			fmt.Printf("[WARN] claude home %s: %v\n", cfg.Logwatch.ClaudeHome, err)
		} else {
			fmt.Printf("[ OK ] claude home %s exists\n", cfg.Logwatch.ClaudeHome)
		}
	}

	if cfg.Logwatch.KiroPollingEnabled {
		if _, err := os.Stat(cfg.Logwatch.KiroDBPath); err != nil {
			fmt.Printf("[WARN] kiro database %s: %v\n", cfg.Logwatch.KiroDBPath, err)
		} else {
			fmt.Printf("[ OK ] kiro database %s exists\n", cfg.Logwatch.KiroDBPath)
		}
	}

	if !ok {
		return cli.NewError("one or more checks failed")
	}
	fmt.Println("\nAll checks passed.")
	return nil
}
