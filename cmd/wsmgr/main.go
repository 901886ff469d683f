package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/briarwood/wsmgr/internal/cli"
	"github.com/briarwood/wsmgr/internal/config"
	"github.com/briarwood/wsmgr/internal/eventloop"
	"github.com/briarwood/wsmgr/internal/logging"
	"github.com/briarwood/wsmgr/internal/observer/claude"
	"github.com/briarwood/wsmgr/internal/observer/kiro"
	"github.com/briarwood/wsmgr/pkg/wsmgr"
)

var (
	configPath string
	verbose    bool
	quiet      bool
	dryRun     bool
)

var rootCmd = &cobra.Command{
	Use:   "wsmgr",
	Short: "Workspace manager for concurrent AI coding assistants",
	Long: `wsmgr tracks git worktrees across your repositories and the AI coding
assistant (Claude Code, Kiro) running in each one, surfacing them as a
single tree you can navigate and act on from one terminal.

Running wsmgr with no subcommand starts the interactive tree view.`,
	RunE: runTUI,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the wsmgr version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("wsmgr 0.1.0")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config.toml to use instead of the default global+project merge")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "print what would happen without performing it")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(worktreeCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(doctorCmd)
}

// loadConfig loads the effective configuration, honoring --config when
// set and falling back to the default global+project merge otherwise.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		if err := cli.ValidateFilePath(configPath); err != nil {
			return nil, err
		}
		return config.Load(configPath)
	}
	m := config.NewManager()
	if err := m.InitGlobal(config.GetConfigPath()); err != nil {
		return nil, err
	}
	if wd, err := os.Getwd(); err == nil {
		if err := m.InitProject(wd); err != nil {
			return nil, err
		}
	}
	return m.Merged()
}

// newClient loads the effective config and constructs a wsmgr.Client from
// it; every subcommand goes through this one path.
func newClient() (*wsmgr.Client, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	client, err := wsmgr.NewClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

// producersFor builds the ProducerConfig for a config's enabled observers.
func producersFor(cfg *config.Config) eventloop.ProducerConfig {
	p := eventloop.ProducerConfig{
		SearchPaths:  cfg.SearchPaths,
		MaxScanDepth: cfg.MaxScanDepth,
	}
	if cfg.Logwatch.ClaudeHooksEnabled {
		p.ClaudeObserver = claude.New(claude.Config{ClaudeHome: cfg.Logwatch.ClaudeHome})
	}
	if cfg.Logwatch.KiroPollingEnabled {
		p.KiroObserver = kiro.New(kiro.Config{DBPath: cfg.Logwatch.KiroDBPath})
	}
	return p
}

// runTUI wires up the full app and runs the interactive bubbletea shell
// until the user quits or the process receives an interrupt/term signal.
func runTUI(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	client.Start(ctx, producersFor(cfg))

	program := tea.NewProgram(eventloop.NewModel(client.App()), tea.WithAltScreen(), tea.WithMouseCellMotion())
	go func() {
		<-ctx.Done()
		program.Quit()
	}()
	_, err = program.Run()
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
