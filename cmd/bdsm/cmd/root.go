/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ssargent/bdsm/pkg/config"
	"github.com/ssargent/bdsm/pkg/di"
	"github.com/ssargent/bdsm/pkg/logging"
	"github.com/ssargent/bdsm/pkg/shell"
	"github.com/ssargent/bdsm/pkg/store"
)

var (
	container *di.Container
	settings  *config.Config
	logger    = zerolog.Nop()
)

// SetContainer injects the dependency container
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bdsm [filename]",
	Short: "BDSM - Bookstore Database Management System",
	Long: `BDSM keeps a bookstore inventory in a single binary data file and
edits it through an interactive shell.

Without a filename the shell works in memory only; use "save <file>" to persist.
A filename that does not exist yet is created.

Examples:
  bdsm
  bdsm bookstore.dat
  bdsm --metrics-addr :9100 bookstore.dat`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := settings.DataFile
		if len(args) == 1 {
			path = args[0]
		}
		return runShell(cmd, path)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: OS-specific location)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Dotenv file with BDSM_* variables")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("archive-dir", "", "Directory of the snapshot archive")
	rootCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while the shell runs")
}

// loadSettings resolves the configuration from file, environment and flags,
// in increasing order of precedence
func loadSettings(cmd *cobra.Command, _ []string) error {
	if container == nil {
		return fmt.Errorf("dependency container not initialized")
	}

	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()

	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if v, _ := cmd.Flags().GetString("archive-dir"); v != "" {
		cfg.ArchiveDir = v
	}
	if f := cmd.Flags().Lookup("metrics-addr"); f != nil && f.Value.String() != "" {
		cfg.Metrics.Addr = f.Value.String()
	}

	settings = cfg
	logger = logging.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	return nil
}

func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		return config.LoadConfig(configPath)
	}

	configPath = config.GetDefaultConfigPath()
	if config.ConfigExists(configPath) {
		return config.LoadConfig(configPath)
	}
	return config.DefaultConfig(), nil
}

func newPersister() *store.Persister {
	return store.NewPersister(store.WithLogger(logger), store.WithMetrics(container.GetMetrics()))
}

func runShell(cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()
	persister := newPersister()

	session, err := shell.OpenSession(persister, path, out)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if addr := settings.Metrics.Addr; addr != "" {
		go func() {
			if err := container.GetMetrics().Serve(ctx, addr, logger); err != nil {
				logger.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
			}
		}()
	}

	sh := shell.New(shell.Config{
		In:          cmd.InOrStdin(),
		Out:         out,
		Prompt:      settings.Shell.Prompt,
		ArchiveDir:  settings.ArchiveDir,
		OpenArchive: container.GetArchiveOpener(),
		Persister:   persister,
		Metrics:     container.GetMetrics(),
		Logger:      logger,
	}, session)
	defer sh.Close()

	return sh.Run()
}
