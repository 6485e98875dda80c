package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/nexus/internal/app"
	"github.com/MrSnakeDoc/nexus/internal/config"
	"github.com/MrSnakeDoc/nexus/internal/logger"
	"github.com/MrSnakeDoc/nexus/internal/version"
)

var (
	envFile string
	noColor bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Look a username up across social platforms",
	Long: `Nexus checks whether a username exists on LinkedIn, Twitter, GitHub,
Instagram, Reddit, TikTok and Spotify through a lookup backend, scores the
profiles it finds and keeps a short history of past searches.

Without a subcommand it starts the HTTP API (same as "nexus serve").`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadDotEnv(envFile)
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Get())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at the configured level instead of errors only")

	rootCmd.AddCommand(serveCmd, searchCmd, historyCmd, platformsCmd, versionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

// openCore builds the search stack for one-shot commands. Logs stay at
// error level unless --verbose is set.
func openCore(cmd *cobra.Command) (*app.Core, error) {
	cfg := config.Load()
	level := "error"
	if verbose {
		level = cfg.LogLevel
	}
	return app.NewCore(cmd.Context(), cfg, logger.New(level, cfg.PrettyLog), nil)
}
