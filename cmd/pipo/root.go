package main

import (
	"context"
	"fmt"
	"github.com/MagicOwO/pipo-agent/pkg/config"
	"github.com/MagicOwO/pipo-agent/pkg/logger"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "pipo",
	Short: "PIPO (Program In Program Out) agent",
	Long: `PIPO turns natural language requests into plans over registered actions,
executes them and reports the results.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if err := config.LoadEnvFiles(dir); err != nil {
			return err
		}
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			loaded.LogLevel = level
		}
		cfg = loaded
		return logger.NewGlobal(cfg.LogLevel, cfg.LogPretty)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("dir", ".", "Workspace directory holding .env and output/")
	rootCmd.PersistentFlags().String("config", "", "Optional YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides PIPO_LOG_LEVEL)")
}
