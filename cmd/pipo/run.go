package main

import (
	"fmt"
	"github.com/MagicOwO/pipo-agent/internal/agents/pipo/handler"
	"github.com/MagicOwO/pipo-agent/internal/app"
	"github.com/MagicOwO/pipo-agent/internal/setup"
	"github.com/MagicOwO/pipo-agent/pkg/render"
	"github.com/spf13/cobra"
	"strings"
)

var runCmd = &cobra.Command{
	Use:       "run code|research",
	Short:     "Run the bundled PIPO agent examples",
	Long:      "code     - Run code transformation example\nresearch - Run research task example",
	ValidArgs: []string{"code", "research"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if err := setup.CheckWorkspace(dir); err != nil {
			return err
		}

		client, err := app.NewClient(cfg)
		if err != nil {
			return err
		}
		registry, err := app.AgentActions()
		if err != nil {
			return err
		}
		agent := handler.New(client, registry)

		out := render.New(cmd.OutOrStdout())
		for i, ex := range examples[args[0]] {
			if err := out.Section(fmt.Sprintf("%d. %s...", i+1, ex.title), ""); err != nil {
				return err
			}
			result := agent.ProcessRequest(cmd.Context(), ex.request)
			fmt.Fprintln(cmd.OutOrStdout(), result.Text())
			fmt.Fprintln(cmd.OutOrStdout(), "\n"+strings.Repeat("=", 80)+"\n")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
