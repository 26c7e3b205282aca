package main

import (
	"fmt"
	"github.com/MagicOwO/pipo-agent/internal/app"
	"github.com/MagicOwO/pipo-agent/pkg/actions"
	"github.com/MagicOwO/pipo-agent/pkg/render"
	"github.com/spf13/cobra"
	"strings"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the registered actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		agent, err := app.AgentActions()
		if err != nil {
			return err
		}
		planner, err := app.PlannerActions(cfg)
		if err != nil {
			return err
		}

		out := render.New(cmd.OutOrStdout())
		if err := out.Section("Agent actions", describe(agent)); err != nil {
			return err
		}
		return out.Section("Planner actions", describe(planner))
	},
}

func describe(r *actions.Registry) string {
	var b strings.Builder
	for _, spec := range r.Specs() {
		fmt.Fprintf(&b, "- **%s** (%.1fs): %s\n", spec.Name, spec.EstimatedDuration.Seconds(), spec.Description)
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(actionsCmd)
}
