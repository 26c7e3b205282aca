package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"github.com/MagicOwO/pipo-agent/internal/agents/planner/handler"
	"github.com/MagicOwO/pipo-agent/internal/app"
	"github.com/MagicOwO/pipo-agent/pkg/models"
	"github.com/MagicOwO/pipo-agent/pkg/render"
	"github.com/spf13/cobra"
	"io"
	"time"
)

const defaultQuestion = "Compare Nvidia and AMD whose market valuation is higher?"

var solveCmd = &cobra.Command{
	Use:       "solve static|dynamic [question]",
	Short:     "Answer a question with the demo planner",
	Long:      "static  - draft a whole plan, review it on stdin, then execute it\ndynamic - decide one step at a time",
	ValidArgs: []string{string(models.ModeStatic), string(models.ModeDynamic)},
	Args:      cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := models.Mode(args[0])
		if !mode.Valid() {
			return fmt.Errorf("invalid run type: %s", args[0])
		}
		question := defaultQuestion
		if len(args) == 2 {
			question = args[1]
		}

		client, err := app.NewClient(cfg)
		if err != nil {
			return err
		}
		registry, err := app.PlannerActions(cfg)
		if err != nil {
			return err
		}
		h := handler.New(client, registry)
		out := cmd.OutOrStdout()

		if mode == models.ModeStatic {
			reviewer := &stdinReviewer{in: bufio.NewReader(cmd.InOrStdin()), out: out, render: render.New(out), handler: h}
			answer, err := h.StaticSolve(cmd.Context(), question, reviewer)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Answer: %s\n", answer)
			return nil
		}

		maxSteps, _ := cmd.Flags().GetInt("max-steps")
		if maxSteps <= 0 {
			maxSteps = cfg.MaxSteps
		}
		answer, steps, err := h.DynamicSolve(cmd.Context(), question, maxSteps)
		switch {
		case errors.Is(err, handler.ErrNoAnswer):
			fmt.Fprintln(out, "Answer: none found")
		case err != nil:
			return err
		default:
			fmt.Fprintf(out, "Answer: %s\n", answer)
		}
		for i, step := range steps {
			fmt.Fprintf(out, "Step %d: %s, thought: %s\n", i, step.Step.Action, step.Step.Thought)
		}
		return nil
	},
}

// stdinReviewer shows a plan and reads the decision from a line of input.
type stdinReviewer struct {
	in      *bufio.Reader
	out     io.Writer
	render  *render.Renderer
	handler *handler.Handler
}

func (s *stdinReviewer) Review(_ context.Context, plan models.DemoPlan, _ time.Duration) (handler.Decision, error) {
	if err := s.render.Section("Proposed Plan", ""); err != nil {
		return handler.Decision{}, err
	}
	if err := s.render.Code("", s.handler.Describe(plan)); err != nil {
		return handler.Decision{}, err
	}
	fmt.Fprintln(s.out, "\nOptions: [Y]es (execute plan), [N]o (stop), or provide feedback to refine the plan:")
	fmt.Fprint(s.out, "> ")

	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return handler.Decision{}, fmt.Errorf("read decision: %w", err)
	}

	decision := handler.ParseDecision(line)
	switch decision.Verdict {
	case handler.Approve:
		fmt.Fprintln(s.out, "Plan approved by user. Executing...")
	case handler.Reject:
		fmt.Fprintln(s.out, "Plan rejected by user.")
	default:
		fmt.Fprintln(s.out, "Revising plan based on feedback...")
	}
	return decision, nil
}

func init() {
	solveCmd.Flags().Int("max-steps", 0, "Step budget for dynamic mode (default from config)")
	rootCmd.AddCommand(solveCmd)
}
