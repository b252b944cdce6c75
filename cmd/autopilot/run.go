package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/entrhq/autopilot/pkg/agent"
	"github.com/entrhq/autopilot/pkg/config"
	"github.com/entrhq/autopilot/pkg/logging"
)

var (
	runURL      string
	runTask     string
	runMaxSteps int
)

var runCmd = &cobra.Command{
	Use:   "run <goal>",
	Short: "Run one agent goal and print the result",
	Long: `Drives the agent loop for a single goal without starting the server.
The goal describes what to do; --url points the agent at the target page.

Examples:
  autopilot run "extract the job requirements" --url https://jobs.example.com/123
  autopilot run "fill out the application form with the resume at /tmp/resume.pdf" \
      --url https://jobs.example.com/123/apply --task form_fill`,
	Args: cobra.ExactArgs(1),
	RunE: runOnce,
}

func init() {
	runCmd.Flags().StringVar(&runURL, "url", "", "target page URL")
	runCmd.Flags().StringVar(&runTask, "task", "extract", "task shape: extract or form_fill")
	runCmd.Flags().IntVar(&runMaxSteps, "max-steps", 0, "override the step budget")
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, _ := logging.NewLogger("run")
	defer log.Close()

	deps, err := buildDependencies(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer deps.manager.Shutdown(context.Background())

	maxSteps := runMaxSteps
	if maxSteps <= 0 {
		switch runTask {
		case "form_fill":
			maxSteps = cfg.Agent.FormFillSteps
		case "extract":
			maxSteps = cfg.Agent.ExtractSteps
		default:
			return fmt.Errorf("unknown task %q (use extract or form_fill)", runTask)
		}
	}

	goal := args[0]
	if runURL != "" {
		goal = fmt.Sprintf("%s\n\nTarget URL: %s", goal, runURL)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := agent.New(deps.provider, deps.registry,
		agent.WithMaxSteps(maxSteps),
		agent.WithLogger(log))

	res, err := a.Run(ctx, goal)
	if err != nil {
		return fmt.Errorf("agent run failed: %w", err)
	}

	switch res.Outcome {
	case agent.OutcomeCompleted:
		fmt.Println(res.FinalContent)
	case agent.OutcomeBudgetExhausted:
		fmt.Fprintf(os.Stderr, "step budget (%d) exhausted before the goal completed; retry with --max-steps\n", maxSteps)
	case agent.OutcomeCancelled:
		fmt.Fprintln(os.Stderr, "cancelled")
	}
	return nil
}
