package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/entrhq/autopilot/pkg/config"
	"github.com/entrhq/autopilot/pkg/logging"
	"github.com/entrhq/autopilot/pkg/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSE transport server",
	Long: `Starts the server exposing the tool catalog and the agent loop over a
session-addressed SSE transport. Termination signals drain every live
browser session before the process exits.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, _ := logging.NewLogger("serve")
	defer log.Close()
	if path := log.LogPath(); path != "" {
		fmt.Fprintf(os.Stderr, "logs: %s\n", path)
	}

	deps, err := buildDependencies(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	server := mcp.NewServer(cfg.ListenAddr, deps.registry, deps.provider, deps.manager,
		mcp.WithStepBudgets(cfg.Agent.ExtractSteps, cfg.Agent.FormFillSteps))

	// Termination signals cancel the server context; the drain below is the
	// only path that tears down the full registry.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infof("serving on %s (max sessions %d)", cfg.ListenAddr, cfg.Browser.MaxSessions)
	fmt.Fprintf(os.Stderr, "autopilot listening on %s\n", cfg.ListenAddr)

	serveErr := server.Start(ctx)

	log.Infof("shutting down, draining sessions")
	deps.manager.Shutdown(context.Background())
	return serveErr
}
