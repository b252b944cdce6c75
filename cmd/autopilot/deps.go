package main

import (
	"context"
	"fmt"

	"github.com/entrhq/autopilot/pkg/browser"
	"github.com/entrhq/autopilot/pkg/config"
	"github.com/entrhq/autopilot/pkg/llm"
	"github.com/entrhq/autopilot/pkg/llm/openai"
	"github.com/entrhq/autopilot/pkg/storage"
	"github.com/entrhq/autopilot/pkg/tools"
	browsertools "github.com/entrhq/autopilot/pkg/tools/browser"
)

// serverDeps bundles the wired components shared by serve and run.
type serverDeps struct {
	manager  *browser.Manager
	registry *tools.Registry
	provider llm.Provider
}

func buildDependencies(ctx context.Context, cfg *config.Config) (*serverDeps, error) {
	launcher, err := browser.NewPlaywrightLauncher(cfg.Browser.Headless)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser runtime: %w", err)
	}

	manager := browser.NewManager(launcher,
		browser.WithMaxSessions(cfg.Browser.MaxSessions),
		browser.WithNavigationTimeout(cfg.Browser.NavigationTimeout.Std()))

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var providerOpts []openai.ProviderOption
	if cfg.LLM.Model != "" {
		providerOpts = append(providerOpts, openai.WithModel(cfg.LLM.Model))
	}
	if cfg.LLM.BaseURL != "" {
		providerOpts = append(providerOpts, openai.WithBaseURL(cfg.LLM.BaseURL))
	}
	provider, err := openai.NewProvider(cfg.LLM.APIKey, providerOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}

	registry := tools.NewRegistry()
	browsertools.RegisterTools(registry, manager, store)

	return &serverDeps{manager: manager, registry: registry, provider: provider}, nil
}
