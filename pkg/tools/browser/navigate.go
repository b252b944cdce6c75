package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entrhq/autopilot/pkg/browser"
	"github.com/entrhq/autopilot/pkg/tools"
)

// NavigateTool drives a page to a URL.
type NavigateTool struct {
	manager *browser.Manager
}

// NewNavigateTool creates a new navigation tool.
func NewNavigateTool(manager *browser.Manager) *NavigateTool {
	return &NavigateTool{manager: manager}
}

// Name returns the tool name.
func (t *NavigateTool) Name() string {
	return "navigate"
}

// Description returns the tool description.
func (t *NavigateTool) Description() string {
	return "Navigate a page to a URL and wait for it to settle. Navigating to the page's current URL is a no-op. Slow pages return their partial state rather than failing."
}

// Schema returns the tool's JSON schema.
func (t *NavigateTool) Schema() map[string]interface{} {
	return tools.ObjectSchema(
		map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "ID of the browser session to use",
			},
			"url": map[string]interface{}{
				"type":        "string",
				"description": "Absolute URL to navigate to",
			},
			"page_id": map[string]interface{}{
				"type":        "string",
				"description": "Page within the session (defaults to the main page)",
			},
		},
		[]string{"session_id", "url"},
	)
}

type navigateParams struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
	PageID    string `json:"page_id"`
}

// Execute performs the navigation.
func (t *NavigateTool) Execute(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
	var input navigateParams
	if err := decodeArgs(args, &input); err != nil {
		return invalidArgs(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if input.SessionID == "" {
		return invalidArgs("session_id is required"), nil
	}
	if input.URL == "" {
		return invalidArgs("url is required"), nil
	}

	session, err := t.manager.Get(input.SessionID)
	if err != nil {
		return failureResult(t.manager, input.SessionID, err)
	}

	nav, err := session.Navigate(pageOrDefault(input.PageID), input.URL)
	if err != nil {
		return failureResult(t.manager, input.SessionID, err)
	}

	switch {
	case nav.AlreadyThere:
		return tools.TextResult(fmt.Sprintf("Already at %s, no navigation performed.", nav.URL)), nil
	case nav.TimedOut:
		return tools.TextResult(fmt.Sprintf(
			"Navigated to %s (title: %q). The page did not fully settle before the deadline; its current state is usable but may still be loading.",
			nav.URL, nav.Title,
		)), nil
	default:
		return tools.TextResult(fmt.Sprintf("Navigated to %s (title: %q).", nav.URL, nav.Title)), nil
	}
}
