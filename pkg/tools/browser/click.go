package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entrhq/autopilot/pkg/browser"
	"github.com/entrhq/autopilot/pkg/tools"
)

// ClickTool clicks an element or a viewport coordinate.
type ClickTool struct {
	manager *browser.Manager
}

// NewClickTool creates a new click tool.
func NewClickTool(manager *browser.Manager) *ClickTool {
	return &ClickTool{manager: manager}
}

// Name returns the tool name.
func (t *ClickTool) Name() string {
	return "click"
}

// Description returns the tool description.
func (t *ClickTool) Description() string {
	return "Click an element located by CSS selector, XPath expression, or viewport coordinates. Provide exactly one locating strategy."
}

// Schema returns the tool's JSON schema.
func (t *ClickTool) Schema() map[string]interface{} {
	return tools.ObjectSchema(
		map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "ID of the browser session to use",
			},
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector for the element to click (e.g., 'button.submit', '#apply-btn')",
			},
			"xpath": map[string]interface{}{
				"type":        "string",
				"description": "XPath expression for the element to click",
			},
			"position": map[string]interface{}{
				"type":        "object",
				"description": "Viewport coordinates to click at",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{"type": "number"},
					"y": map[string]interface{}{"type": "number"},
				},
				"required": []string{"x", "y"},
			},
			"page_id": map[string]interface{}{
				"type":        "string",
				"description": "Page within the session (defaults to the main page)",
			},
		},
		[]string{"session_id"},
	)
}

type clickParams struct {
	SessionID string            `json:"session_id"`
	Selector  string            `json:"selector"`
	XPath     string            `json:"xpath"`
	Position  *browser.Position `json:"position"`
	PageID    string            `json:"page_id"`
}

// Execute performs the click.
func (t *ClickTool) Execute(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
	var input clickParams
	if err := decodeArgs(args, &input); err != nil {
		return invalidArgs(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if input.SessionID == "" {
		return invalidArgs("session_id is required"), nil
	}

	session, err := t.manager.Get(input.SessionID)
	if err != nil {
		return failureResult(t.manager, input.SessionID, err)
	}

	target := browser.ClickTarget{
		Selector: input.Selector,
		XPath:    input.XPath,
		Position: input.Position,
	}
	res, err := session.Click(pageOrDefault(input.PageID), target)
	if err != nil {
		return failureResult(t.manager, input.SessionID, err)
	}

	msg := fmt.Sprintf("Click executed. Current URL: %s", res.URL)
	if res.TimedOut {
		msg += " (a click-triggered navigation did not fully settle; the page may still be loading)"
	}
	return tools.TextResult(msg), nil
}
