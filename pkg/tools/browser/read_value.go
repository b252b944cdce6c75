package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entrhq/autopilot/pkg/browser"
	"github.com/entrhq/autopilot/pkg/tools"
)

// ReadValueTool reads the current value of a form field.
type ReadValueTool struct {
	manager *browser.Manager
}

// NewReadValueTool creates a new value readback tool.
func NewReadValueTool(manager *browser.Manager) *ReadValueTool {
	return &ReadValueTool{manager: manager}
}

// Name returns the tool name.
func (t *ReadValueTool) Name() string {
	return "read_value"
}

// Description returns the tool description.
func (t *ReadValueTool) Description() string {
	return "Read the current value of a form field located by CSS selector. Use this to verify what a field actually contains before submitting."
}

// Schema returns the tool's JSON schema.
func (t *ReadValueTool) Schema() map[string]interface{} {
	return tools.ObjectSchema(
		map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "ID of the browser session to use",
			},
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector for the input field",
			},
			"page_id": map[string]interface{}{
				"type":        "string",
				"description": "Page within the session (defaults to the main page)",
			},
		},
		[]string{"session_id", "selector"},
	)
}

type readValueParams struct {
	SessionID string `json:"session_id"`
	Selector  string `json:"selector"`
	PageID    string `json:"page_id"`
}

// Execute reads the field value.
func (t *ReadValueTool) Execute(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
	var input readValueParams
	if err := decodeArgs(args, &input); err != nil {
		return invalidArgs(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if input.SessionID == "" {
		return invalidArgs("session_id is required"), nil
	}
	if input.Selector == "" {
		return invalidArgs("selector is required"), nil
	}

	session, err := t.manager.Get(input.SessionID)
	if err != nil {
		return failureResult(t.manager, input.SessionID, err)
	}

	value, err := session.ReadValue(pageOrDefault(input.PageID), input.Selector)
	if err != nil {
		return failureResult(t.manager, input.SessionID, err)
	}

	return tools.TextResult(fmt.Sprintf("Value of %s: %q", input.Selector, value)), nil
}
