package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entrhq/autopilot/pkg/browser"
	"github.com/entrhq/autopilot/pkg/tools"
)

// InputTextTool fills a form field and verifies the write by reading the
// value back.
type InputTextTool struct {
	manager *browser.Manager
}

// NewInputTextTool creates a new text input tool.
func NewInputTextTool(manager *browser.Manager) *InputTextTool {
	return &InputTextTool{manager: manager}
}

// Name returns the tool name.
func (t *InputTextTool) Name() string {
	return "input_text"
}

// Description returns the tool description.
func (t *InputTextTool) Description() string {
	return "Type text into a form field located by CSS selector. The field's value is read back afterwards; a mismatch is reported as a warning, not a failure."
}

// Schema returns the tool's JSON schema.
func (t *InputTextTool) Schema() map[string]interface{} {
	return tools.ObjectSchema(
		map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "ID of the browser session to use",
			},
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector for the input field (e.g., 'input[name=\"email\"]')",
			},
			"value": map[string]interface{}{
				"type":        "string",
				"description": "Text to enter into the field",
			},
			"page_id": map[string]interface{}{
				"type":        "string",
				"description": "Page within the session (defaults to the main page)",
			},
		},
		[]string{"session_id", "selector", "value"},
	)
}

type inputTextParams struct {
	SessionID string `json:"session_id"`
	Selector  string `json:"selector"`
	Value     string `json:"value"`
	PageID    string `json:"page_id"`
}

// Execute fills the field.
func (t *InputTextTool) Execute(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
	var input inputTextParams
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

	res, err := session.Fill(pageOrDefault(input.PageID), input.Selector, input.Value)
	if err != nil {
		return failureResult(t.manager, input.SessionID, err)
	}

	if res.Mismatch {
		return tools.TextResult(fmt.Sprintf(
			"Filled %s, but the field reads back %q instead of %q. The widget may normalize input; verify the value before submitting.",
			res.Selector, res.Readback, res.Value,
		)), nil
	}
	return tools.TextResult(fmt.Sprintf("Filled %s with %q.", res.Selector, res.Value)), nil
}
