package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entrhq/autopilot/pkg/browser"
	"github.com/entrhq/autopilot/pkg/extract"
	"github.com/entrhq/autopilot/pkg/tools"
)

// ExtractContentTool renders the current page in a model-friendly format.
type ExtractContentTool struct {
	manager *browser.Manager
}

// NewExtractContentTool creates a new content extraction tool.
func NewExtractContentTool(manager *browser.Manager) *ExtractContentTool {
	return &ExtractContentTool{manager: manager}
}

// Name returns the tool name.
func (t *ExtractContentTool) Name() string {
	return "extract_content"
}

// Description returns the tool description.
func (t *ExtractContentTool) Description() string {
	return "Extract the current page content. Format 'structural' (default) returns cleaned HTML preserving selectors and form structure; 'text' returns readable text with headings and links. Long pages are truncated."
}

// Schema returns the tool's JSON schema.
func (t *ExtractContentTool) Schema() map[string]interface{} {
	return tools.ObjectSchema(
		map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "ID of the browser session to use",
			},
			"format": map[string]interface{}{
				"type":        "string",
				"description": "Extraction format: 'structural' (default) or 'text'",
			},
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector scoping structural extraction (defaults to 'body')",
			},
			"max_length": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum characters to return before truncation",
			},
			"page_id": map[string]interface{}{
				"type":        "string",
				"description": "Page within the session (defaults to the main page)",
			},
		},
		[]string{"session_id"},
	)
}

type extractContentParams struct {
	SessionID string `json:"session_id"`
	Format    string `json:"format"`
	Selector  string `json:"selector"`
	MaxLength int    `json:"max_length"`
	PageID    string `json:"page_id"`
}

// Execute extracts the page content.
func (t *ExtractContentTool) Execute(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
	var input extractContentParams
	if err := decodeArgs(args, &input); err != nil {
		return invalidArgs(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if input.SessionID == "" {
		return invalidArgs("session_id is required"), nil
	}

	format := extract.Format(input.Format)
	if format == "" {
		format = extract.FormatStructural
	}
	if format != extract.FormatStructural && format != extract.FormatText {
		return invalidArgs(fmt.Sprintf("unknown format %q (use 'structural' or 'text')", input.Format)), nil
	}

	maxLength := input.MaxLength
	if maxLength <= 0 {
		maxLength = extract.DefaultMaxLength
	}

	session, err := t.manager.Get(input.SessionID)
	if err != nil {
		return failureResult(t.manager, input.SessionID, err)
	}

	raw, err := session.Content(pageOrDefault(input.PageID))
	if err != nil {
		return failureResult(t.manager, input.SessionID, err)
	}

	var rendered string
	switch format {
	case extract.FormatText:
		rendered, err = extract.Text(raw, maxLength)
	default:
		rendered, err = extract.Structural(raw, input.Selector, maxLength)
	}
	if err != nil {
		return tools.ErrorResult(CodeOperationFailed, fmt.Sprintf("content extraction failed: %v", err)), nil
	}

	return tools.TextResult(rendered), nil
}
