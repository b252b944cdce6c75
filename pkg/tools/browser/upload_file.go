package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entrhq/autopilot/pkg/browser"
	"github.com/entrhq/autopilot/pkg/tools"
)

// UploadFileTool attaches a local file to a file input element.
type UploadFileTool struct {
	manager *browser.Manager
}

// NewUploadFileTool creates a new file upload tool.
func NewUploadFileTool(manager *browser.Manager) *UploadFileTool {
	return &UploadFileTool{manager: manager}
}

// Name returns the tool name.
func (t *UploadFileTool) Name() string {
	return "upload_file"
}

// Description returns the tool description.
func (t *UploadFileTool) Description() string {
	return "Attach a local file (e.g., a resume PDF) to a file input element located by CSS selector. Waits for the input to be attached before setting it."
}

// Schema returns the tool's JSON schema.
func (t *UploadFileTool) Schema() map[string]interface{} {
	return tools.ObjectSchema(
		map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "ID of the browser session to use",
			},
			"selector": map[string]interface{}{
				"type":        "string",
				"description": "CSS selector for the file input element (e.g., 'input[type=\"file\"]')",
			},
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "Path to the local file to upload",
			},
			"page_id": map[string]interface{}{
				"type":        "string",
				"description": "Page within the session (defaults to the main page)",
			},
		},
		[]string{"session_id", "selector", "file_path"},
	)
}

type uploadFileParams struct {
	SessionID string `json:"session_id"`
	Selector  string `json:"selector"`
	FilePath  string `json:"file_path"`
	PageID    string `json:"page_id"`
}

// Execute attaches the file.
func (t *UploadFileTool) Execute(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
	var input uploadFileParams
	if err := decodeArgs(args, &input); err != nil {
		return invalidArgs(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if input.SessionID == "" {
		return invalidArgs("session_id is required"), nil
	}
	if input.Selector == "" {
		return invalidArgs("selector is required"), nil
	}
	if input.FilePath == "" {
		return invalidArgs("file_path is required"), nil
	}

	session, err := t.manager.Get(input.SessionID)
	if err != nil {
		return failureResult(t.manager, input.SessionID, err)
	}

	if err := session.Upload(pageOrDefault(input.PageID), input.Selector, input.FilePath); err != nil {
		return failureResult(t.manager, input.SessionID, err)
	}

	return tools.TextResult(fmt.Sprintf("Attached %s to %s.", input.FilePath, input.Selector)), nil
}
