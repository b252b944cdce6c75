package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entrhq/autopilot/pkg/browser"
	"github.com/entrhq/autopilot/pkg/tools"
)

// CloseSessionTool destroys a browser session and releases its resources.
type CloseSessionTool struct {
	manager *browser.Manager
}

// NewCloseSessionTool creates a new session close tool.
func NewCloseSessionTool(manager *browser.Manager) *CloseSessionTool {
	return &CloseSessionTool{manager: manager}
}

// Name returns the tool name.
func (t *CloseSessionTool) Name() string {
	return "close_session"
}

// Description returns the tool description.
func (t *CloseSessionTool) Description() string {
	return "Close a browser session and release its pages. Closing an already-closed session is harmless."
}

// Schema returns the tool's JSON schema.
func (t *CloseSessionTool) Schema() map[string]interface{} {
	return tools.ObjectSchema(
		map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "ID of the browser session to close",
			},
		},
		[]string{"session_id"},
	)
}

type closeSessionParams struct {
	SessionID string `json:"session_id"`
}

// Execute destroys the session. Destroy is idempotent so repeat closes
// succeed quietly.
func (t *CloseSessionTool) Execute(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
	var input closeSessionParams
	if err := decodeArgs(args, &input); err != nil {
		return invalidArgs(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if input.SessionID == "" {
		return invalidArgs("session_id is required"), nil
	}

	t.manager.Destroy(input.SessionID)

	return tools.TextResult(fmt.Sprintf("Session %s closed.", input.SessionID)), nil
}
