package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/entrhq/autopilot/pkg/browser"
	"github.com/entrhq/autopilot/pkg/tools"
)

// CreateSessionTool allocates a new isolated browser session.
type CreateSessionTool struct {
	manager *browser.Manager
}

// NewCreateSessionTool creates a new session creation tool.
func NewCreateSessionTool(manager *browser.Manager) *CreateSessionTool {
	return &CreateSessionTool{manager: manager}
}

// Name returns the tool name.
func (t *CreateSessionTool) Name() string {
	return "create_session"
}

// Description returns the tool description.
func (t *CreateSessionTool) Description() string {
	return "Create a new isolated browser session and return its session id. Sessions have independent cookies and pages. Close sessions you no longer need."
}

// Schema returns the tool's JSON schema.
func (t *CreateSessionTool) Schema() map[string]interface{} {
	return tools.ObjectSchema(map[string]interface{}{}, nil)
}

// CreateSessionInfo is the structured block attached to a successful
// create_session result. The transport layer reads it to bind the session
// to the calling connection.
type CreateSessionInfo struct {
	SessionID     string `json:"session_id"`
	SessionsInUse int    `json:"sessions_in_use"`
	MaxSessions   int    `json:"max_sessions"`
}

// Execute allocates the session.
func (t *CreateSessionTool) Execute(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
	id, err := t.manager.Create()
	if err != nil {
		return failureResult(t.manager, "", err)
	}

	res := tools.TextResult(fmt.Sprintf(
		"Created browser session %s (%d of %d sessions in use). Use this session_id for subsequent browser tools.",
		id, t.manager.Count(), t.manager.MaxSessions(),
	))
	info := CreateSessionInfo{
		SessionID:     id,
		SessionsInUse: t.manager.Count(),
		MaxSessions:   t.manager.MaxSessions(),
	}
	if data, err := json.Marshal(info); err == nil {
		res.Content = append(res.Content, tools.Content{Type: tools.ContentTypeJSON, Data: data})
	}
	return res, nil
}
