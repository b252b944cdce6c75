package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/entrhq/autopilot/pkg/browser"
	"github.com/entrhq/autopilot/pkg/tools"
)

// ListSessionsTool reports the live sessions in the registry.
type ListSessionsTool struct {
	manager *browser.Manager
}

// NewListSessionsTool creates a new session listing tool.
func NewListSessionsTool(manager *browser.Manager) *ListSessionsTool {
	return &ListSessionsTool{manager: manager}
}

// Name returns the tool name.
func (t *ListSessionsTool) Name() string {
	return "list_sessions"
}

// Description returns the tool description.
func (t *ListSessionsTool) Description() string {
	return "List the currently open browser sessions with their ids, ages, and page counts."
}

// Schema returns the tool's JSON schema.
func (t *ListSessionsTool) Schema() map[string]interface{} {
	return tools.ObjectSchema(map[string]interface{}{}, nil)
}

// Execute lists the sessions.
func (t *ListSessionsTool) Execute(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
	infos := t.manager.List()
	if len(infos) == 0 {
		return tools.TextResult("No open browser sessions."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Open browser sessions (%d of %d):\n", len(infos), t.manager.MaxSessions())
	for _, info := range infos {
		fmt.Fprintf(&b, "- %s: created %s, %d page(s)\n",
			info.ID, info.CreatedAt.Format("15:04:05"), info.Pages)
	}

	return tools.TextResult(strings.TrimRight(b.String(), "\n")), nil
}
