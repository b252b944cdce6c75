package browser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/entrhq/autopilot/pkg/browser"
	"github.com/entrhq/autopilot/pkg/storage"
	"github.com/entrhq/autopilot/pkg/tools"
)

// ScreenshotTool captures the page and persists it, handing back a storage
// reference rather than inline image bytes.
type ScreenshotTool struct {
	manager *browser.Manager
	store   storage.Store
}

// NewScreenshotTool creates a new screenshot tool.
func NewScreenshotTool(manager *browser.Manager, store storage.Store) *ScreenshotTool {
	return &ScreenshotTool{manager: manager, store: store}
}

// Name returns the tool name.
func (t *ScreenshotTool) Name() string {
	return "screenshot"
}

// Description returns the tool description.
func (t *ScreenshotTool) Description() string {
	return "Capture a full-page screenshot of the current page. The image is persisted and a reference (path or URL) is returned."
}

// Schema returns the tool's JSON schema.
func (t *ScreenshotTool) Schema() map[string]interface{} {
	return tools.ObjectSchema(
		map[string]interface{}{
			"session_id": map[string]interface{}{
				"type":        "string",
				"description": "ID of the browser session to use",
			},
			"page_id": map[string]interface{}{
				"type":        "string",
				"description": "Page within the session (defaults to the main page)",
			},
		},
		[]string{"session_id"},
	)
}

type screenshotParams struct {
	SessionID string `json:"session_id"`
	PageID    string `json:"page_id"`
}

// Execute captures and persists the screenshot.
func (t *ScreenshotTool) Execute(ctx context.Context, args json.RawMessage) (*tools.Result, error) {
	var input screenshotParams
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

	pageID := pageOrDefault(input.PageID)
	img, err := session.Screenshot(pageID)
	if err != nil {
		return failureResult(t.manager, input.SessionID, err)
	}

	key := fmt.Sprintf("%s/%s-%d.png", input.SessionID, pageID, time.Now().UnixNano())
	ref, err := t.store.Put(ctx, key, bytes.NewReader(img))
	if err != nil {
		return tools.ErrorResult(CodeOperationFailed, fmt.Sprintf("screenshot captured but could not be stored: %v", err)), nil
	}

	return tools.TextResult(fmt.Sprintf("Screenshot saved: %s", ref)), nil
}
