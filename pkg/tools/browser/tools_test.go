package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/autopilot/pkg/browser"
	"github.com/entrhq/autopilot/pkg/tools"
)

func newTestCatalog(t *testing.T) (*tools.Registry, *browser.Manager, *stubLauncher, *memStore) {
	t.Helper()
	launcher := &stubLauncher{}
	manager := browser.NewManager(launcher, browser.WithMaxSessions(2))
	store := newMemStore()
	reg := tools.NewRegistry()
	RegisterTools(reg, manager, store)
	t.Cleanup(func() { manager.DestroyAll(context.Background()) })
	return reg, manager, launcher, store
}

func createSession(t *testing.T, manager *browser.Manager) string {
	t.Helper()
	id, err := manager.Create()
	require.NoError(t, err)
	return id
}

func rawArgs(t *testing.T, v map[string]interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestCreateSessionTool(t *testing.T) {
	reg, manager, _, _ := newTestCatalog(t)

	res, err := reg.Dispatch(context.Background(), "create_session", nil)
	require.NoError(t, err)
	require.False(t, res.Failed())
	assert.Contains(t, res.Text(), "1 of 2 sessions in use")
	assert.Equal(t, 1, manager.Count())
}

func TestCreateSessionToolAtCapacity(t *testing.T) {
	reg, manager, _, _ := newTestCatalog(t)
	createSession(t, manager)
	createSession(t, manager)

	res, err := reg.Dispatch(context.Background(), "create_session", nil)
	require.NoError(t, err)
	require.True(t, res.Failed())
	assert.Equal(t, CodeCapacityExceeded, res.Status.Code)
	assert.Equal(t, 2, manager.Count())
}

func TestCloseSessionToolIsIdempotent(t *testing.T) {
	reg, manager, _, _ := newTestCatalog(t)
	id := createSession(t, manager)
	args := rawArgs(t, map[string]interface{}{"session_id": id})

	for i := 0; i < 2; i++ {
		res, err := reg.Dispatch(context.Background(), "close_session", args)
		require.NoError(t, err)
		assert.False(t, res.Failed())
	}
	assert.Equal(t, 0, manager.Count())
}

func TestNavigateTool(t *testing.T) {
	reg, manager, _, _ := newTestCatalog(t)
	id := createSession(t, manager)

	res, err := reg.Dispatch(context.Background(), "navigate", rawArgs(t, map[string]interface{}{
		"session_id": id,
		"url":        "https://jobs.example.com/apply",
	}))
	require.NoError(t, err)
	require.False(t, res.Failed())
	assert.Contains(t, res.Text(), "https://jobs.example.com/apply")
}

func TestNavigateToolUnknownSession(t *testing.T) {
	reg, _, _, _ := newTestCatalog(t)

	res, err := reg.Dispatch(context.Background(), "navigate", rawArgs(t, map[string]interface{}{
		"session_id": "missing",
		"url":        "https://example.com",
	}))
	require.NoError(t, err)
	require.True(t, res.Failed())
	assert.Equal(t, CodeSessionNotFound, res.Status.Code)
}

func TestNavigateToolMissingArguments(t *testing.T) {
	reg, _, _, _ := newTestCatalog(t)

	res, err := reg.Dispatch(context.Background(), "navigate", rawArgs(t, map[string]interface{}{
		"session_id": "s",
	}))
	require.NoError(t, err)
	require.True(t, res.Failed())
	assert.Equal(t, tools.CodeInvalidArguments, res.Status.Code)
}

func TestInputTextAndReadValue(t *testing.T) {
	reg, manager, _, _ := newTestCatalog(t)
	id := createSession(t, manager)

	res, err := reg.Dispatch(context.Background(), "input_text", rawArgs(t, map[string]interface{}{
		"session_id": id,
		"selector":   `input[name="email"]`,
		"value":      "jane@example.com",
	}))
	require.NoError(t, err)
	require.False(t, res.Failed())
	assert.Contains(t, res.Text(), "jane@example.com")

	res, err = reg.Dispatch(context.Background(), "read_value", rawArgs(t, map[string]interface{}{
		"session_id": id,
		"selector":   `input[name="email"]`,
	}))
	require.NoError(t, err)
	require.False(t, res.Failed())
	assert.Contains(t, res.Text(), `"jane@example.com"`)
}

func TestExtractContentTool(t *testing.T) {
	reg, manager, _, _ := newTestCatalog(t)
	id := createSession(t, manager)

	res, err := reg.Dispatch(context.Background(), "extract_content", rawArgs(t, map[string]interface{}{
		"session_id": id,
	}))
	require.NoError(t, err)
	require.False(t, res.Failed())
	assert.Contains(t, res.Text(), "<h1>")
	assert.Contains(t, res.Text(), "Careers")
}

func TestExtractContentToolTextFormat(t *testing.T) {
	reg, manager, _, _ := newTestCatalog(t)
	id := createSession(t, manager)

	res, err := reg.Dispatch(context.Background(), "extract_content", rawArgs(t, map[string]interface{}{
		"session_id": id,
		"format":     "text",
	}))
	require.NoError(t, err)
	require.False(t, res.Failed())
	assert.Contains(t, res.Text(), "# Careers")
	assert.NotContains(t, res.Text(), "<h1>")
}

func TestExtractContentToolRejectsUnknownFormat(t *testing.T) {
	reg, manager, _, _ := newTestCatalog(t)
	id := createSession(t, manager)

	res, err := reg.Dispatch(context.Background(), "extract_content", rawArgs(t, map[string]interface{}{
		"session_id": id,
		"format":     "markdown",
	}))
	require.NoError(t, err)
	require.True(t, res.Failed())
	assert.Equal(t, tools.CodeInvalidArguments, res.Status.Code)
}

func TestScreenshotToolReturnsReference(t *testing.T) {
	reg, manager, _, store := newTestCatalog(t)
	id := createSession(t, manager)

	res, err := reg.Dispatch(context.Background(), "screenshot", rawArgs(t, map[string]interface{}{
		"session_id": id,
	}))
	require.NoError(t, err)
	require.False(t, res.Failed())
	assert.Contains(t, res.Text(), "mem://"+id+"/")
	assert.NotContains(t, res.Text(), "png-bytes")

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.blobs, 1)
	for key, data := range store.blobs {
		assert.True(t, strings.HasPrefix(key, id+"/"))
		assert.Equal(t, []byte("png-bytes"), data)
	}
}

func TestScreenshotToolStorageFailure(t *testing.T) {
	reg, manager, _, store := newTestCatalog(t)
	id := createSession(t, manager)
	store.err = fmt.Errorf("bucket unavailable")

	res, err := reg.Dispatch(context.Background(), "screenshot", rawArgs(t, map[string]interface{}{
		"session_id": id,
	}))
	require.NoError(t, err)
	require.True(t, res.Failed())
	assert.Equal(t, CodeOperationFailed, res.Status.Code)
}

func TestUploadFileToolElementNotFound(t *testing.T) {
	reg, manager, launcher, _ := newTestCatalog(t)
	id := createSession(t, manager)

	// Force page creation, then make the wait fail.
	_, err := reg.Dispatch(context.Background(), "navigate", rawArgs(t, map[string]interface{}{
		"session_id": id,
		"url":        "https://example.com",
	}))
	require.NoError(t, err)

	launcher.mu.Lock()
	page := launcher.contexts[0].pages[0]
	launcher.mu.Unlock()
	page.mu.Lock()
	page.waitErr = fmt.Errorf("timeout waiting for selector")
	page.mu.Unlock()

	res, err := reg.Dispatch(context.Background(), "upload_file", rawArgs(t, map[string]interface{}{
		"session_id": id,
		"selector":   `input[type="file"]`,
		"file_path":  "/tmp/resume.pdf",
	}))
	require.NoError(t, err)
	require.True(t, res.Failed())
	assert.Equal(t, CodeElementNotFound, res.Status.Code)
}

func TestListSessionsTool(t *testing.T) {
	reg, manager, _, _ := newTestCatalog(t)

	res, err := reg.Dispatch(context.Background(), "list_sessions", nil)
	require.NoError(t, err)
	assert.Contains(t, res.Text(), "No open browser sessions")

	id := createSession(t, manager)
	res, err = reg.Dispatch(context.Background(), "list_sessions", nil)
	require.NoError(t, err)
	assert.Contains(t, res.Text(), id)
}
