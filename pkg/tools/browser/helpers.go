package browser

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/entrhq/autopilot/pkg/browser"
	"github.com/entrhq/autopilot/pkg/tools"
)

// Diagnostic codes surfaced to the model on expected failures.
const (
	CodeSessionNotFound  = "session_not_found"
	CodeElementNotFound  = "element_not_found"
	CodeCapacityExceeded = "capacity_exceeded"
	CodeOperationFailed  = "operation_failed"
)

// failureResult converts an engine error into a diagnostic result.
// Infrastructure faults destroy the affected session, then pass through as
// errors so the caller aborts; other sessions are untouched.
func failureResult(manager *browser.Manager, sessionID string, err error) (*tools.Result, error) {
	if browser.IsInfrastructure(err) {
		if sessionID != "" {
			manager.Destroy(sessionID)
		}
		return nil, err
	}
	switch {
	case errors.Is(err, browser.ErrSessionNotFound):
		return tools.ErrorResult(CodeSessionNotFound, "session not found; it may have been closed. Create a new session before continuing."), nil
	case errors.Is(err, browser.ErrElementNotFound):
		return tools.ErrorResult(CodeElementNotFound, fmt.Sprintf("element not found: %v. Extract the page content to see what is actually there.", err)), nil
	case errors.Is(err, browser.ErrCapacityExceeded):
		return tools.ErrorResult(CodeCapacityExceeded, "session capacity exceeded; close an existing session and retry."), nil
	default:
		return tools.ErrorResult(CodeOperationFailed, err.Error()), nil
	}
}

// decodeArgs unmarshals tool arguments, treating empty input as an empty
// object so tools with all-optional parameters still work.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	return json.Unmarshal(args, v)
}

// invalidArgs builds the diagnostic result for malformed or missing
// arguments.
func invalidArgs(msg string) *tools.Result {
	return tools.ErrorResult(tools.CodeInvalidArguments, msg)
}

// pageOrDefault resolves the optional page id argument.
func pageOrDefault(pageID string) string {
	if pageID == "" {
		return browser.DefaultPageID
	}
	return pageID
}
