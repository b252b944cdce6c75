// Package mcp exposes the tool catalog and the agent loop to remote callers
// over a session-addressed duplex protocol: a long-lived SSE push stream per
// connection plus a per-connection POST channel for JSON-RPC 2.0 messages.
package mcp

import (
	"encoding/json"

	"github.com/entrhq/autopilot/pkg/tools"
)

// JSONRPCVersion is the protocol version stamped on every message.
const JSONRPCVersion = "2.0"

// JSONRPCMessage is one protocol message in either direction.
type JSONRPCMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// JSONRPCError is a protocol-level failure attached to a response.
type JSONRPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Standard JSON-RPC 2.0 error codes, plus server-defined codes for routing
// failures.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603

	// CodeConnectionNotFound is returned when a POST addresses a connection
	// id never handed out by a stream open.
	CodeConnectionNotFound = -32001

	// CodeCapacityExceeded is returned when the admission ceiling rejects a
	// new stream.
	CodeCapacityExceeded = -32002
)

// Protocol methods.
const (
	MethodToolsList = "tools/list"
	MethodToolsCall = "tools/call"
	MethodAgentRun  = "agent/run"
)

// ToolInfo describes one catalog entry in a tools/list result.
type ToolInfo struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolsListResult is the tools/list response payload.
type ToolsListResult struct {
	Tools []ToolInfo `json:"tools"`
}

// ToolsCallParams is the tools/call request payload.
type ToolsCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolsCallResult is the tools/call response payload: the tool's result
// envelope verbatim.
type ToolsCallResult struct {
	Content []tools.Content `json:"content"`
	Status  *tools.Status   `json:"status,omitempty"`
}

// AgentRunParams is the agent/run request payload. Task selects the step
// budget: "extract" (default) or "form_fill"; max_steps overrides both.
type AgentRunParams struct {
	Goal     string `json:"goal"`
	URL      string `json:"url,omitempty"`
	Task     string `json:"task,omitempty"`
	MaxSteps int    `json:"max_steps,omitempty"`
}

// AgentRunResult is the agent/run response payload.
type AgentRunResult struct {
	Outcome string `json:"outcome"`
	Content string `json:"content,omitempty"`
	Steps   int    `json:"steps"`
}

// newResponse builds a success response for the given request id.
func newResponse(id interface{}, result interface{}) *JSONRPCMessage {
	data, err := json.Marshal(result)
	if err != nil {
		return newErrorResponse(id, CodeInternalError, "failed to serialize result")
	}
	return &JSONRPCMessage{JSONRPC: JSONRPCVersion, ID: id, Result: data}
}

// newErrorResponse builds an error response for the given request id.
func newErrorResponse(id interface{}, code int, message string) *JSONRPCMessage {
	return &JSONRPCMessage{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &JSONRPCError{Code: code, Message: message},
	}
}
