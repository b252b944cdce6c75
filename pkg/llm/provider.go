// Package llm abstracts the language model behind the agent loop. Providers
// take the full conversation plus the tool catalog and return either text or
// tool call requests; the agent layer owns history, budgets, and dispatch.
package llm

import (
	"context"
	"encoding/json"
)

// Message roles in the conversation transcript.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one entry in the conversation transcript.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`

	// ToolCalls is set on assistant messages that request tool execution.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID links a tool-role message to the call it answers.
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// ToolCall is a model-issued request to execute one tool.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolDefinition describes a catalog entry for the model.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// Request carries one completion turn to the provider.
type Request struct {
	Messages []Message
	Tools    []ToolDefinition
}

// Response is the model's reply for one turn. A turn with ToolCalls keeps
// the loop running; a plain-content turn ends it.
type Response struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason string
}

// Provider defines the interface for LLM integrations.
type Provider interface {
	// Complete sends the transcript and tool catalog to the model and
	// returns its next turn.
	Complete(ctx context.Context, req *Request) (*Response, error)

	// Model returns the model name being used.
	Model() string
}

// SystemMessage builds a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a user-role message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// ToolMessage builds a tool-role message answering the given call.
func ToolMessage(toolCallID, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: toolCallID}
}
