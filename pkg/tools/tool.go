// Package tools defines the catalog of capabilities the agent can invoke.
// Tools receive JSON arguments, decode them at the boundary, and return a
// result envelope of content blocks. Expected failures (missing element,
// unknown session) are reported inside the envelope so the model can react;
// only infrastructure faults surface as Go errors.
package tools

import (
	"context"
	"encoding/json"
)

// Tool represents a capability exposed to the agent.
type Tool interface {
	// Name returns the unique identifier for this tool (e.g., "browser_click")
	Name() string

	// Description returns a human-readable description of what this tool does
	Description() string

	// Schema returns the JSON schema for this tool's input parameters
	Schema() map[string]interface{}

	// Execute runs the tool with the given JSON arguments.
	// Tool-level failures are reported in the Result with an error status;
	// a non-nil error means the infrastructure itself broke.
	Execute(ctx context.Context, args json.RawMessage) (*Result, error)
}

// ContentType discriminates result content blocks.
type ContentType string

const (
	// ContentTypeText is plain text content.
	ContentTypeText ContentType = "text"

	// ContentTypeJSON is structured content serialized as JSON.
	ContentTypeJSON ContentType = "json"
)

// Content is one block of a tool result.
type Content struct {
	Type ContentType     `json:"type"`
	Text string          `json:"text,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Status reports whether the tool's operation succeeded. A nil status on a
// Result means success.
type Status struct {
	OK   bool   `json:"ok"`
	Code string `json:"code,omitempty"`
}

// Result is the envelope returned by every tool execution.
type Result struct {
	Content []Content `json:"content"`
	Status  *Status   `json:"status,omitempty"`
}

// Failed reports whether the result carries an error status.
func (r *Result) Failed() bool {
	return r.Status != nil && !r.Status.OK
}

// Text joins the text blocks of the result.
func (r *Result) Text() string {
	var out string
	for _, c := range r.Content {
		if c.Type != ContentTypeText {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += c.Text
	}
	return out
}

// TextResult builds a successful result with a single text block.
func TextResult(text string) *Result {
	return &Result{
		Content: []Content{{Type: ContentTypeText, Text: text}},
	}
}

// JSONResult builds a successful result with a structured block. Marshal
// failures fall back to a text rendering so the agent always gets content.
func JSONResult(v interface{}) *Result {
	data, err := json.Marshal(v)
	if err != nil {
		return TextResult("result serialization failed")
	}
	return &Result{
		Content: []Content{{Type: ContentTypeJSON, Data: data}},
	}
}

// ErrorResult builds a diagnostic result with a machine-readable code and a
// human-readable message for the model.
func ErrorResult(code, message string) *Result {
	return &Result{
		Content: []Content{{Type: ContentTypeText, Text: message}},
		Status:  &Status{OK: false, Code: code},
	}
}

// ObjectSchema creates a common JSON schema structure for a tool
// with the given properties and required fields
func ObjectSchema(properties map[string]interface{}, required []string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
