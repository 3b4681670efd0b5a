// Package model provides types for language model operations.
package model

import "context"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one entry of the conversation passed to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`

	// ImageURL is an optional data URL attached to a user message.
	ImageURL string `json:"image_url,omitempty"`

	// ToolCalls holds the tool invocations an assistant message requested.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID links a tool-result message to the call that produced it.
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// ToolCall represents a tool invocation requested by the model.
// Immutable once produced; consumed exactly once per loop iteration.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Tool represents a tool definition for function calling.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// Request represents a model inference request.
type Request struct {
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	Tools       []Tool    `json:"tools,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// Response represents a model inference response: either final text or
// one or more requested tool calls.
type Response struct {
	Text      string     `json:"text"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// Model is the language-model collaborator. Implementations must return
// either final text or tool calls; anything else is a ModelFault.
type Model interface {
	Generate(ctx context.Context, req *Request) (*Response, error)
}
