// Package executor provides the tool execution interface and the domain
// tool implementations.
package executor

import (
	"context"
	"time"

	apperrors "github.com/movi-ai/movi/internal/errors"
)

// Tool represents a callable tool.
type Tool interface {
	// Name returns the tool's identifier.
	Name() string

	// Description returns what the tool does.
	Description() string

	// Execute runs the tool with the given input. Entity misses,
	// validation problems and precondition conflicts come back as an
	// unsuccessful Result; only persistence faults surface as errors.
	Execute(ctx context.Context, input map[string]any) (*Result, error)
}

// Result represents the result of a tool execution.
type Result struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// NewSuccessResult creates a successful result.
func NewSuccessResult(message string, data any) *Result {
	return &Result{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// NewErrorResult creates an unsuccessful result from an error.
func NewErrorResult(err error) *Result {
	return &Result{
		Success: false,
		Error:   err.Error(),
	}
}

// TimedResult wraps a result with duration.
func TimedResult(result *Result, start time.Time) *Result {
	result.DurationMs = time.Since(start).Milliseconds()
	return result
}

// finish folds recoverable errors (not found, validation, conflict) into
// an unsuccessful result and lets everything else fail the call.
func finish(start time.Time, res *Result, err error) (*Result, error) {
	if err != nil {
		if apperrors.IsToolRecoverable(err) {
			return TimedResult(NewErrorResult(err), start), nil
		}
		return nil, err
	}
	return TimedResult(res, start), nil
}

// Registry manages available tools for execution.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates a new tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry.
func (r *Registry) Register(tool Tool) {
	r.tools[tool.Name()] = tool
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns all registered tool names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// Execute runs a tool by name with the given input.
func (r *Registry) Execute(ctx context.Context, name string, input map[string]any) (*Result, error) {
	tool, ok := r.Get(name)
	if !ok {
		return nil, apperrors.New(apperrors.CodeToolNotFound, "unknown tool: "+name, apperrors.CategoryUser)
	}
	return tool.Execute(ctx, input)
}

// stringArg extracts a required string argument.
func stringArg(input map[string]any, key string) (string, error) {
	v, ok := input[key].(string)
	if !ok || v == "" {
		return "", apperrors.Validation("missing required argument: " + key)
	}
	return v, nil
}

// floatArg extracts a required numeric argument.
func floatArg(input map[string]any, key string) (float64, error) {
	switch v := input[key].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, apperrors.Validation("missing required argument: " + key)
	}
}

// stringSliceArg extracts a required list-of-strings argument.
func stringSliceArg(input map[string]any, key string) ([]string, error) {
	raw, ok := input[key]
	if !ok {
		return nil, apperrors.Validation("missing required argument: " + key)
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, apperrors.Validation("argument " + key + " must be a list of strings")
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, apperrors.Validation("argument " + key + " must be a list of strings")
	}
}
