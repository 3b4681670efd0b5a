package model

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"

	apperrors "github.com/movi-ai/movi/internal/errors"
)

// OpenAIClient implements Model over the OpenAI chat completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a client for the given model name. The API key
// is read from the OPENAI_API_KEY environment variable.
func NewOpenAIClient(modelName string) (*OpenAIClient, error) {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		slog.Error("OPENAI_API_KEY environment variable not set")
		return nil, apperrors.New(apperrors.CodeModelUnavailable,
			"OPENAI_API_KEY environment variable not set", apperrors.CategorySystem)
	}
	if modelName == "" {
		modelName = openai.GPT4o
		slog.Warn("model name not configured, defaulting", "model", modelName)
	}
	slog.Info("initializing OpenAI client", "model", modelName)
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  modelName,
	}, nil
}

// Generate implements the Model interface.
func (o *OpenAIClient) Generate(ctx context.Context, req *Request) (*Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: float32(req.Temperature),
		Messages:    buildMessages(req),
		Tools:       buildTools(req.Tools),
	}

	resp, err := o.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		slog.Error("OpenAI API call failed", "error", err)
		return nil, apperrors.Wrap(err, apperrors.CodeModelUnavailable,
			"model call failed", apperrors.CategoryTemporary)
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.New(apperrors.CodeModelInvalidResponse,
			"model returned no choices", apperrors.CategoryTemporary)
	}

	choice := resp.Choices[0].Message
	out := &Response{Text: choice.Content}

	for _, tc := range choice.ToolCalls {
		if tc.Type != openai.ToolTypeFunction {
			continue
		}
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return nil, apperrors.Wrap(err, apperrors.CodeModelInvalidResponse,
					"model returned unparseable tool arguments", apperrors.CategoryTemporary)
			}
		}
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}

	if out.Text == "" && len(out.ToolCalls) == 0 {
		return nil, apperrors.New(apperrors.CodeModelInvalidResponse,
			"model returned an empty response", apperrors.CategoryTemporary)
	}

	slog.Debug("model response", "finish_reason", resp.Choices[0].FinishReason,
		"tool_calls", len(out.ToolCalls))
	return out, nil
}

// buildMessages converts the request into OpenAI chat messages, with the
// system instruction first.
func buildMessages(req *Request) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}

	for _, m := range req.Messages {
		switch m.Role {
		case RoleUser:
			if m.ImageURL != "" {
				messages = append(messages, openai.ChatCompletionMessage{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{Type: openai.ChatMessagePartTypeText, Text: m.Content},
						{
							Type:     openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{URL: m.ImageURL},
						},
					},
				})
				continue
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: m.Content,
			})
		case RoleAssistant:
			msg := openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: m.Content,
			}
			for _, tc := range m.ToolCalls {
				args, _ := json.Marshal(tc.Arguments)
				msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
					ID:   tc.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      tc.Name,
						Arguments: string(args),
					},
				})
			}
			messages = append(messages, msg)
		case RoleTool:
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    m.Content,
				ToolCallID: m.ToolCallID,
			})
		}
	}
	return messages
}

// buildTools converts tool definitions into OpenAI function declarations.
func buildTools(tools []Tool) []openai.Tool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return out
}
