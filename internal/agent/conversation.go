package agent

import "github.com/movi-ai/movi/internal/model"

// Conversation is the per-turn state threaded through the controller:
// the ordered message history plus the transient pending fields. Created
// per incoming turn from the caller's history and the new user message,
// mutated in place by each controller step, discarded after the turn.
type Conversation struct {
	Messages []model.Message

	// CurrentPage is the dashboard page the user is looking at, used as
	// light context for the model.
	CurrentPage string

	// PendingToolRequest is the tool call awaiting routing, consequence
	// check or execution. Never carried across turns.
	PendingToolRequest *model.ToolCall

	// PendingConsequence is the human-readable impact summary produced
	// by the consequence check, if any.
	PendingConsequence string
}

// NewConversation builds a conversation from prior history and the new
// user message. An optional image data URL rides the final user message.
func NewConversation(history []model.Message, userMessage, currentPage, imageURL string) *Conversation {
	messages := make([]model.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, model.Message{
		Role:     model.RoleUser,
		Content:  userMessage,
		ImageURL: imageURL,
	})
	return &Conversation{
		Messages:    messages,
		CurrentPage: currentPage,
	}
}

// AppendAssistant appends an assistant message.
func (c *Conversation) AppendAssistant(content string) {
	c.Messages = append(c.Messages, model.Message{
		Role:    model.RoleAssistant,
		Content: content,
	})
}

// AppendToolExchange appends the assistant's tool request followed by its
// result, keeping the history well-formed for the next model call.
func (c *Conversation) AppendToolExchange(call model.ToolCall, result string) {
	c.Messages = append(c.Messages, model.Message{
		Role:      model.RoleAssistant,
		ToolCalls: []model.ToolCall{call},
	})
	c.Messages = append(c.Messages, model.Message{
		Role:       model.RoleTool,
		Content:    result,
		ToolCallID: call.ID,
	})
}

// ClearPending drops the pending tool request and consequence summary.
func (c *Conversation) ClearPending() {
	c.PendingToolRequest = nil
	c.PendingConsequence = ""
}

// LastAssistant returns the content of the most recent assistant message.
func (c *Conversation) LastAssistant() string {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == model.RoleAssistant {
			return c.Messages[i].Content
		}
	}
	return ""
}
